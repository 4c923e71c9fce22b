package delivery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/forest-guardian/landprep/internal/log"
	"github.com/forest-guardian/landprep/internal/notification"
	"github.com/forest-guardian/landprep/internal/ui"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInputNotFound = errors.New("input not found")
	ErrNoInputs      = errors.New("no input files found")
	ErrAllFailed     = errors.New("every input failed")
)

// ListInputs resolves a file or directory argument into the rasters to
// process. Directories yield their .tif/.tiff files in lexical order,
// without recursing.
func ListInputs(path string) ([]string, error) {
	return listFiles(path, ".tif", ".tiff")
}

// listFiles is ListInputs over an arbitrary set of lowercase extensions.
func listFiles(path string, exts ...string) ([]string, error) {
	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, err
	}
	if !st.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !slices.Contains(exts, strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s (%s)", ErrNoInputs, path, strings.Join(exts, ", "))
	}
	return files, nil
}

// baseName strips the directory and extension of an input path.
func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

type FileResult struct {
	Input   string
	Outputs []string
	Err     error
}

type Report struct {
	RunID     string
	Operation string
	Started   time.Time
	Finished  time.Time
	Results   []FileResult
}

func (r *Report) Failed() []FileResult {
	var failed []FileResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

func (r *Report) Outputs() []string {
	var out []string
	for _, res := range r.Results {
		out = append(out, res.Outputs...)
	}
	return out
}

// Err is non-nil only when no input succeeded.
func (r *Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 || len(failed) < len(r.Results) {
		return nil
	}
	errs := []error{ErrAllFailed}
	for _, f := range failed {
		errs = append(errs, fmt.Errorf("%s: %w", f.Input, f.Err))
	}
	return errors.Join(errs...)
}

func (r *Report) Summary() string {
	failed := r.Failed()
	var sb strings.Builder
	fmt.Fprintf(&sb, "landprep %s (run %s)\n\n", r.Operation, r.RunID)
	fmt.Fprintf(&sb, "Processed %d file(s) in %s, %d failed.\n",
		len(r.Results), r.Finished.Sub(r.Started).Round(time.Millisecond), len(failed))
	for _, f := range failed {
		fmt.Fprintf(&sb, "- %s: %v\n", f.Input, f.Err)
	}
	return sb.String()
}

type processFunc func(ctx context.Context, input string) ([]string, error)

// runBatch applies process to every input. A failing file is reported and
// the batch moves on; cancellation stops before the next file.
func runBatch(ctx context.Context, operation string, inputs []string, process processFunc) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		Operation: operation,
		Started:   time.Now(),
	}
	logger := log.L().With(zap.String("run", report.RunID), zap.String("operation", operation))
	logger.Info("batch started", zap.Int("inputs", len(inputs)))
	ui.PrintInfo(fmt.Sprintf("%s: %d file(s)", operation, len(inputs)))

	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			report.Finished = time.Now()
			return report, err
		}
		outputs, err := process(ctx, input)
		if err != nil {
			logger.Error("input failed", zap.String("input", input), zap.Error(err))
		} else {
			logger.Info("input processed", zap.String("input", input), zap.Strings("outputs", outputs))
		}
		ui.PrintFileStatus(input, err)
		report.Results = append(report.Results, FileResult{Input: input, Outputs: outputs, Err: err})
	}
	report.Finished = time.Now()

	if failed := len(report.Failed()); failed > 0 && failed < len(report.Results) {
		ui.PrintWarning(fmt.Sprintf("%d of %d file(s) failed", failed, len(report.Results)))
	}
	notify(report)
	return report, report.Err()
}

func notify(r *Report) {
	var err error
	switch failed := len(r.Failed()); {
	case failed == 0:
		err = notification.SendDiscordSuccessNotification(r.Summary())
	case failed < len(r.Results):
		err = notification.SendDiscordWarnNotification(r.Summary())
	default:
		err = notification.SendDiscordErrorNotification(r.Summary())
	}
	if err != nil {
		log.Warn("failed to send notification", zap.String("run", r.RunID), zap.Error(err))
	}
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return nil
}
