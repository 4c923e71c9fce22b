package delivery

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/forest-guardian/landprep/output"
)

const previewSuffix = "_preview"

type PreviewOptions struct {
	// InputPath is a mask file (.png, .tif) or a directory of masks.
	InputPath string
	OutputDir string
}

// Preview renders existing class masks in their legend colors as
// <name>_preview.png.
func Preview(ctx context.Context, opts PreviewOptions) (*Report, error) {
	files, err := listFiles(opts.InputPath, ".png", ".tif", ".tiff")
	if err != nil {
		return nil, err
	}
	var inputs []string
	for _, f := range files {
		if !strings.HasSuffix(baseName(f), previewSuffix) {
			inputs = append(inputs, f)
		}
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w in %s (masks other than *%s)", ErrNoInputs, opts.InputPath, previewSuffix)
	}
	if err := ensureDir(opts.OutputDir); err != nil {
		return nil, err
	}
	return runBatch(ctx, "preview", inputs, func(ctx context.Context, input string) ([]string, error) {
		m, err := output.ReadMask(input)
		if err != nil {
			return nil, err
		}
		out := filepath.Join(opts.OutputDir, baseName(input)+previewSuffix+".png")
		if err := output.CreateMaskPreview(m, out); err != nil {
			return nil, err
		}
		return []string{out}, nil
	})
}
