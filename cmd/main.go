package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/airbusgeo/godal"
	"github.com/forest-guardian/landprep/internal/log"
	"github.com/forest-guardian/landprep/internal/properties"
	"github.com/forest-guardian/landprep/internal/ui"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	conf      = viper.New()
	startTime time.Time
)

var rootCmd = &cobra.Command{
	Use:   "landprep",
	Short: "Landsat GeoTIFF preprocessing: radiance, land-cover masks, tiles",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		startTime = time.Now()
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		if err := bindFlags(cmd); err != nil {
			return err
		}
		if path := conf.GetString("config"); path != "" {
			conf.SetConfigFile(path)
			if err := conf.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
		if err := log.Init(conf.GetBool("verbose")); err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		ui.Quiet = conf.GetBool("quiet")
		ui.PrintBanner()
		godal.RegisterAll()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		log.Debug("command finished", zap.String("command", cmd.Name()), zap.Duration("took", time.Since(startTime)))
		log.Sync()
	},
}

func init() {
	conf.SetEnvPrefix(properties.EnvPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	conf.AutomaticEnv()

	rootCmd.PersistentFlags().Bool("verbose", false, "verbose (debug) logging")
	rootCmd.PersistentFlags().Bool("quiet", false, "no banner, progress bars or success lines")
	rootCmd.PersistentFlags().String("config", "", "optional config file (yaml, json or toml)")
	rootCmd.AddCommand(radianceCmd, indexCmd, labelCmd, previewCmd, tileCmd, pngCmd, legendCmd)
}

// bindFlags exposes the flags of the running command to viper. Global
// flags keep their name; a command's own flags are keyed <command>.<flag>,
// so LANDPREP_TILE_WIDTH or a "tile: {width: 640}" config entry sets
// --width of the tile command.
func bindFlags(cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		key := f.Name
		if cmd.InheritedFlags().Lookup(f.Name) == nil {
			key = cmd.Name() + "." + f.Name
		}
		err = conf.BindPFlag(key, f)
	})
	return err
}

func key(cmd *cobra.Command, flag string) string {
	return cmd.Name() + "." + flag
}

// required fails when a flag is set neither on the command line, in the
// environment nor in the config file.
func required(cmd *cobra.Command, flags ...string) error {
	for _, f := range flags {
		if conf.GetString(key(cmd, f)) == "" {
			return fmt.Errorf("--%s is required", f)
		}
	}
	return nil
}

// parseBands reads a comma separated list of 1-based band numbers.
func parseBands(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var bands []int
	for _, part := range strings.Split(s, ",") {
		b, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || b < 1 {
			return nil, fmt.Errorf("invalid band %q", part)
		}
		bands = append(bands, b)
	}
	return bands, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.PrintError(err.Error())
		log.Sync()
		os.Exit(1)
	}
}
