package main

import (
	"os"
	"path/filepath"

	"github.com/forest-guardian/landprep/internal/delivery"
	"github.com/forest-guardian/landprep/internal/ui"
	"github.com/forest-guardian/landprep/output"
	"github.com/spf13/cobra"
)

var legendCmd = &cobra.Command{
	Use:   "legend",
	Short: "write the class legend CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := conf.GetString(key(cmd, "output"))
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
		path := filepath.Join(dir, delivery.LegendFileName)
		if err := output.CreateLegendCSV(path); err != nil {
			return err
		}
		ui.PrintSuccess("Legend written to " + path)
		return nil
	},
}

func init() {
	legendCmd.Flags().StringP("output", "o", ".", "output directory")
}
