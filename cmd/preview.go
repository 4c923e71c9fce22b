package main

import (
	"github.com/forest-guardian/landprep/internal/delivery"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "colorize existing class masks with a legend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := required(cmd, "input", "output"); err != nil {
			return err
		}
		_, err := delivery.Preview(cmd.Context(), delivery.PreviewOptions{
			InputPath: conf.GetString(key(cmd, "input")),
			OutputDir: conf.GetString(key(cmd, "output")),
		})
		return err
	},
}

func init() {
	f := previewCmd.Flags()
	f.StringP("input", "i", "", "mask PNG/GeoTIFF or directory of masks")
	f.StringP("output", "o", "", "output directory")
}
