package ui

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
)

func PrintBanner() {
	if Quiet {
		return
	}
	bannercolor.Output = Out
	bannercolor.Cyan(figure.NewFigure("Landprep", "isometric1", true).String())
	fmt.Fprintln(Out)
}
