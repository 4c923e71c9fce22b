package output

import (
	"fmt"
	"os"

	"github.com/forest-guardian/landprep/internal/mask"
	"github.com/forest-guardian/landprep/internal/utils"
	"github.com/gocarina/gocsv"
)

type LegendRow struct {
	Class string `csv:"Class"`
	Value int    `csv:"Value"`
}

type ClassCountRow struct {
	Class   string  `csv:"Class"`
	Value   int     `csv:"Value"`
	Pixels  int     `csv:"Pixels"`
	Percent float64 `csv:"Percent"`
}

func LegendRows() []LegendRow {
	rows := make([]LegendRow, len(mask.Classes))
	for i, c := range mask.Classes {
		rows[i] = LegendRow{Class: c.String(), Value: int(c)}
	}
	return rows
}

// CreateLegendCSV writes the class name to mask value table.
func CreateLegendCSV(outputPath string) error {
	rows := LegendRows()
	return writeCSV(outputPath, &rows)
}

// ClassCounts lists the pixel count of every class, background first.
func ClassCounts(m *mask.ClassMask) []ClassCountRow {
	counts := m.Counts()
	total := len(m.Data)
	rows := make([]ClassCountRow, 0, len(counts))
	for _, c := range utils.SortedKeys(counts, true) {
		row := ClassCountRow{Class: c.String(), Value: int(c), Pixels: counts[c]}
		if total > 0 {
			row.Percent = float64(counts[c]) * 100 / float64(total)
		}
		rows = append(rows, row)
	}
	return rows
}

func CreateClassCountsCSV(m *mask.ClassMask, outputPath string) error {
	rows := ClassCounts(m)
	return writeCSV(outputPath, &rows)
}

func writeCSV(outputPath string, rows interface{}) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	if err := gocsv.MarshalFile(rows, file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return file.Close()
}
