// Package ingest walks an incoming directory and produces order records.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aluiziolira/go-order-report/models"
	"github.com/aluiziolira/go-order-report/parser"
)

// Stats counts what one ingest pass encountered.
type Stats struct {
	FilesSeen   int
	TextParsed  int
	TextSkipped int
	CSVRows     int
}

// Ingest enumerates the directory and collects order records. Text files go
// through the field extractor; a miss is skipped with a warning. CSV files
// are decoded positionally after the header row. Anything else is ignored.
// Only an unreadable directory is an error.
func Ingest(dir string) ([]models.OrderRecord, Stats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read incoming directory: %w", err)
	}

	var (
		records []models.OrderRecord
		stats   Stats
	)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stats.FilesSeen++
		path := filepath.Join(dir, entry.Name())

		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".txt":
			record, ok := readTextFile(path)
			if !ok {
				stats.TextSkipped++
				continue
			}
			stats.TextParsed++
			records = append(records, record)
		case ".csv":
			rows := readCSVFile(path)
			stats.CSVRows += len(rows)
			records = append(records, rows...)
		}
	}

	return records, stats, nil
}

func readTextFile(path string) (models.OrderRecord, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("skipping unreadable text file", slog.String("file", path), slog.Any("error", err))
		return models.OrderRecord{}, false
	}

	record, ok := parser.Extract(string(content))
	if !ok {
		slog.Warn("skipping text file due to missing data", slog.String("file", path))
		return models.OrderRecord{}, false
	}
	return record, true
}

// readCSVFile decodes rows positionally: col0=order id, col1=product id,
// col2=quantity. The header row is always skipped and never validated.
func readCSVFile(path string) []models.OrderRecord {
	f, err := os.Open(path)
	if err != nil {
		slog.Warn("skipping unreadable csv file", slog.String("file", path), slog.Any("error", err))
		return nil
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var (
		records []models.OrderRecord
		header  = true
	)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("skipping malformed csv row", slog.String("file", path), slog.Any("error", err))
			continue
		}
		if header {
			header = false
			continue
		}
		if len(row) < 3 {
			slog.Warn("skipping short csv row", slog.String("file", path), slog.Int("columns", len(row)))
			continue
		}
		records = append(records, models.OrderRecord{
			OrderID:   row[0],
			ProductID: row[1],
			Quantity:  row[2],
		})
	}

	return records
}
