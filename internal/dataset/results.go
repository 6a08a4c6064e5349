package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/tensorplex-labs/cci/internal/cci"
)

// ScoreRow is one CCI score in long form.
type ScoreRow struct {
	Run      string  `parquet:"run,snappy"`
	Time     float64 `parquet:"time,snappy"`
	Category int32   `parquet:"category,snappy"`
	Low      int32   `parquet:"class_low,snappy"`
	High     int32   `parquet:"class_high,snappy"`
	Score    float64 `parquet:"score,snappy"`
}

func mkdirFor(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// WriteResults writes the per-run results as JSON, zstd compressed when the
// path ends in .zst.
func WriteResults(path string, results map[string]cci.Result) error {
	if err := mkdirFor(path); err != nil {
		return err
	}
	return writeBlob(path, results)
}

func ReadResults(path string) (map[string]cci.Result, error) {
	data, _, err := readBlob(path)
	if err != nil {
		return nil, err
	}
	results := make(map[string]cci.Result)
	if err := Decode(data, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// ScoreRows flattens results ordered by run key, then time, then category.
func ScoreRows(results map[string]cci.Result) []ScoreRow {
	runs := make([]string, 0, len(results))
	for run := range results {
		runs = append(runs, run)
	}
	slices.Sort(runs)

	var rows []ScoreRow
	for _, run := range runs {
		for _, r := range results[run].Rows() {
			rows = append(rows, ScoreRow{
				Run:      run,
				Time:     r.Time,
				Category: int32(r.Category),
				Low:      int32(r.Range.Low),
				High:     int32(r.Range.High),
				Score:    r.Score,
			})
		}
	}
	return rows
}

// WriteResultsParquet writes the results as long-form rows to a Parquet file.
func WriteResultsParquet(path string, results map[string]cci.Result) error {
	if err := mkdirFor(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[ScoreRow](file)
	if _, err := writer.Write(ScoreRows(results)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// Write dispatches on the path extension: .parquet, otherwise JSON (.zst compressed).
func Write(path string, results map[string]cci.Result) error {
	if strings.HasSuffix(path, ".parquet") {
		return WriteResultsParquet(path, results)
	}
	return WriteResults(path, results)
}
