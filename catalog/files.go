package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileSource reads suppliers, sites and skus from a data directory. Each
// dataset is read from <name>.csv, or from <name>.parquet when no CSV file
// exists.
type FileSource struct {
	Dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (s *FileSource) Load(_ context.Context) (*Catalogs, error) {
	suppliers, supplierRows, err := loadDataset(s.Dir, suppliersDataset, supplierColumns, parseSupplier)
	if err != nil {
		return nil, err
	}
	sites, siteRows, err := loadDataset(s.Dir, sitesDataset, siteColumns, parseSite)
	if err != nil {
		return nil, err
	}
	skus, skuRows, err := loadDataset(s.Dir, skusDataset, skuColumns, parseSKU)
	if err != nil {
		return nil, err
	}
	return build(suppliers, supplierRows, sites, siteRows, skus, skuRows)
}

func loadDataset[T any](
	dir, name string,
	required []string,
	parse func(Row) (T, error),
) ([]T, []Row, error) {
	csvPath := filepath.Join(dir, name+".csv")
	if exists(csvPath) {
		rows, err := readCSV(csvPath, required)
		if err != nil {
			return nil, nil, err
		}
		// line numbers count the header
		return parseRows(rows, parse, func(i int) string { return fmt.Sprintf("%s: line %d", csvPath, i+2) })
	}

	parquetPath := filepath.Join(dir, name+".parquet")
	if exists(parquetPath) {
		rows, err := readParquet(parquetPath, required)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", parquetPath, err)
		}
		return parseRows(rows, parse, func(i int) string { return fmt.Sprintf("%s: row %d", parquetPath, i+1) })
	}

	return nil, nil, fmt.Errorf("dataset %s not found in %s (expected %s.csv or %s.parquet)", name, dir, name, name)
}

func parseRows[T any](rows []Row, parse func(Row) (T, error), where func(int) string) ([]T, []Row, error) {
	records := make([]T, len(rows))
	for i, row := range rows {
		rec, err := parse(row)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", where(i), err)
		}
		records[i] = rec
	}
	return records, rows, nil
}

// readCSV returns one Row per record keyed by header. Every required column
// must be present in the header.
func readCSV(path string, required []string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	seen := make(map[string]bool, len(header))
	for i, col := range header {
		header[i] = strings.TrimSpace(col)
		seen[header[i]] = true
	}
	for _, col := range required {
		if !seen[col] {
			return nil, fmt.Errorf("%s: missing column %q", path, col)
		}
	}

	var rows []Row
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			row[col] = strings.TrimSpace(record[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
