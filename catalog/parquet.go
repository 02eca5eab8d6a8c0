package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/common"
	"github.com/xitongsys/parquet-go/reader"
)

// readParquet returns one Row per record keyed by column name, like readCSV.
// Every leaf column of the file is kept and every required column must be
// present in the file schema. Nulls become empty cells.
func readParquet(path string, required []string) ([]Row, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	pr, err := reader.NewParquetColumnReader(fr, 1)
	if err != nil {
		return nil, err
	}
	defer pr.ReadStop()

	sh := pr.SchemaHandler
	columns := make([]string, len(sh.ValueColumns))
	seen := make(map[string]bool, len(columns))
	for i, inPath := range sh.ValueColumns {
		exPath := common.StrToPath(sh.InPathToExPath[inPath])
		if len(exPath) > 1 {
			exPath = exPath[1:]
		}
		columns[i] = strings.Join(exPath, ".")
		seen[columns[i]] = true
	}
	for _, col := range required {
		if !seen[col] {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	n := pr.GetNumRows()
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = make(Row, len(columns))
	}
	if n == 0 {
		return rows, nil
	}
	for i, inPath := range sh.ValueColumns {
		values, _, _, err := pr.ReadColumnByPath(inPath, n)
		if err != nil {
			return nil, fmt.Errorf("read column %q: %w", columns[i], err)
		}
		if int64(len(values)) != n {
			return nil, fmt.Errorf("column %q has %d values for %d rows", columns[i], len(values), n)
		}
		for r, v := range values {
			rows[r][columns[i]] = formatParquetValue(v)
		}
	}
	return rows, nil
}

func formatParquetValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}
