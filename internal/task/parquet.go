package task

import (
	"bytes"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
)

var parquetMagic = []byte("PAR1")

// IsParquet reports whether content starts with the Parquet magic bytes.
func IsParquet(content []byte) bool {
	return bytes.HasPrefix(content, parquetMagic)
}

// ReadParquetRows decodes a Parquet file into loosely typed rows the format
// recognizers can validate, the same row shape JSON parsing produces. Rows
// are reconstructed through the file's own schema, so files of any column
// layout decode without a Go row type.
func ReadParquetRows(content []byte) ([]any, error) {
	file, err := parquet.OpenFile(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	schema := file.Schema()
	out := make([]any, 0, file.NumRows())
	for _, group := range file.RowGroups() {
		rows, err := readRowGroup(schema, group)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

func readRowGroup(schema *parquet.Schema, group parquet.RowGroup) ([]any, error) {
	rows := group.Rows()
	defer rows.Close()

	out := make([]any, 0, group.NumRows())
	buf := make([]parquet.Row, 64)
	for {
		n, err := rows.ReadRows(buf)
		for i := 0; i < n; i++ {
			decoded := make(map[string]any)
			if rerr := schema.Reconstruct(&decoded, buf[i]); rerr != nil {
				return nil, fmt.Errorf("decode parquet row: %w", rerr)
			}
			out = append(out, decoded)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet rows: %w", err)
		}
	}
	return out, nil
}
