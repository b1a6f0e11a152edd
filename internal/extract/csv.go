package extract

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/joseph-ayodele/diet-planner/internal/common"
)

// extractCSV reads the header and the first data row. Text is the row's
// values joined by spaces; the record keeps every column in header order.
func extractCSV(data []byte) (Result, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, bom)))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return Result{Method: MethodCSV, Warnings: []string{"csv is empty"}}, nil
	}
	if err != nil {
		return Result{}, common.DecodeError("parse csv header", err)
	}

	row, err := r.Read()
	if errors.Is(err, io.EOF) {
		return Result{Method: MethodCSV, Warnings: []string{"csv has no data rows"}}, nil
	}
	if err != nil {
		return Result{}, common.DecodeError("parse csv row", err)
	}

	n := min(len(header), len(row))
	rec := &NumericRecord{Fields: make([]Field, 0, n)}
	for i := 0; i < n; i++ {
		rec.Fields = append(rec.Fields, Field{
			Name: strings.TrimSpace(header[i]),
			Raw:  strings.TrimSpace(row[i]),
		})
	}

	var warns []string
	if len(header) != len(row) {
		warns = append(warns, "first row width differs from header")
	}
	return Result{
		Text:     strings.Join(row, " "),
		Numeric:  rec,
		Pages:    1,
		Method:   MethodCSV,
		Warnings: warns,
	}, nil
}
