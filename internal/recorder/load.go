package recorder

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
)

// Recording is a telemetry file read back into columns.
type Recording struct {
	Path    string
	Header  []string
	Columns map[string][]float64
	Rows    int
}

// Column returns the named column, nil when absent.
func (r *Recording) Column(name string) []float64 {
	return r.Columns[name]
}

// Time returns seconds since the first row, from the ts column.
func (r *Recording) Time() []float64 {
	ts := r.Column("ts")
	out := make([]float64, len(ts))
	for i, v := range ts {
		out[i] = v - ts[0]
	}
	return out
}

// Load reads a recording. True/False become 1/0 and empty cells NaN.
func Load(path string) (*Recording, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header", path)
	}

	rec := &Recording{
		Path:    path,
		Header:  records[0],
		Columns: make(map[string][]float64, len(records[0])),
		Rows:    len(records) - 1,
	}
	for _, name := range rec.Header {
		rec.Columns[name] = make([]float64, 0, rec.Rows)
	}

	for i, row := range records[1:] {
		for j, cell := range row {
			v, err := parseValue(cell)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d, column %s: %w", path, i+2, rec.Header[j], err)
			}
			name := rec.Header[j]
			rec.Columns[name] = append(rec.Columns[name], v)
		}
	}
	return rec, nil
}

func parseValue(cell string) (float64, error) {
	switch cell {
	case "":
		return math.NaN(), nil
	case "True":
		return 1, nil
	case "False":
		return 0, nil
	}
	return strconv.ParseFloat(cell, 64)
}
