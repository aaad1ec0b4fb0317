package params

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pendulum/internal/dynamo"
)

var errEmptyMatrix = errors.New("empty matrix")

// LoadGains reads a numeric matrix from path. Rows are separated by newlines,
// values by spaces and/or commas. Blank lines and lines starting with '#' are
// skipped.
func LoadGains(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: gain matrix: %w", dynamo.ErrConfiguration, err)
	}
	defer f.Close()

	k, err := ParseGains(f)
	if err != nil {
		return nil, fmt.Errorf("%w: gain matrix %s: %w", dynamo.ErrConfiguration, path, err)
	}
	return k, nil
}

func ParseGains(r io.Reader) (*mat.Dense, error) {
	var (
		data []float64
		rows int
		cols int
	)

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) == 0 {
			return nil, fmt.Errorf("line %d: no values", line)
		}
		if rows == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, fmt.Errorf("line %d: expected %d values, got %d", line, cols, len(fields))
		}

		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("line %d: gain %q is not finite", line, field)
			}
			data = append(data, v)
		}
		rows++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, errEmptyMatrix
	}

	return mat.NewDense(rows, cols, data), nil
}
