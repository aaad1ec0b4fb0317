package recorder

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/pendulum/internal/dynamo"
)

// Default telemetry columns, in file order.
var DefaultFields = []string{
	"angle",
	"angular_velocity",
	"cart_friction",
	"cart_x",
	"cart_velocity",
	"input_left",
	"input_right",
	"controller_impulse",
}

// Recorder is a CSV telemetry sink. It is not safe for concurrent use.
type Recorder struct {
	path     string
	fields   []string
	interval float64

	file   *os.File
	w      *csv.Writer
	closed bool

	now func() time.Time
}

// New creates the recordings directory when needed, opens a new timestamped
// file and writes the header.
func New(dir, prefix string, fields []string, interval float64) (*Recorder, error) {
	return newAt(dir, prefix, fields, interval, time.Now)
}

func newAt(dir, prefix string, fields []string, interval float64, now func() time.Time) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %w", dynamo.ErrRecorder, err)
	}

	path, file, err := create(dir, prefix, now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dynamo.ErrRecorder, err)
	}

	r := &Recorder{
		path:     path,
		fields:   append([]string(nil), fields...),
		interval: interval,
		file:     file,
		w:        csv.NewWriter(file),
		now:      now,
	}

	header := append([]string{"ts", "interval"}, r.fields...)
	if err := r.write(header); err != nil {
		file.Close()
		return nil, err
	}
	return r, nil
}

// maxSequence bounds the recordings started within one second.
const maxSequence = 1000

// create opens a file that did not exist before, so a session never
// truncates an earlier one started in the same second.
func create(dir, prefix string, t time.Time) (string, *os.File, error) {
	for seq := 1; seq <= maxSequence; seq++ {
		path := filepath.Join(dir, sequenced(prefix, t, seq))
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return path, file, err
	}
	return "", nil, fmt.Errorf("more than %d recordings at %s", maxSequence, t.Format(TimestampLayout))
}

func (r *Recorder) write(row []string) error {
	if err := r.w.Write(row); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrRecorder, err)
	}
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrRecorder, err)
	}
	return nil
}

// Insert appends one row. Fields missing from rec are left empty.
func (r *Recorder) Insert(rec dynamo.Record) error {
	if r.closed {
		return dynamo.ErrRecorderClosed
	}

	row := make([]string, 0, len(r.fields)+2)
	row = append(row, epoch(r.now()), formatFloat(r.interval))
	for _, f := range r.fields {
		row = append(row, formatValue(rec[f]))
	}
	return r.write(row)
}

// Close flushes and closes the file. Calling it again does nothing.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	r.w.Flush()
	flushErr := r.w.Error()
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrRecorder, err)
	}
	if flushErr != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrRecorder, flushErr)
	}
	return nil
}

func (r *Recorder) Path() string {
	return r.path
}

func (r *Recorder) Fields() []string {
	return r.fields
}

func epoch(t time.Time) string {
	return strconv.FormatFloat(float64(t.UnixNano())/1e9, 'f', 6, 64)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if x {
			return "True"
		}
		return "False"
	case float64:
		return formatFloat(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
