package recorder

import (
	"bufio"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/pendulum/internal/dynamo"
)

var fixed = time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

func clock() func() time.Time {
	t := fixed
	return func() time.Time {
		t = t.Add(time.Second / 480)
		return t
	}
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		n++
	}
	return n
}

func TestRecorder_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "recordings")
	r, err := newAt(dir, "cart", []string{"angle", "cart_x"}, 1.0/480, clock())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	const n = 25
	for i := 0; i < n; i++ {
		rec := dynamo.Record{"angle": float64(i) * 0.1, "cart_x": -float64(i) / 3}
		if err := r.Insert(rec); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got := countLines(t, r.Path()); got != n+1 {
		t.Errorf("file has %d lines, want %d", got, n+1)
	}

	rec, err := Load(r.Path())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.Join(rec.Header, ",") != "ts,interval,angle,cart_x" {
		t.Errorf("header = %v", rec.Header)
	}
	if rec.Rows != n {
		t.Fatalf("rows = %d, want %d", rec.Rows, n)
	}
	for i := 0; i < n; i++ {
		if a := rec.Column("angle")[i]; math.Abs(a-float64(i)*0.1) > 1e-12 {
			t.Errorf("angle[%d] = %v", i, a)
		}
		if x := rec.Column("cart_x")[i]; math.Abs(x+float64(i)/3) > 1e-12 {
			t.Errorf("cart_x[%d] = %v", i, x)
		}
		if iv := rec.Column("interval")[i]; iv != 1.0/480 {
			t.Errorf("interval[%d] = %v", i, iv)
		}
	}

	ts := rec.Time()
	if ts[0] != 0 || ts[n-1] <= 0 {
		t.Errorf("time axis = %v .. %v", ts[0], ts[n-1])
	}
}

func TestRecorder_CreatesDirectoryAndNamesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	r, err := newAt(dir, "cart", DefaultFields, 1.0/480, func() time.Time { return fixed })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	want := filepath.Join(dir, "cart_2024-03-09_14-05-07.csv")
	if r.Path() != want {
		t.Errorf("path = %s, want %s", r.Path(), want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("file not created: %v", err)
	}
}

func TestRecorder_BooleansAndMissing(t *testing.T) {
	r, err := newAt(t.TempDir(), "cart", []string{"input_left", "input_right", "angle"}, 0.5, clock())
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Insert(dynamo.Record{"input_left": true, "input_right": false}); err != nil {
		t.Fatal(err)
	}
	r.Close()

	data, err := os.ReadFile(r.Path())
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if !strings.HasSuffix(lines[1], ",0.5,True,False,") {
		t.Errorf("row = %q", lines[1])
	}

	rec, err := Load(r.Path())
	if err != nil {
		t.Fatal(err)
	}
	if rec.Column("input_left")[0] != 1 || rec.Column("input_right")[0] != 0 {
		t.Error("booleans not parsed back")
	}
	if !math.IsNaN(rec.Column("angle")[0]) {
		t.Error("missing value should load as NaN")
	}
}

func TestRecorder_CloseOnce(t *testing.T) {
	r, err := New(t.TempDir(), "cart", DefaultFields, 1.0/480)
	if err != nil {
		t.Fatal(err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if err := r.Insert(dynamo.Record{"angle": 1.0}); !errors.Is(err, dynamo.ErrRecorderClosed) {
		t.Errorf("Insert after Close = %v, want ErrRecorderClosed", err)
	}
}

func TestRecorder_UnwritableDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := New(filepath.Join(file, "recordings"), "cart", DefaultFields, 1.0/480)
	if !errors.Is(err, dynamo.ErrRecorder) {
		t.Errorf("err = %v, want ErrRecorder", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}

	empty := filepath.Join(dir, "empty.csv")
	os.WriteFile(empty, nil, 0644)
	if _, err := Load(empty); err == nil {
		t.Error("expected error for empty file")
	}

	bad := filepath.Join(dir, "bad.csv")
	os.WriteFile(bad, []byte("ts,angle\n1,abc\n"), 0644)
	if _, err := Load(bad); err == nil {
		t.Error("expected error for non-numeric cell")
	}
}

func TestRecorder_SameSecondKeepsEarlierSession(t *testing.T) {
	dir := t.TempDir()
	at := func(d time.Duration) func() time.Time {
		return func() time.Time { return fixed.Add(d) }
	}

	first, err := newAt(dir, "cart", []string{"angle"}, 1.0/480, at(0))
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Insert(dynamo.Record{"angle": 1.0}); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := newAt(dir, "cart", []string{"angle"}, 1.0/480, at(300*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	second.Close()

	if second.Path() == first.Path() {
		t.Fatalf("both sessions wrote %s", first.Path())
	}
	if n := countLines(t, first.Path()); n != 2 {
		t.Errorf("first session has %d lines, want 2", n)
	}

	entries, err := List(dir, "cart")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Path != first.Path() || entries[1].Path != second.Path() {
		t.Errorf("List = %v", entries)
	}
	if latest, _ := Latest(dir, "cart"); latest != second.Path() {
		t.Errorf("Latest = %s, want %s", latest, second.Path())
	}
}
