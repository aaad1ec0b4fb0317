package recorder

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the time format embedded in recording file names.
const TimestampLayout = "2006-01-02_15-04-05"

var ErrNoRecordings = errors.New("no recordings found")

// Filename returns <prefix>_<timestamp>.csv.
func Filename(prefix string, t time.Time) string {
	return sequenced(prefix, t, 1)
}

// sequenced names the seq-th recording started within the same second;
// the first keeps the plain name, later ones get a _<seq> suffix.
func sequenced(prefix string, t time.Time, seq int) string {
	if seq <= 1 {
		return fmt.Sprintf("%s_%s.csv", prefix, t.Format(TimestampLayout))
	}
	return fmt.Sprintf("%s_%s_%d.csv", prefix, t.Format(TimestampLayout), seq)
}

// ParseFilename extracts the timestamp from a recording path.
func ParseFilename(path string) (time.Time, error) {
	ts, _, _, err := parseName(path)
	return ts, err
}

// parseName splits a recording file name into its timestamp, prefix and
// sequence number.
func parseName(path string) (time.Time, string, int, error) {
	name := filepath.Base(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	ts, prefix, err := splitStem(stem)
	if err == nil {
		return ts, prefix, 1, nil
	}
	if i := strings.LastIndexByte(stem, '_'); i > 0 {
		if seq, serr := strconv.Atoi(stem[i+1:]); serr == nil && seq > 1 {
			if ts, prefix, err := splitStem(stem[:i]); err == nil {
				return ts, prefix, seq, nil
			}
		}
	}
	return time.Time{}, "", 0, fmt.Errorf("not a recording file name: %q", name)
}

func splitStem(stem string) (time.Time, string, error) {
	n := len(TimestampLayout)
	if len(stem) < n+2 || stem[len(stem)-n-1] != '_' {
		return time.Time{}, "", fmt.Errorf("not a recording file name: %q", stem)
	}
	ts, err := time.ParseInLocation(TimestampLayout, stem[len(stem)-n:], time.Local)
	if err != nil {
		return time.Time{}, "", err
	}
	return ts, stem[:len(stem)-n-1], nil
}

// Entry is a recording file found on disk. Seq orders recordings started
// within the same second.
type Entry struct {
	Path string
	Time time.Time
	Seq  int
}

// List returns the recordings for prefix in dir, oldest first. Files whose
// names do not parse are skipped.
func List(dir, prefix string) ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, prefix+"_*.csv"))
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(matches))
	for _, m := range matches {
		ts, base, seq, err := parseName(m)
		if err != nil || base != prefix {
			continue
		}
		entries = append(entries, Entry{Path: m, Time: ts, Seq: seq})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Time.Equal(entries[j].Time) {
			return entries[i].Seq < entries[j].Seq
		}
		return entries[i].Time.Before(entries[j].Time)
	})
	return entries, nil
}

// Latest returns the path of the newest recording for prefix.
func Latest(dir, prefix string) (string, error) {
	entries, err := List(dir, prefix)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("%w for %q in %s", ErrNoRecordings, prefix, dir)
	}
	return entries[len(entries)-1].Path, nil
}
