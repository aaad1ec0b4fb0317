package recorder

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/san-kum/pendulum/internal/dynamo"
)

// Session is one recording session stored in SQLite.
type Session struct {
	Name      string `gorm:"primaryKey"`
	Fields    datatypes.JSON
	Interval  float64
	CreatedAt time.Time
}

// Sample is one telemetry row of a session.
type Sample struct {
	ID        uint   `gorm:"primaryKey"`
	Session   string `gorm:"index"`
	Tick      int
	Timestamp float64
	Values    datatypes.JSON
}

const batchSize = 480

// SQLiteSink buffers rows and writes them in batches. It is not safe for
// concurrent use.
type SQLiteSink struct {
	db       *gorm.DB
	session  string
	fields   []string
	interval float64

	pending []Sample
	tick    int
	closed  bool

	now func() time.Time
}

func openSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        batchSize,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Session{}, &Sample{}); err != nil {
		return nil, err
	}
	return db, nil
}

// NewSQLiteSink opens (or creates) the database at path and registers a new
// session. An empty session name is replaced by a timestamp; a name already
// in the database gets a _<n> suffix, see [SQLiteSink.Session].
func NewSQLiteSink(path, session string, fields []string, interval float64) (*SQLiteSink, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dynamo.ErrRecorder, err)
	}
	if session == "" {
		session = time.Now().Format(TimestampLayout)
	}
	session, err = freeSession(db, session)
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("%w: %w", dynamo.ErrRecorder, err)
	}

	names, _ := json.Marshal(fields)
	if err := db.Create(&Session{Name: session, Fields: names, Interval: interval}).Error; err != nil {
		closeDB(db)
		return nil, fmt.Errorf("%w: %w", dynamo.ErrRecorder, err)
	}

	return &SQLiteSink{
		db:       db,
		session:  session,
		fields:   append([]string(nil), fields...),
		interval: interval,
		now:      time.Now,
	}, nil
}

// freeSession returns name, or name_<n> with the lowest n not yet stored.
func freeSession(db *gorm.DB, name string) (string, error) {
	candidate := name
	for seq := 2; seq <= maxSequence; seq++ {
		var n int64
		if err := db.Model(&Session{}).Where("name = ?", candidate).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", name, seq)
	}
	return "", fmt.Errorf("session %q: more than %d with that name", name, maxSequence)
}

func (s *SQLiteSink) Insert(rec dynamo.Record) error {
	if s.closed {
		return dynamo.ErrRecorderClosed
	}

	values := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		if v, ok := rec[f]; ok {
			values[f] = v
		}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrRecorder, err)
	}

	s.pending = append(s.pending, Sample{
		Session:   s.session,
		Tick:      s.tick,
		Timestamp: float64(s.now().UnixNano()) / 1e9,
		Values:    data,
	})
	s.tick++

	if len(s.pending) >= batchSize {
		return s.flush()
	}
	return nil
}

func (s *SQLiteSink) flush() error {
	if len(s.pending) == 0 {
		return nil
	}
	if err := s.db.CreateInBatches(&s.pending, batchSize).Error; err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrRecorder, err)
	}
	s.pending = s.pending[:0]
	return nil
}

func (s *SQLiteSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.flush()
	if cerr := closeDB(s.db); err == nil && cerr != nil {
		err = fmt.Errorf("%w: %w", dynamo.ErrRecorder, cerr)
	}
	return err
}

func (s *SQLiteSink) Session() string {
	return s.session
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LoadSQLite reads one session back in the column form of a CSV recording:
// ts, interval and the session fields. Booleans become 1/0 and missing values
// NaN. An empty session name picks the newest session.
func LoadSQLite(path, session string) (*Recording, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer closeDB(db)

	var meta Session
	q := db.Order("created_at desc").Order("rowid desc")
	if session != "" {
		q = db.Where("name = ?", session)
	}
	if err := q.First(&meta).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: session %q in %s", ErrNoRecordings, session, path)
		}
		return nil, err
	}

	var fields []string
	if err := json.Unmarshal(meta.Fields, &fields); err != nil {
		return nil, fmt.Errorf("session %s fields: %w", meta.Name, err)
	}

	var samples []Sample
	if err := db.Where("session = ?", meta.Name).Order("tick").Find(&samples).Error; err != nil {
		return nil, err
	}

	rec := &Recording{
		Path:    path + ":" + meta.Name,
		Header:  append([]string{"ts", "interval"}, fields...),
		Columns: make(map[string][]float64, len(fields)+2),
		Rows:    len(samples),
	}
	for _, name := range rec.Header {
		rec.Columns[name] = make([]float64, 0, len(samples))
	}

	for _, smp := range samples {
		values := dynamo.Record{}
		if err := json.Unmarshal(smp.Values, &values); err != nil {
			return nil, fmt.Errorf("session %s tick %d: %w", meta.Name, smp.Tick, err)
		}
		rec.Columns["ts"] = append(rec.Columns["ts"], smp.Timestamp)
		rec.Columns["interval"] = append(rec.Columns["interval"], meta.Interval)
		for _, f := range fields {
			rec.Columns[f] = append(rec.Columns[f], numeric(values[f]))
		}
	}
	return rec, nil
}

func numeric(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		return math.NaN()
	}
}

// Sessions lists the session names stored at path, oldest first.
func Sessions(path string) ([]string, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer closeDB(db)

	var names []string
	err = db.Model(&Session{}).Order("created_at").Pluck("name", &names).Error
	return names, err
}
