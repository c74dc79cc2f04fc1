package store

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Columns is the canonical on-disk schema, in order. Every table the store
// returns exposes exactly these columns regardless of what the backing file
// physically contains.
var Columns = []string{"timestamp", "user_name", "rating", "review_text", "user_llm_response"}

// Record is one feedback submission. A field is null (Valid=false) when the
// corresponding column was absent from the backing file.
type Record struct {
	Timestamp       sql.NullString
	UserName        sql.NullString
	Rating          sql.NullString
	ReviewText      sql.NullString
	UserLLMResponse sql.NullString
}

// Cell wraps a plain string as a present (non-null) record field.
func Cell(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

// cells returns pointers to the record's fields in canonical column order.
func (r *Record) cells() []*sql.NullString {
	return []*sql.NullString{&r.Timestamp, &r.UserName, &r.Rating, &r.ReviewText, &r.UserLLMResponse}
}

// Table is the canonical view over the backing file.
type Table struct {
	Columns []string
	Records []Record
}

// NewestFirst returns a copy of the records sorted by timestamp descending.
// Stored order is untouched; timestamps are RFC 3339 so lexicographic order
// is chronological.
func (t *Table) NewestFirst() []Record {
	out := append([]Record(nil), t.Records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.String > out[j].Timestamp.String
	})
	return out
}

// Store is a CSV-backed append-only record store. Appends are whole-file
// read-modify-writes serialized by a mutex; concurrent writers from other
// processes are not supported.
type Store struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the backing file and projects it onto the canonical columns.
// A missing file, an empty file, or an unparsable file all yield an empty
// canonical table; load never fails.
func (s *Store) Load() *Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() *Table {
	t := &Table{Columns: append([]string(nil), Columns...)}

	info, err := os.Stat(s.path)
	if err != nil || info.Size() == 0 {
		return t
	}

	f, err := os.Open(s.path)
	if err != nil {
		return t
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil || len(rows) < 2 {
		// Malformed or header-only content counts as "no data yet".
		return t
	}

	// Map each canonical column to its position in the file header, if any.
	header := rows[0]
	idx := make([]int, len(Columns))
	for i, col := range Columns {
		idx[i] = -1
		for j, h := range header {
			if h == col {
				idx[i] = j
				break
			}
		}
	}

	for _, row := range rows[1:] {
		var rec Record
		for i, cell := range rec.cells() {
			if idx[i] >= 0 && idx[i] < len(row) {
				*cell = Cell(row[idx[i]])
			}
		}
		t.Records = append(t.Records, rec)
	}
	return t
}

// Append adds one record to the end of the table and rewrites the backing
// file. Partial records are tolerated; null fields persist as empty cells.
func (s *Store) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.load()
	t.Records = append(t.Records, rec)
	return s.write(t)
}

func (s *Store) write(t *Table) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("open backing file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for i := range t.Records {
		row := make([]string, len(Columns))
		for j, cell := range t.Records[i].cells() {
			if cell.Valid {
				row[j] = cell.String
			}
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush backing file: %w", err)
	}
	return f.Close()
}
