// Package sheet is a local stand-in for the spreadsheet web app. It speaks
// the same HTTP protocol as the real gateway and keeps its rows in diskv.
package sheet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/frota/pkg/movement"
)

const rowPrefix = "row-"

// ErrNoOpenRow is returned when a return names a vehicle that is not out.
var ErrNoOpenRow = errors.New("sheet: no open row for vehicle")

// Sheet is an ordered table of movement rows.
type Sheet struct {
	mu    sync.Mutex
	d     *diskv.Diskv
	next  int
	lists movement.Lists
}

// Open loads the sheet stored under dir, seeding the reference lists.
func Open(dir string, lists movement.Lists) (*Sheet, error) {
	if dir == "" {
		return nil, errors.New("sheet: directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("sheet: ensure directory: %w", err)
	}
	s := &Sheet{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 1024 * 1024,
		}),
		lists: normalize(lists),
	}
	keys := s.keys()
	if n := len(keys); n > 0 {
		s.next = rowIndex(keys[n-1]) + 1
	}
	return s, nil
}

// Lists returns the seeded reference lists.
func (s *Sheet) Lists() movement.Lists {
	return s.lists
}

// Rows returns every row in append order.
func (s *Sheet) Rows() ([]movement.Wire, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.keys()
	rows := make([]movement.Wire, 0, len(keys))
	for _, key := range keys {
		row, err := s.read(key)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Len is the number of stored rows.
func (s *Sheet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys())
}

// Save applies a save payload. Rows with status DISPONÍVEL close the most
// recent open row of the same vehicle; anything else is appended.
func (s *Sheet) Save(w movement.Wire) (movement.Wire, error) {
	if strings.TrimSpace(w.Vehicle) == "" {
		return movement.Wire{}, errors.New("sheet: veiculo required")
	}
	if w.Status == movement.StatusAvailable {
		return s.complete(w)
	}
	return s.append(w)
}

func (s *Sheet) append(w movement.Wire) (movement.Wire, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.ID = uuid.NewString()
	w.Status = movement.StatusOut
	w.OdometerIn, w.Distance, w.ReturnedAt = nil, nil, ""
	key := rowKey(s.next)
	if err := s.write(key, w); err != nil {
		return movement.Wire{}, err
	}
	s.next++
	return w, nil
}

func (s *Sheet) complete(w movement.Wire) (movement.Wire, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := s.keys()
	for i := len(keys) - 1; i >= 0; i-- {
		row, err := s.read(keys[i])
		if err != nil {
			return movement.Wire{}, err
		}
		if row.Vehicle != w.Vehicle || row.Status != movement.StatusOut {
			continue
		}
		if w.Driver != "" {
			row.Driver = w.Driver
		}
		if w.Escort != "" {
			row.Escort = w.Escort
		}
		row.Status = movement.StatusAvailable
		row.OdometerIn = w.OdometerIn
		row.Distance = w.Distance
		row.ReturnedAt = w.ReturnedAt
		if err := s.write(keys[i], row); err != nil {
			return movement.Wire{}, err
		}
		return row, nil
	}
	return movement.Wire{}, fmt.Errorf("%w %q", ErrNoOpenRow, w.Vehicle)
}

// Clear removes every row. The reference lists are kept.
func (s *Sheet) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range s.keys() {
		if err := s.d.Erase(key); err != nil {
			return fmt.Errorf("sheet: erase %s: %w", key, err)
		}
	}
	s.next = 0
	return nil
}

func (s *Sheet) keys() []string {
	var keys []string
	for key := range s.d.Keys(nil) {
		if strings.HasPrefix(key, rowPrefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func (s *Sheet) read(key string) (movement.Wire, error) {
	b, err := s.d.Read(key)
	if err != nil {
		return movement.Wire{}, fmt.Errorf("sheet: read %s: %w", key, err)
	}
	var w movement.Wire
	if err := json.Unmarshal(b, &w); err != nil {
		return movement.Wire{}, fmt.Errorf("sheet: decode %s: %w", key, err)
	}
	return w, nil
}

func (s *Sheet) write(key string, w movement.Wire) error {
	b, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("sheet: encode %s: %w", key, err)
	}
	if err := s.d.Write(key, b); err != nil {
		return fmt.Errorf("sheet: write %s: %w", key, err)
	}
	return nil
}

func rowKey(i int) string {
	return fmt.Sprintf("%s%08d", rowPrefix, i)
}

func rowIndex(key string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(key, rowPrefix))
	if err != nil {
		return 0
	}
	return n
}

func normalize(l movement.Lists) movement.Lists {
	clean := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, v := range in {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		return out
	}
	return movement.Lists{
		Vehicles: clean(l.Vehicles),
		Drivers:  clean(l.Drivers),
		Escorts:  clean(l.Escorts),
	}
}
