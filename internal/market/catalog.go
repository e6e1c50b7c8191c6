package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCatalog reads instruments from a delimited text source:
// instrument_id,instrument_name with an optional third decimals column.
// A header row is recognized by a non-numeric first column and skipped.
// Blank lines are ignored; malformed rows and duplicate ids are errors.
func LoadCatalog(path string) ([]Instrument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return ReadCatalog(f)
}

// ReadCatalog parses catalog rows from r. See LoadCatalog for the format.
func ReadCatalog(r io.Reader) ([]Instrument, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		out  []Instrument
		seen = map[int64]bool{}
		row  int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		row++

		if len(rec) != 2 && len(rec) != 3 {
			return nil, fmt.Errorf("catalog row %d: want 2 or 3 columns, got %d", row, len(rec))
		}

		id, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
		if err != nil {
			if row == 1 {
				// header row
				continue
			}
			return nil, fmt.Errorf("catalog row %d: bad instrument id %q", row, rec[0])
		}

		name := strings.TrimSpace(rec[1])
		if name == "" {
			return nil, fmt.Errorf("catalog row %d: empty instrument name", row)
		}
		if seen[id] {
			return nil, fmt.Errorf("catalog row %d: duplicate instrument id %d", row, id)
		}
		seen[id] = true

		var decimals int8
		if len(rec) == 3 {
			d, err := strconv.ParseInt(strings.TrimSpace(rec[2]), 10, 8)
			if err != nil || d < 0 {
				return nil, fmt.Errorf("catalog row %d: bad decimals %q", row, rec[2])
			}
			decimals = int8(d)
		}

		out = append(out, Instrument{ID: id, Name: name, Decimals: decimals})
	}
	return out, nil
}
