package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adiwinata/gudangbot/internal/domain/models"
)

// ErrEmptyQuery indicates a search was attempted with an empty query string.
var ErrEmptyQuery = errors.New("search query must not be empty")

// Index is an immutable in-memory lookup table over the master catalog.
// Once built it is never mutated, so concurrent searches need no locking.
type Index struct {
	records []models.PartRecord
	byID    map[string]int
}

// BuildIndex converts raw sheet rows (header row first) into an Index using
// the configured header candidates. Rows without a part identifier and a
// name are skipped.
func BuildIndex(rows [][]interface{}, candidates HeaderCandidates) *Index {
	idx := &Index{byID: make(map[string]int)}
	if len(rows) == 0 {
		return idx
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = fmt.Sprint(cell)
	}
	mapping := Resolve(header, candidates)

	for _, row := range rows[1:] {
		rec := models.PartRecord{
			PartID:   cellAt(row, mapping.PartID),
			Name:     cellAt(row, mapping.Name),
			Location: cellAt(row, mapping.Location),
			Visual:   cellAt(row, mapping.Visual),
		}
		if rec.PartID == "" && rec.Name == "" {
			continue
		}

		idx.records = append(idx.records, rec)
		if rec.PartID != "" {
			key := NormalizeID(rec.PartID)
			if _, dup := idx.byID[key]; !dup {
				idx.byID[key] = len(idx.records) - 1
			}
		}
	}

	return idx
}

// Len reports the number of indexed parts.
func (ix *Index) Len() int {
	return len(ix.records)
}

// Search matches the query case-insensitively against part identifiers
// (exact or prefix) and names (substring). An exact identifier match
// short-circuits to a single-result list; otherwise matches are returned in
// source row order. No matches yields an empty slice, not an error.
func (ix *Index) Search(query string) ([]models.PartRecord, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, ErrEmptyQuery
	}

	if pos, ok := ix.byID[NormalizeID(trimmed)]; ok {
		return []models.PartRecord{ix.records[pos]}, nil
	}

	q := strings.ToLower(trimmed)
	matches := make([]models.PartRecord, 0, 4)
	for _, rec := range ix.records {
		if strings.HasPrefix(strings.ToLower(rec.PartID), q) || strings.Contains(strings.ToLower(rec.Name), q) {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

// NormalizeID canonicalizes a part identifier for exact matching: uppercase
// with spaces, dashes and underscores removed.
func NormalizeID(id string) string {
	upper := strings.ToUpper(strings.TrimSpace(id))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, upper)
}

func cellAt(row []interface{}, col int) string {
	if col == Absent || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[col]))
}
