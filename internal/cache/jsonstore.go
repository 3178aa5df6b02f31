package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"MarketLens/internal/model"
)

const dateLayout = "2006-01-02"

// JSONStore keeps one pretty-printed JSON document per ticker.
type JSONStore struct {
	dir string
}

// NewJSONStore creates the cache directory if needed.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) Name() string { return "json" }

func (s *JSONStore) path(ticker string) string {
	return filepath.Join(s.dir, ticker+".json")
}

type jsonPoint struct {
	Date     string  `json:"date"`
	AdjClose float64 `json:"adj_close"`
}

type jsonEntry struct {
	SchemaVersion string      `json:"schema_version"`
	Points        []jsonPoint `json:"points"`
}

func (s *JSONStore) Load(ticker string) (*Entry, error) {
	data, err := os.ReadFile(s.path(ticker))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var doc jsonEntry
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path(ticker), err)
	}

	e := &Entry{SchemaVersion: doc.SchemaVersion}
	for _, p := range doc.Points {
		d, err := time.ParseInLocation(dateLayout, p.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("decode %s: bad date %q: %w", s.path(ticker), p.Date, err)
		}
		e.Series = append(e.Series, model.PricePoint{Date: d, AdjClose: p.AdjClose})
	}
	return e, nil
}

// Save writes to a temp file and renames it into place so readers never
// observe a partially written document.
func (s *JSONStore) Save(ticker string, e *Entry) error {
	doc := jsonEntry{SchemaVersion: e.SchemaVersion, Points: make([]jsonPoint, 0, len(e.Series))}
	for _, p := range e.Series {
		doc.Points = append(doc.Points, jsonPoint{Date: p.Date.Format(dateLayout), AdjClose: p.AdjClose})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	path := s.path(ticker)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
