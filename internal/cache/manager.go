package cache

import (
	"fmt"
	"log"
	"time"

	"MarketLens/internal/config"
	"MarketLens/internal/model"
)

// State classifies the result of a cache lookup.
type State int

const (
	// Absent: no entry, unreadable entry, or schema mismatch.
	Absent State = iota
	// Stale: a readable entry older than the freshness window.
	Stale
	// Fresh: an entry current through the latest completed business day.
	Fresh
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "absent"
	}
}

// Manager owns the cache entry lifecycle: it resolves every call
// directly against the configured store, stamps the schema version on
// writes and checks version and freshness on reads. A single Manager is
// shared across concurrent per-ticker fetches; that is safe because
// every ticker maps to its own file.
type Manager struct {
	store         Store
	schemaVersion string
	maxAgeDays    int
}

// NewManager builds a Manager for the configured storage engine.
func NewManager(cfg *config.Config) (*Manager, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Cache.Engine {
	case "sqlite":
		store, err = NewSQLiteStore(cfg.Cache.Dir)
	case "json":
		store, err = NewJSONStore(cfg.Cache.Dir)
	default:
		err = fmt.Errorf("unknown cache engine %q", cfg.Cache.Engine)
	}
	if err != nil {
		return nil, err
	}
	return &Manager{
		store:         store,
		schemaVersion: cfg.Cache.SchemaVersion,
		maxAgeDays:    cfg.Cache.MaxAgeDays,
	}, nil
}

// Lookup loads the cached series for a ticker and classifies it.
// Corruption and schema mismatches map to Absent, never to an error.
func (m *Manager) Lookup(ticker string) (model.PriceSeries, State) {
	e, err := m.store.Load(ticker)
	if err != nil {
		log.Printf("[WARN] cache corrupted for %s, refetching: %v", ticker, err)
		return nil, Absent
	}
	if e == nil {
		return nil, Absent
	}
	if e.SchemaVersion != m.schemaVersion {
		log.Printf("[WARN] cache schema %q != %q for %s, refetching", e.SchemaVersion, m.schemaVersion, ticker)
		return nil, Absent
	}
	if !m.freshAsOf(e.Series, time.Now()) {
		return e.Series, Stale
	}
	return e.Series, Fresh
}

// Save persists a series for a ticker with the current schema version,
// overwriting any prior entry.
func (m *Manager) Save(ticker string, series model.PriceSeries) error {
	return m.store.Save(ticker, &Entry{SchemaVersion: m.schemaVersion, Series: series})
}

// IsFresh reports whether a series is current through the latest
// completed business day, within the configured maximum age.
func (m *Manager) IsFresh(series model.PriceSeries) bool {
	return m.freshAsOf(series, time.Now())
}

func (m *Manager) freshAsOf(series model.PriceSeries, now time.Time) bool {
	if series.Empty() {
		return false
	}
	ref := LatestBusinessDay(now)
	age := int(ref.Sub(model.Midnight(series.Last().Date)).Hours() / 24)
	return age <= m.maxAgeDays
}

// LatestBusinessDay rolls now back to the most recent weekday.
// Exchange holidays are not modeled; this is a weekend approximation.
func LatestBusinessDay(now time.Time) time.Time {
	d := model.Midnight(now)
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, -2)
	default:
		return d
	}
}
