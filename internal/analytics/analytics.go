// Package analytics records dip searches and aggregates them into a report.
//
// Analytics owns two pieces of state: a history of rounded dip → search count,
// and a bounded most-recent-first list of full search records. Both are
// persisted through an opaque storage.Store after every change. Persistence
// failures never reach callers: a failed read starts from empty state, and a
// failed write leaves the in-memory state authoritative for the session.
//
// Analytics is not safe for concurrent use.
package analytics

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/rewired-gh/hfotank/internal/logger"
	"github.com/rewired-gh/hfotank/internal/models"
	"github.com/rewired-gh/hfotank/internal/storage"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Persistence keys.
const (
	HistoryKey = "search_history"
	RecentKey  = "recent_searches"
)

const (
	// DefaultRecentCapacity bounds the recent-searches list.
	DefaultRecentCapacity = 20
	// DefaultRangeWidth is the width of report buckets in millimeters.
	DefaultRangeWidth = 100
	// DefaultMaxDip is the chart ceiling used when none is configured.
	DefaultMaxDip = 14925
)

// Options configures an Analytics service. Zero values take the defaults.
type Options struct {
	RecentCapacity int
	RangeWidth     int
	MaxDip         int              // domain ceiling for range grouping and coverage
	Now            func() time.Time // clock, for tests
}

// Analytics records searches and builds reports.
type Analytics struct {
	store   storage.Store
	history map[int]int
	recent  []models.SearchRecord

	capacity   int
	rangeWidth int
	maxDip     int
	now        func() time.Time
}

// New creates an Analytics service and restores persisted state from store.
func New(store storage.Store, opts Options) *Analytics {
	if opts.RecentCapacity <= 0 {
		opts.RecentCapacity = DefaultRecentCapacity
	}
	if opts.RangeWidth <= 0 {
		opts.RangeWidth = DefaultRangeWidth
	}
	if opts.MaxDip <= 0 {
		opts.MaxDip = DefaultMaxDip
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	a := &Analytics{
		store:      store,
		history:    make(map[int]int),
		recent:     make([]models.SearchRecord, 0, opts.RecentCapacity),
		capacity:   opts.RecentCapacity,
		rangeWidth: opts.RangeWidth,
		maxDip:     opts.MaxDip,
		now:        opts.Now,
	}
	a.load()
	return a
}

// Record counts a search for round(dip) and prepends it to the recent list.
func (a *Analytics) Record(dip float64, result models.VolumeResult) models.SearchRecord {
	key := int(math.Round(dip))
	a.history[key]++

	rec := models.NewSearchRecord(uuid.New().String(), dip, result, a.now())
	a.recent = append(a.recent, models.SearchRecord{})
	copy(a.recent[1:], a.recent)
	a.recent[0] = rec
	if len(a.recent) > a.capacity {
		a.recent = a.recent[:a.capacity]
	}

	a.persist()
	logger.Debug("Recorded search dip=%v key=%d volume=%d method=%s", dip, key, rec.Volume, rec.Method)
	return rec
}

// Recent returns a copy of the recent searches, most recent first.
func (a *Analytics) Recent() []models.SearchRecord {
	out := make([]models.SearchRecord, len(a.recent))
	copy(out, a.recent)
	return out
}

// History returns a copy of the rounded dip → count history.
func (a *Analytics) History() map[int]int {
	out := make(map[int]int, len(a.history))
	for k, v := range a.history {
		out[k] = v
	}
	return out
}

// Reset clears all analytics state and erases persisted data. Safe to repeat.
func (a *Analytics) Reset() {
	a.history = make(map[int]int)
	a.recent = make([]models.SearchRecord, 0, a.capacity)

	for _, key := range []string{HistoryKey, RecentKey} {
		if err := a.store.Delete(key); err != nil {
			logger.Warn("Failed to erase %s: %v", key, err)
		}
	}
	logger.Info("Search history cleared")
}

func (a *Analytics) load() {
	if raw, err := a.store.Get(HistoryKey); err == nil {
		var history map[int]int
		if err := json.Unmarshal(raw, &history); err != nil {
			logger.Warn("Ignoring unreadable search history: %v", err)
		} else if history != nil {
			a.history = history
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("Failed to read search history, starting empty: %v", err)
	}

	if raw, err := a.store.Get(RecentKey); err == nil {
		var recent []models.SearchRecord
		if err := json.Unmarshal(raw, &recent); err != nil {
			logger.Warn("Ignoring unreadable recent searches: %v", err)
		} else if recent != nil {
			if len(recent) > a.capacity {
				recent = recent[:a.capacity]
			}
			a.recent = recent
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("Failed to read recent searches, starting empty: %v", err)
	}

	logger.Debug("Loaded analytics state: %d distinct dips, %d recent searches", len(a.history), len(a.recent))
}

func (a *Analytics) persist() {
	if raw, err := json.Marshal(a.history); err != nil {
		logger.Warn("Failed to encode search history: %v", err)
	} else if err := a.store.Put(HistoryKey, raw); err != nil {
		logger.Warn("Failed to persist search history: %v", err)
	}

	if raw, err := json.Marshal(a.recent); err != nil {
		logger.Warn("Failed to encode recent searches: %v", err)
	} else if err := a.store.Put(RecentKey, raw); err != nil {
		logger.Warn("Failed to persist recent searches: %v", err)
	}
}
