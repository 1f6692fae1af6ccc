// Package session owns the working state for one dataset load: the
// normalized record set, the reference join index, the facet index and the
// active query's result cursor. It replaces the ambient globals of the
// original site with one explicit object the presentation layer talks to.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jeisey/phiti/internal/csvio"
	"github.com/jeisey/phiti/internal/cursor"
	"github.com/jeisey/phiti/internal/domain"
	"github.com/jeisey/phiti/internal/facet"
	"github.com/jeisey/phiti/internal/normalize"
	"github.com/jeisey/phiti/internal/query"
	"github.com/jeisey/phiti/internal/refindex"
	"github.com/jeisey/phiti/internal/stats"
)

var (
	// ErrNotLoaded indicates no dataset load has completed yet.
	ErrNotLoaded = errors.New("dataset not loaded")
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStaleQuery indicates an evaluation was superseded by a newer query
	// before it finished.
	ErrStaleQuery = errors.New("query superseded")
)

// Fetcher retrieves the two raw feeds. Satisfied by *feed.Client.
type Fetcher interface {
	FetchDataset(ctx context.Context) (string, error)
	FetchReference(ctx context.Context) (string, error)
}

// Session manages the in-memory state of one dataset. All exported methods
// are safe for concurrent use; readers always observe a fully built snapshot.
type Session struct {
	fetcher    Fetcher
	normalizer *normalize.Normalizer
	logger     *zap.Logger

	// Coalesces concurrent Load calls: a reload joins the in-flight run
	// instead of interleaving writes to the shared record set.
	loads singleflight.Group

	mu       sync.RWMutex
	records  []*domain.Record
	byID     map[string]*domain.Record
	refs     *refindex.Index
	facets   facet.Facets
	loaded   bool
	degraded bool // reference feed failed; every area is the sentinel

	// Active query state. gen increments on every SetFilter; a finished
	// evaluation installs its cursor only if its generation is still
	// current (last-query-wins).
	activeQuery domain.FilterQuery
	results     *cursor.Cursor
	gen         uint64
}

// New creates a Session over the given fetcher.
func New(fetcher Fetcher, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		fetcher:    fetcher,
		normalizer: normalize.New(logger),
		logger:     logger,
		byID:       map[string]*domain.Record{},
		refs:       refindex.New(),
	}
}

// Load runs the full ingestion pipeline: fetch both feeds, decode, normalize,
// build the reference index, resolve areas, compute facets, and swap the new
// snapshot in atomically. Concurrent calls coalesce into one run.
//
// A primary-feed failure is returned as an error and leaves any previous
// snapshot intact. A reference-feed failure degrades the load (every area
// resolves to the sentinel) but still succeeds.
func (s *Session) Load(ctx context.Context) error {
	_, err, _ := s.loads.Do("load", func() (interface{}, error) {
		return nil, s.load(ctx)
	})
	return err
}

func (s *Session) load(ctx context.Context) error {
	start := time.Now()

	var (
		wg       sync.WaitGroup
		dataText string
		dataErr  error
		refText  string
		refErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		dataText, dataErr = s.fetcher.FetchDataset(ctx)
	}()
	go func() {
		defer wg.Done()
		refText, refErr = s.fetcher.FetchReference(ctx)
	}()
	wg.Wait()

	if dataErr != nil {
		s.logger.Error("primary feed fetch failed", zap.Error(dataErr))
		return dataErr
	}

	rows, err := csvio.Decode(dataText)
	if err != nil {
		s.logger.Error("primary feed decode failed", zap.Error(err))
		return fmt.Errorf("primary feed: %w", err)
	}
	records := s.normalizer.Normalize(rows)

	// The join index must be complete before any area counts as resolved.
	refs := refindex.New()
	degraded := false
	if refErr != nil {
		s.logger.Warn("reference feed unavailable, areas will be unresolved", zap.Error(refErr))
		degraded = true
	} else {
		refRows, err := csvio.Decode(refText)
		if err != nil {
			s.logger.Warn("reference feed decode failed, areas will be unresolved", zap.Error(err))
			degraded = true
		} else {
			refs.Build(refRows)
		}
	}
	refs.Apply(records)

	facets := facet.Compute(records)
	byID := make(map[string]*domain.Record, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	s.mu.Lock()
	s.records = records
	s.byID = byID
	s.refs = refs
	s.facets = facets
	s.loaded = true
	s.degraded = degraded
	s.gen++
	s.activeQuery = domain.MatchAll()
	s.results = cursor.New(records)
	s.mu.Unlock()

	s.logger.Info("dataset loaded",
		zap.Int("records", len(records)),
		zap.Int("reference_zips", refs.Len()),
		zap.Bool("degraded", degraded),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// SetFilter evaluates q against the working set and installs the result as
// the active cursor. If a newer SetFilter lands while this one is still
// evaluating, the stale result is discarded and ErrStaleQuery is returned.
func (s *Session) SetFilter(ctx context.Context, q domain.FilterQuery) (*cursor.Cursor, error) {
	gen, records, err := s.beginFilter()
	if err != nil {
		return nil, err
	}

	matched, err := query.Evaluate(ctx, records, q, time.Now())
	if err != nil {
		return nil, err
	}

	return s.install(gen, q, matched)
}

// beginFilter claims a new generation and snapshots the working set for one
// evaluation.
func (s *Session) beginFilter() (uint64, []*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return 0, nil, ErrNotLoaded
	}
	s.gen++
	return s.gen, s.records, nil
}

// install publishes an evaluated result, unless a newer generation claimed
// the filter while the evaluation ran.
func (s *Session) install(gen uint64, q domain.FilterQuery, matched []*domain.Record) (*cursor.Cursor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return nil, ErrStaleQuery
	}
	s.activeQuery = q
	s.results = cursor.New(matched)
	return s.results, nil
}

// Results returns the active cursor, or ErrNotLoaded before the first load.
func (s *Session) Results() (*cursor.Cursor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded || s.results == nil {
		return nil, ErrNotLoaded
	}
	return s.results, nil
}

// ActiveQuery returns the currently installed filter.
func (s *Session) ActiveQuery() domain.FilterQuery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeQuery
}

// Facets returns the facet index for the current working set.
func (s *Session) Facets() (facet.Facets, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return facet.Facets{}, ErrNotLoaded
	}
	return s.facets, nil
}

// FindByID resolves a record by its share key.
func (s *Session) FindByID(id string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	rec, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

// ZipsForArea scopes the zip selection control to one area; with an empty
// area it returns the full zip facet.
func (s *Session) ZipsForArea(area string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if area == "" {
		return s.facets.Zips
	}
	return s.refs.ZipsForArea(area)
}

// Stats summarizes the active result sequence.
func (s *Session) Stats() stats.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.results == nil {
		return stats.Compute(nil)
	}
	all := make([]*domain.Record, 0, s.results.Len())
	for i := 0; i < s.results.Len(); i++ {
		all = append(all, s.results.At(i))
	}
	return stats.Compute(all)
}

// TotalStats summarizes the whole working set, independent of the filter.
func (s *Session) TotalStats() stats.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stats.Compute(s.records)
}

// Loaded reports whether a load has completed.
func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Degraded reports whether the last load ran without the reference feed.
func (s *Session) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// ResolveShared resolves a deep-linked record id the way the original site
// did: narrow the filter to the record's area, zip and status, and position
// on the record within those results. When the narrowed filter excludes the
// record (data changed since the link was made), fall back to a cursor
// holding just that record.
func (s *Session) ResolveShared(ctx context.Context, id string) (*cursor.Cursor, int, error) {
	rec, err := s.FindByID(id)
	if err != nil {
		return nil, 0, err
	}

	q := domain.MatchAll()
	q.Area = rec.Area
	q.ZipCode = rec.ZipCode
	q.StatusAny = false
	q.Open = rec.Status == domain.StatusOpen
	q.Closed = rec.Status == domain.StatusClosed

	c, err := s.SetFilter(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	if idx := c.IndexOf(id); idx >= 0 {
		return c, idx, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = cursor.New([]*domain.Record{rec})
	return s.results, 0, nil
}
