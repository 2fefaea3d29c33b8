package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// cachedResult is one previously-computed query result kept around so a
// caller can re-fetch it by result id without re-running the query.
type cachedResult struct {
	value     interface{}
	expiresAt time.Time
}

// QueryService bounds how many queries run concurrently and enforces a
// per-query deadline around the engine, which the core deliberately does
// not do itself (spec.md §5: "Cancellation / timeouts: Not provided by
// the core; callers enforce via an external deadline and may drop
// results"). It also caches results by id for a limited time, the same
// results-cache-with-TTL shape as the teacher's JobService.
type QueryService struct {
	workers chan struct{}
	timeout time.Duration
	ttl     time.Duration
	log     zerolog.Logger

	mutex   sync.RWMutex
	results map[string]cachedResult
}

// NewQueryService builds a QueryService allowing at most maxConcurrent
// queries in flight, each bounded by timeout, caching results for ttl.
func NewQueryService(maxConcurrent int, timeout, ttl time.Duration, log zerolog.Logger) *QueryService {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	s := &QueryService{
		workers: make(chan struct{}, maxConcurrent),
		timeout: timeout,
		ttl:     ttl,
		results: make(map[string]cachedResult),
		log:     log,
	}
	go s.cleanupLoop()
	return s
}

// ErrTimeout is returned by Run when the wrapped query does not finish
// before the configured timeout elapses.
type ErrTimeout struct{ Timeout time.Duration }

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("service: query exceeded timeout of %s", e.Timeout)
}

// resultIDsOf extracts every id a query result carries (models types
// implement ResultIDs; minimize carries two, everything else carries
// one), so Run can cache each operation's result under the id(s) the
// orchestrator already minted, without duplicating id generation.
func resultIDsOf(v interface{}) []string {
	if r, ok := v.(interface{ ResultIDs() []string }); ok {
		return r.ResultIDs()
	}
	return nil
}

// Run acquires a worker slot, executes fn with a deadline, caches a
// successful result under the ids resultIDsOf extracts (if any), and
// releases the slot. If the deadline elapses first, Run returns
// *ErrTimeout and fn's goroutine is abandoned to finish on its own —
// the core has no cancellation hook (spec.md §5), so this can only drop
// the result, never stop the computation early.
func (s *QueryService) Run(fn func() (interface{}, error)) (interface{}, error) {
	s.workers <- struct{}{}
	defer func() { <-s.workers }()

	type outcome struct {
		val interface{}
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		val, err := fn()
		done <- outcome{val, err}
	}()

	select {
	case out := <-done:
		if out.err == nil {
			s.store(out.val)
		}
		return out.val, out.err
	case <-time.After(s.timeout):
		return nil, &ErrTimeout{Timeout: s.timeout}
	}
}

func (s *QueryService) store(v interface{}) {
	ids := resultIDsOf(v)
	if len(ids) == 0 {
		return
	}
	entry := cachedResult{value: v, expiresAt: time.Now().Add(s.ttl)}
	s.mutex.Lock()
	for _, id := range ids {
		if id != "" {
			s.results[id] = entry
		}
	}
	s.mutex.Unlock()
}

// Result fetches a previously cached result by id.
func (s *QueryService) Result(id string) (interface{}, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	cached, ok := s.results[id]
	if !ok || time.Now().After(cached.expiresAt) {
		return nil, false
	}
	return cached.value, true
}

func (s *QueryService) cleanupLoop() {
	ticker := time.NewTicker(s.ttl / 4)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		s.mutex.Lock()
		for id, cached := range s.results {
			if now.After(cached.expiresAt) {
				delete(s.results, id)
			}
		}
		n := len(s.results)
		s.mutex.Unlock()
		s.log.Debug().Int("cached_results", n).Msg("query result cache swept")
	}
}
