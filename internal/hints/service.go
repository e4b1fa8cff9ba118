// internal/hints/service.go
//
// Background Zip solving for hints.
// Responsibilities:
//   - Run PathSolver off the request path, one job per session key.
//   - Cache solved paths in an LRU so repeat hint requests do not re-solve.
//   - Drop results for keys that were forgotten (session ended or reset)
//     while their solve was still running.
//
// Notes:
//   - Jobs run on their own context; a request giving up does not cancel
//     the solve, Forget and Close do.
//   - Solver failures are logged and surface as zip.NoHint. ErrNoSolution
//     and ErrBoardTooLarge are cached like paths; cancellations are not.

package hints

import (
	"context"
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
	"github.com/robalobadob/brainburst/apps/go-server/internal/zip"
)

// DefaultCacheSize is used when New is given a non-positive size.
const DefaultCacheSize = 256

// Solver is satisfied by *zip.Solver.
type Solver interface {
	Solve(ctx context.Context, p zip.Payload) ([]game.Position, zip.Stats, error)
}

// Service schedules solves and caches their results by session key.
type Service struct {
	solver Solver
	cache  *lru.Cache[string, solved]

	mu   sync.Mutex
	jobs map[string]*job
	wg   sync.WaitGroup
}

// solved is a finished solve: a path or a failure that would repeat.
type solved struct {
	path []game.Position
	err  error
}

type job struct {
	cancel context.CancelFunc
	done   chan struct{}
	path   []game.Position
	err    error
}

func New(solver Solver, cacheSize int) (*Service, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, solved](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{solver: solver, cache: cache, jobs: make(map[string]*job)}, nil
}

// Prefetch starts solving p for key unless a result is cached or a solve
// is already running.
func (s *Service) Prefetch(key string, p zip.Payload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache.Contains(key) {
		return
	}
	s.startLocked(key, p)
}

// Solution returns the solved path for key, waiting for a running solve or
// starting one. ctx bounds only the wait.
func (s *Service) Solution(ctx context.Context, key string, p zip.Payload) ([]game.Position, error) {
	s.mu.Lock()
	if res, ok := s.cache.Get(key); ok {
		s.mu.Unlock()
		return res.path, res.err
	}
	j := s.startLocked(key, p)
	s.mu.Unlock()

	select {
	case <-j.done:
		return j.path, j.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Hint derives a hint for st. Any solve failure degrades to zip.NoHint.
func (s *Service) Hint(ctx context.Context, key string, p zip.Payload, st zip.State) zip.Hint {
	if st.Completed {
		return zip.NoHint{}
	}
	path, err := s.Solution(ctx, key, p)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("zip solve failed, no hint")
		return zip.NoHint{}
	}
	return zip.DetermineHint(st, path, p)
}

// Forget cancels any solve for key and drops its cached result.
func (s *Service) Forget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[key]; ok {
		j.cancel()
		delete(s.jobs, key)
	}
	s.cache.Remove(key)
}

// Close cancels every running solve and waits for the workers to exit.
func (s *Service) Close() {
	s.mu.Lock()
	for key, j := range s.jobs {
		j.cancel()
		delete(s.jobs, key)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Service) startLocked(key string, p zip.Payload) *job {
	if j, ok := s.jobs[key]; ok {
		return j
	}
	ctx, cancel := context.WithCancel(context.Background())
	j := &job{cancel: cancel, done: make(chan struct{})}
	s.jobs[key] = j
	s.wg.Add(1)
	go s.run(ctx, key, p, j)
	return j
}

func (s *Service) run(ctx context.Context, key string, p zip.Payload, j *job) {
	defer s.wg.Done()
	defer j.cancel()

	path, stats, err := s.solver.Solve(ctx, p)

	s.mu.Lock()
	if s.jobs[key] == j {
		delete(s.jobs, key)
		if cacheable(err) {
			s.cache.Add(key, solved{path: path, err: err})
		}
	} else {
		log.Debug().Str("key", key).Msg("discarding solve for forgotten key")
	}
	s.mu.Unlock()

	if err == nil {
		log.Debug().Str("key", key).Int("nodes", stats.Nodes).Dur("took", stats.Duration).Msg("zip solved")
	}
	j.path, j.err = path, err
	close(j.done)
}

// cacheable reports whether a solve outcome would be the same next time.
func cacheable(err error) bool {
	return err == nil || errors.Is(err, zip.ErrNoSolution) || errors.Is(err, zip.ErrBoardTooLarge)
}
