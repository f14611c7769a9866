package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	goToken "github.com/MrEthical07/goToken"
	"go.uber.org/zap"
)

// tokenManager is the subset of *goToken.Manager the phases drive.
type tokenManager interface {
	Issue(ctx context.Context, userID int64) (goToken.TokenPair, error)
	VerifyAccess(ctx context.Context, token string) (*goToken.AccessClaims, error)
	Refresh(ctx context.Context, refreshToken string) (goToken.TokenPair, error)
}

type pairState struct {
	mu   sync.Mutex
	pair goToken.TokenPair
}

type loadTest struct {
	manager tokenManager
	opts    options
	logger  *zap.Logger
}

type report struct {
	phases         []phaseStats
	raceRounds     int
	raceWinners    int64
	raceViolations int64
}

func (lt *loadTest) Run(ctx context.Context) (report, error) {
	var r report

	states, seed, err := lt.seed(ctx)
	if err != nil {
		return r, err
	}
	r.phases = append(r.phases, seed)
	r.phases = append(r.phases, lt.verifyPhase(ctx, states))
	r.phases = append(r.phases, lt.refreshPhase(ctx, states))

	winners, violations, err := lt.racePhase(ctx)
	if err != nil {
		return r, err
	}
	r.raceRounds = lt.opts.raceRounds
	r.raceWinners = winners
	r.raceViolations = violations
	return r, nil
}

func (lt *loadTest) seed(ctx context.Context) ([]pairState, phaseStats, error) {
	states := make([]pairState, lt.opts.pairs)
	var firstErr error
	var once sync.Once

	stats := lt.parallel(ctx, "issue", lt.opts.pairs, func(_ *rand.Rand, i int) error {
		pair, err := lt.manager.Issue(ctx, int64(i+1))
		if err != nil {
			once.Do(func() { firstErr = err })
			return err
		}
		states[i].pair = pair
		return nil
	})
	if firstErr != nil {
		return nil, stats, fmt.Errorf("seed: %w", firstErr)
	}
	return states, stats, nil
}

func (lt *loadTest) verifyPhase(ctx context.Context, states []pairState) phaseStats {
	return lt.parallel(ctx, "verify", lt.opts.ops, func(r *rand.Rand, _ int) error {
		state := &states[r.Intn(len(states))]
		state.mu.Lock()
		token := state.pair.AccessToken
		state.mu.Unlock()

		_, err := lt.manager.VerifyAccess(ctx, token)
		return err
	})
}

func (lt *loadTest) refreshPhase(ctx context.Context, states []pairState) phaseStats {
	return lt.parallel(ctx, "refresh", lt.opts.ops, func(r *rand.Rand, _ int) error {
		state := &states[r.Intn(len(states))]
		state.mu.Lock()
		defer state.mu.Unlock()

		next, err := lt.manager.Refresh(ctx, state.pair.RefreshToken)
		if err != nil {
			return err
		}
		state.pair = next
		return nil
	})
}

// racePhase refreshes each fresh token from raceWidth goroutines at once. More than
// one winner per token is a violation.
func (lt *loadTest) racePhase(ctx context.Context) (int64, int64, error) {
	var winners, violations int64

	for round := 0; round < lt.opts.raceRounds; round++ {
		if err := ctx.Err(); err != nil {
			return winners, violations, err
		}

		pair, err := lt.manager.Issue(ctx, int64(1_000_000+round))
		if err != nil {
			return winners, violations, fmt.Errorf("race seed: %w", err)
		}

		var (
			wg    sync.WaitGroup
			wins  int64
			start = make(chan struct{})
		)
		for i := 0; i < lt.opts.raceWidth; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if _, err := lt.manager.Refresh(ctx, pair.RefreshToken); err == nil {
					atomic.AddInt64(&wins, 1)
				} else if !errors.Is(err, goToken.ErrInvalidToken) {
					lt.logger.Warn("race refresh failed", zap.Error(err))
				}
			}()
		}
		close(start)
		wg.Wait()

		winners += wins
		if wins > 1 {
			violations++
		}
	}
	return winners, violations, nil
}

func (lt *loadTest) parallel(ctx context.Context, name string, ops int, fn func(r *rand.Rand, i int) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < lt.opts.concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			local := make([]time.Duration, 0, ops/lt.opts.concurrency+1)
			for ctx.Err() == nil {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					break
				}
				t0 := time.Now()
				err := fn(r, i)
				local = append(local, time.Since(t0))
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
			}
			mu.Lock()
			latencies = append(latencies, local...)
			mu.Unlock()
		}(w)
	}
	wg.Wait()

	return computeStats(name, time.Since(start), latencies, failures)
}
