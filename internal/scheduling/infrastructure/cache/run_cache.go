// Package cache memoizes finished solver runs keyed on the inputs that
// determine their outcome, so a repeated (roster, catalog, algorithm, seed)
// request is served without re-running the solver. Namespacing and the
// get/set shape follow the teacher's Redis-backed StorageAPIImpl
// (internal/orbit/api/storage.go), trimmed to this module's single
// resource kind instead of a generic per-user key/value store.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/services"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Get when no cached run matches the key.
var ErrNotFound = errors.New("no cached run for this input")

// cachedResult is the JSON-serializable projection of services.Result
// stored in Redis (domain.ScheduleState itself is not exported field by
// field, so the assignment is flattened to a plain [][]string).
type cachedResult struct {
	Algorithm  string           `json:"algorithm"`
	Assignment [][]string       `json:"assignment"`
	Penalty    float64          `json:"penalty"`
	Breakdown  domain.Breakdown `json:"breakdown"`
	Converged  bool             `json:"converged"`
	RuntimeMS  int64            `json:"runtime_ms"`
}

// RunCache memoizes solver runs in Redis, namespaced by a content hash of
// the roster and catalog plus the algorithm and seed.
type RunCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRunCache binds a Redis client and a default TTL for cached entries.
func NewRunCache(client *redis.Client, ttl time.Duration) *RunCache {
	return &RunCache{client: client, ttl: ttl}
}

// Key computes the namespaced cache key for a (roster, catalog, algorithm,
// seed) tuple. Hashing is over a pipe-delimited text projection of the
// roster sorted by worker id and of the catalog in slot order, so the order
// of workers in the roster never changes the digest.
func Key(roster *domain.Roster, catalog *domain.Catalog, algorithm domain.Algorithm, seed int64) string {
	rosterHash := hashRoster(roster)
	catalogHash := hashCatalog(catalog)
	return fmt.Sprintf("scheduler:run:%s:%s:%s:%d", rosterHash, catalogHash, algorithm, seed)
}

// Get looks up a cached run. Returns ErrNotFound on a cache miss.
func (c *RunCache) Get(ctx context.Context, key string, env *services.Environment) (services.Result, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return services.Result{}, ErrNotFound
	}
	if err != nil {
		return services.Result{}, err
	}

	var cached cachedResult
	if err := json.Unmarshal(raw, &cached); err != nil {
		return services.Result{}, err
	}

	state := env.NewState()
	for slotIndex, workerIDs := range cached.Assignment {
		for _, id := range workerIDs {
			if err := state.Assign(slotIndex, id); err != nil {
				return services.Result{}, err
			}
		}
	}

	return services.Result{
		Algorithm: domain.Algorithm(cached.Algorithm),
		State:     state,
		Penalty:   cached.Penalty,
		Breakdown: cached.Breakdown,
		Converged: cached.Converged,
		Runtime:   time.Duration(cached.RuntimeMS) * time.Millisecond,
	}, nil
}

// Set stores a finished run under key, overwriting any existing entry.
func (c *RunCache) Set(ctx context.Context, key string, catalogLen int, result services.Result) error {
	assignment := make([][]string, catalogLen)
	for i := 0; i < catalogLen; i++ {
		assignment[i] = append([]string(nil), result.State.Assignees(i)...)
	}

	cached := cachedResult{
		Algorithm:  string(result.Algorithm),
		Assignment: assignment,
		Penalty:    result.Penalty,
		Breakdown:  result.Breakdown,
		Converged:  result.Converged,
		RuntimeMS:  result.Runtime.Milliseconds(),
	}

	payload, err := json.Marshal(cached)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

func hashRoster(roster *domain.Roster) string {
	workers := append([]*domain.Worker(nil), roster.All()...)
	sort.Slice(workers, func(i, j int) bool { return workers[i].ID < workers[j].ID })

	h := sha256.New()
	for _, w := range workers {
		fmt.Fprintf(h, "%s|%d|%t|%t|%d|%t|", w.ID, w.Tier, w.IsCommuter, w.IsActive, w.DesiredHours, w.IsFloater)
		for _, b := range w.BusyIntervals {
			fmt.Fprintf(h, "%s-%d-%d;", b.Date.Format("2006-01-02"), b.StartMinute, b.EndMinute)
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func hashCatalog(catalog *domain.Catalog) string {
	h := sha256.New()
	for _, s := range catalog.Slots() {
		fmt.Fprintf(h, "%s|%d|%d|%s|%d|%d;", s.Date.Format("2006-01-02"), s.StartHour, s.DurationHours, s.ShiftKind, s.StaffMin, s.StaffMax)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
