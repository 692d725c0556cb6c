// Package loader reads worker roster records from JSON, either from a local
// file or from an HTTP endpoint guarded by a circuit breaker (grounded on
// orbita's internal/engine/runtime.Executor breaker/timeout pairing, the
// only other place in the corpus wraps a call that can fail repeatedly).
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	"github.com/sony/gobreaker/v2"
)

// workerRecord is the on-disk/wire JSON shape of one roster entry.
type workerRecord struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Tier         int                `json:"tier"`
	IsCommuter   bool               `json:"is_commuter"`
	IsActive     bool               `json:"is_active"`
	DesiredHours int                `json:"desired_hours"`
	IsFloater    bool               `json:"is_floater"`
	Busy         []busyIntervalJSON `json:"busy_intervals"`
}

type busyIntervalJSON struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func toWorkers(records []workerRecord) ([]*domain.Worker, error) {
	workers := make([]*domain.Worker, 0, len(records))
	for _, rec := range records {
		busy := make([]domain.BusyInterval, 0, len(rec.Busy))
		for _, b := range rec.Busy {
			date, err := time.Parse("2006-01-02", b.Date)
			if err != nil {
				return nil, fmt.Errorf("worker %s: invalid busy date %q: %w", rec.ID, b.Date, err)
			}
			start, err := domain.HHMMToMinutes(b.Start)
			if err != nil {
				return nil, fmt.Errorf("worker %s: invalid busy start %q: %w", rec.ID, b.Start, err)
			}
			end, err := domain.HHMMToMinutes(b.End)
			if err != nil {
				return nil, fmt.Errorf("worker %s: invalid busy end %q: %w", rec.ID, b.End, err)
			}
			busy = append(busy, domain.BusyInterval{Date: date, StartMinute: start, EndMinute: end})
		}

		w, err := domain.NewWorker(rec.ID, rec.Name, rec.Email, domain.Tier(rec.Tier), rec.IsCommuter, rec.IsActive, rec.DesiredHours, busy)
		if err != nil {
			return nil, fmt.Errorf("worker %s: %w", rec.ID, err)
		}
		w.IsFloater = rec.IsFloater
		workers = append(workers, w)
	}
	return workers, nil
}

// RosterLoader reads a worker roster from wherever it is kept, local file
// or remote endpoint alike.
type RosterLoader interface {
	Load(ctx context.Context) (*domain.Roster, error)
}

// FileLoader reads a roster from a local JSON file.
type FileLoader struct {
	Path string
}

// NewFileLoader binds a FileLoader to path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

// Load reads and parses the roster file into a Roster.
func (l *FileLoader) Load(ctx context.Context) (*domain.Roster, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("reading roster file: %w", err)
	}
	return parseRoster(data)
}

// HTTPLoader fetches a roster from a remote JSON endpoint, guarded by a
// circuit breaker since a remote roster service is the one I/O boundary
// this application depends on outside its own datastore.
type HTTPLoader struct {
	URL     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewHTTPLoader binds an HTTPLoader to url with a default breaker
// configuration (3 consecutive failures trips the breaker for 30s).
func NewHTTPLoader(url string) *HTTPLoader {
	settings := gobreaker.Settings{
		Name:        "roster-loader",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &HTTPLoader{
		URL:     url,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// Load fetches and parses the roster over HTTP.
func (l *HTTPLoader) Load(ctx context.Context) (*domain.Roster, error) {
	data, err := l.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("roster loader: unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}

	return parseRoster(data)
}

func parseRoster(data []byte) (*domain.Roster, error) {
	var records []workerRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing roster JSON: %w", err)
	}

	workers, err := toWorkers(records)
	if err != nil {
		return nil, err
	}

	return domain.NewRoster(workers)
}
