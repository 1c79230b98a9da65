// Package daemon provides the long-running cafflog service: an HTTP API over
// a shared tracker plus a periodic day-boundary check.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/cafflog/internal/model"
	"github.com/theirongolddev/cafflog/internal/tracker"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr          string
	RolloverCheck time.Duration
	EventsBuffer  int
	Metrics       bool
}

// Event types.
const (
	EventSnapshot    = "snapshot"
	EventDrinkLogged = "drink_logged"
	EventGoalChanged = "goal_changed"
	EventUnitChanged = "unit_changed"
	EventRollover    = "rollover"
)

// Event is emitted whenever intake state changes.
type Event struct {
	ID        int64            `json:"id"`
	Type      string           `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Snapshot  model.Snapshot   `json:"snapshot"`
	Entry     *model.EntryView `json:"entry,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt        time.Time `json:"started_at"`
	LastCheckAt      time.Time `json:"last_check_at"`
	CheckIntervalSec int       `json:"check_interval_sec"`
	Rollovers        int64     `json:"rollovers"`
	Date             string    `json:"date"`
	TotalMg          int       `json:"total_mg"`
	OverLimit        bool      `json:"over_limit"`
	EventCount       int       `json:"event_count"`
	SubscriberCount  int       `json:"subscriber_count"`
	MetricsEnabled   bool      `json:"metrics_enabled"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	tracker *tracker.Tracker
	metrics *metrics
	now     func() time.Time

	mu          sync.RWMutex
	startedAt   time.Time
	lastCheckAt time.Time
	rollovers   int64
	rolled      bool
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service over tr.
func New(cfg Config, tr *tracker.Tracker) *Service {
	if cfg.RolloverCheck < time.Second {
		cfg.RolloverCheck = time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}

	s := &Service{
		cfg:       cfg,
		tracker:   tr,
		metrics:   newMetrics(),
		now:       time.Now,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	tr.OnRollover(s.noteRollover)
	s.metrics.observe(tr.Snapshot())
	return s
}

// Run serves HTTP and checks for day rollover until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.publish(EventSnapshot, nil)

	ticker := time.NewTicker(s.cfg.RolloverCheck)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.checkRollover()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// checkRollover runs the day-boundary rule and reports whether a rollover
// event was published.
func (s *Service) checkRollover() bool {
	s.tracker.CheckRollover()

	s.mu.Lock()
	s.lastCheckAt = s.now()
	s.mu.Unlock()

	return s.flushRollover()
}

// noteRollover is the tracker's rollover hook. It runs under the tracker
// lock, so the event itself is left to flushRollover.
func (s *Service) noteRollover(date string) {
	s.mu.Lock()
	s.rollovers++
	s.rolled = true
	s.mu.Unlock()

	s.metrics.rollovers.Inc()
	log.Printf("cafflog daemon: new day, log reset to %s", date)
}

// flushRollover publishes the rollover event if one is pending.
func (s *Service) flushRollover() bool {
	s.mu.Lock()
	rolled := s.rolled
	s.rolled = false
	s.mu.Unlock()

	if rolled {
		s.publish(EventRollover, nil)
	}
	return rolled
}

// publish snapshots the tracker and fans the event out to subscribers.
func (s *Service) publish(typ string, entry *model.EntryView) Event {
	snap := s.tracker.Snapshot()
	s.metrics.observe(snap)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: s.now(),
		Snapshot:  snap,
		Entry:     entry,
	}

	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return ev
}

func (s *Service) status() Status {
	snap := s.tracker.Snapshot()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:        s.startedAt,
		LastCheckAt:      s.lastCheckAt,
		CheckIntervalSec: int(s.cfg.RolloverCheck.Seconds()),
		Rollovers:        s.rollovers,
		Date:             snap.Date,
		TotalMg:          snap.TotalMg,
		OverLimit:        snap.OverLimit,
		EventCount:       len(s.events),
		SubscriberCount:  len(s.subs),
		MetricsEnabled:   s.cfg.Metrics,
	}
}

func (s *Service) recentEvents() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
