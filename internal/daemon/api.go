package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/theirongolddev/cafflog/internal/caffeine"
	"github.com/theirongolddev/cafflog/internal/model"
	"github.com/theirongolddev/cafflog/internal/tracker"
	"github.com/theirongolddev/cafflog/internal/units"
)

type logDrinkRequest struct {
	Drink  string  `json:"drink"`
	Volume float64 `json:"volume"`
	Unit   string  `json:"unit,omitempty"`
}

type goalRequest struct {
	Goal json.RawMessage `json:"goal"`
}

type unitRequest struct {
	Unit string `json:"unit"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the chi router with all routes mounted.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.rolloverGuard)
		r.Get("/status", s.handleStatus)
		r.Get("/today", s.handleToday)
		r.Post("/drinks", s.handleLogDrink)
		r.Put("/goal", s.handleSetGoal)
		r.Delete("/goal", s.handleClearGoal)
		r.Put("/unit", s.handleSetUnit)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)
	})

	if s.cfg.Metrics {
		r.Handle("/metrics", s.metrics.handler())
	}

	return r
}

// rolloverGuard applies the day-boundary rule before each API call so the
// rollover event precedes whatever the request changes.
func (s *Service) rolloverGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.tracker.CheckRollover()
		s.flushRollover()
		next.ServeHTTP(w, r)
		s.flushRollover()
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Service) handleToday(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Snapshot())
}

func (s *Service) handleLogDrink(w http.ResponseWriter, r *http.Request) {
	var req logDrinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.rejectedDrinks.Inc()
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	drink, err := caffeine.ParseCategory(req.Drink)
	if err != nil {
		s.metrics.rejectedDrinks.Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}

	unit := s.tracker.Unit()
	if req.Unit != "" {
		if unit, err = units.ParseUnit(req.Unit); err != nil {
			s.metrics.rejectedDrinks.Inc()
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	entry, ok := s.tracker.LogDrink(drink, req.Volume, unit)
	if !ok {
		s.metrics.rejectedDrinks.Inc()
		writeError(w, http.StatusUnprocessableEntity, fmt.Errorf("volume must be greater than 0 and at most %g ml", tracker.MaxVolumeMl))
		return
	}

	s.metrics.drinksLogged.WithLabelValues(string(entry.Drink)).Inc()
	view := model.EntryView{
		ID:         entry.ID,
		Drink:      entry.Drink,
		Size:       units.FormatVolume(entry.VolumeMl, s.tracker.Unit()),
		VolumeMl:   entry.VolumeMl,
		CaffeineMg: entry.CaffeineMg,
		Time:       entry.LoggedAt,
	}
	ev := s.publish(EventDrinkLogged, &view)
	writeJSON(w, http.StatusCreated, ev)
}

func (s *Service) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	s.tracker.SetGoal(rawGoal(req.Goal))
	writeJSON(w, http.StatusOK, s.publish(EventGoalChanged, nil))
}

func (s *Service) handleClearGoal(w http.ResponseWriter, _ *http.Request) {
	s.tracker.SetGoalMg(0)
	writeJSON(w, http.StatusOK, s.publish(EventGoalChanged, nil))
}

func (s *Service) handleSetUnit(w http.ResponseWriter, r *http.Request) {
	var req unitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	u, err := units.ParseUnit(req.Unit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.tracker.SetUnit(u)
	writeJSON(w, http.StatusOK, s.publish(EventUnitChanged, nil))
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.recentEvents())
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current state immediately.
	writeSSE(w, Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.tracker.Snapshot(),
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

// rawGoal turns a JSON goal value (number, string or null) into the text
// form accepted by Tracker.SetGoal.
func rawGoal(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
