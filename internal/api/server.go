package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pbaille/moodlog/internal/classifier"
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/kv"
	"github.com/pbaille/moodlog/internal/locale"
	"github.com/pbaille/moodlog/internal/logging"
	"github.com/pbaille/moodlog/internal/store"
	"github.com/pbaille/moodlog/internal/theme"
	"github.com/pbaille/moodlog/internal/trend"
)

// Server exposes the local diary over HTTP
type Server struct {
	store      *store.Store
	prefs      kv.Blob
	classifier *classifier.Classifier
	trend      *trend.Aggregator
	format     locale.Formatter
	addr       string
	log        *logging.Logger
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the request logger
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithClassifier replaces the default Russian classifier
func WithClassifier(c *classifier.Classifier) Option {
	return func(s *Server) { s.classifier = c }
}

// New creates a new API server. prefs holds the theme flag and is
// usually the blob backing st.
func New(st *store.Store, prefs kv.Blob, agg *trend.Aggregator, format locale.Formatter, addr string, opts ...Option) *Server {
	s := &Server{
		store:      st,
		prefs:      prefs,
		classifier: classifier.Default(),
		trend:      agg,
		format:     format,
		addr:       addr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler, CORS included
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /analyze", s.analyze)

	// Entries
	mux.HandleFunc("GET /entries", s.listEntries)
	mux.HandleFunc("POST /entries", s.addEntry)
	mux.HandleFunc("GET /entries/{id}", s.getEntry)
	mux.HandleFunc("DELETE /entries/{id}", s.deleteEntry)

	mux.HandleFunc("GET /trend", s.getTrend)

	mux.HandleFunc("GET /theme", s.getTheme)
	mux.HandleFunc("PUT /theme", s.putTheme)

	// Health check
	mux.HandleFunc("GET /health", s.health)

	return withCORS(mux)
}

// Run serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Infof("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// EntryView is an entry with its display fields
type EntryView struct {
	domain.Entry
	Label string `json:"label"`
	Emoji string `json:"emoji"`
	Date  string `json:"date"`
}

func (s *Server) view(e domain.Entry) EntryView {
	return EntryView{
		Entry: e,
		Label: e.Emotion.Label(),
		Emoji: e.Emotion.Emoji(),
		Date:  s.format.DateTime(e.Timestamp),
	}
}

// TextRequest is the request body for analyzing text
type TextRequest struct {
	Text string `json:"text"`
}

// AnalysisResponse is a classification that has not been saved
type AnalysisResponse struct {
	Text    string         `json:"text"`
	Emotion domain.Emotion `json:"emotion"`
	Advice  string         `json:"advice"`
	Label   string         `json:"label"`
	Emoji   string         `json:"emoji"`
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	res := s.classifier.Classify(req.Text)
	writeJSON(w, http.StatusOK, AnalysisResponse{
		Text:    req.Text,
		Emotion: res.Emotion,
		Advice:  res.Advice,
		Label:   res.Emotion.Label(),
		Emoji:   res.Emotion.Emoji(),
	})
}

// AddEntryRequest is the request body for adding an entry. Without an
// emotion the text is classified first.
type AddEntryRequest struct {
	Text    string         `json:"text"`
	Emotion domain.Emotion `json:"emotion,omitempty"`
	Advice  string         `json:"advice,omitempty"`
}

func (s *Server) addEntry(w http.ResponseWriter, r *http.Request) {
	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	if req.Emotion == "" {
		res := s.classifier.Classify(req.Text)
		req.Emotion, req.Advice = res.Emotion, res.Advice
	}

	entry, err := s.store.Append(req.Text, req.Emotion, req.Advice)
	if errors.Is(err, store.ErrInconsistentAdvice) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.log.Errorf("add entry: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, s.view(*entry))
}

// findEntry resolves the {id} path value, writing the error response itself
func (s *Server) findEntry(w http.ResponseWriter, r *http.Request) (*domain.Entry, bool) {
	entry, err := s.store.Find(r.PathValue("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "entry not found")
		return nil, false
	case errors.Is(err, store.ErrAmbiguousID):
		writeError(w, http.StatusConflict, err.Error())
		return nil, false
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return entry, true
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.findEntry(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.view(*entry))
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.findEntry(w, r)
	if !ok {
		return
	}

	if _, err := s.store.Delete(entry.ID); err != nil {
		s.log.Errorf("delete entry: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	limit := -1
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := s.store.Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	views := make([]EntryView, len(entries))
	for i, e := range entries {
		views[i] = s.view(e)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": views,
		"count":   len(views),
	})
}

func (s *Server) getTrend(w http.ResponseWriter, r *http.Request) {
	points, err := s.trend.Series(s.store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if points == nil {
		points = []trend.Point{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"points": points,
		"window": s.trend.Window(),
	})
}

// ThemeBody is the request and response body of /theme
type ThemeBody struct {
	Theme theme.Mode `json:"theme"`
}

func (s *Server) getTheme(w http.ResponseWriter, r *http.Request) {
	mode, err := theme.Get(s.prefs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ThemeBody{Theme: mode})
}

func (s *Server) putTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	mode, err := theme.Parse(string(req.Theme))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := theme.Set(s.prefs, mode); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ThemeBody{Theme: mode})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
