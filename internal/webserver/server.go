package webserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/reviewpulse/reviewpulse/internal/events"
	"github.com/reviewpulse/reviewpulse/internal/feedback"
	"github.com/reviewpulse/reviewpulse/internal/store"
)

// Server is the HTTP presentation surface over the feedback service.
type Server struct {
	svc    *feedback.Service
	broker *events.Broker
	log    *zap.Logger
	port   int

	// StaticFS, when set, is served at / (an embedded dashboard build).
	StaticFS fs.FS
}

func New(svc *feedback.Service, broker *events.Broker, log *zap.Logger, port int) *Server {
	return &Server{svc: svc, broker: broker, log: log, port: port}
}

// Handler builds the full route table with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/feedback", s.handleSubmit)
	mux.HandleFunc("GET /api/feedback", s.handleListFeedback)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("POST /api/insights/summary", s.handleGenerateSummary)
	mux.HandleFunc("POST /api/insights/actions", s.handleGenerateActions)
	mux.HandleFunc("GET /api/insights", s.handleListInsights)
	mux.HandleFunc("GET /api/events", s.handleSSE)
	mux.HandleFunc("OPTIONS /api/", s.handlePreflight)

	if s.StaticFS != nil {
		mux.Handle("/", http.FileServer(http.FS(s.StaticFS)))
	}

	return corsMiddleware(mux)
}

// ListenAndServe blocks serving the API.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.log.Info("http server listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Handler())
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// recordResponse is the wire shape of one feedback record.
type recordResponse struct {
	Timestamp       string `json:"timestamp"`
	UserName        string `json:"user_name"`
	Rating          int    `json:"rating"`
	ReviewText      string `json:"review_text"`
	UserLLMResponse string `json:"user_llm_response"`
}

func toResponse(rec store.Record) recordResponse {
	rating, _ := strconv.Atoi(rec.Rating.String)
	return recordResponse{
		Timestamp:       rec.Timestamp.String,
		UserName:        rec.UserName.String,
		Rating:          rating,
		ReviewText:      rec.ReviewText.String,
		UserLLMResponse: rec.UserLLMResponse.String,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserName   string `json:"user_name"`
		Rating     int    `json:"rating"`
		ReviewText string `json:"review_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	rec, err := s.svc.Submit(r.Context(), body.UserName, body.Rating, body.ReviewText)
	if err != nil {
		if errors.Is(err, feedback.ErrEmptyReview) || errors.Is(err, feedback.ErrRatingRange) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Error("submit failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, toResponse(rec))
}

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	records := s.svc.ListNewestFirst()
	out := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toResponse(rec))
	}
	writeJSON(w, out)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.svc.Stats())
}

func (s *Server) handleGenerateSummary(w http.ResponseWriter, r *http.Request) {
	s.generateInsight(w, r, "summary", s.svc.GenerateSummary)
}

func (s *Server) handleGenerateActions(w http.ResponseWriter, r *http.Request) {
	s.generateInsight(w, r, "actions", s.svc.GenerateActions)
}

// generateInsight runs one of the admin generators. A collaborator failure is
// not an HTTP error; the sentinel text comes back as a normal payload.
func (s *Server) generateInsight(w http.ResponseWriter, r *http.Request, kind string, gen func(context.Context) (string, error)) {
	text, err := gen(r.Context())
	if err != nil {
		if errors.Is(err, feedback.ErrNoFeedbackYet) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Error("insight generation failed", zap.String("kind", kind), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"kind": kind, "content": text})
}

func (s *Server) handleListInsights(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	insights, err := s.svc.InsightHistory(kind, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, insights)
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.broker.Subscribe()
	defer s.broker.Unsubscribe(ch)

	// Send initial keepalive
	fmt.Fprintf(w, ": keepalive\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: new-feedback\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
