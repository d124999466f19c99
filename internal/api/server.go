package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/creditrust/complaints-rag/internal/rag"
	"github.com/creditrust/complaints-rag/internal/storage"
)

// Asker answers a question over the complaint index. Implemented by
// rag.Pipeline.
type Asker interface {
	AnswerQuestion(ctx context.Context, question string, filters storage.Filters) (*rag.AnswerResult, error)
}

// HealthChecker reports vector index connectivity. Implemented by
// storage.Store.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server holds the long-lived handles shared by all request handlers.
type Server struct {
	pipeline Asker
	health   HealthChecker
	logger   *slog.Logger
}

// NewServer creates an API server around the pipeline and health dependency.
func NewServer(pipeline Asker, health HealthChecker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		pipeline: pipeline,
		health:   health,
		logger:   logger,
	}
}

// Routes returns the HTTP handler with all endpoints mounted and CORS
// applied. Extra handlers (e.g. the MCP transport) may be mounted on mux
// before serving.
func (s *Server) Routes(mux *http.ServeMux) http.Handler {
	if mux == nil {
		mux = http.NewServeMux()
	}
	mux.HandleFunc("/ask", s.handleAsk)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleRoot)
	return withCORS(mux)
}

// handleAsk validates the request and runs one pipeline transaction.
// A missing question field is rejected before any retrieval work begins;
// an empty question string is valid.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Question == nil {
		writeError(w, http.StatusBadRequest, "question field is required")
		return
	}

	var filters storage.Filters
	if req.Filters != nil {
		filters = storage.Filters{
			Product: req.Filters.Product,
			Company: req.Filters.Company,
		}
	}

	result, err := s.pipeline.AnswerQuestion(r.Context(), *req.Question, filters)
	if err != nil {
		s.logger.Error("Pipeline failed", "question", *req.Question, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleHealth checks Qdrant connectivity and reports 503 when it is down.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := HealthResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.health.Health(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Qdrant = "disconnected"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	resp.Status = "healthy"
	resp.Qdrant = "connected"
	writeJSON(w, http.StatusOK, resp)
}

// handleRoot reports process-up status.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "ok",
		Message: "Complaint RAG API is running",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}
