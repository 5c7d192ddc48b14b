package dashboard

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"rfm-dash/internal/analytics"
	"rfm-dash/internal/ingest"
	"rfm-dash/internal/store"
)

// Server exposes the dashboard view-model over localhost HTTP. All state lives
// in the store; handlers only translate between HTTP and store calls.
type Server struct {
	store       *store.Store
	snapshotDir string
}

// NewServer creates a dashboard server backed by st. When snapshotDir is
// non-empty, every successful mutation is persisted there.
func NewServer(st *store.Store, snapshotDir string) *Server {
	return &Server{store: st, snapshotDir: snapshotDir}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /api/dataset", s.handleGetDataset)
	mux.HandleFunc("GET /api/dataset/filtered", s.handleGetFiltered)
	mux.HandleFunc("DELETE /api/dataset", s.handleClear)
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("GET /api/timerange", s.handleGetTimeRange)
	mux.HandleFunc("PUT /api/timerange", s.handleSetTimeRange)
	mux.HandleFunc("GET /api/export", s.handleExport)
	return logRequests(mux)
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>rfm-dash</title></head>
<body>
<h1>rfm-dash</h1>
<ul>
<li><a href="/api/dataset">/api/dataset</a> &mdash; full view-model</li>
<li><a href="/api/dataset/filtered">/api/dataset/filtered</a> &mdash; time-range filtered view</li>
<li><a href="/api/timerange">/api/timerange</a> &mdash; selected range (PUT to change)</li>
<li><a href="/api/export">/api/export</a> &mdash; CSV re-export</li>
</ul>
<p>POST a CSV body to /api/upload to load a dataset.</p>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, indexPage)
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	data := s.store.GetData()
	if data == nil {
		writeError(w, http.StatusNotFound, "no dataset loaded")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleGetFiltered(w http.ResponseWriter, r *http.Request) {
	data := s.store.GetFilteredData()
	if data == nil {
		writeError(w, http.StatusNotFound, "no dataset loaded")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.store.ClearData()
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

// handleUpload ingests a raw CSV body. A failed upload leaves any previously
// loaded dataset untouched.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable upload: "+err.Error())
		return
	}

	referenceNow := s.store.ReferenceNow()
	records := ingest.Parse(string(body), referenceNow)
	if len(records) == 0 {
		writeError(w, http.StatusUnprocessableEntity, ingest.ErrNoUsableData.Error())
		return
	}

	cleaned := ingest.Clean(records, referenceNow)
	dataset := analytics.Process(cleaned.Records, referenceNow)
	s.store.SetData(dataset)
	s.persist()

	writeJSON(w, http.StatusOK, dataset.Metrics)
}

func (s *Server) handleGetTimeRange(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"range": s.store.TimeRange()})
}

func (s *Server) handleSetTimeRange(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Range string `json:"range"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Range == "" {
		writeError(w, http.StatusBadRequest, "expected body {\"range\": \"24h|7d|30d|90d\"}")
		return
	}
	s.store.SetTimeRange(req.Range)
	s.persist()
	writeJSON(w, http.StatusOK, map[string]string{"range": s.store.TimeRange()})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data := s.store.GetData()
	if data == nil {
		writeError(w, http.StatusNotFound, "no dataset loaded")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="analytics-results.csv"`)
	_, _ = io.WriteString(w, ingest.Export(data.Transactions))
}

func (s *Server) persist() {
	if s.snapshotDir == "" {
		return
	}
	if err := s.store.SaveSnapshot(s.snapshotDir); err != nil {
		log.Warn().Err(err).Msg("Failed to persist snapshot after mutation")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("Request handled")
	})
}
