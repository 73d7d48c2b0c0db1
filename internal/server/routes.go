package server

import (
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/bobmcallan/extrato/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/diagnostics", s.handleDiagnostics)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)
	mux.HandleFunc("/debug/memstats", s.handleMemstats)

	// Benchmark catalog
	mux.HandleFunc("/api/benchmarks", s.handleBenchmarks)

	// Statement sessions
	mux.HandleFunc("/api/statements/", s.routeStatements)
	mux.HandleFunc("/api/statements", s.handleStatementUpload)
}

// routeStatements dispatches /api/statements/{id}/* to the appropriate handler.
func (s *Server) routeStatements(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/statements/")
	if path == "" {
		s.handleStatementUpload(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	subpath := ""
	if len(parts) > 1 {
		subpath = parts[1]
	}

	sess, ok := s.sessions.get(id)
	if !ok {
		WriteError(w, http.StatusNotFound, "Session not found")
		return
	}

	switch subpath {
	case "":
		s.handleStatementSession(w, r, sess)
	case "stats":
		s.handleStatementStats(w, r, sess)
	case "comparison":
		s.handleStatementComparison(w, r, sess)
	case "tables/positions":
		s.handleStatementPositionsTable(w, r, sess)
	case "tables/contributions":
		s.handleStatementContributionsTable(w, r, sess)
	case "export/positions.csv":
		s.handleStatementPositionsCSV(w, r, sess)
	case "export/contributions.csv":
		s.handleStatementContributionsCSV(w, r, sess)
	case "charts/position.png":
		s.handleStatementPositionChart(w, r, sess)
	case "charts/contributions.png":
		s.handleStatementContributionsChart(w, r, sess)
	case "insight":
		s.handleStatementInsight(w, r, sess)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":       cfg.Environment,
		"logging_level":     cfg.Logging.Level,
		"default_benchmark": cfg.Analysis.DefaultBenchmark,
		"overhead_options":  cfg.Analysis.OverheadOptions,
		"deflation_index":   cfg.Analysis.DeflationIndex,
		"company_as_mine":   cfg.Analysis.CompanyAsMine,
		"fetch_buffer_days": cfg.Analysis.FetchBufferDays,
		"gemini_configured": s.app.GeminiClient != nil,
		"sessions":          s.sessions.count(),
	})
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uptime := time.Since(s.app.StartupTime).Round(time.Second)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"commit":     common.GetGitCommit(),
		"uptime":     uptime.String(),
		"started_at": s.app.StartupTime,
		"sessions":   s.sessions.count(),
	})
}

func (s *Server) handleMemstats(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"heap_alloc_bytes": m.HeapAlloc,
		"heap_inuse_bytes": m.HeapInuse,
		"heap_idle_bytes":  m.HeapIdle,
		"sys_bytes":        m.Sys,
		"num_gc":           m.NumGC,
		"heap_alloc_mb":    float64(m.HeapAlloc) / 1024 / 1024,
		"heap_inuse_mb":    float64(m.HeapInuse) / 1024 / 1024,
		"heap_idle_mb":     float64(m.HeapIdle) / 1024 / 1024,
		"sys_mb":           float64(m.Sys) / 1024 / 1024,
	})
}
