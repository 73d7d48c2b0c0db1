package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/extrato/internal/common"
	"github.com/bobmcallan/extrato/internal/models"
	"github.com/bobmcallan/extrato/internal/services/insight"
)

const maxUploadBytes = 32 << 20 // 32MB

// --- Statement session handlers ---

func (s *Server) handleStatementUpload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid multipart form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "A PDF file is required in the 'file' field")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		WriteError(w, http.StatusBadRequest, "Only PDF statements are supported")
		return
	}

	tmp, err := os.CreateTemp("", "extrato-*.pdf")
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Could not store upload")
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		WriteError(w, http.StatusInternalServerError, "Could not store upload")
		return
	}
	tmp.Close()

	stmt, err := s.app.StatementService.LoadStatement(r.Context(), tmpPath)
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Could not parse statement: %v", err))
		return
	}
	// The service saw only the temp path; show the uploaded name instead.
	stmt.FileName = header.Filename

	now := time.Now().UTC()
	from, to := stmt.FetchWindow(now)

	sess := &session{
		ID:        uuid.New().String(),
		Statement: stmt,
		Provider:  s.app.BenchmarkService.NewSessionCache(from, to),
		CreatedAt: now,
	}
	s.sessions.add(sess)

	s.logger.Info().
		Str("session", sess.ID).
		Str("file", header.Filename).
		Int("rows", len(stmt.Rows)).
		Bool("partial", stmt.Partial.IsPartial).
		Msg("Statement loaded")

	WriteJSON(w, http.StatusCreated, s.statementSummary(sess))
}

func (s *Server) handleStatementSession(w http.ResponseWriter, r *http.Request, sess *session) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodDelete) {
		return
	}

	if r.Method == http.MethodDelete {
		s.sessions.remove(sess.ID)
		WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
		return
	}

	WriteJSON(w, http.StatusOK, s.statementSummary(sess))
}

// statementSummary builds the upload/summary response for a session.
func (s *Server) statementSummary(sess *session) models.StatementSummary {
	stmt := sess.Statement
	summary := models.StatementSummary{
		SessionID:     sess.ID,
		FileName:      stmt.FileName,
		RowCount:      len(stmt.Rows),
		MonthCount:    len(stmt.Monthly),
		HasSponsor:    stmt.HasSponsor,
		Partial:       stmt.Partial,
		Balance:       stmt.Balance,
		Benchmarks:    s.app.BenchmarkService.Catalog(),
		Summary:       s.app.ReportService.Summary(stmt),
		UploadedAtUTC: sess.CreatedAt,
	}
	if len(stmt.Monthly) > 0 {
		summary.FirstMonth = stmt.Monthly[0].Date
		summary.LastMonth = stmt.Monthly[len(stmt.Monthly)-1].Date
	}
	return summary
}

func (s *Server) handleStatementStats(w http.ResponseWriter, r *http.Request, sess *session) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	options, ok := s.analysisOptions(w, r)
	if !ok {
		return
	}

	stats, err := s.app.ReportService.Stats(r.Context(), sess.Statement, sess.Provider, options)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error computing statistics: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

func (s *Server) handleStatementComparison(w http.ResponseWriter, r *http.Request, sess *session) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	options, ok := s.analysisOptions(w, r)
	if !ok {
		return
	}

	comparisons, err := s.app.ReportService.Comparison(r.Context(), sess.Statement, sess.Provider, options)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error computing comparison: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"comparisons": comparisons,
	})
}

func (s *Server) handleStatementPositionsTable(w http.ResponseWriter, r *http.Request, sess *session) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	options, ok := s.analysisOptions(w, r)
	if !ok {
		return
	}

	table := s.app.ReportService.MonthlyTable(r.Context(), sess.Statement, sess.Provider, options)
	WriteJSON(w, http.StatusOK, table)
}

func (s *Server) handleStatementContributionsTable(w http.ResponseWriter, r *http.Request, sess *session) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	options, ok := s.analysisOptions(w, r)
	if !ok {
		return
	}

	table := s.app.ReportService.ContributionsTable(r.Context(), sess.Statement, sess.Provider, options)
	WriteJSON(w, http.StatusOK, table)
}

func (s *Server) handleStatementPositionsCSV(w http.ResponseWriter, r *http.Request, sess *session) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	options, ok := s.analysisOptions(w, r)
	if !ok {
		return
	}

	table := s.app.ReportService.MonthlyTable(r.Context(), sess.Statement, sess.Provider, options)
	data, err := s.app.ReportService.ExportCSV(table)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error exporting CSV: %v", err))
		return
	}

	writeCSV(w, "nucleos_posicao.csv", data)
}

func (s *Server) handleStatementContributionsCSV(w http.ResponseWriter, r *http.Request, sess *session) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	options, ok := s.analysisOptions(w, r)
	if !ok {
		return
	}

	table := s.app.ReportService.ContributionsTable(r.Context(), sess.Statement, sess.Provider, options)
	data, err := s.app.ReportService.ExportCSV(table)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error exporting CSV: %v", err))
		return
	}

	writeCSV(w, "nucleos_contribuicoes.csv", data)
}

func writeCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleStatementPositionChart(w http.ResponseWriter, r *http.Request, sess *session) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	options, ok := s.analysisOptions(w, r)
	if !ok {
		return
	}

	png, err := s.app.ReportService.RenderPositionChart(r.Context(), sess.Statement, sess.Provider, options)
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Cannot render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (s *Server) handleStatementContributionsChart(w http.ResponseWriter, r *http.Request, sess *session) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	options, ok := s.analysisOptions(w, r)
	if !ok {
		return
	}

	png, err := s.app.ReportService.RenderContributionsChart(r.Context(), sess.Statement, sess.Provider, options)
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Cannot render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (s *Server) handleStatementInsight(w http.ResponseWriter, r *http.Request, sess *session) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	options, ok := s.analysisOptions(w, r)
	if !ok {
		return
	}

	stats, err := s.app.ReportService.Stats(r.Context(), sess.Statement, sess.Provider, options)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error computing statistics: %v", err))
		return
	}

	comparisons, err := s.app.ReportService.Comparison(r.Context(), sess.Statement, sess.Provider, options)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error computing comparison: %v", err))
		return
	}

	text, err := s.app.InsightService.GenerateInsight(r.Context(), sess.Statement, stats, comparisons)
	if err != nil {
		if errors.Is(err, insight.ErrNotConfigured) {
			WriteError(w, http.StatusServiceUnavailable, "AI insight is not configured")
			return
		}
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error generating insight: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"insight":      text,
		"generated_at": time.Now().UTC(),
	})
}

// --- Benchmark handlers ---

func (s *Server) handleBenchmarks(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"benchmarks": s.app.BenchmarkService.Catalog(),
	})
}

// --- Query parameter parsing ---

// analysisOptions reads the view toggles from query parameters, falling back
// to configured defaults. Writes a 400 and returns false on invalid input.
func (s *Server) analysisOptions(w http.ResponseWriter, r *http.Request) (models.AnalysisOptions, bool) {
	q := r.URL.Query()
	cfg := s.app.Config.Analysis

	options := models.AnalysisOptions{
		DeflationIndex: cfg.DeflationIndex,
		CompanyAsMine:  cfg.CompanyAsMine,
	}

	start, err := common.ParseMonthOrDate(q.Get("start"), false)
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid start: %v", err))
		return options, false
	}
	options.StartDate = start

	end, err := common.ParseMonthOrDate(q.Get("end"), true)
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid end: %v", err))
		return options, false
	}
	options.EndDate = end

	if start != nil && end != nil && start.After(*end) {
		WriteError(w, http.StatusBadRequest, "start is after end")
		return options, false
	}

	options.Benchmark = strings.TrimSpace(q.Get("benchmark"))

	if v := q.Get("overhead"); v != "" {
		overhead, err := strconv.ParseFloat(v, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid overhead: %q", v))
			return options, false
		}
		if overhead < 0 {
			WriteError(w, http.StatusBadRequest, "overhead must be >= 0")
			return options, false
		}
		options.OverheadPct = overhead
	}

	options.Deflate = parseBoolParam(q.Get("deflate"))
	if idx := strings.TrimSpace(q.Get("index")); idx != "" {
		options.DeflationIndex = strings.ToUpper(idx)
	}

	if ref := q.Get("reference"); ref != "" {
		reference, err := common.ParseMonthOrDate(ref, false)
		if err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid reference: %v", err))
			return options, false
		}
		options.ReferenceMonth = reference
	}

	if v := q.Get("company_as_mine"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			options.CompanyAsMine = b
		}
	}

	options.LogScale = parseBoolParam(q.Get("log_scale"))

	return options, true
}

func parseBoolParam(value string) bool {
	if value == "" {
		return false
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return b
}
