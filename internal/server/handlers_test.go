package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/extrato/internal/app"
	"github.com/bobmcallan/extrato/internal/common"
	"github.com/bobmcallan/extrato/internal/interfaces"
	"github.com/bobmcallan/extrato/internal/models"
	"github.com/bobmcallan/extrato/internal/services/insight"
)

// mockStatementService implements interfaces.StatementService for testing.
type mockStatementService struct {
	loadStatement func(ctx context.Context, path string) (*models.Statement, error)
}

func (m *mockStatementService) LoadStatement(ctx context.Context, path string) (*models.Statement, error) {
	if m.loadStatement != nil {
		return m.loadStatement(ctx, path)
	}
	return testStatement(), nil
}

// stubProvider implements interfaces.SeriesProvider with a fixed miss.
type stubProvider struct{}

func (stubProvider) Get(ctx context.Context, name string) (models.ValueSeries, bool) {
	return models.ValueSeries{}, false
}

// mockBenchmarkService implements interfaces.BenchmarkService for testing.
type mockBenchmarkService struct{}

func (m *mockBenchmarkService) Catalog() []models.BenchmarkSpec {
	return []models.BenchmarkSpec{
		{Name: "CDI", Label: "CDI"},
		{Name: "IPCA", Label: "IPCA"},
	}
}

func (m *mockBenchmarkService) Fetch(ctx context.Context, name string, from, to time.Time) (models.ValueSeries, error) {
	return models.ValueSeries{}, errors.New("not available in tests")
}

func (m *mockBenchmarkService) NewSessionCache(from, to time.Time) interfaces.SeriesProvider {
	return stubProvider{}
}

// mockReportService implements interfaces.ReportService for testing.
type mockReportService struct {
	stats      func(ctx context.Context, statement *models.Statement, provider interfaces.SeriesProvider, options models.AnalysisOptions) (*models.AccountStats, error)
	comparison func(ctx context.Context, statement *models.Statement, provider interfaces.SeriesProvider, options models.AnalysisOptions) ([]models.BenchmarkComparison, error)
	chart      func(ctx context.Context, statement *models.Statement, provider interfaces.SeriesProvider, options models.AnalysisOptions) ([]byte, error)

	lastOptions *models.AnalysisOptions
}

func (m *mockReportService) Summary(statement *models.Statement) models.SummaryStats {
	return models.SummaryStats{
		LastPosition:     3300,
		TotalContributed: 3000,
		TotalReturn:      300,
	}
}

func (m *mockReportService) Stats(ctx context.Context, statement *models.Statement, provider interfaces.SeriesProvider, options models.AnalysisOptions) (*models.AccountStats, error) {
	m.lastOptions = &options
	if m.stats != nil {
		return m.stats(ctx, statement, provider, options)
	}
	return &models.AccountStats{PositionText: "R$ 3.300,00"}, nil
}

func (m *mockReportService) Comparison(ctx context.Context, statement *models.Statement, provider interfaces.SeriesProvider, options models.AnalysisOptions) ([]models.BenchmarkComparison, error) {
	m.lastOptions = &options
	if m.comparison != nil {
		return m.comparison(ctx, statement, provider, options)
	}
	return []models.BenchmarkComparison{{Name: "CDI", Label: "CDI", Available: false}}, nil
}

func (m *mockReportService) MonthlyTable(ctx context.Context, statement *models.Statement, provider interfaces.SeriesProvider, options models.AnalysisOptions) models.Table {
	m.lastOptions = &options
	return models.Table{
		Columns: []string{"Mês", "Posição"},
		Rows:    [][]string{{"01/2024", "R$ 1.000,00"}},
	}
}

func (m *mockReportService) ContributionsTable(ctx context.Context, statement *models.Statement, provider interfaces.SeriesProvider, options models.AnalysisOptions) models.Table {
	m.lastOptions = &options
	return models.Table{
		Columns: []string{"Mês", "Aporte"},
		Rows:    [][]string{{"01/2024", "R$ 1.000,00"}},
	}
}

func (m *mockReportService) ExportCSV(table models.Table) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(table.Columns, ","))
	buf.WriteString("\n")
	for _, row := range table.Rows {
		buf.WriteString(strings.Join(row, ","))
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

func (m *mockReportService) RenderPositionChart(ctx context.Context, statement *models.Statement, provider interfaces.SeriesProvider, options models.AnalysisOptions) ([]byte, error) {
	m.lastOptions = &options
	if m.chart != nil {
		return m.chart(ctx, statement, provider, options)
	}
	return []byte("PNG"), nil
}

func (m *mockReportService) RenderContributionsChart(ctx context.Context, statement *models.Statement, provider interfaces.SeriesProvider, options models.AnalysisOptions) ([]byte, error) {
	m.lastOptions = &options
	if m.chart != nil {
		return m.chart(ctx, statement, provider, options)
	}
	return []byte("PNG"), nil
}

// mockInsightService implements interfaces.InsightService for testing.
type mockInsightService struct {
	generateInsight func(ctx context.Context, statement *models.Statement, stats *models.AccountStats, comparisons []models.BenchmarkComparison) (string, error)
}

func (m *mockInsightService) GenerateInsight(ctx context.Context, statement *models.Statement, stats *models.AccountStats, comparisons []models.BenchmarkComparison) (string, error) {
	if m.generateInsight != nil {
		return m.generateInsight(ctx, statement, stats, comparisons)
	}
	return "", insight.ErrNotConfigured
}

func testStatement() *models.Statement {
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	contributions := []models.Contribution{
		{Date: jan, TotalAmount: 1000, ParticipantAmount: 500, SponsorAmount: 500},
		{Date: feb, TotalAmount: 1000, ParticipantAmount: 500, SponsorAmount: 500},
	}
	return &models.Statement{
		FileName:      "extrato.pdf",
		Rows:          make([]models.TransactionRow, 4),
		Contributions: contributions,
		Monthly:       models.MonthlyFromContributions(contributions),
		Positions: []models.PositionPoint{
			{Date: models.EndOfMonth(jan), CumulativeUnits: 100, UnitValue: 10, PositionValue: 1000},
			{Date: models.EndOfMonth(feb), CumulativeUnits: 200, UnitValue: 10.5, PositionValue: 2100},
		},
		HasSponsor: true,
	}
}

func newTestServer(report interfaces.ReportService) *Server {
	return newTestServerWithInsight(report, &mockInsightService{})
}

func newTestServerWithInsight(report interfaces.ReportService, insightSvc interfaces.InsightService) *Server {
	logger := common.NewLoggerFromConfig(common.LoggingConfig{Level: "disabled"})
	a := &app.App{
		Config:           common.NewDefaultConfig(),
		Logger:           logger,
		StatementService: &mockStatementService{},
		BenchmarkService: &mockBenchmarkService{},
		ReportService:    report,
		InsightService:   insightSvc,
	}
	mux := http.NewServeMux()
	s := &Server{app: a, logger: logger, sessions: newSessionStore()}
	s.registerRoutes(mux)
	s.server = &http.Server{Handler: mux}
	return s
}

func addTestSession(srv *Server) *session {
	sess := &session{
		ID:        "sess-1",
		Statement: testStatement(),
		Provider:  stubProvider{},
		CreatedAt: time.Now().UTC(),
	}
	srv.sessions.add(sess)
	return sess
}

func multipartPDF(t *testing.T, field, filename string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to build form: %v", err)
	}
	part.Write([]byte("%PDF-1.4 fake"))
	w.Close()
	return &buf, w.FormDataContentType()
}

// --- Upload tests ---

func TestHandleStatementUpload_CreatesSession(t *testing.T) {
	srv := newTestServer(&mockReportService{})

	body, contentType := multipartPDF(t, "file", "meu_extrato.pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/statements", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.handleStatementUpload(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var got models.StatementSummary
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.SessionID == "" {
		t.Error("expected a session id")
	}
	if got.FileName != "meu_extrato.pdf" {
		t.Errorf("expected uploaded file name, got %q", got.FileName)
	}
	if got.RowCount != 4 {
		t.Errorf("expected 4 rows, got %d", got.RowCount)
	}
	if got.MonthCount != 2 {
		t.Errorf("expected 2 months, got %d", got.MonthCount)
	}
	if len(got.Benchmarks) != 2 {
		t.Errorf("expected benchmark catalog in response, got %d entries", len(got.Benchmarks))
	}
	if srv.sessions.count() != 1 {
		t.Errorf("expected 1 stored session, got %d", srv.sessions.count())
	}
}

func TestHandleStatementUpload_RejectsNonPDF(t *testing.T) {
	srv := newTestServer(&mockReportService{})

	body, contentType := multipartPDF(t, "file", "extrato.csv")
	req := httptest.NewRequest(http.MethodPost, "/api/statements", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.handleStatementUpload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if srv.sessions.count() != 0 {
		t.Errorf("expected no stored session, got %d", srv.sessions.count())
	}
}

func TestHandleStatementUpload_MissingFileField(t *testing.T) {
	srv := newTestServer(&mockReportService{})

	body, contentType := multipartPDF(t, "document", "extrato.pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/statements", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.handleStatementUpload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandleStatementUpload_ParseFailure(t *testing.T) {
	srv := newTestServer(&mockReportService{})
	srv.app.StatementService = &mockStatementService{
		loadStatement: func(ctx context.Context, path string) (*models.Statement, error) {
			return nil, errors.New("no transaction rows found")
		},
	}

	body, contentType := multipartPDF(t, "file", "vazio.pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/statements", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.handleStatementUpload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if !strings.Contains(resp.Error, "no transaction rows found") {
		t.Errorf("expected parse error detail, got %q", resp.Error)
	}
}

func TestHandleStatementUpload_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(&mockReportService{})

	req := httptest.NewRequest(http.MethodGet, "/api/statements", nil)
	rec := httptest.NewRecorder()
	srv.handleStatementUpload(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

// --- Session routing tests ---

func TestRouteStatements_UnknownSession(t *testing.T) {
	srv := newTestServer(&mockReportService{})

	req := httptest.NewRequest(http.MethodGet, "/api/statements/nope/stats", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestRouteStatements_UnknownSubpath(t *testing.T) {
	srv := newTestServer(&mockReportService{})
	addTestSession(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/sess-1/nonsense", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleStatementSession_GetAndDelete(t *testing.T) {
	srv := newTestServer(&mockReportService{})
	addTestSession(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/sess-1", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got models.StatementSummary
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.SessionID != "sess-1" {
		t.Errorf("expected session id 'sess-1', got %q", got.SessionID)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/statements/sess-1", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 on delete, got %d", rec.Code)
	}
	if srv.sessions.count() != 0 {
		t.Errorf("expected session removed, still have %d", srv.sessions.count())
	}
}

// --- Stats and comparison tests ---

func TestHandleStatementStats_ReturnsStats(t *testing.T) {
	report := &mockReportService{}
	srv := newTestServer(report)
	addTestSession(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/sess-1/stats?deflate=true&index=inpc&overhead=2", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got models.AccountStats
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.PositionText != "R$ 3.300,00" {
		t.Errorf("unexpected stats payload: %+v", got)
	}

	if report.lastOptions == nil {
		t.Fatal("expected options passed to the report service")
	}
	if !report.lastOptions.Deflate {
		t.Error("expected deflate option set")
	}
	if report.lastOptions.DeflationIndex != "INPC" {
		t.Errorf("expected index INPC, got %q", report.lastOptions.DeflationIndex)
	}
	if report.lastOptions.OverheadPct != 2 {
		t.Errorf("expected overhead 2, got %v", report.lastOptions.OverheadPct)
	}
}

func TestHandleStatementStats_ServiceError(t *testing.T) {
	report := &mockReportService{
		stats: func(ctx context.Context, statement *models.Statement, provider interfaces.SeriesProvider, options models.AnalysisOptions) (*models.AccountStats, error) {
			return nil, errors.New("index series unavailable")
		},
	}
	srv := newTestServer(report)
	addTestSession(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/sess-1/stats", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

func TestHandleStatementComparison_PassesBenchmarkParam(t *testing.T) {
	report := &mockReportService{}
	srv := newTestServer(report)
	addTestSession(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/sess-1/comparison?benchmark=CDI", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if report.lastOptions == nil || report.lastOptions.Benchmark != "CDI" {
		t.Errorf("expected benchmark CDI passed through, got %+v", report.lastOptions)
	}

	var resp map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, ok := resp["comparisons"]; !ok {
		t.Error("expected 'comparisons' key in response")
	}
}

func TestHandleStatementComparison_NoParamMeansNoBenchmark(t *testing.T) {
	report := &mockReportService{}
	srv := newTestServer(report)
	addTestSession(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/sess-1/comparison", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if report.lastOptions == nil || report.lastOptions.Benchmark != "" {
		t.Errorf("expected empty benchmark, got %+v", report.lastOptions)
	}
}

// --- Option parsing tests ---

func TestAnalysisOptions_InvalidDate(t *testing.T) {
	srv := newTestServer(&mockReportService{})
	addTestSession(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/sess-1/stats?start=yesterday", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAnalysisOptions_StartAfterEnd(t *testing.T) {
	srv := newTestServer(&mockReportService{})
	addTestSession(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/sess-1/stats?start=2024-06&end=2024-01", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAnalysisOptions_MonthEndExpansion(t *testing.T) {
	report := &mockReportService{}
	srv := newTestServer(report)
	addTestSession(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/sess-1/stats?start=2024-01&end=2024-02", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if report.lastOptions.StartDate == nil || !report.lastOptions.StartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected start 2024-01-01, got %v", report.lastOptions.StartDate)
	}
	if report.lastOptions.EndDate == nil || !report.lastOptions.EndDate.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected end 2024-02-29, got %v", report.lastOptions.EndDate)
	}
}

func TestAnalysisOptions_NegativeOverhead(t *testing.T) {
	srv := newTestServer(&mockReportService{})
	addTestSession(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/sess-1/stats?overhead=-1", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAnalysisOptions_ConfigDefaults(t *testing.T) {
	report := &mockReportService{}
	srv := newTestServer(report)
	srv.app.Config.Analysis.DeflationIndex = "INPC"
	srv.app.Config.Analysis.CompanyAsMine = true
	addTestSession(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/sess-1/stats", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if report.lastOptions.DeflationIndex != "INPC" {
		t.Errorf("expected configured index INPC, got %q", report.lastOptions.DeflationIndex)
	}
	if !report.lastOptions.CompanyAsMine {
		t.Error("expected configured company_as_mine default")
	}
}

// --- Table, export and chart tests ---

func TestHandleStatementPositionsCSV_SetsHeaders(t *testing.T) {
	srv := newTestServer(&mockReportService{})
	addTestSession(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/sess-1/export/positions.csv", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected text/csv content type, got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "nucleos_posicao.csv") {
		t.Errorf("expected attachment filename, got %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "Mês,Posição") {
		t.Errorf("expected CSV header row, got %q", rec.Body.String())
	}
}

func TestHandleStatementContributionsCSV_SetsFilename(t *testing.T) {
	srv := newTestServer(&mockReportService{})
	addTestSession(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/sess-1/export/contributions.csv", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "nucleos_contribuicoes.csv") {
		t.Errorf("expected attachment filename, got %q", cd)
	}
}

func TestHandleStatementPositionsTable_ReturnsTable(t *testing.T) {
	srv := newTestServer(&mockReportService{})
	addTestSession(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/sess-1/tables/positions", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var got models.Table
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got.Columns) != 2 || got.Columns[0] != "Mês" {
		t.Errorf("unexpected table columns: %v", got.Columns)
	}
}

func TestHandleStatementPositionChart_ReturnsPNG(t *testing.T) {
	srv := newTestServer(&mockReportService{})
	addTestSession(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/sess-1/charts/position.png", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
}

func TestHandleStatementPositionChart_RenderError(t *testing.T) {
	report := &mockReportService{
		chart: func(ctx context.Context, statement *models.Statement, provider interfaces.SeriesProvider, options models.AnalysisOptions) ([]byte, error) {
			return nil, errors.New("benchmark series unavailable")
		},
	}
	srv := newTestServer(report)
	addTestSession(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/sess-1/charts/position.png", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

// --- Insight tests ---

func TestHandleStatementInsight_NotConfigured(t *testing.T) {
	srv := newTestServer(&mockReportService{})
	addTestSession(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/sess-1/insight", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestHandleStatementInsight_ReturnsText(t *testing.T) {
	insightSvc := &mockInsightService{
		generateInsight: func(ctx context.Context, statement *models.Statement, stats *models.AccountStats, comparisons []models.BenchmarkComparison) (string, error) {
			if stats == nil {
				t.Error("expected stats passed to insight service")
			}
			return "O extrato mostra aportes regulares.", nil
		},
	}
	srv := newTestServerWithInsight(&mockReportService{}, insightSvc)
	addTestSession(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/statements/sess-1/insight", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["insight"] != "O extrato mostra aportes regulares." {
		t.Errorf("unexpected insight text: %v", resp["insight"])
	}
}

// --- Catalog and system tests ---

func TestHandleBenchmarks_ListsCatalog(t *testing.T) {
	srv := newTestServer(&mockReportService{})

	req := httptest.NewRequest(http.MethodGet, "/api/benchmarks", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp struct {
		Benchmarks []models.BenchmarkSpec `json:"benchmarks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Benchmarks) != 2 {
		t.Errorf("expected 2 benchmarks, got %d", len(resp.Benchmarks))
	}
}

func TestHandleHealth_OK(t *testing.T) {
	srv := newTestServer(&mockReportService{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %q", resp["status"])
	}
}

func TestHandleConfig_ReportsDefaults(t *testing.T) {
	srv := newTestServer(&mockReportService{})
	srv.app.Config.Analysis.DefaultBenchmark = "CDI"

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["default_benchmark"] != "CDI" {
		t.Errorf("expected default_benchmark CDI, got %v", resp["default_benchmark"])
	}
	if resp["gemini_configured"] != false {
		t.Errorf("expected gemini_configured false, got %v", resp["gemini_configured"])
	}
}

// --- Session store tests ---

func TestSessionStore_EvictsOldest(t *testing.T) {
	store := newSessionStore()
	base := time.Now().UTC()
	for i := 0; i < maxSessions; i++ {
		store.add(&session{
			ID:        string(rune('a' + i%26)) + string(rune('0'+i/26)),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}
	if store.count() != maxSessions {
		t.Fatalf("expected %d sessions, got %d", maxSessions, store.count())
	}

	oldest := string(rune('a')) + string(rune('0'))
	store.add(&session{ID: "newcomer", CreatedAt: base.Add(time.Hour)})

	if store.count() != maxSessions {
		t.Errorf("expected cap held at %d, got %d", maxSessions, store.count())
	}
	if _, ok := store.get(oldest); ok {
		t.Error("expected oldest session evicted")
	}
	if _, ok := store.get("newcomer"); !ok {
		t.Error("expected new session stored")
	}
}
