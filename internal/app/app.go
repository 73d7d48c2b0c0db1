// Package app wires configuration, clients and services into one unit
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/extrato/internal/clients/bcb"
	"github.com/bobmcallan/extrato/internal/clients/gemini"
	"github.com/bobmcallan/extrato/internal/clients/yahoo"
	"github.com/bobmcallan/extrato/internal/common"
	"github.com/bobmcallan/extrato/internal/interfaces"
	"github.com/bobmcallan/extrato/internal/services/benchmark"
	"github.com/bobmcallan/extrato/internal/services/insight"
	"github.com/bobmcallan/extrato/internal/services/report"
	"github.com/bobmcallan/extrato/internal/services/statement"
)

// App holds all initialized clients and services. It is the shared core used
// by cmd/extrato-server and cmd/extrato.
type App struct {
	Config *common.Config
	Logger *common.Logger

	BCBClient    interfaces.BCBClient
	YahooClient  interfaces.YahooClient
	GeminiClient interfaces.GeminiClient

	StatementService interfaces.StatementService
	BenchmarkService interfaces.BenchmarkService
	ReportService    interfaces.ReportService
	InsightService   interfaces.InsightService

	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfigPath returns the first applicable config location: the
// explicit path, EXTRATO_CONFIG, extrato.toml beside the binary, then the
// development fallback config/extrato.toml.
func ResolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("EXTRATO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "extrato.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/extrato.toml" // fallback for development
		}
	}
	return configPath
}

// NewApp initializes configuration, clients and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	configPath = ResolveConfigPath(configPath)

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative log file path to binary directory
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(getBinaryDir(), config.Logging.FilePath)
	}

	// Initialize logger
	logger := common.NewLoggerFromConfig(config.Logging)

	return NewAppWithLogger(config, logger), nil
}

// NewAppWithLogger wires clients and services over an existing config and
// logger. The CLI uses it to keep terminal output quiet.
func NewAppWithLogger(config *common.Config, logger *common.Logger) *App {
	startupStart := time.Now()

	// Initialize API clients. BCB and Yahoo are public APIs, always available.
	bcbClient := bcb.NewClient(
		bcb.WithBaseURL(config.Clients.BCB.BaseURL),
		bcb.WithLogger(logger),
		bcb.WithRateLimit(config.Clients.BCB.RateLimit),
		bcb.WithTimeout(config.Clients.BCB.GetTimeout()),
	)

	yahooClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithLogger(logger),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
	)

	var geminiClient interfaces.GeminiClient
	geminiKey, err := common.ResolveAPIKey("gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		logger.Warn().Msg("Gemini API key not configured - AI insight will be unavailable")
	} else {
		client, err := gemini.NewClient(context.Background(), geminiKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			geminiClient = client
		}
	}

	// Initialize services
	statementService := statement.NewService(logger)
	benchmarkService := benchmark.NewService(bcbClient, yahooClient, config.Analysis.FetchBufferDays, logger)
	reportService := report.NewService(logger)
	insightService := insight.NewService(geminiClient, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		BCBClient:        bcbClient,
		YahooClient:      yahooClient,
		GeminiClient:     geminiClient,
		StatementService: statementService,
		BenchmarkService: benchmarkService,
		ReportService:    reportService,
		InsightService:   insightService,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a
}
