package main

//
//  @title           iosplus-extract API
//  @version         1.0
//  @description     IOS+ daily extract runner and extract journal.
//  @termsOfService  https://github.com/guttosm/iosplus-extract
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/iosplus-extract
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        extracts
//  @tag.description Endpoints for listing produced extract files
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/iosplus-extract/config"
	"github.com/guttosm/iosplus-extract/internal/app"
	"github.com/guttosm/iosplus-extract/internal/calendar"
	"github.com/guttosm/iosplus-extract/internal/domain/models"
	"github.com/guttosm/iosplus-extract/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// resolveReport turns the command line into a validated report configuration.
//
// Parameters:
//   - cfg (config.Config): loaded application configuration.
//   - typ (string): --type value.
//   - date (string): --date value (yyyyMMdd, today or prev).
//   - force (bool): --force value.
//   - now (time.Time): reference time for today/prev.
func resolveReport(cfg config.Config, typ, date string, force bool, now time.Time) (config.Report, error) {
	rt, err := models.ParseReportType(typ)
	if err != nil {
		return config.Report{}, err
	}
	holidays, err := calendar.ParseHolidays(cfg.Extract.Holidays)
	if err != nil {
		return config.Report{}, err
	}
	day, err := calendar.ResolveReportDate(date, now, holidays)
	if err != nil {
		return config.Report{}, err
	}
	rep := cfg.ReportFor(rt, day, force)
	if err := config.ValidateReport(rep); err != nil {
		return config.Report{}, err
	}
	return rep, nil
}

// runExtract performs one extract run. Failures are logged, not fatal.
func runExtract(ctx context.Context, rep config.Report) {
	runner, cleanup, err := app.InitializeExtractor(rep)
	if err != nil {
		logger.L().Error().Err(err).Msg("extractor init error")
		return
	}
	defer cleanup()

	out, err := runner.Run(ctx)
	if err != nil {
		logger.L().Error().Err(err).Str("state", out.State.String()).Msg("extract failed")
		return
	}
	logger.L().Info().
		Str("state", out.State.String()).
		Str("file", out.File).
		Int("rows", out.Rows).
		Msg("extract finished")
}

// main is the entry point of the iosplus-extract application.
//
// Modes (selected via --mode flag):
//   - extract: Pulls one IOS+ report for one business date into a file.
//   - api:     Starts the REST API over the extract journal.
//
// Flags:
//   - --mode:  Execution mode ("extract" or "api"). Default: "extract".
//   - --type:  Report type: 0|trades, 1|audittrail, 2|ordersearch. Default: 0.
//   - --date:  Report date: yyyyMMdd, today or prev. Default: today.
//   - --force: Extract again even if the journal already has the report.
//   - --port:  Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()
	defer func() { _ = logger.Close() }()

	mode := flag.String("mode", "extract", "Mode: extract or api")
	typ := flag.String("type", "0", "Report type: 0|trades, 1|audittrail, 2|ordersearch")
	date := flag.String("date", "today", "Report date: yyyyMMdd, today or prev")
	force := flag.Bool("force", false, "Extract again even if the journal already has the report")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "extract":
		rep, err := resolveReport(config.AppConfig, *typ, *date, *force, time.Now())
		if err != nil {
			logger.L().Fatal().Err(err).Msg("invalid report configuration")
		}
		logger.L().Info().
			Str("report_type", rep.ReportType.String()).
			Str("report_date", rep.ReportDate.Format(calendar.DateLayout)).
			Str("server", rep.Server).
			Msg("running extract")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		runExtract(ctx, rep)

	case "api":
		// API mode: start the HTTP server
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(context.Background(), server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
