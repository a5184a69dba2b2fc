package app

import (
	"fmt"

	"github.com/guttosm/iosplus-extract/config"
	"github.com/guttosm/iosplus-extract/internal/export"
	"github.com/guttosm/iosplus-extract/internal/extract"
	"github.com/guttosm/iosplus-extract/internal/remote"
	"github.com/guttosm/iosplus-extract/internal/session"
	"github.com/guttosm/iosplus-extract/internal/storage"
)

// InitializeExtractor wires one extract run from a validated report
// configuration.
//
// Responsibilities:
//   - Builds the SOAP client against rep.Endpoint.
//   - Creates the session manager with the IRESS credentials.
//   - Selects the exporter for rep.Format.
//   - Connects and migrates the extract_log journal when RUNLOG_ENABLED is set.
//
// Returns:
//   - *extract.Runner: ready to Run.
//   - func(): cleanup closing the journal connection, if any.
//   - error: exporter or journal initialization failure.
func InitializeExtractor(rep config.Report) (*extract.Runner, func(), error) {
	cfg := config.AppConfig

	exp, err := export.New(rep.Format, rep.Delimiter)
	if err != nil {
		return nil, nil, err
	}

	client := remote.NewSOAPClient(rep.Endpoint, rep.HTTPTimeout)
	sessions := session.NewManager(client, credentials(rep), rep.RequestTimeout)

	cleanup := func() {}
	var journal extract.Journal
	if cfg.RunLog.Enabled {
		db, err := postgresOpener(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize run journal: %w", err)
		}
		if err := journalMigrator(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		journal = storage.NewExtractRepository(db)
		cleanup = func() { _ = db.Close() }
	}

	runner := extract.NewRunner(client, sessions, exp, extract.Config{
		ReportType:     rep.ReportType,
		ReportDate:     rep.ReportDate,
		OutputDir:      rep.OutputDir,
		Server:         rep.Server,
		RequestTimeout: rep.RequestTimeout,
		BatchSize:      rep.BatchSize,
		Parallel:       rep.Parallel,
		Force:          rep.Force,
	}, journal)

	return runner, cleanup, nil
}

func credentials(rep config.Report) session.Credentials {
	return session.Credentials{
		UserName:         rep.UserName,
		CompanyName:      rep.Company,
		Password:         rep.Password,
		Server:           rep.Server,
		ApplicationLabel: rep.Label,
	}
}
