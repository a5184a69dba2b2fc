package app

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guttosm/iosplus-extract/config"
)

func TestInitPostgres_TableDriven(t *testing.T) {
	fields := config.PostgresConfig{User: "u", Password: "p", Host: "h", Port: 5432, DBName: "d", SSLMode: "disable"}
	cases := []struct {
		name    string
		pg      config.PostgresConfig
		wantDSN string
		openErr error
		pingErr error
		wantErr string
	}{
		{name: "dsn from fields", pg: fields, wantDSN: "postgres://u:p@h:5432/d?sslmode=disable"},
		{name: "dsn from url", pg: config.PostgresConfig{URL: "postgres://x@y/z"}, wantDSN: "postgres://x@y/z"},
		{name: "open error", pg: fields, openErr: errors.New("open failed"), wantErr: "failed to open postgres"},
		{name: "ping error", pg: fields, pingErr: errors.New("ping failed"), wantErr: "failed to ping postgres"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gotDSN string
			var mock sqlmock.Sqlmock
			old := sqlOpener
			sqlOpener = func(driverName, dataSourceName string) (*sql.DB, error) {
				gotDSN = dataSourceName
				if tc.openErr != nil {
					return nil, tc.openErr
				}
				db, m, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
				if err != nil {
					t.Fatalf("sqlmock new: %v", err)
				}
				mock = m
				m.ExpectPing().WillReturnError(tc.pingErr)
				if tc.pingErr != nil {
					m.ExpectClose()
				}
				return db, nil
			}
			t.Cleanup(func() { sqlOpener = old })

			db, err := InitPostgres(config.Config{Postgres: tc.pg})
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("expected %q, got %v", tc.wantErr, err)
				}
			} else {
				if err != nil || db == nil {
					t.Fatalf("unexpected: %v", err)
				}
				if gotDSN != tc.wantDSN {
					t.Fatalf("dsn = %q, want %q", gotDSN, tc.wantDSN)
				}
				_ = db.Close()
			}
			if mock != nil && tc.pingErr != nil {
				if err := mock.ExpectationsWereMet(); err != nil {
					t.Fatalf("unmet expectations: %v", err)
				}
			}
		})
	}
}
