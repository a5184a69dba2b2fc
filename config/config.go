package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as the IOS+ connection, the extract output, and the optional run journal database.
//
// Example ENV equivalent:
//
//	IOSPLUS_SOAP_ENDPOINT=https://webservices.iress.com.au/v4/soap.aspx
//	IOSPLUS_SERVER=LDNPROD
//	IOSPLUS_USERNAME=ops.user
//	IOSPLUS_COMPANY=ACME
//	IOSPLUS_PASSWORD=secret
//	EXTRACT_OUTPUT_DIR=./output
//	RUNLOG_ENABLED=true
//	POSTGRES_HOST=localhost
type Config struct {
	Server   ServerConfig   // HTTP server configuration (api mode)
	Postgres PostgresConfig // PostgreSQL connection settings (run journal)
	RunLog   RunLogConfig   // Run journal switch
	Remote   RemoteConfig   // IRESS / IOS+ connection
	Extract  ExtractConfig  // Output and enrichment settings
	Log      LogConfig      // Logger settings
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// RunLogConfig enables the extract_log journal. When disabled, extract runs
// never touch the database.
type RunLogConfig struct {
	Enabled bool
}

// RemoteConfig holds the IRESS / IOS+ connection settings.
//
// Fields:
//   - Endpoint: SOAP endpoint URL.
//   - Server: IOS+ server name requested by the service session.
//   - UserName, Company, Password: IRESS credentials.
//   - ApplicationLabel: client label sent with the IRESS login.
//   - RequestTimeout: per-operation timeout sent in every request header.
//   - HTTPTimeout: transport timeout of a single HTTP round trip.
type RemoteConfig struct {
	Endpoint       string
	Server         string
	UserName       string
	Company        string
	Password         string
	ApplicationLabel string
	RequestTimeout   time.Duration
	HTTPTimeout      time.Duration
}

// ExtractConfig holds output and enrichment settings.
type ExtractConfig struct {
	OutputDir string
	Delimiter string
	Format    string // csv | xlsx
	BatchSize int    // securities per SecurityInformationGet request
	Parallel  int    // concurrent reference-data batches
	Holidays  []string
}

// LogConfig mirrors the logger environment so it can be validated and shown.
type LogConfig struct {
	Level  string
	Pretty bool
	Dir    string
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
// All services should import this package and read from AppConfig instead of
// reloading environment variables directly.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Behavior:
//   - Sets defaults for all optional fields.
//   - Reads environment variables automatically with viper.AutomaticEnv().
//   - Constructs the PostgreSQL connection string (DSN).
//   - Calls validateConfig() to ensure static settings are usable.
//
// Run-specific settings (credentials, report type and date) are checked
// later by ValidateReport, once the command line is known.
//
// Fatal exit:
//   - If static settings are invalid, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "iosplus_extract")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("RUNLOG_ENABLED", false)

	viper.SetDefault("IOSPLUS_APPLICATION_LABEL", "IOS+ Extract")
	viper.SetDefault("IOSPLUS_REQUEST_TIMEOUT", 60)
	viper.SetDefault("IOSPLUS_HTTP_TIMEOUT", "10m")

	viper.SetDefault("EXTRACT_OUTPUT_DIR", "./output")
	viper.SetDefault("EXTRACT_DELIMITER", ",")
	viper.SetDefault("EXTRACT_FORMAT", "csv")
	viper.SetDefault("EXTRACT_REFDATA_BATCH_SIZE", 100)
	viper.SetDefault("EXTRACT_REFDATA_PARALLEL", 1)
	viper.SetDefault("EXTRACT_HOLIDAYS", "")

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)
	viper.SetDefault("LOG_DIR", "")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		RunLog: RunLogConfig{
			Enabled: viper.GetBool("RUNLOG_ENABLED"),
		},
		Remote: RemoteConfig{
			Endpoint:       viper.GetString("IOSPLUS_SOAP_ENDPOINT"),
			Server:         viper.GetString("IOSPLUS_SERVER"),
			UserName:       viper.GetString("IOSPLUS_USERNAME"),
			Company:        viper.GetString("IOSPLUS_COMPANY"),
			Password:         viper.GetString("IOSPLUS_PASSWORD"),
			ApplicationLabel: viper.GetString("IOSPLUS_APPLICATION_LABEL"),
			RequestTimeout:   time.Duration(viper.GetInt("IOSPLUS_REQUEST_TIMEOUT")) * time.Second,
			HTTPTimeout:      viper.GetDuration("IOSPLUS_HTTP_TIMEOUT"),
		},
		Extract: ExtractConfig{
			OutputDir: viper.GetString("EXTRACT_OUTPUT_DIR"),
			Delimiter: viper.GetString("EXTRACT_DELIMITER"),
			Format:    strings.ToLower(viper.GetString("EXTRACT_FORMAT")),
			BatchSize: viper.GetInt("EXTRACT_REFDATA_BATCH_SIZE"),
			Parallel:  viper.GetInt("EXTRACT_REFDATA_PARALLEL"),
			Holidays:  splitList(viper.GetString("EXTRACT_HOLIDAYS")),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Pretty: viper.GetBool("LOG_PRETTY"),
			Dir:    viper.GetString("LOG_DIR"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	// Validate critical fields
	validateConfig()
}

// validateConfig ensures static settings are usable and terminates
// the application if they are not.
//
// Behavior:
//   - Checks each critical field of AppConfig.
//   - Collects offending keys in a slice.
//   - If any are found, logs them and terminates the app with log.Fatalf().
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if AppConfig.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if AppConfig.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if AppConfig.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if AppConfig.Remote.RequestTimeout <= 0 {
		missing = append(missing, "IOSPLUS_REQUEST_TIMEOUT")
	}
	if AppConfig.Remote.HTTPTimeout <= 0 {
		missing = append(missing, "IOSPLUS_HTTP_TIMEOUT")
	}

	if len(missing) > 0 {
		log.Fatalf("missing or invalid environment variables: %v\n", missing)
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
