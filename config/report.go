package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/guttosm/iosplus-extract/internal/domain/models"
)

// Report is the fully resolved configuration of one extract run: the
// static settings from AppConfig plus the report type and date chosen on
// the command line.
type Report struct {
	ReportType models.ReportType `env:"--type" validate:"min=0,max=2"`
	ReportDate time.Time         `env:"--date" validate:"required"`
	OutputDir  string            `env:"EXTRACT_OUTPUT_DIR" validate:"required"`
	Delimiter  string            `env:"EXTRACT_DELIMITER" validate:"required"`
	Format     string            `env:"EXTRACT_FORMAT" validate:"oneof=csv xlsx"`
	BatchSize  int               `env:"EXTRACT_REFDATA_BATCH_SIZE" validate:"min=1,max=1000"`
	Parallel   int               `env:"EXTRACT_REFDATA_PARALLEL" validate:"min=1,max=16"`

	Endpoint string `env:"IOSPLUS_SOAP_ENDPOINT" validate:"required,url"`
	Server   string `env:"IOSPLUS_SERVER" validate:"required"`
	UserName string `env:"IOSPLUS_USERNAME" validate:"required"`
	Company  string `env:"IOSPLUS_COMPANY" validate:"required"`
	Password string `env:"IOSPLUS_PASSWORD" validate:"required"`
	Label    string `env:"IOSPLUS_APPLICATION_LABEL" validate:"max=64"`

	RequestTimeout time.Duration `env:"IOSPLUS_REQUEST_TIMEOUT" validate:"gt=0"`
	HTTPTimeout    time.Duration `env:"IOSPLUS_HTTP_TIMEOUT" validate:"gt=0"`
	Force          bool
}

// ReportFor combines c with the run parameters.
func (c Config) ReportFor(t models.ReportType, date time.Time, force bool) Report {
	return Report{
		ReportType:     t,
		ReportDate:     date,
		OutputDir:      c.Extract.OutputDir,
		Delimiter:      c.Extract.Delimiter,
		Format:         c.Extract.Format,
		BatchSize:      c.Extract.BatchSize,
		Parallel:       c.Extract.Parallel,
		Endpoint:       c.Remote.Endpoint,
		Server:         c.Remote.Server,
		UserName:       c.Remote.UserName,
		Company:        c.Remote.Company,
		Password:       c.Remote.Password,
		Label:          c.Remote.ApplicationLabel,
		RequestTimeout: c.Remote.RequestTimeout,
		HTTPTimeout:    c.Remote.HTTPTimeout,
		Force:          force,
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func reportValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report errors by the setting a user has to change.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if name := fld.Tag.Get("env"); name != "" {
				return name
			}
			return fld.Name
		})
	})
	return validate
}

// ValidateReport checks a run configuration before any remote call.
//
// Returns:
//   - error: nil when valid, otherwise one error naming every offending
//     setting and the rule it broke
func ValidateReport(r Report) error {
	err := reportValidator().Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", fe.Field(), rule))
	}
	return fmt.Errorf("invalid report configuration: %s", strings.Join(parts, ", "))
}
