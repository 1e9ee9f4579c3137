// Package config loads afgen.yaml.
//
//	manifest: symbols.yaml
//	outDir: build/generated/afgen
//	maxRounds: 10
//	failurePolicy: abort-round   # or isolate
//	metricsFile: build/afgen.prom
//	log:
//	  level: info                # debug | info | warn | error
//	  format: json               # json | console
//	markers:
//	  contributes: com.acme.di.ContributesAssistedFactory
//
// Every field is optional in the file; command-line flags override it. Call
// Validate once flags have been applied.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/sghaida/assistfactory/processor"
	"github.com/sghaida/assistfactory/symbol"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "afgen.yaml"

// ErrInvalidConfig wraps every decoding and validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the decoded file.
type Config struct {
	Manifest      string  `yaml:"manifest" validate:"required"`
	OutDir        string  `yaml:"outDir" validate:"required"`
	MaxRounds     int     `yaml:"maxRounds" validate:"gte=0"`
	FailurePolicy string  `yaml:"failurePolicy" validate:"oneof=abort-round isolate"`
	MetricsFile   string  `yaml:"metricsFile"`
	Log           Log     `yaml:"log"`
	Markers       Markers `yaml:"markers"`
}

// Log selects the zap configuration.
type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// Markers overrides annotation names. Empty fields keep the defaults.
type Markers struct {
	Contributes     string `yaml:"contributes" validate:"omitempty,qualified"`
	Key             string `yaml:"key" validate:"omitempty,qualified"`
	Assisted        string `yaml:"assisted" validate:"omitempty,qualified"`
	AssistedInject  string `yaml:"assistedInject" validate:"omitempty,qualified"`
	AssistedFactory string `yaml:"assistedFactory" validate:"omitempty,qualified"`
	Module          string `yaml:"module" validate:"omitempty,qualified"`
	Binds           string `yaml:"binds" validate:"omitempty,qualified"`
	InstallIn       string `yaml:"installIn" validate:"omitempty,qualified"`
	DefaultScope    string `yaml:"defaultScope" validate:"omitempty,qualified"`
}

// Default returns a config with every default applied and no manifest.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.OutDir) == "" {
		c.OutDir = "build/generated/afgen"
	}
	if c.MaxRounds == 0 {
		c.MaxRounds = 10
	}
	if c.FailurePolicy == "" {
		c.FailurePolicy = processor.AbortRound.String()
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// Load reads path and applies defaults. It does not validate.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(raw)
}

// LoadOptional is Load, except that a missing file yields the defaults.
func LoadOptional(path string) (*Config, error) {
	c, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

// Parse decodes raw and applies defaults. Unknown keys are rejected.
func Parse(raw []byte) (*Config, error) {
	c := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c.applyDefaults()
	return c, nil
}

// Validate checks the config after flag overrides.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, formatValidationError(err))
	}
	return nil
}

// Policy returns the parsed failure policy.
func (c *Config) Policy() (processor.FailurePolicy, error) {
	return processor.ParseFailurePolicy(c.FailurePolicy)
}

// ProcessorMarkers maps the overrides onto processor.Markers.
func (c *Config) ProcessorMarkers() processor.Markers {
	m := c.Markers
	return processor.Markers{
		Contributes:     m.Contributes,
		Key:             m.Key,
		Assisted:        m.Assisted,
		AssistedInject:  m.AssistedInject,
		AssistedFactory: m.AssistedFactory,
		Module:          m.Module,
		Binds:           m.Binds,
		InstallIn:       m.InstallIn,
		DefaultScope:    m.DefaultScope,
	}
}

// Logger builds a zap logger writing to w, using the production encoder
// settings. verbose forces the debug level.
func (l Log) Logger(w io.Writer, verbose bool) (*zap.Logger, error) {
	level := l.Level
	if verbose {
		level = "debug"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}

	zc := zap.NewProductionConfig()
	enc := zapcore.NewJSONEncoder(zc.EncoderConfig)
	if l.Format == "console" {
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), lvl)
	return zap.New(core), nil
}

// -------------------------
// validation
// -------------------------

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
	})
	// qualified: a dotted type name without type arguments or nullability.
	_ = v.RegisterValidation("qualified", func(fl validator.FieldLevel) bool {
		ref, err := symbol.ParseTypeRef(fl.Field().String())
		return err == nil && len(ref.Args) == 0 && !ref.Nullable && strings.Contains(ref.Name, ".")
	})
	return v
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "qualified":
			msgs = append(msgs, fmt.Sprintf("%s must be a qualified type name, got %q", field, fe.Value()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
