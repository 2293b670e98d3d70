// Package config loads stratui's CUE configuration: the resolver catalog,
// form reset defaults, journal location and log level.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/stratui/internal/derive"
	"github.com/roach88/stratui/internal/ir"
	"github.com/roach88/stratui/internal/resolver"
)

//go:embed default.cue
var defaultSource []byte

// Config is the effective configuration.
type Config struct {
	Catalog resolver.Catalog     `json:"catalog"`
	Reset   derive.ResetDefaults `json:"reset"`
	Journal JournalConfig        `json:"journal"`
	Log     LogConfig            `json:"log"`
}

// JournalConfig locates the pass journal.
type JournalConfig struct {
	Path string `json:"path"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `json:"level"`
}

// SlogLevel maps the configured level onto slog.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ConfigError reports an invalid configuration value with its position.
type ConfigError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ConfigError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := LoadBytes("", nil)
	if err != nil {
		// default.cue is embedded and covered by tests.
		panic(fmt.Sprintf("config: built-in configuration invalid: %v", err))
	}
	return cfg
}

// Load reads the CUE file at path and unifies it with the built-in
// configuration. An empty path yields the built-in configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadBytes("", nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return LoadBytes(path, data)
}

// LoadBytes is Load for in-memory sources. filename is used in error
// positions only.
func LoadBytes(filename string, data []byte) (*Config, error) {
	ctx := cuecontext.New()

	v := ctx.CompileBytes(defaultSource, cue.Filename("default.cue"))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	if len(data) > 0 {
		user := ctx.CompileBytes(data, cue.Filename(filename))
		if err := user.Err(); err != nil {
			return nil, formatCUEError(err)
		}
		v = v.Unify(user)
	}

	if err := v.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	return decode(v)
}

func decode(v cue.Value) (*Config, error) {
	cfg := &Config{Catalog: resolver.Catalog{}}

	catalog := v.LookupPath(cue.ParsePath("catalog"))
	iter, err := catalog.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		controlType := iter.Label()
		field, err := stringAt(iter.Value(), "catalog."+controlType)
		if err != nil {
			return nil, err
		}
		lf := ir.LabelField(field)
		if !lf.Valid() {
			return nil, &ConfigError{
				Field:   "catalog." + controlType,
				Message: fmt.Sprintf("unknown label field %q", field),
				Pos:     iter.Value().Pos(),
			}
		}
		cfg.Catalog[controlType] = lf
	}

	for _, f := range []struct {
		path string
		dst  *string
	}{
		{"reset.symbol", &cfg.Reset.Symbol},
		{"reset.start_date", &cfg.Reset.StartDate},
		{"reset.interval", &cfg.Reset.Interval},
		{"journal.path", &cfg.Journal.Path},
		{"log.level", &cfg.Log.Level},
	} {
		s, err := stringAt(v.LookupPath(cue.ParsePath(f.path)), f.path)
		if err != nil {
			return nil, err
		}
		*f.dst = s
	}

	indicators, err := listAt(v.LookupPath(cue.ParsePath("reset.indicators")), "reset.indicators")
	if err != nil {
		return nil, err
	}
	cfg.Reset.Indicators = indicators

	return cfg, nil
}

// resolved picks the default of a disjunction when the value is still open.
func resolved(v cue.Value) cue.Value {
	if d, ok := v.Default(); ok {
		return d
	}
	return v
}

func stringAt(v cue.Value, field string) (string, error) {
	if !v.Exists() {
		return "", &ConfigError{Field: field, Message: "missing"}
	}
	s, err := resolved(v).String()
	if err != nil {
		return "", &ConfigError{Field: field, Message: "must be a string", Pos: v.Pos()}
	}
	return s, nil
}

func listAt(v cue.Value, field string) ([]string, error) {
	out := []string{}
	if !v.Exists() {
		return out, nil
	}
	iter, err := resolved(v).List()
	if err != nil {
		return nil, &ConfigError{Field: field, Message: "must be a list of strings", Pos: v.Pos()}
	}
	for iter.Next() {
		s, err := stringAt(iter.Value(), field)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &ConfigError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
