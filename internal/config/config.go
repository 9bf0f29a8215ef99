// Package config loads application settings.
//
// Sources are layered, later ones winning:
//
//  1. built-in defaults
//  2. a YAML file (optional)
//  3. a .env file next to the YAML file, or in the working directory
//  4. RETAIL_* process environment variables
//
// The merged result is validated against an embedded CUE schema.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RETAIL_"

// Config holds the merged settings.
type Config struct {
	Database string `yaml:"database" json:"database"`
	Env      string `yaml:"env" json:"env"`
	Log      Log    `yaml:"log" json:"log"`
	IDs      IDs    `yaml:"ids" json:"ids"`
	Seed     Seed   `yaml:"seed" json:"seed"`
	Report   Report `yaml:"report" json:"report"`
}

// Log configures the zap logger.
type Log struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// IDs configures identifier allocation.
type IDs struct {
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts"`
}

// Seed configures the bulk loader.
type Seed struct {
	Dir   string `yaml:"dir" json:"dir"`
	Limit int    `yaml:"limit" json:"limit"`
}

// Report configures the reporting endpoint.
type Report struct {
	MaxRows int `yaml:"max_rows" json:"max_rows"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database: "retail.db",
		Env:      "development",
		Log:      Log{Level: "info"},
		IDs:      IDs{MaxAttempts: 64},
		Seed:     Seed{Dir: "data", Limit: 100},
		Report:   Report{MaxRows: 500},
	}
}

// Load builds a Config from defaults, the YAML file at path, a .env file and
// the environment. An empty path skips the YAML layer; a non-empty path that
// does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	envDir := "."
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		envDir = filepath.Dir(path)
	}

	dotenv, err := readDotenv(filepath.Join(envDir, ".env"))
	if err != nil {
		return Config{}, err
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cfg against the embedded CUE schema.
func Validate(cfg Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := def.Unify(ctx.Encode(cfg))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"DATABASE":  &cfg.Database,
		"ENV":       &cfg.Env,
		"LOG_LEVEL": &cfg.Log.Level,
		"LOG_FILE":  &cfg.Log.File,
		"SEED_DIR":  &cfg.Seed.Dir,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"IDS_MAX_ATTEMPTS": &cfg.IDs.MaxAttempts,
		"SEED_LIMIT":       &cfg.Seed.Limit,
		"REPORT_MAX_ROWS":  &cfg.Report.MaxRows,
	}
	for key, dst := range ints {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
	}
	return nil
}
