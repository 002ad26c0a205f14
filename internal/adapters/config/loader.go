// Package config provides the configuration loader for weld.
package config

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file looked up when none is given.
const DefaultFilename = "weld.yaml"

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	logger ports.Logger
}

// NewLoader creates a new FileConfigLoader.
func NewLoader(logger ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{logger: logger}
}

// Load reads the configuration file at configPath. A directory is treated as
// the directory containing DefaultFilename.
func (l *FileConfigLoader) Load(configPath string) (domain.BuildConfig, error) {
	if info, err := os.Stat(configPath); err == nil && info.IsDir() {
		configPath = filepath.Join(configPath, DefaultFilename)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return domain.BuildConfig{}, err
	}

	if cfg.HTML.MinifyClasses && l.logger != nil {
		l.logger.Warn("html.minifyClasses is reserved and has no effect")
	}
	return cfg, nil
}

// Load reads a configuration file from the given path. Environment references
// are expanded before parsing and relative directories resolve against the
// directory of the file.
func Load(configPath string) (domain.BuildConfig, error) {
	data, err := os.ReadFile(configPath) //nolint:gosec // path is provided by user
	if err != nil {
		return domain.BuildConfig{}, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "failed to read config file"), "path", configPath)
	}

	var file Weldfile
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &file); err != nil {
		return domain.BuildConfig{}, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, err.Error()), "path", configPath)
	}

	base, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return domain.BuildConfig{}, zerr.Wrap(err, "failed to resolve config directory")
	}
	return build(file, base)
}

func build(file Weldfile, base string) (domain.BuildConfig, error) {
	cfg := domain.DefaultBuildConfig()

	if strings.TrimSpace(file.Source) == "" {
		return cfg, invalid("source is required", "source")
	}
	if strings.TrimSpace(file.Destination) == "" {
		return cfg, invalid("destination is required", "destination")
	}

	cfg.Source = absolute(base, file.Source)
	cfg.Destination = absolute(base, file.Destination)
	if cfg.Source == cfg.Destination {
		return cfg, invalid("destination must differ from source", "destination")
	}

	root, err := importRoot(cfg.Source, file.CSS.ImportRoot)
	if err != nil {
		return cfg, err
	}

	cfg.Clean = file.Clean
	cfg.Ignore = file.Ignore
	cfg.CSS.ImportRoot = root
	cfg.CSS.Minify = boolOr(file.CSS.Minify, cfg.CSS.Minify)
	cfg.JS.Minify = boolOr(file.JS.Minify, cfg.JS.Minify)
	cfg.HTML.Minify = boolOr(file.HTML.Minify, cfg.HTML.Minify)
	cfg.HTML.MinifyClasses = boolOr(file.HTML.MinifyClasses, cfg.HTML.MinifyClasses)
	cfg.HTML.ReduceBlocking = boolOr(file.HTML.ReduceBlocking, cfg.HTML.ReduceBlocking)
	return cfg, nil
}

// importRoot returns root as a slash-separated path relative to source.
func importRoot(source, root string) (string, error) {
	if root == "" {
		return "", nil
	}
	if filepath.IsAbs(root) {
		rel, err := filepath.Rel(source, root)
		if err != nil {
			return "", invalid("css.importRoot must be inside source", "css.importRoot")
		}
		root = rel
	}

	root = path.Clean(filepath.ToSlash(root))
	if root == ".." || strings.HasPrefix(root, "../") {
		return "", invalid("css.importRoot must be inside source", "css.importRoot")
	}
	if root == "." {
		return "", nil
	}
	return root, nil
}

func absolute(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func invalid(msg, field string) error {
	return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, msg), "field", field)
}

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)
