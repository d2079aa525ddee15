// Package config loads and merges ravel's configuration: package defaults,
// overlaid by an optional TOML file, overlaid by environment variables
// (spec.md §6). Viper backs the overlay; pelletier/go-toml/v2 parses the
// TOML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/ravelscan/ravel/domain"
)

// DefaultConfigFiles are the filenames probed in the project root when no
// explicit --config path is given.
var DefaultConfigFiles = []string{"ravel.toml", ".ravel.toml"}

// envPrefix namespaces environment-variable overrides (spec.md §6's
// "overlaid by environment variables" stage).
const envPrefix = "RAVEL"

// knownTopLevelKeys lists the recognized `[section]` table names (spec.md
// §6); any other top-level key in the document is reported as a diagnostic
// warning, never a fatal error. Keys inside a recognized section are not
// checked: an unknown one there is ignored without a warning.
var knownTopLevelKeys = map[string]bool{
	"volatility":   true,
	"thresholds":   true,
	"analysis":     true,
	"architecture": true,
}

// Load resolves the fully merged configuration: defaults, then the TOML
// file at path (or the first DefaultConfigFiles match found under root if
// path is empty), then environment variable overrides. Unknown top-level
// keys produce warning diagnostics rather than failing the run; unknown
// keys inside a recognized section are ignored without a diagnostic.
func Load(path, root string) (*domain.Config, []domain.Diagnostic, error) {
	cfg := domain.DefaultConfig()
	var diags []domain.Diagnostic

	resolved := path
	if resolved == "" {
		resolved = findDefaultConfigFile(root)
	}

	if resolved != "" {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, nil, domain.NewConfigError(fmt.Sprintf("failed to read config file: %s", resolved), err)
		}

		raw := map[string]interface{}{}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, nil, domain.NewConfigError(fmt.Sprintf("failed to parse config file: %s", resolved), err)
		}
		for key := range raw {
			if !knownTopLevelKeys[key] {
				diags = append(diags, domain.Diagnostic{
					Path:     resolved,
					Message:  fmt.Sprintf("unknown configuration key %q ignored", key),
					Severity: "warning",
				})
			}
		}

		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, nil, domain.NewConfigError(fmt.Sprintf("failed to parse config file: %s", resolved), err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, diags, nil
}

func findDefaultConfigFile(root string) string {
	for _, name := range DefaultConfigFiles {
		candidate := name
		if root != "" {
			candidate = root + string(os.PathSeparator) + name
		}
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// applyEnvOverrides overlays RAVEL_-prefixed environment variables on top
// of the file-resolved config, the env stage of "file then env then
// flags" precedence (spec.md §6); CLI flags are applied afterward by the
// cmd/ravel layer, which holds the final word.
func applyEnvOverrides(cfg *domain.Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.IsSet("analysis.git_months") {
		if n, err := strconv.Atoi(v.GetString("analysis.git_months")); err == nil {
			cfg.Analysis.GitMonths = n
		}
	}
	if v.IsSet("analysis.no_git") {
		if b, err := strconv.ParseBool(v.GetString("analysis.no_git")); err == nil {
			cfg.Analysis.NoGit = b
		}
	}
	if v.IsSet("analysis.jobs") {
		if n, err := strconv.Atoi(v.GetString("analysis.jobs")); err == nil {
			cfg.Analysis.Jobs = n
		}
	}
	if v.IsSet("thresholds.max_dependencies") {
		if n, err := strconv.Atoi(v.GetString("thresholds.max_dependencies")); err == nil {
			cfg.Thresholds.MaxDependencies = n
		}
	}
	if v.IsSet("thresholds.max_dependents") {
		if n, err := strconv.Atoi(v.GetString("thresholds.max_dependents")); err == nil {
			cfg.Thresholds.MaxDependents = n
		}
	}
}
