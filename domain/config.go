package domain

// VolatilityConfig carries the `[volatility]` section of the configuration
// file (spec.md §6): glob-based overrides that take precedence over the
// computed commit-frequency classification, plus ignore globs consumed by
// the workspace resolver.
type VolatilityConfig struct {
	High   []string `toml:"high" mapstructure:"high"`
	Low    []string `toml:"low" mapstructure:"low"`
	Ignore []string `toml:"ignore" mapstructure:"ignore"`
}

// ThresholdsConfig carries the `[thresholds]` section (spec.md §6).
type ThresholdsConfig struct {
	MaxDependencies int `toml:"max_dependencies" mapstructure:"max_dependencies"`
	MaxDependents   int `toml:"max_dependents" mapstructure:"max_dependents"`
}

// AnalysisConfig carries the `[analysis]` section (spec.md §6).
type AnalysisConfig struct {
	GitMonths int  `toml:"git_months" mapstructure:"git_months"`
	NoGit     bool `toml:"no_git" mapstructure:"no_git"`
	Jobs      int  `toml:"jobs" mapstructure:"jobs"`
}

// ArchitectureConfigSpec represents layer-based architecture rules.
// Supplementary to spec.md §4.5's required issue set (SPEC_FULL.md §9).
type ArchitectureConfigSpec struct {
	Layers []ArchitectureLayer `toml:"layers" mapstructure:"layers"`
	Rules  []ArchitectureRule  `toml:"rules" mapstructure:"rules"`
}

// ArchitectureLayer defines a logical layer and the module path prefixes
// that belong to it.
type ArchitectureLayer struct {
	Name    string   `toml:"name" mapstructure:"name"`
	Modules []string `toml:"modules" mapstructure:"modules"`
}

// ArchitectureRule defines the layers a given source layer may depend on.
type ArchitectureRule struct {
	From  string   `toml:"from" mapstructure:"from"`
	Allow []string `toml:"allow" mapstructure:"allow"`
}

// Config is the fully-resolved configuration threaded through the analysis
// driver: defaults, overlaid by the TOML file, overlaid by environment
// variables, overlaid by CLI flags.
type Config struct {
	Volatility   VolatilityConfig        `toml:"volatility" mapstructure:"volatility"`
	Thresholds   ThresholdsConfig        `toml:"thresholds" mapstructure:"thresholds"`
	Analysis     AnalysisConfig          `toml:"analysis" mapstructure:"analysis"`
	Architecture *ArchitectureConfigSpec `toml:"architecture" mapstructure:"architecture"`
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() *Config {
	return &Config{
		Volatility: VolatilityConfig{Ignore: append([]string(nil), DefaultIgnoreGlobs...)},
		Thresholds: ThresholdsConfig{
			MaxDependencies: DefaultMaxDependencies,
			MaxDependents:   DefaultMaxDependents,
		},
		Analysis: AnalysisConfig{
			GitMonths: DefaultGitMonths,
			NoGit:     false,
			Jobs:      DefaultJobs,
		},
	}
}
