package domain

// Default thresholds and windows, re-exported as named constants so every
// loader (config file, CLI flags, hardcoded fallback) refers to one source
// of truth.
const (
	// DefaultMaxDependencies is the efferent-coupling threshold above which
	// HighEfferentCoupling is raised (spec.md §4.5).
	DefaultMaxDependencies = 15

	// DefaultMaxDependents is the afferent-coupling threshold above which
	// HighAfferentCoupling is raised (spec.md §4.5).
	DefaultMaxDependents = 20

	// DefaultGitMonths is the commit-history window the volatility oracle
	// mines by default (spec.md §4.4).
	DefaultGitMonths = 6

	// DefaultHighVolatilityMinCommits is the minimum absolute commit count
	// required for a module to qualify as High volatility, on top of the
	// p75 percentile requirement (spec.md §4.4).
	DefaultHighVolatilityMinCommits = 3

	// DefaultJobs of 0 means "use runtime.NumCPU()" (spec.md §5).
	DefaultJobs = 0
)

// DefaultIgnoreGlobs are always excluded from workspace resolution,
// regardless of configuration (spec.md §4.1).
var DefaultIgnoreGlobs = []string{
	"target/**",
	".git/**",
}

// DefaultIncludeGlobs matches Rust source files.
var DefaultIncludeGlobs = []string{"**/*.rs"}
