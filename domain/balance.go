package domain

// Classification is the bucket an edge falls into based on its Strength and
// Distance (spec.md §4.5 table).
type Classification string

const (
	ClassificationGlobalComplexity Classification = "GlobalComplexity" // A: strong + far
	ClassificationHighCohesion     Classification = "HighCohesion"     // B: strong + close
	ClassificationLooseCoupling    Classification = "LooseCoupling"    // C: weak + far
	ClassificationLocalComplexity  Classification = "LocalComplexity"  // D: weak + close
)

// BalanceResult is the computed balance value and classification for one
// edge.
type BalanceResult struct {
	Value          float64        `json:"value" yaml:"value"`
	Modularity     float64        `json:"modularity" yaml:"modularity"`
	Classification Classification `json:"classification" yaml:"classification"`
}

// IssueType is the closed enumeration of structural problems the balance
// engine can raise (spec.md §4.5).
type IssueType string

const (
	IssueGlobalComplexity     IssueType = "GlobalComplexity"
	IssueCascadingChangeRisk  IssueType = "CascadingChangeRisk"
	IssueInappropriateIntimacy IssueType = "InappropriateIntimacy"
	IssueUnnecessaryAbstraction IssueType = "UnnecessaryAbstraction"
	IssueHighEfferentCoupling IssueType = "HighEfferentCoupling"
	IssueHighAfferentCoupling IssueType = "HighAfferentCoupling"
	IssueCircularDependency   IssueType = "CircularDependency"
	// IssueLayerViolation is a supplementary issue kind (SPEC_FULL.md §9),
	// additive on top of the seven issue kinds above (spec.md §4.5).
	IssueLayerViolation IssueType = "LayerViolation"
)

// Severity is the closed severity enumeration used across all issue types.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// LessSevere reports whether a is strictly less severe than b.
func LessSevere(a, b Severity) bool { return severityRank(a) < severityRank(b) }

// Issue is one detected structural problem, anchored to an edge and/or a
// module.
type Issue struct {
	Type     IssueType  `json:"type" yaml:"type"`
	Severity Severity   `json:"severity" yaml:"severity"`
	Module   ModulePath `json:"module,omitempty" yaml:"module,omitempty"`
	Source   ModulePath `json:"source,omitempty" yaml:"source,omitempty"`
	Target   ModulePath `json:"target,omitempty" yaml:"target,omitempty"`
	Cycle    []ModulePath `json:"cycle,omitempty" yaml:"cycle,omitempty"`
	Message  string     `json:"message" yaml:"message"`
}

// HealthGrade is the project-level letter grade derived from HealthScore
// (spec.md §4.5 grading table).
type HealthGrade string

const (
	GradeA HealthGrade = "A"
	GradeB HealthGrade = "B"
	GradeC HealthGrade = "C"
	GradeD HealthGrade = "D"
	GradeF HealthGrade = "F"
)

// GradeForScore maps a HealthScore in [0,1] to its letter grade.
func GradeForScore(score float64) HealthGrade {
	switch {
	case score >= 0.90:
		return GradeA
	case score >= 0.80:
		return GradeB
	case score >= 0.60:
		return GradeC
	case score >= 0.40:
		return GradeD
	default:
		return GradeF
	}
}

// ModuleHealthStatus is the closed enumeration of per-module health derived
// from the issues touching it (spec.md §4.5 "Module health").
type ModuleHealthStatus string

const (
	HealthCritical    ModuleHealthStatus = "critical"
	HealthNeedsReview ModuleHealthStatus = "needs_review"
	HealthGood        ModuleHealthStatus = "good"
)

// ModuleHealth carries a module's derived health status.
type ModuleHealth struct {
	Status ModuleHealthStatus `json:"status" yaml:"status"`
}
