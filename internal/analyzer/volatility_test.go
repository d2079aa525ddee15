package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ravelscan/ravel/domain"
)

func TestClassifyVolatility(t *testing.T) {
	assert.Equal(t, domain.VolatilityHigh, classifyVolatility(10, 2, 5))
	assert.Equal(t, domain.VolatilityLow, classifyVolatility(1, 2, 5), "below both p50 and p75 classifies Low")
	assert.Equal(t, domain.VolatilityMedium, classifyVolatility(3, 2, 5))
	assert.Equal(t, domain.VolatilityLow, classifyVolatility(0, 2, 5))
}

func TestPercentile(t *testing.T) {
	values := []int{1, 2, 3, 4, 5}
	assert.Equal(t, 3.0, percentile(values, 0.5))
	assert.Equal(t, 0.0, percentile(nil, 0.5))
}

func TestVolatilityOracle_NoGitDegradesToUnknown(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Analysis.NoGit = true
	oracle := NewVolatilityOracle(t.TempDir(), cfg, map[string]domain.ModulePath{})

	classes, err := oracle.Classify(context.Background(), []domain.ModulePath{"app::a", "app::b"})
	assert.NoError(t, err)
	assert.Equal(t, domain.VolatilityUnknown, classes["app::a"])
	assert.Equal(t, domain.VolatilityUnknown, classes["app::b"])
}

func TestVolatilityOracle_OverrideTakesPrecedence(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Analysis.NoGit = true
	cfg.Volatility.High = []string{"app::hot::**"}
	oracle := NewVolatilityOracle(t.TempDir(), cfg, map[string]domain.ModulePath{})

	got := oracle.applyOverride("app::hot::leaf", domain.VolatilityLow)
	assert.Equal(t, domain.VolatilityHigh, got)
}
