package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ravelscan/ravel/domain"
	"github.com/ravelscan/ravel/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "ravel",
	Short: "Coupling, distance and volatility analysis for Rust workspaces",
	Long: `ravel analyzes a Rust workspace's module structure and derives a
Balance Score from the coupling strength, module distance, and commit
volatility of every cross-module reference.

Features:
  • tree-sitter based syntax extraction of items and usages
  • coupling graph with cycle detection (Tarjan's SCC)
  • git-mined volatility classification
  • balance scoring and structural issue detection
  • ranked hotspot output`,
	Version: version.Short(),
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewAnalyzeCmd())
	rootCmd.AddCommand(NewVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to the exit contract: 1 for configuration and I/O
// failures, 2 for internal analysis bugs (violated invariants).
func exitCode(err error) int {
	var derr domain.DomainError
	if errors.As(err, &derr) {
		switch derr.Code {
		case domain.ErrCodeInvariant, domain.ErrCodeInternal:
			return 2
		}
	}
	return 1
}
