package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ravelscan/ravel/app"
	"github.com/ravelscan/ravel/domain"
	"github.com/ravelscan/ravel/internal/config"
	"github.com/ravelscan/ravel/service"
)

// AnalyzeCommand represents the analyze command: mutually exclusive
// format flags, a --config flag, and a use case built from the service
// layer.
type AnalyzeCommand struct {
	jsonOut    bool
	yamlOut    bool
	configFile string
	outputFile string
	noGit      bool
	gitMonths  int
}

// NewAnalyzeCommand creates a new analyze command.
func NewAnalyzeCommand() *AnalyzeCommand { return &AnalyzeCommand{} }

// NewAnalyzeCmd creates and returns the analyze cobra command.
func NewAnalyzeCmd() *cobra.Command {
	c := NewAnalyzeCommand()

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze coupling, distance and volatility for a Rust workspace",
		Long: `Build the coupling graph for a Rust workspace, classify module
volatility from git history, compute the balance score, and report
structural issues and hotspots.

Examples:
  ravel analyze .
  ravel analyze --json ./my-crate > report.json
  ravel analyze --no-git ./my-crate`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.run,
	}

	cmd.Flags().BoolVar(&c.jsonOut, "json", false, "Emit JSON instead of the text report")
	cmd.Flags().BoolVar(&c.yamlOut, "yaml", false, "Emit YAML instead of the text report")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Configuration file path (ravel.toml)")
	cmd.Flags().StringVarP(&c.outputFile, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&c.noGit, "no-git", false, "Skip git history mining; classify every module Unknown")
	cmd.Flags().IntVar(&c.gitMonths, "git-months", 0, "Commit history window in months (0 = use config/default)")
	return cmd
}

func (c *AnalyzeCommand) run(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("invalid path %s: %w", root, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("path does not exist: %s", root)
	}

	if c.jsonOut && c.yamlOut {
		return fmt.Errorf("only one of --json, --yaml can be specified")
	}

	cfg, diagnostics, err := config.Load(c.configFile, abs)
	if err != nil {
		return err
	}
	if c.noGit {
		cfg.Analysis.NoGit = true
	}
	if c.gitMonths > 0 {
		cfg.Analysis.GitMonths = c.gitMonths
	}
	for _, d := range diagnostics {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", d.Message)
	}

	format := domain.OutputFormatText
	switch {
	case c.jsonOut:
		format = domain.OutputFormatJSON
	case c.yamlOut:
		format = domain.OutputFormatYAML
	}

	req := domain.AnalysisRequest{
		Root:         abs,
		Config:       cfg,
		OutputFormat: format,
		OutputWriter: cmd.OutOrStdout(),
		OutputPath:   c.outputFile,
		Diagnostics:  diagnostics,
	}

	useCase := app.NewAnalyzeUseCase(service.NewAnalyzeService(), service.NewExportService())
	_, err = useCase.Execute(cmd.Context(), req)
	return err
}
