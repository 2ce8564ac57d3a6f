// Package main provides the CLI entrypoint for liftplot.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/liftplot/internal/config"
	"github.com/verte-zerg/liftplot/internal/ingest"
	"github.com/verte-zerg/liftplot/internal/model"
	"github.com/verte-zerg/liftplot/internal/render"
	"github.com/verte-zerg/liftplot/internal/reportui"
	"github.com/verte-zerg/liftplot/internal/stats"
)

const (
	defaultInput     = "strong.csv"
	defaultOutput    = "strong.pdf"
	defaultFormat    = formatPDF
	defaultDelimiter = ","
	defaultUnit      = "kg"
)

const (
	formatPDF  = "pdf"
	formatText = "text"
)

var (
	reportInput     string
	reportOutput    string
	reportFormat    string
	reportDelimiter string
	reportWindow    int
	reportMinPoints int
	reportUnit      string
	verbose         bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "liftplot",
		Short:         "Training report from a workout export",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReportCmd,
	}

	rootCmd.PersistentFlags().StringVar(&reportInput, "input", defaultInput, "workout export (CSV)")
	rootCmd.PersistentFlags().StringVar(&reportDelimiter, "delimiter", defaultDelimiter, "field delimiter of the export")
	rootCmd.PersistentFlags().IntVar(&reportWindow, "window", stats.DefaultSmoothingRadius, "trend line half-window (0 disables smoothing)")
	rootCmd.PersistentFlags().IntVar(&reportMinPoints, "min-points", stats.DefaultMinPoints, "minimum points for a chart to be drawn")
	rootCmd.PersistentFlags().StringVar(&reportUnit, "unit", defaultUnit, "weight unit label")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.Flags().StringVar(&reportOutput, "output", defaultOutput, "report output path")
	rootCmd.Flags().StringVar(&reportFormat, "format", defaultFormat, "output format (pdf, text)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newExercisesCmd())
	rootCmd.AddCommand(newViewCmd())

	return rootCmd
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.InfoLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	log := newLogger()
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	report, err := loadReport(cfg, log)
	if err != nil {
		return err
	}
	charts := stats.PlanCharts(report, chartOptions(cfg), log)
	opener, err := documentOpener(cfg)
	if err != nil {
		return err
	}
	if err := stats.WriteReport(charts, opener, log); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	log.WithField("output", cfg.OutputPath).Info("report saved")
	return nil
}

func newExercisesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exercises",
		Short: "List exercises with totals",
		Args:  cobra.NoArgs,
		RunE:  runExercisesCmd,
	}
}

func runExercisesCmd(cmd *cobra.Command, _ []string) error {
	log := newLogger()
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	report, err := loadReport(cfg, log)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report, cfg.Unit); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderExerciseTable(out, report.Exercises, cfg.Unit); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Browse report charts in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runViewCmd,
	}
}

func runViewCmd(cmd *cobra.Command, _ []string) error {
	log := newLogger()
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	report, err := loadReport(cfg, log)
	if err != nil {
		return err
	}
	charts := stats.PlanCharts(report, chartOptions(cfg), log)
	program := tea.NewProgram(reportui.NewModel(report, charts, cfg.Unit), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// resolveConfig merges the config file into flags the user did not set.
func resolveConfig(cmd *cobra.Command) (model.ReportConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.ReportConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "input", &reportInput, fileCfg.Report.Input)
	applyStringConfig(cmd, "output", &reportOutput, fileCfg.Report.Output)
	applyStringConfig(cmd, "format", &reportFormat, fileCfg.Report.Format)
	applyStringConfig(cmd, "delimiter", &reportDelimiter, fileCfg.Report.Delimiter)
	applyIntConfig(cmd, "window", &reportWindow, fileCfg.Report.Window)
	applyIntConfig(cmd, "min-points", &reportMinPoints, fileCfg.Report.MinPoints)
	applyStringConfig(cmd, "unit", &reportUnit, fileCfg.Report.Unit)

	delim, err := parseDelimiter(reportDelimiter)
	if err != nil {
		return model.ReportConfig{}, err
	}
	cfg := model.ReportConfig{
		InputPath:  reportInput,
		OutputPath: reportOutput,
		Format:     strings.ToLower(strings.TrimSpace(reportFormat)),
		Delimiter:  delim,
		Window:     reportWindow,
		MinPoints:  reportMinPoints,
		Unit:       reportUnit,
	}
	if err := validateConfig(cfg); err != nil {
		return model.ReportConfig{}, err
	}
	return cfg, nil
}

func loadReport(cfg model.ReportConfig, log logrus.FieldLogger) (stats.Report, error) {
	rows, err := ingest.ReadFile(cfg.InputPath, cfg.Delimiter)
	if err != nil {
		return stats.Report{}, fmt.Errorf("failed to read %s: %w", cfg.InputPath, err)
	}
	report, err := stats.BuildReport(rows)
	if err != nil {
		return stats.Report{}, fmt.Errorf("failed to parse %s: %w", cfg.InputPath, err)
	}
	log.WithFields(logrus.Fields{
		"rows":      len(rows),
		"days":      len(report.Workouts),
		"weeks":     len(report.Weekly),
		"exercises": len(report.Exercises),
	}).Info("export loaded")
	return report, nil
}

func chartOptions(cfg model.ReportConfig) stats.ChartOptions {
	return stats.ChartOptions{
		Unit:      cfg.Unit,
		Window:    cfg.Window,
		MinPoints: cfg.MinPoints,
	}
}

func documentOpener(cfg model.ReportConfig) (stats.Opener, error) {
	switch cfg.Format {
	case formatPDF:
		return func() (stats.Document, error) {
			return render.CreatePDF(cfg.OutputPath)
		}, nil
	case formatText:
		return func() (stats.Document, error) {
			return render.CreateText(cfg.OutputPath, 0)
		}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (available: %s, %s)", cfg.Format, formatPDF, formatText)
	}
}

func parseDelimiter(s string) (rune, error) {
	if s == `\t` || s == "tab" {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("--delimiter must be a single character")
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# liftplot configuration
# Uncomment a value to enable it. CLI flags override config values.

[report]
# input = %q        # Workout export (CSV)
# output = %q       # Report output path
# format = %q              # Output format: pdf or text
# delimiter = %q            # Field delimiter of the export
# window = %d                 # Trend line half-window (0 disables smoothing)
# min-points = %d             # Minimum points for a chart to be drawn
# unit = %q                # Weight unit label
`,
		defaultInput,
		defaultOutput,
		defaultFormat,
		defaultDelimiter,
		stats.DefaultSmoothingRadius,
		stats.DefaultMinPoints,
		defaultUnit,
	)
}

func validateConfig(cfg model.ReportConfig) error {
	if cfg.InputPath == "" {
		return fmt.Errorf("--input must not be empty")
	}
	if cfg.OutputPath == "" {
		return fmt.Errorf("--output must not be empty")
	}
	if cfg.Window < 0 {
		return fmt.Errorf("--window must be >= 0")
	}
	if cfg.MinPoints < 1 {
		return fmt.Errorf("--min-points must be >= 1")
	}
	return nil
}
