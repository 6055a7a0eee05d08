package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	appconfig "github.com/serhataydn/viewgen/internal/config"
	"github.com/serhataydn/viewgen/internal/executor"
	"github.com/serhataydn/viewgen/internal/llm"
	"github.com/serhataydn/viewgen/internal/pipeline"
	"github.com/serhataydn/viewgen/internal/schema"
	"github.com/serhataydn/viewgen/internal/view"
	"github.com/serhataydn/viewgen/pkg/logger"
	"github.com/serhataydn/viewgen/pkg/progress"
)

var rootCmd = &cobra.Command{
	Use:   "viewgen",
	Short: "Validate and generate database views against a known schema",
	Long:  `A toolkit that checks machine-generated database view specifications for structural legality and semantic plausibility, and optionally drives the generation and execution ends of that workflow.`,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a batch of candidate view specifications",
	RunE:  runValidate,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate candidate views with an LLM and validate them",
	RunE:  runGenerate,
}

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Print the schema as generation-prompt context",
	RunE:  runContext,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Seed a demo SQLite database and write its schema document",
	RunE:  runDemo,
}

var (
	schemaPath    string
	viewsPath     string
	configPath    string
	outputPath    string
	sqlOutputPath string
	numViews      int
	providerName  string
	modelName     string
	applyViews    bool
	demoDBPath    string
	demoSchemaOut string
	verbose       bool
)

func init() {
	validateCmd.Flags().StringVar(&schemaPath, "schema", "", "Path to the schema JSON document")
	validateCmd.Flags().StringVar(&viewsPath, "views", "", "Path to the candidate views JSON file")
	validateCmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration file")
	validateCmd.Flags().StringVar(&outputPath, "output", "", "Write the full report to this JSON file")
	validateCmd.Flags().StringVar(&sqlOutputPath, "sql-output", "", "Write accepted view SQL to this file")
	validateCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	validateCmd.MarkFlagRequired("schema")
	validateCmd.MarkFlagRequired("views")

	generateCmd.Flags().StringVar(&schemaPath, "schema", "", "Path to the schema JSON document")
	generateCmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration file")
	generateCmd.Flags().IntVar(&numViews, "num-views", 0, "Number of views to request (default from config)")
	generateCmd.Flags().StringVar(&providerName, "provider", "", "LLM provider (ollama or openai)")
	generateCmd.Flags().StringVar(&modelName, "model", "", "Model name (provider-specific)")
	generateCmd.Flags().StringVar(&outputPath, "output", "", "Write the full report to this JSON file")
	generateCmd.Flags().StringVar(&sqlOutputPath, "sql-output", "", "Write accepted view SQL to this file")
	generateCmd.Flags().BoolVar(&applyViews, "apply", false, "Create accepted views in the configured database")
	generateCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	generateCmd.MarkFlagRequired("schema")

	contextCmd.Flags().StringVar(&schemaPath, "schema", "", "Path to the schema JSON document")
	contextCmd.MarkFlagRequired("schema")

	demoCmd.Flags().StringVar(&demoDBPath, "db", "demo.db", "Path of the SQLite database to seed")
	demoCmd.Flags().StringVar(&demoSchemaOut, "schema-out", "demo_schema.json", "Where to write the demo schema document")
	demoCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(demoCmd)

	cobra.OnInitialize(func() {
		rootCmd.SilenceUsage = true
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*appconfig.Config, error) {
	if configPath == "" {
		return appconfig.Default(), nil
	}
	return appconfig.LoadConfig(configPath)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewLogger(verbose)

	graph, err := schema.LoadFile(schemaPath)
	if err != nil {
		return err
	}
	log.Infof("Loaded schema: %d tables, %d foreign keys", len(graph.Tables()), len(graph.Edges()))

	data, err := os.ReadFile(viewsPath)
	if err != nil {
		return fmt.Errorf("failed to read candidate views: %w", err)
	}
	candidates, err := view.DecodeBatch(data)
	if err != nil {
		return err
	}

	report, err := runPipeline(ctx, graph, cfg, log, candidates)
	if err != nil {
		return err
	}

	return emitReport(report)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if providerName != "" {
		cfg.LLM.Provider = strings.ToLower(providerName)
	}
	if modelName != "" {
		cfg.LLM.Model = modelName
	}
	if numViews > 0 {
		cfg.LLM.NumViews = numViews
	}
	if cfg.LLM.NumViews > cfg.LLM.MaxViews {
		cfg.LLM.NumViews = cfg.LLM.MaxViews
	}

	log := logger.NewLogger(verbose)

	graph, err := schema.LoadFile(schemaPath)
	if err != nil {
		return err
	}
	log.Infof("Loaded schema: %d tables, %d foreign keys", len(graph.Tables()), len(graph.Edges()))

	client, err := llm.NewClient(cfg, log)
	if err != nil {
		return err
	}

	candidates, err := client.GenerateViews(ctx, graph, cfg.LLM.NumViews)
	if err != nil {
		return fmt.Errorf("view generation failed: %w", err)
	}

	report, err := runPipeline(ctx, graph, cfg, log, candidates)
	if err != nil {
		return err
	}

	if applyViews {
		if err := applyAccepted(ctx, cfg, log, report); err != nil {
			return err
		}
	}

	return emitReport(report)
}

func runPipeline(ctx context.Context, graph *schema.Graph, cfg *appconfig.Config, log *logger.Logger, candidates []view.Candidate) (*pipeline.Report, error) {
	bar := progress.NewBar(int64(len(candidates)), "Validating views")
	p := pipeline.New(graph, cfg, log, pipeline.WithProgress(func(string, bool) {
		bar.Increment()
	}))

	report, err := p.Run(ctx, candidates)
	bar.Finish()
	if err != nil {
		return nil, fmt.Errorf("validation run failed: %w", err)
	}
	return report, nil
}

func applyAccepted(ctx context.Context, cfg *appconfig.Config, log *logger.Logger, report *pipeline.Report) error {
	exec, err := executor.Open(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open target database: %w", err)
	}
	defer exec.Close()

	for _, result := range report.Accepted() {
		if err := exec.Apply(ctx, result.SQL); err != nil {
			return fmt.Errorf("failed to apply view %q: %w", result.ViewName, err)
		}
		log.Infof("Created view %q", result.ViewName)
	}
	return nil
}

func runContext(cmd *cobra.Command, args []string) error {
	graph, err := schema.LoadFile(schemaPath)
	if err != nil {
		return err
	}

	fmt.Println(graph.PromptContext())
	return nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	log := logger.NewLogger(verbose)

	cfg := appconfig.Default()
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = demoDBPath

	exec, err := executor.Open(cfg, log)
	if err != nil {
		return err
	}
	defer exec.Close()

	if err := exec.Seed(ctx); err != nil {
		return err
	}
	if err := executor.WriteDemoSchema(demoSchemaOut); err != nil {
		return err
	}

	fmt.Printf("\nDemo database ready: %s\n", demoDBPath)
	fmt.Printf("Schema document: %s\n", demoSchemaOut)
	return nil
}

func emitReport(report *pipeline.Report) error {
	fmt.Println()
	fmt.Println("Validation Summary")
	fmt.Println(strings.Repeat("=", 36))
	fmt.Printf("Generated:          %d\n", report.TotalGenerated)
	fmt.Printf("Valid:              %d\n", report.ValidViews)
	fmt.Printf("Invalid:            %d\n", report.InvalidViews)
	fmt.Printf("Duplicates removed: %d\n", report.DuplicatesRemoved)
	fmt.Printf("Success rate:       %.1f%%\n", report.SuccessRate*100)

	for _, result := range report.Results {
		if result.Valid && len(result.Issues) == 0 {
			continue
		}
		fmt.Printf("\nView %q:\n", result.ViewName)
		for _, issue := range result.Issues {
			fmt.Printf("  [%s] %s\n", issue.Severity, issue.Message)
		}
	}

	if outputPath != "" {
		if err := report.ExportFile(outputPath); err != nil {
			return err
		}
		fmt.Printf("\nReport written to %s\n", outputPath)
	}

	if sqlOutputPath != "" {
		var b strings.Builder
		for _, result := range report.Accepted() {
			b.WriteString(result.SQL)
			b.WriteString("\n\n")
		}
		if err := os.WriteFile(sqlOutputPath, []byte(b.String()), 0o644); err != nil {
			return fmt.Errorf("failed to write SQL output: %w", err)
		}
		fmt.Printf("Accepted SQL written to %s\n", sqlOutputPath)
	}

	return nil
}
