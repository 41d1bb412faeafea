package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stock-analyst/internal/advisor"
	"stock-analyst/internal/collector"
	"stock-analyst/internal/config"
	"stock-analyst/internal/logging"
	"stock-analyst/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-06-01"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Collector collector.Collector
	Store     store.DataStore
	LLMClient advisor.LLMClient
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config:    cfg,
		Logger:    logger,
		Collector: collector.NewYahooCollector(),
	}

	// Initialize SQLite store
	dataStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, some features may be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Database.Path).Msg("SQLite store initialized")
	}

	// Initialize LLM client if credentials are available
	if cfg.HasAdvisorCredentials() {
		llm, err := advisor.NewLLMClient(cfg)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize advisor")
		} else {
			app.LLMClient = llm
			logger.Debug().Str("provider", cfg.Advisor.Provider).Str("model", cfg.Advisor.Model).Msg("Advisor initialized")
		}
	}

	rootCmd := &cobra.Command{
		Use:   "analyst",
		Short: "Stock Analyst - fundamental and technical stock ranking CLI",
		Long: `Stock Analyst collects fundamentals and price history for a set of
tickers, scores each one on revenue growth, EBIT margin and moving
average trend, and ranks them against each other.

With an LLM provider configured it can also turn the ranked metrics
into prose investment notes.

Use 'analyst help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/stock-analyst)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newDataCmd(app))
	rootCmd.AddCommand(newReportCmd(app))
	rootCmd.AddCommand(newSummaryCmd(app))
	rootCmd.AddCommand(newPortfolioCmd(app))
	rootCmd.AddCommand(newExportCmd(app))
	rootCmd.AddCommand(newResetCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Stock Analyst v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Analysis")
			output.Printf("  quarters: %d\n", app.Config.Analysis.Quarters)
			output.Printf("  price history years: %d\n", app.Config.Analysis.PriceHistoryYears)
			output.Printf("  workers: %d\n", app.Config.Analysis.Workers)
			output.Bold("Advisor")
			output.Printf("  provider: %s\n", app.Config.Advisor.Provider)
			output.Printf("  model: %s\n", app.Config.Advisor.Model)
			output.Printf("  configured: %v\n", app.Config.HasAdvisorCredentials())
			output.Bold("Database")
			output.Printf("  path: %s\n", app.Config.Database.Path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func newResetCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all stored data and recreate the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Error("Store is not available")
				return errStoreUnavailable
			}
			if !force {
				output.Warning("This deletes all collected data and analysis results.")
				output.Println("Re-run with --force to confirm.")
				return nil
			}
			if err := app.Store.Reset(cmd.Context()); err != nil {
				return err
			}
			output.Success("Database cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "skip confirmation")
	return cmd
}
