package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/config"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/logging"
)

var (
	// Global flags
	configPath string
	debugMode  bool
	dbPath     string
	logDir     string

	// Logger
	logger *zap.Logger

	// Loaded configuration, resolved in PersistentPreRunE
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "aptsbot",
	Short: "aptsbot - conversational task dispatcher for apartment operations",
	Long: `aptsbot interprets free-text operator messages into structured operations
over check-in/check-out tasks and apartment assignments.

An NLP provider maps each message onto one of a small catalog of functions;
the dispatcher validates and authorizes the call against the entity store,
then the result is narrated back in natural language.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if debugMode {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if debugMode {
			cfg.Logging.DebugMode = true
		}
		if dbPath != "" {
			cfg.Store.DatabasePath = dbPath
		}

		if err := logging.Initialize(logDir, logging.Settings{
			DebugMode:  cfg.Logging.DebugMode,
			Categories: cfg.Logging.Categories,
			Level:      cfg.Logging.Level,
		}); err != nil {
			return fmt.Errorf("failed to initialize category logs: %w", err)
		}
		logging.Boot("aptsbot starting (config=%s db=%s)", configPath, cfg.Store.DatabasePath)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch interactive chat
		return runChat(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "aptsbot.yaml", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", ".aptsbot/logs", "Directory for category log files")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
