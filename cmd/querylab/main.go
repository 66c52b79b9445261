// Package main provides the querylab command line client.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TFMV/querylab/cmd/querylab/config"
	"github.com/TFMV/querylab/pkg/errors"
)

var (
	// Version information (set by build flags)
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

const envPrefix = "QUERYLAB"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describe(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "querylab",
		Short: "SQL performance learning client",
		Long: `querylab runs SQL against the learning backend, compares query
performance side by side, shows EXPLAIN plans and browses your history.

Example:
  querylab login --email alice@example.com
  querylab query "SELECT * FROM sample_orders WHERE customer_id = 42"
  querylab compare "SELECT ..." "SELECT ..."`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadDotEnv(os.Getenv(envPrefix + "_ENV_FILE"))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file path")
	flags.String("base-url", "", "backend API base URL (default http://localhost:8080/api)")
	flags.Duration("timeout", 60*time.Second, "per-request timeout")
	flags.String("session-file", "", "session file path (default <user config dir>/querylab/session.yaml)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.Bool("color", true, "colour classified values")
	flags.Int("max-rows", 100, "maximum result rows to print")
	flags.Duration("poll-interval", 2*time.Second, "sample data progress polling interval")
	flags.Bool("metrics", false, "expose Prometheus metrics while the command runs")
	flags.String("metrics-address", ":9090", "metrics server address")

	// Bind flags to viper
	if err := v.BindPFlags(flags); err != nil {
		panic(fmt.Errorf("failed to bind flags: %w", err))
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd.AddCommand(
		newLoginCmd(v),
		newRegisterCmd(v),
		newLogoutCmd(v),
		newWhoamiCmd(v),
		newQueryCmd(v),
		newExplainCmd(v),
		newCompareCmd(v),
		newSamplesCmd(),
		newHistoryCmd(v),
		newAdminCmd(v),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "querylab SQL performance client\n")
			fmt.Fprintf(out, "Version:    %s\n", version)
			fmt.Fprintf(out, "Commit:     %s\n", commit)
			fmt.Fprintf(out, "Build Date: %s\n", buildDate)
		},
	}
}

// loadDotEnv loads a .env file into the environment. A missing default file
// is not an error; a missing explicitly named one is.
func loadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err == nil || (!explicit && stderrors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

func loadConfig(v *viper.Viper) (*config.Config, error) {
	// Load config file if specified
	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Build configuration
	cfg := &config.Config{
		BaseURL:      v.GetString("base-url"),
		Timeout:      v.GetDuration("timeout"),
		SessionFile:  v.GetString("session-file"),
		LogLevel:     v.GetString("log-level"),
		Color:        v.GetBool("color"),
		MaxRows:      v.GetInt("max-rows"),
		PollInterval: v.GetDuration("poll-interval"),
		Metrics: config.MetricsConfig{
			Enabled: v.GetBool("metrics"),
			Address: v.GetString("metrics-address"),
		},
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setupLogging(w io.Writer, level string) zerolog.Logger {
	// Configure zerolog
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldUnit = time.Millisecond

	// Set log level
	var logLevel zerolog.Level
	switch level {
	case "debug":
		logLevel = zerolog.DebugLevel
		// Enable caller info for debug level
		zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
			short := file
			for i := len(file) - 1; i > 0; i-- {
				if file[i] == '/' {
					short = file[i+1:]
					break
				}
			}
			return fmt.Sprintf("%s:%d", short, line)
		}
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.WarnLevel
	}

	logger := zerolog.New(w).
		Level(logLevel).
		With().
		Timestamp().
		Str("service", "querylab")

	if logLevel == zerolog.DebugLevel {
		logger = logger.Caller()
	}

	return logger.Logger()
}

const sessionHint = "not logged in or session expired; run 'querylab login'"

// describe turns an error into a message for the terminal.
func describe(err error) string {
	if errors.IsSessionRejected(err) {
		return sessionHint
	}
	if msg := errors.BackendMessage(err); msg != "" {
		return msg
	}
	var ce *errors.ClientError
	if !stderrors.As(err, &ce) {
		return err.Error()
	}
	switch ce.Code {
	case errors.CodePermissionDenied:
		return "this command requires the ADMIN role"
	case errors.CodeConnectionFailed:
		if ce.Cause != nil {
			return fmt.Sprintf("%s: %v", ce.Message, ce.Cause)
		}
	}
	return ce.Message
}
