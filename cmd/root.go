package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"linkscout/internal/config"
	"linkscout/internal/logger"
)

var (
	cfg      = config.Load()
	logMode  string
	logLevel string
	log      = logger.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "linkscout",
	Short: "Find internal-linking opportunities from page embeddings",
	Long: "linkscout ranks every page of a site against every other page by cosine similarity of their\n" +
		"embeddings and reports, for each page's closest matches, whether a hyperlink already exists.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(logMode, logLevel)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", cfg.Log.Mode, "Log format: dev or prod (env LINKSCOUT_LOG_MODE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.Log.Level, "Log level: debug, info, warn, error (env LINKSCOUT_LOG_LEVEL)")
}

// readInput reads a whole input file; "-" means stdin.
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
