// Command studyctl runs administrative jobs against the studyload store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"studyload/config"
	"studyload/store"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "studyctl",
		Short:         "studyctl - admin tools for studyload",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(riskCmd())
	rootCmd.AddCommand(collisionsCmd())
	rootCmd.AddCommand(remindCmd())
	return rootCmd
}

// openBackend loads configuration and connects to the configured store.
func openBackend(ctx context.Context) (config.Config, store.Backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	b, err := store.Open(ctx, cfg)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("open store: %w", err)
	}
	return cfg, b, nil
}
