// Package cli implements the govflow commands.
package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"github.com/viant/govflow"
	"github.com/viant/govflow/internal/log"
)

// SetupCLI registers the govflow commands on rootCmd.
func SetupCLI(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().String("config", "", "YAML config URL (any afs-supported scheme)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.AddCommand(newAssessCmd(), newScenarioCmd())
}

func loadConfig(ctx context.Context, cmd *cobra.Command) (*govflow.Config, error) {
	URL, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	config := govflow.DefaultConfig()
	if URL != "" {
		if config, err = govflow.LoadConfig(ctx, URL); err != nil {
			return nil, err
		}
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		config.Log.Level = level
	}
	log.SetLevel(config.Log.Level)
	log.GetLogger().Debugf("running %s with config %q", cmd.Name(), URL)
	return config, nil
}

func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
