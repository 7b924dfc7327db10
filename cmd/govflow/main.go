package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/viant/govflow/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:          "govflow",
	Short:        "Incident workflow engine with a human governance gate",
	SilenceUsage: true,
}

func main() {
	cli.SetupCLI(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
