package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "buzzctl",
		Short:        "CampusBuzz operator tool",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		migrateCmd(),
		seedCmd(),
		tokenCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
