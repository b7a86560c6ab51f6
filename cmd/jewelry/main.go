package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/AkaOko/react-trpo/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "jewelry",
	Short:         "Jewelry shop backend",
	Long:          "Serves the jewelry shop API and manages its database.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// maintenance
	rootCmd.AddCommand(usersReconcileCmd)
}
