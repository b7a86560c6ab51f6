package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AkaOko/react-trpo/database/seeders"
	"github.com/AkaOko/react-trpo/pkg/app"
	"github.com/AkaOko/react-trpo/pkg/database"
	"github.com/AkaOko/react-trpo/pkg/migration"
)

// jewelry migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := app.OpenDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		n, err := migration.New(db, cmd.OutOrStdout()).Run()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d migration(s) applied\n", n)
		return nil
	},
}

// jewelry migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := app.OpenDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		n, err := migration.New(db, cmd.OutOrStdout()).Rollback()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d migration(s) rolled back\n", n)
		return nil
	},
}

// jewelry migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := app.OpenDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		statuses, err := migration.New(db, nil).Status()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "MIGRATION\tRAN\tBATCH")
		for _, s := range statuses {
			batch := "-"
			if s.Ran {
				batch = fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(w, "%s\t%t\t%s\n", s.Name, s.Ran, batch)
		}
		return w.Flush()
	},
}

var seedOnly string

// jewelry seed [--only users,catalog]
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run the database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := app.OpenDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		var only []string
		if seedOnly != "" {
			only = strings.Split(seedOnly, ",")
		}
		return seeders.Run(db, cmd.OutOrStdout(), only...)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedOnly, "only", "", "comma separated seeders to run ("+strings.Join(seeders.Names(), ", ")+")")
}
