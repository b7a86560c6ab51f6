package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AkaOko/react-trpo/app/services"
	"github.com/AkaOko/react-trpo/pkg/app"
	"github.com/AkaOko/react-trpo/pkg/database"
)

var (
	reconcileFix     bool
	reconcileWorkers int
)

// jewelry users:reconcile [--fix] [--workers 4]
var usersReconcileCmd = &cobra.Command{
	Use:   "users:reconcile",
	Short: "Compare each user's delivered total with their delivered orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := app.OpenDB()
		if err != nil {
			return err
		}
		defer database.Close(db)

		report, err := services.NewUserService(db).Reconcile(cmd.Context(), reconcileWorkers, reconcileFix)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d user(s) checked, %d drifted\n", report.Checked, len(report.Drifts))
		if len(report.Drifts) == 0 {
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "USER\tEMAIL\tSTORED\tCOMPUTED\tFIXED")
		for _, d := range report.Drifts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", d.UserID, d.Email, d.Stored.StringFixed(2), d.Computed.StringFixed(2), d.Fixed)
		}
		return w.Flush()
	},
}

func init() {
	usersReconcileCmd.Flags().BoolVar(&reconcileFix, "fix", false, "overwrite drifted totals with the computed sum")
	usersReconcileCmd.Flags().IntVar(&reconcileWorkers, "workers", 4, "number of concurrent workers")
}
