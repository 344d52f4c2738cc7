package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var (
	snapshotFrom       string
	snapshotTo         string
	snapshotDepartment string
	snapshotStore      bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Planning snapshots",
}

var snapshotBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a planning snapshot",
	Long: `Assembles a fresh planning snapshot for the selected range and
optionally stores it in the cache so the next plan run reuses it.

Examples:
  shiftward snapshot build --from 01/09/2026 --to 31/01/2027 --cache`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("snapshot building requires a database connection")
		}

		departmentID, err := app.resolveDepartment(snapshotDepartment)
		if err != nil {
			return err
		}
		selected, err := parseRange(snapshotFrom, snapshotTo)
		if err != nil {
			return err
		}

		snapshot, err := app.SnapshotBuilder.Build(cmd.Context(), departmentID, selected)
		if err != nil {
			return err
		}
		if snapshotStore && app.SnapshotCache != nil {
			if err := app.SnapshotCache.Put(cmd.Context(), snapshot); err != nil {
				fmt.Printf("  warning: snapshot not cached: %v\n", err)
			}
		}

		fmt.Println()
		fmt.Printf("  SNAPSHOT %s  %s to %s\n",
			snapshot.GeneratedAt.Format("2006-01-02 15:04:05"),
			snapshot.SelectedRange.Start.Format("02/01/2006"),
			snapshot.SelectedRange.End.Format("02/01/2006"))
		fmt.Printf("  window %s to %s, %d Fridays, %d workers\n",
			snapshot.Window.Start.Format("02/01/2006"),
			snapshot.Window.End.Format("02/01/2006"),
			len(snapshot.Fridays),
			len(snapshot.Workers))
		fmt.Println()
		return nil
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show per-worker snapshot detail",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("snapshot inspection requires a database connection")
		}

		departmentID, err := app.resolveDepartment(snapshotDepartment)
		if err != nil {
			return err
		}
		selected, err := parseRange(snapshotFrom, snapshotTo)
		if err != nil {
			return err
		}

		snapshot, err := app.SnapshotBuilder.Build(cmd.Context(), departmentID, selected)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(snapshot.Workers))
		for id := range snapshot.Workers {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		fmt.Println()
		for _, id := range ids {
			ws := snapshot.Workers[id]
			stats := snapshot.StatsFor(id)
			fmt.Printf("  %s %s (%s)\n", ws.Profile.FirstName, ws.Profile.LastName, id)
			fmt.Printf("    interval %d, %d secondary total, accuracy %.0f%%\n",
				ws.Profile.ClosingInterval, stats.TotalSecondary, stats.ClosingAccuracyPct)
			if len(ws.MandatoryClosingDates) > 0 {
				fmt.Printf("    mandatory closings: %s\n", joinDateKeys(ws.MandatoryClosingDates))
			}
			if len(ws.OptimalClosingDates) > 0 {
				fmt.Printf("    optimal closings:   %s\n", joinDateKeys(ws.OptimalClosingDates))
			}
			if ws.LastClosingFriday != "" {
				fmt.Printf("    last closing:       %s\n", ws.LastClosingFriday)
			}
			if len(ws.PrimaryBusyDays) > 0 {
				fmt.Printf("    primary busy days:  %d\n", len(ws.PrimaryBusyDays))
			}
			if len(ws.Preferences) > 0 {
				fmt.Printf("    preferences:        %d\n", len(ws.Preferences))
			}
			fmt.Println()
		}
		return nil
	},
}

func joinDateKeys[T ~string](keys []T) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

func init() {
	for _, cmd := range []*cobra.Command{snapshotBuildCmd, snapshotShowCmd} {
		cmd.Flags().StringVar(&snapshotFrom, "from", "", "range start (DD/MM/YYYY)")
		cmd.Flags().StringVar(&snapshotTo, "to", "", "range end (DD/MM/YYYY)")
		cmd.Flags().StringVar(&snapshotDepartment, "department", "", "department id")
		_ = cmd.MarkFlagRequired("from")
		_ = cmd.MarkFlagRequired("to")
	}
	snapshotBuildCmd.Flags().BoolVar(&snapshotStore, "cache", false, "store the snapshot in the cache")

	snapshotCmd.AddCommand(snapshotBuildCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	rootCmd.AddCommand(snapshotCmd)
}
