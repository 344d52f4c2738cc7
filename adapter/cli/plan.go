package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/felixgeelhaar/shiftward/internal/roster/application/services"
	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/spf13/cobra"
)

var (
	planFrom       string
	planTo         string
	planDepartment string
	planRefresh    bool
	planShowLogs   bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan secondary assignments",
}

var planGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the roster for a date range",
	Long: `Generates the secondary roster for the selected range: closing
crews for every Friday, weekend task triads, and weekday cells.
The result replaces any stored assignments inside the range.

Examples:
  shiftward plan generate --from 01/09/2026 --to 31/01/2027
  shiftward plan generate --from 01/09/2026 --to 31/01/2027 --refresh`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("planning requires a database connection")
		}

		departmentID, err := app.resolveDepartment(planDepartment)
		if err != nil {
			return err
		}
		selected, err := parseRange(planFrom, planTo)
		if err != nil {
			return err
		}

		result, err := app.PlanService.GeneratePlan(cmd.Context(), departmentID, selected, app.PlanOptions, planRefresh)
		if err != nil {
			return err
		}

		renderPlan(result)
		return nil
	},
}

func renderPlan(result *services.PlanResult) {
	plan := result.Plan

	fmt.Println()
	fmt.Println("  CLOSING CREWS")
	fmt.Println(strings.Repeat("-", 60))
	fridays := make([]domain.DateKey, 0, len(plan.ClosersByFriday))
	for friday := range plan.ClosersByFriday {
		fridays = append(fridays, friday)
	}
	sort.Slice(fridays, func(i, j int) bool {
		a, _ := domain.ParseDateKey(fridays[i])
		b, _ := domain.ParseDateKey(fridays[j])
		return a.Before(b)
	})
	for _, friday := range fridays {
		crew := plan.ClosersByFriday[friday]
		fmt.Printf("    %s  (need %d)\n", friday, crew.RequiredCount)
		for _, id := range crew.Forced {
			fmt.Printf("      %-36s  mandatory\n", id)
		}
		for _, pick := range crew.Assigned {
			fmt.Printf("      %-36s  %s\n", pick.WorkerID, pick.Reason)
		}
	}

	fmt.Println()
	fmt.Printf("  ASSIGNMENTS: %d cells filled\n", len(plan.Assignments))

	if len(result.ChangedWorkers) > 0 {
		fmt.Println()
		fmt.Println("  CHANGED WORKERS")
		fmt.Println(strings.Repeat("-", 60))
		for _, id := range result.ChangedWorkers {
			fmt.Printf("    %s\n", id)
		}
	}

	if len(plan.Warnings) > 0 {
		fmt.Println()
		fmt.Println("  WARNINGS")
		fmt.Println(strings.Repeat("-", 60))
		for _, w := range plan.Warnings {
			fmt.Printf("    %s\n", w)
		}
	}

	if planShowLogs && len(plan.Logs) > 0 {
		fmt.Println()
		fmt.Println("  LOG")
		fmt.Println(strings.Repeat("-", 60))
		for _, l := range plan.Logs {
			fmt.Printf("    %s\n", l)
		}
	}
	fmt.Println()
}

func init() {
	planGenerateCmd.Flags().StringVar(&planFrom, "from", "", "range start (DD/MM/YYYY)")
	planGenerateCmd.Flags().StringVar(&planTo, "to", "", "range end (DD/MM/YYYY)")
	planGenerateCmd.Flags().StringVar(&planDepartment, "department", "", "department id")
	planGenerateCmd.Flags().BoolVar(&planRefresh, "refresh", false, "ignore the cached snapshot and rebuild")
	planGenerateCmd.Flags().BoolVar(&planShowLogs, "show-logs", false, "print the engine calculation log")
	_ = planGenerateCmd.MarkFlagRequired("from")
	_ = planGenerateCmd.MarkFlagRequired("to")

	planCmd.AddCommand(planGenerateCmd)
	rootCmd.AddCommand(planCmd)
}
