package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	closingFrom       string
	closingTo         string
	closingDepartment string
	closingWorker     string
	closingShowLog    bool
	closingDate       string
)

var closingCmd = &cobra.Command{
	Use:   "closing",
	Short: "Closing duty schedules",
}

var closingComputeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute one worker's closing Fridays",
	Long: `Computes the mandatory and optimal closing Fridays for a worker
over the selected range, spaced by the worker's closing interval.

Examples:
  shiftward closing compute --worker 6b1e... --from 01/09/2026 --to 31/01/2027`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("closing computation requires a database connection")
		}

		departmentID, err := app.resolveDepartment(closingDepartment)
		if err != nil {
			return err
		}
		workerID, err := uuid.Parse(closingWorker)
		if err != nil {
			return fmt.Errorf("invalid worker id %q: %w", closingWorker, err)
		}
		selected, err := parseRange(closingFrom, closingTo)
		if err != nil {
			return err
		}

		result, err := app.ClosingService.ComputeForWorker(cmd.Context(), departmentID, workerID, selected)
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println("  MANDATORY CLOSINGS")
		fmt.Println(strings.Repeat("-", 60))
		if len(result.RequiredDates) == 0 {
			fmt.Println("    none")
		}
		for _, d := range result.RequiredDates {
			fmt.Printf("    %s\n", domain.NewDateKey(d))
		}

		fmt.Println()
		fmt.Println("  OPTIMAL CLOSINGS")
		fmt.Println(strings.Repeat("-", 60))
		if len(result.OptimalDates) == 0 {
			fmt.Println("    none")
		}
		for _, d := range result.OptimalDates {
			fmt.Printf("    %s\n", domain.NewDateKey(d))
		}

		if len(result.UserAlerts) > 0 {
			fmt.Println()
			fmt.Println("  ALERTS")
			fmt.Println(strings.Repeat("-", 60))
			for _, a := range result.UserAlerts {
				fmt.Printf("    %s\n", a)
			}
		}

		if closingShowLog && len(result.CalculationLog) > 0 {
			fmt.Println()
			fmt.Println("  LOG")
			fmt.Println(strings.Repeat("-", 60))
			for _, l := range result.CalculationLog {
				fmt.Printf("    %s\n", l)
			}
		}
		fmt.Println()
		return nil
	},
}

var closingRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record an actual closing Friday",
	Long: `Records that a worker actually closed on a Friday. The closing
history anchors the interval math: the planner spaces future closings
from the most recent recorded one.

Examples:
  shiftward closing record --worker 6b1e... --date 04/09/2026`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("closing entry requires a database connection")
		}

		departmentID, err := app.resolveDepartment(closingDepartment)
		if err != nil {
			return err
		}
		workerID, err := uuid.Parse(closingWorker)
		if err != nil {
			return fmt.Errorf("invalid worker id %q: %w", closingWorker, err)
		}
		day, err := domain.ParseDateKey(domain.DateKey(closingDate))
		if err != nil {
			return fmt.Errorf("invalid --date, use DD/MM/YYYY: %w", err)
		}
		if day.Weekday() != time.Friday {
			return fmt.Errorf("%s is a %s; closings are recorded on Fridays", closingDate, day.Weekday())
		}

		if err := app.DutyRepo.RecordClosing(cmd.Context(), departmentID, workerID.String(), day); err != nil {
			return fmt.Errorf("record closing: %w", err)
		}

		fmt.Printf("closing recorded: %s on %s\n", workerID, closingDate)
		return nil
	},
}

func init() {
	closingComputeCmd.Flags().StringVar(&closingWorker, "worker", "", "worker id")
	closingComputeCmd.Flags().StringVar(&closingFrom, "from", "", "range start (DD/MM/YYYY)")
	closingComputeCmd.Flags().StringVar(&closingTo, "to", "", "range end (DD/MM/YYYY)")
	closingComputeCmd.Flags().StringVar(&closingDepartment, "department", "", "department id")
	closingComputeCmd.Flags().BoolVar(&closingShowLog, "show-log", false, "print the calculation log")
	_ = closingComputeCmd.MarkFlagRequired("worker")
	_ = closingComputeCmd.MarkFlagRequired("from")
	_ = closingComputeCmd.MarkFlagRequired("to")

	closingRecordCmd.Flags().StringVar(&closingWorker, "worker", "", "worker id")
	closingRecordCmd.Flags().StringVar(&closingDate, "date", "", "closing Friday (DD/MM/YYYY)")
	closingRecordCmd.Flags().StringVar(&closingDepartment, "department", "", "department id")
	_ = closingRecordCmd.MarkFlagRequired("worker")
	_ = closingRecordCmd.MarkFlagRequired("date")

	closingCmd.AddCommand(closingComputeCmd)
	closingCmd.AddCommand(closingRecordCmd)
	rootCmd.AddCommand(closingCmd)
}
