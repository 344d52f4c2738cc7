package cli

import (
	"fmt"

	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	dutyWorker     string
	dutyFrom       string
	dutyTo         string
	dutyDepartment string
)

var dutyCmd = &cobra.Command{
	Use:   "duty",
	Short: "Primary roster duties",
}

var dutyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a primary duty block for a worker",
	Long: `Records a primary duty block. Duty blocks drive the planner: days
inside a block are unavailable for secondary tasks, and a block covering
a whole weekend forces that Friday as a mandatory closing.

Examples:
  shiftward duty add --worker 6b1e... --from 03/09/2026 --to 06/09/2026`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("duty entry requires a database connection")
		}

		departmentID, err := app.resolveDepartment(dutyDepartment)
		if err != nil {
			return err
		}
		workerID, err := uuid.Parse(dutyWorker)
		if err != nil {
			return fmt.Errorf("invalid worker id %q: %w", dutyWorker, err)
		}
		span, err := parseRange(dutyFrom, dutyTo)
		if err != nil {
			return err
		}

		duty := domain.PrimaryDuty{
			WorkerID: workerID.String(),
			Start:    span.Start,
			End:      span.End,
		}
		if err := app.DutyRepo.Save(cmd.Context(), uuid.New(), departmentID, duty); err != nil {
			return fmt.Errorf("save duty: %w", err)
		}

		fmt.Printf("duty recorded: %s holds %s through %s\n",
			workerID, domain.NewDateKey(span.Start), domain.NewDateKey(span.End))
		return nil
	},
}

func init() {
	dutyAddCmd.Flags().StringVar(&dutyWorker, "worker", "", "worker id")
	dutyAddCmd.Flags().StringVar(&dutyFrom, "from", "", "duty start (DD/MM/YYYY)")
	dutyAddCmd.Flags().StringVar(&dutyTo, "to", "", "duty end (DD/MM/YYYY)")
	dutyAddCmd.Flags().StringVar(&dutyDepartment, "department", "", "department id")
	_ = dutyAddCmd.MarkFlagRequired("worker")
	_ = dutyAddCmd.MarkFlagRequired("from")
	_ = dutyAddCmd.MarkFlagRequired("to")

	dutyCmd.AddCommand(dutyAddCmd)
	rootCmd.AddCommand(dutyCmd)
}
