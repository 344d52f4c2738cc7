package cli

import (
	"fmt"

	"github.com/felixgeelhaar/shiftward/internal/roster/application/services"
	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	PlanService     *services.PlanService
	ClosingService  *services.ClosingService
	SnapshotBuilder *services.SnapshotBuilder
	SnapshotCache   services.SnapshotCache
	DutyRepo        domain.DutyRepository
	PlanOptions     services.PlanOptions

	// DefaultDepartmentID is used when a command does not pass --department.
	DefaultDepartmentID string
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// resolveDepartment parses the --department flag, falling back to the
// configured default.
func (a *App) resolveDepartment(flag string) (uuid.UUID, error) {
	raw := flag
	if raw == "" {
		raw = a.DefaultDepartmentID
	}
	if raw == "" {
		return uuid.Nil, fmt.Errorf("no department given; pass --department or set SHIFTWARD_DEPARTMENT_ID")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid department id %q: %w", raw, err)
	}
	return id, nil
}

// parseRange parses --from and --to flags into a date range.
func parseRange(from, to string) (domain.DateRange, error) {
	start, err := domain.ParseDateKey(domain.DateKey(from))
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("invalid --from date, use DD/MM/YYYY: %w", err)
	}
	end, err := domain.ParseDateKey(domain.DateKey(to))
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("invalid --to date, use DD/MM/YYYY: %w", err)
	}
	if end.Before(start) {
		return domain.DateRange{}, fmt.Errorf("--to is before --from")
	}
	return domain.DateRange{Start: start, End: end}, nil
}
