package persistence_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/felixgeelhaar/shiftward/internal/roster/infrastructure/persistence"
	"github.com/felixgeelhaar/shiftward/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/shiftward/internal/shared/infrastructure/database/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConnection(t *testing.T) database.Connection {
	t.Helper()
	conn, err := sqlite.NewConnection(context.Background(), database.Config{
		SQLitePath: filepath.Join(t.TempDir(), "roster.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, persistence.EnsureSchema(context.Background(), conn))
	return conn
}

func TestDutyRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewDutyRepository(newTestConnection(t))
	departmentID := uuid.New()
	dutyID := uuid.New()

	duty := domain.PrimaryDuty{
		WorkerID: "w1",
		Start:    time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, dutyID, departmentID, duty))

	// Saving under the same id replaces the block instead of duplicating it.
	duty.End = time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, dutyID, departmentID, duty))

	september := domain.NewDateRange(
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
	)
	duties, err := repo.FindByDepartmentAndRange(ctx, departmentID, september)
	require.NoError(t, err)
	require.Len(t, duties, 1)
	assert.Equal(t, "w1", duties[0].WorkerID)
	assert.Equal(t, duty.Start, duties[0].Start)
	assert.Equal(t, duty.End, duties[0].End)

	october := domain.NewDateRange(
		time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC),
	)
	duties, err = repo.FindByDepartmentAndRange(ctx, departmentID, october)
	require.NoError(t, err)
	assert.Empty(t, duties)
}

func TestDutyRepository_ClosingHistory(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewDutyRepository(newTestConnection(t))
	departmentID := uuid.New()

	august := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)
	september := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.RecordClosing(ctx, departmentID, "w1", august))
	require.NoError(t, repo.RecordClosing(ctx, departmentID, "w1", september))
	// Re-recording the same Friday is idempotent.
	require.NoError(t, repo.RecordClosing(ctx, departmentID, "w1", september))

	last, err := repo.LastClosingFriday(ctx, "w1", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, september, last)

	// The lookup is strictly before the given day.
	last, err = repo.LastClosingFriday(ctx, "w1", september)
	require.NoError(t, err)
	assert.Equal(t, august, last)

	last, err = repo.LastClosingFriday(ctx, "w2", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, last.IsZero())
}
