package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimaryDuty_MandatoryFridays(t *testing.T) {
	// Thursday 03/09 through Sunday 06/09 covers Friday and Saturday.
	duty := domain.PrimaryDuty{
		WorkerID: "w1",
		Start:    time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC),
	}

	result := duty.MandatoryFridays()

	require.Len(t, result, 1)
	assert.Equal(t, time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC), result[0])
}

func TestPrimaryDuty_FridayOnlyIsNotMandatory(t *testing.T) {
	// A duty ending on the Friday does not span the weekend.
	duty := domain.PrimaryDuty{
		WorkerID: "w1",
		Start:    time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC),
	}

	assert.Empty(t, duty.MandatoryFridays())
}

func TestPrimaryDuty_MultiWeek(t *testing.T) {
	// Two full weeks cover two Friday+Saturday pairs.
	duty := domain.PrimaryDuty{
		WorkerID: "w1",
		Start:    time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
	}

	result := duty.MandatoryFridays()

	require.Len(t, result, 2)
	assert.Equal(t, time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC), result[0])
	assert.Equal(t, time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC), result[1])
}
