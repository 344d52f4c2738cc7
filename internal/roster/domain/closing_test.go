package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fridays builds n consecutive schedule Fridays starting at the given one.
func fridays(first time.Time, n int) []time.Time {
	weeks := make([]time.Time, n)
	for i := range weeks {
		weeks[i] = first.AddDate(0, 0, 7*i)
	}
	return weeks
}

var firstFriday = time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)

func TestCalculateWorkerSchedule_NoMandatory(t *testing.T) {
	weeks := fridays(firstFriday, 10)
	input := domain.ClosingInput{
		WorkerID:        "w1",
		WorkerName:      "Ada Lovelace",
		ClosingInterval: 4,
	}

	result := domain.CalculateWorkerSchedule(input, weeks, domain.ClosingConfig{})

	require.Empty(t, result.RequiredDates)
	// Weeks 1, 5, 9 of the schedule.
	require.Len(t, result.OptimalDates, 3)
	assert.Equal(t, weeks[0], result.OptimalDates[0])
	assert.Equal(t, weeks[4], result.OptimalDates[1])
	assert.Equal(t, weeks[8], result.OptimalDates[2])
	assert.Empty(t, result.UserAlerts)
}

func TestCalculateWorkerSchedule_MandatoryShiftsPattern(t *testing.T) {
	weeks := fridays(firstFriday, 10)
	input := domain.ClosingInput{
		WorkerID:              "w1",
		WorkerName:            "Ada Lovelace",
		ClosingInterval:       3,
		MandatoryClosingDates: []time.Time{weeks[4]},
	}

	result := domain.CalculateWorkerSchedule(input, weeks, domain.ClosingConfig{})

	require.Len(t, result.RequiredDates, 1)
	assert.Equal(t, weeks[4], result.RequiredDates[0])
	// Before the mandatory week 5 only week 1 fits; after it week 8.
	require.Len(t, result.OptimalDates, 2)
	assert.Equal(t, weeks[0], result.OptimalDates[0])
	assert.Equal(t, weeks[7], result.OptimalDates[1])
}

func TestCalculateWorkerSchedule_IntervalZero(t *testing.T) {
	weeks := fridays(firstFriday, 10)
	input := domain.ClosingInput{
		WorkerID:              "w1",
		WorkerName:            "Ada Lovelace",
		ClosingInterval:       0,
		MandatoryClosingDates: []time.Time{weeks[2]},
	}

	result := domain.CalculateWorkerSchedule(input, weeks, domain.ClosingConfig{})

	// Mandatory dates still map; the worker just never gets optimal ones.
	require.Len(t, result.RequiredDates, 1)
	assert.Equal(t, weeks[2], result.RequiredDates[0])
	assert.Empty(t, result.OptimalDates)
	assert.NotEmpty(t, result.CalculationLog)
}

func TestCalculateWorkerSchedule_NoWeeks(t *testing.T) {
	input := domain.ClosingInput{
		WorkerID:        "w1",
		WorkerName:      "Ada Lovelace",
		ClosingInterval: 4,
	}

	result := domain.CalculateWorkerSchedule(input, nil, domain.ClosingConfig{})

	assert.Empty(t, result.RequiredDates)
	assert.Empty(t, result.OptimalDates)
	require.Len(t, result.UserAlerts, 1)
	assert.Contains(t, result.UserAlerts[0], "no weeks")
}

func TestCalculateWorkerSchedule_IntervalExceedsSchedule(t *testing.T) {
	weeks := fridays(firstFriday, 4)
	input := domain.ClosingInput{
		WorkerID:        "w1",
		WorkerName:      "Ada Lovelace",
		ClosingInterval: 6,
	}

	result := domain.CalculateWorkerSchedule(input, weeks, domain.ClosingConfig{})

	assert.Empty(t, result.OptimalDates)
	require.Len(t, result.UserAlerts, 1)
	assert.Contains(t, result.UserAlerts[0], "longer than the schedule")
}

func TestCalculateWorkerSchedule_ClampsInterval(t *testing.T) {
	weeks := fridays(firstFriday, 6)
	input := domain.ClosingInput{
		WorkerID:        "w1",
		WorkerName:      "Ada Lovelace",
		ClosingInterval: 1,
	}

	result := domain.CalculateWorkerSchedule(input, weeks, domain.ClosingConfig{})

	// Interval 1 clamps to 2: weeks 1, 3, 5.
	require.Len(t, result.OptimalDates, 3)
	assert.Equal(t, weeks[0], result.OptimalDates[0])
	assert.Equal(t, weeks[2], result.OptimalDates[1])
	assert.Equal(t, weeks[4], result.OptimalDates[2])
}

func TestCalculateWorkerSchedule_MandatoryOutsideScheduleDropped(t *testing.T) {
	weeks := fridays(firstFriday, 4)
	outside := firstFriday.AddDate(0, 0, -7)
	input := domain.ClosingInput{
		WorkerID:              "w1",
		WorkerName:            "Ada Lovelace",
		ClosingInterval:       2,
		MandatoryClosingDates: []time.Time{outside},
	}

	result := domain.CalculateWorkerSchedule(input, weeks, domain.ClosingConfig{})

	assert.Empty(t, result.RequiredDates)
	assert.True(t, logContains(result.CalculationLog, "does not match any schedule week"))
}

func TestCalculateWorkerSchedule_OptimalNeverOverlapsMandatory(t *testing.T) {
	weeks := fridays(firstFriday, 8)
	input := domain.ClosingInput{
		WorkerID:              "w1",
		WorkerName:            "Ada Lovelace",
		ClosingInterval:       2,
		MandatoryClosingDates: []time.Time{weeks[0], weeks[3]},
	}

	result := domain.CalculateWorkerSchedule(input, weeks, domain.ClosingConfig{})

	for _, optimal := range result.OptimalDates {
		for _, required := range result.RequiredDates {
			assert.False(t, domain.SameDay(optimal, required),
				"optimal date %v collides with mandatory date", optimal)
		}
	}
}

func TestCalculateWorkerSchedule_ReliefPassNeverInserts(t *testing.T) {
	weeks := fridays(firstFriday, 9)
	cfg := domain.ClosingConfig{
		AllowSingleReliefMin1: true,
		ReliefMaxPerSchedule:  1,
	}
	// Mandatory weeks 1 and 6 leave a gap of exactly 2*3-1 weeks.
	input := domain.ClosingInput{
		WorkerID:              "w1",
		WorkerName:            "Ada Lovelace",
		ClosingInterval:       3,
		MandatoryClosingDates: []time.Time{weeks[0], weeks[5]},
	}

	withRelief := domain.CalculateWorkerSchedule(input, weeks, cfg)
	withoutRelief := domain.CalculateWorkerSchedule(input, weeks, domain.ClosingConfig{})

	// The midpoint candidate always fails the sub-gap check, so the
	// relief pass only ever logs a rejection.
	assert.Equal(t, withoutRelief.OptimalDates, withRelief.OptimalDates)
	assert.True(t, logContains(withRelief.CalculationLog, "rejected"))
}

func logContains(log []string, substr string) bool {
	for _, line := range log {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
