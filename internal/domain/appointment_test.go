package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func interval(startHour, endHour int) (time.Time, time.Time) {
	day := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	return day.Add(time.Duration(startHour) * time.Hour), day.Add(time.Duration(endHour) * time.Hour)
}

func TestOverlaps(t *testing.T) {
	start, end := interval(10, 12)
	appt := &Appointment{StartAt: start, EndAt: end}

	cases := []struct {
		name     string
		from, to int
		want     bool
	}{
		{"identical interval", 10, 12, true},
		{"contained interval", 10, 11, true},
		{"crosses start", 9, 11, true},
		{"crosses end", 11, 13, true},
		{"touching at start", 8, 10, false},
		{"touching at end", 12, 14, false},
		{"disjoint before", 7, 8, false},
		{"disjoint after", 13, 14, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			from, to := interval(tc.from, tc.to)
			assert.Equal(t, tc.want, appt.Overlaps(from, to))
		})
	}
}

func TestIsActive(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusPending}).IsActive())
	assert.True(t, (&Appointment{Status: StatusScheduled}).IsActive())
	assert.True(t, (&Appointment{Status: StatusCompleted}).IsActive())
	assert.False(t, (&Appointment{Status: StatusCancelled}).IsActive())
	assert.False(t, (&Appointment{Status: StatusRejected}).IsActive())
}

func TestCanBeCancelled(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusPending}).CanBeCancelled())
	assert.True(t, (&Appointment{Status: StatusScheduled}).CanBeCancelled())
	assert.False(t, (&Appointment{Status: StatusCompleted}).CanBeCancelled())
	assert.False(t, (&Appointment{Status: StatusCancelled}).CanBeCancelled())
}

func TestParseStatus(t *testing.T) {
	status, ok := ParseStatus("scheduled")
	assert.True(t, ok)
	assert.Equal(t, StatusScheduled, status)

	_, ok = ParseStatus("confirmed")
	assert.False(t, ok)

	_, ok = ParseStatus("")
	assert.False(t, ok)
}
