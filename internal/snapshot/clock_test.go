package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rnawhale/classroom-poller/internal/classroom"
)

func TestCivilInstant(t *testing.T) {
	tests := []struct {
		name          string
		date          *classroom.CivilDate
		tod           *classroom.TimeOfDay
		offsetMinutes int
		want          time.Time
		wantOK        bool
	}{
		{
			name:          "date only defaults to end of day",
			date:          &classroom.CivilDate{Year: 2024, Month: 3, Day: 1},
			tod:           nil,
			offsetMinutes: 540,
			want:          time.Date(2024, 3, 1, 14, 59, 0, 0, time.UTC),
			wantOK:        true,
		},
		{
			name:          "morning time crosses midnight backwards in UTC",
			date:          &classroom.CivilDate{Year: 2024, Month: 3, Day: 1},
			tod:           &classroom.TimeOfDay{Hours: 8, Minutes: 30},
			offsetMinutes: 540,
			want:          time.Date(2024, 2, 29, 23, 30, 0, 0, time.UTC),
			wantOK:        true,
		},
		{
			name:          "zero offset reads the civil values as UTC",
			date:          &classroom.CivilDate{Year: 2024, Month: 3, Day: 1},
			tod:           nil,
			offsetMinutes: 0,
			want:          time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC),
			wantOK:        true,
		},
		{
			name:          "negative offset crosses midnight forwards in UTC",
			date:          &classroom.CivilDate{Year: 2024, Month: 1, Day: 1},
			tod:           &classroom.TimeOfDay{Hours: 22, Minutes: 0},
			offsetMinutes: -300,
			want:          time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC),
			wantOK:        true,
		},
		{
			name:          "nil date yields no instant",
			date:          nil,
			tod:           &classroom.TimeOfDay{Hours: 8, Minutes: 30},
			offsetMinutes: 540,
			wantOK:        false,
		},
		{
			name:          "zero date yields no instant",
			date:          &classroom.CivilDate{},
			tod:           nil,
			offsetMinutes: 540,
			wantOK:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CivilInstant(tt.date, tt.tod, tt.offsetMinutes)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// The default end-of-day instant must land on the same civil day when read
// back in the zone it came from.
func TestCivilInstantDayRoundtrip(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	date := &classroom.CivilDate{Year: 2024, Month: 3, Day: 1}

	instant, ok := CivilInstant(date, nil, 540)
	require.True(t, ok)

	assert.Equal(t, "2024-03-01", DayKey(instant, seoul))
}

func TestDayKeyDependsOnLocation(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	// 23:30 UTC on Feb 29 is already Mar 1 in Seoul.
	instant := time.Date(2024, 2, 29, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-01", DayKey(instant, seoul))
	assert.Equal(t, "2024-02-29", DayKey(instant, time.UTC))
}

func TestDayKeyZeroPadding(t *testing.T) {
	instant := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-01-05", DayKey(instant, time.UTC))
}

func TestDayLabel(t *testing.T) {
	assert.Equal(t, "2024.03.01", DayLabel("2024-03-01"))
	assert.Equal(t, "2023.12.31", DayLabel("2023-12-31"))
}
