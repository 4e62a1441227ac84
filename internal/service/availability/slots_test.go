package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		hour     int
		selected bool
		expected domain.SlotState
	}{
		{name: "midnight blocked", hour: 0, selected: false, expected: domain.SlotBlocked},
		{name: "07 blocked even if selected", hour: 7, selected: true, expected: domain.SlotBlocked},
		{name: "08 selected", hour: 8, selected: true, expected: domain.SlotAvailable},
		{name: "08 not selected", hour: 8, selected: false, expected: domain.SlotUnavailable},
		{name: "23 selected", hour: 23, selected: true, expected: domain.SlotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.hour, tt.selected))
		})
	}
}

func TestMergeToRanges(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		expected []domain.TimeRange
	}{
		{
			name:     "empty",
			selected: nil,
			expected: []domain.TimeRange{},
		},
		{
			name:     "single hour",
			selected: []string{"10:00"},
			expected: []domain.TimeRange{{Start: "10:00", End: "11:00"}},
		},
		{
			name:     "two runs",
			selected: []string{"09:00", "10:00", "11:00", "14:00", "15:00"},
			expected: []domain.TimeRange{
				{Start: "09:00", End: "12:00"},
				{Start: "14:00", End: "16:00"},
			},
		},
		{
			name:     "unordered with duplicates",
			selected: []string{"15:00", "09:00", "14:00", "10:00", "09:00", "11:00"},
			expected: []domain.TimeRange{
				{Start: "09:00", End: "12:00"},
				{Start: "14:00", End: "16:00"},
			},
		},
		{
			name:     "last hour ends at midnight",
			selected: []string{"22:00", "23:00"},
			expected: []domain.TimeRange{{Start: "22:00", End: "24:00"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges, err := MergeToRanges(tt.selected)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ranges)
		})
	}
}

func TestMergeToRanges_Label(t *testing.T) {
	ranges, err := MergeToRanges([]string{"23:00"})
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, "23:00–24:00", ranges[0].Label())
}

func TestMergeToRanges_Malformed(t *testing.T) {
	for _, value := range []string{"9", "09:30", "24:00", "ab:00"} {
		t.Run(value, func(t *testing.T) {
			_, err := MergeToRanges([]string{value})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestBuildWeek(t *testing.T) {
	week, err := BuildWeek([]domain.AvailabilitySlot{
		{DayOfWeek: domain.Wednesday, Hour: "09:00"},
		{DayOfWeek: domain.Monday, Hour: "09:00"},
		{DayOfWeek: domain.Monday, Hour: "10:00"},
	})
	require.NoError(t, err)
	require.Len(t, week, 7)

	assert.Equal(t, domain.Monday, week[0].Day)
	assert.Equal(t, domain.Sunday, week[6].Day)

	monday := week[0]
	assert.Equal(t, []domain.TimeRange{{Start: "09:00", End: "11:00"}}, monday.Ranges)
	assert.Equal(t, domain.SlotBlocked, monday.Hours[3])
	assert.Equal(t, domain.SlotUnavailable, monday.Hours[8])
	assert.Equal(t, domain.SlotAvailable, monday.Hours[9])
	assert.Equal(t, domain.SlotAvailable, monday.Hours[10])
	assert.Equal(t, domain.SlotUnavailable, monday.Hours[11])

	assert.Empty(t, week[1].Ranges)
	assert.Len(t, week[2].Ranges, 1)
}

func TestBuildWeek_UnknownDay(t *testing.T) {
	_, err := BuildWeek([]domain.AvailabilitySlot{{DayOfWeek: "XYZ", Hour: "09:00"}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
