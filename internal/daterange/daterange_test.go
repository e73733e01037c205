package daterange_test

import (
	"testing"
	"time"

	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/daterange"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// фиксированная дата: суббота 15 июня 2024
var saturday = time.Date(2024, time.June, 15, 14, 30, 0, 0, time.UTC)

// TestResolve тестирует перевод селектора в интервал дат
func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		selector daterange.Selector
		now      time.Time
		expected *daterange.Range
	}{
		{
			name:     "all - no range",
			selector: daterange.SelectorAll,
			now:      saturday,
			expected: nil,
		},
		{
			name:     "today on saturday",
			selector: daterange.SelectorToday,
			now:      saturday,
			expected: &daterange.Range{Start: "2024-06-15", End: "2024-06-15"},
		},
		{
			name:     "week on saturday - monday to sunday",
			selector: daterange.SelectorWeek,
			now:      saturday,
			expected: &daterange.Range{Start: "2024-06-10", End: "2024-06-16"},
		},
		{
			name:     "week on sunday - counted as day seven",
			selector: daterange.SelectorWeek,
			now:      time.Date(2024, time.June, 16, 9, 0, 0, 0, time.UTC),
			expected: &daterange.Range{Start: "2024-06-10", End: "2024-06-16"},
		},
		{
			name:     "week on monday",
			selector: daterange.SelectorWeek,
			now:      time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
			expected: &daterange.Range{Start: "2024-06-10", End: "2024-06-16"},
		},
		{
			name:     "month in june",
			selector: daterange.SelectorMonth,
			now:      saturday,
			expected: &daterange.Range{Start: "2024-06-01", End: "2024-06-30"},
		},
		{
			name:     "month in february of leap year",
			selector: daterange.SelectorMonth,
			now:      time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC),
			expected: &daterange.Range{Start: "2024-02-01", End: "2024-02-29"},
		},
		{
			name:     "week across month boundary",
			selector: daterange.SelectorWeek,
			now:      time.Date(2024, time.July, 2, 0, 0, 0, 0, time.UTC),
			expected: &daterange.Range{Start: "2024-07-01", End: "2024-07-07"},
		},
		{
			name:     "unknown selector - no range",
			selector: daterange.Selector("yesterday"),
			now:      saturday,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := daterange.Resolve(tt.selector, tt.now)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestResolve_Deterministic тестирует чистоту функции
func TestResolve_Deterministic(t *testing.T) {
	first := daterange.Resolve(daterange.SelectorWeek, saturday)
	second := daterange.Resolve(daterange.SelectorWeek, saturday)
	assert.Equal(t, first, second)
}

// TestCustom тестирует пользовательский интервал
func TestCustom(t *testing.T) {
	r := daterange.Custom("2024-06-01", "2024-06-10")
	assert.Equal(t, &daterange.Range{Start: "2024-06-01", End: "2024-06-10"}, r)

	// границы не проверяются: start > end проходит как есть
	inverted := daterange.Custom("2024-06-10", "2024-06-01")
	assert.Equal(t, "2024-06-10", inverted.Start)
	assert.Equal(t, "2024-06-01", inverted.End)
}

// TestBounds тестирует перевод интервала в границы по меткам времени
func TestBounds(t *testing.T) {
	r := daterange.Range{Start: "2024-06-15", End: "2024-06-16"}

	start, end, err := r.Bounds(time.UTC)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.June, 16, 23, 59, 59, 0, time.UTC), end)

	_, _, err = (&daterange.Range{Start: "not-a-date", End: "2024-06-16"}).Bounds(time.UTC)
	assert.Error(t, err)
}

// TestContains тестирует попадание метки времени в интервал
func TestContains(t *testing.T) {
	r := daterange.Range{Start: "2024-06-15", End: "2024-06-15"}

	assert.True(t, r.Contains(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2024, time.June, 15, 23, 59, 59, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, time.June, 16, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, time.June, 14, 23, 59, 59, 0, time.UTC)))

	// пустой интервал (start > end) не содержит ничего
	inverted := daterange.Range{Start: "2024-06-16", End: "2024-06-15"}
	assert.False(t, inverted.Contains(time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)))
}
