package daterange

import "time"

type Selector string

const (
	SelectorAll    Selector = "all"
	SelectorToday  Selector = "today"
	SelectorWeek   Selector = "week"
	SelectorMonth  Selector = "month"
	SelectorCustom Selector = "custom"
)

const dateLayout = "2006-01-02"

// Range - календарный интервал [Start, End], обе границы включительно,
// даты в формате YYYY-MM-DD
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Resolve переводит выбранный фильтр в конкретный интервал дат.
// nil означает отсутствие ограничения по датам.
// Функция чистая: результат определяется только селектором и значением now.
func Resolve(selector Selector, now time.Time) *Range {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch selector {
	case SelectorToday:
		d := FormatDate(today)
		return &Range{Start: d, End: d}

	case SelectorWeek:
		// неделя понедельник-воскресенье; воскресенье считается седьмым днём
		offset := int(today.Weekday()) - 1
		if today.Weekday() == time.Sunday {
			offset = 6
		}
		monday := today.AddDate(0, 0, -offset)
		sunday := monday.AddDate(0, 0, 6)
		return &Range{Start: FormatDate(monday), End: FormatDate(sunday)}

	case SelectorMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		last := first.AddDate(0, 1, -1)
		return &Range{Start: FormatDate(first), End: FormatDate(last)}

	default:
		return nil
	}
}

// Custom - интервал, заданный пользователем. Границы передаются как есть,
// без проверки start <= end: запрос с пустым интервалом вернёт пустой список.
func Custom(start, end string) *Range {
	return &Range{Start: start, End: end}
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// Bounds превращает календарный интервал в границы для запроса по
// колонке с меткой времени: start 00:00:00 и end 23:59:59.
func (r *Range) Bounds(loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, r.Start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end, err := time.ParseInLocation(dateLayout, r.End, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end = end.Add(24*time.Hour - time.Second)

	return start, end, nil
}

// Contains проверяет попадание метки времени в интервал (для inmemory хранилища)
func (r *Range) Contains(ts time.Time) bool {
	start, end, err := r.Bounds(ts.Location())
	if err != nil {
		return false
	}
	return !ts.Before(start) && !ts.After(end)
}
