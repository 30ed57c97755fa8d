package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidFilter — некорректное состояние фильтров (min > max, битая дата и т.п.).
var ErrInvalidFilter = errors.New("invalid filter")

// Range — включающий диапазон [Min, Max]; Max == nil — без верхней границы.
type Range struct {
	Min int64  `json:"min"`
	Max *int64 `json:"max,omitempty"`
}

// Unbounded сообщает, что диапазон ничего не отсекает (Min <= 0 и нет верхней границы).
func (r Range) Unbounded() bool {
	return r.Min <= 0 && r.Max == nil
}

// Contains — проверка включающего диапазона.
func (r Range) Contains(v int64) bool {
	if v < r.Min {
		return false
	}

	return r.Max == nil || v <= *r.Max
}

// DateRange — диапазон дат публикации; пустая строка — нет границы.
// Поддерживаемые форматы: RFC3339, "2006-01-02T15:04", "2006-01-02".
// Конец, заданный только датой, включает весь день.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Empty — обе границы не заданы.
func (d DateRange) Empty() bool {
	return strings.TrimSpace(d.Start) == "" && strings.TrimSpace(d.End) == ""
}

// Bounds разбирает границы в epoch-миллисекунды.
// hasStart/hasEnd == false — соответствующей границы нет.
func (d DateRange) Bounds() (start int64, hasStart bool, end int64, hasEnd bool, err error) {
	if s := strings.TrimSpace(d.Start); s != "" {
		t, _, perr := parseDate(s)
		if perr != nil {
			return 0, false, 0, false, fmt.Errorf("%w: start %q", ErrInvalidFilter, s)
		}

		start, hasStart = t.UnixMilli(), true
	}

	if s := strings.TrimSpace(d.End); s != "" {
		t, dateOnly, perr := parseDate(s)
		if perr != nil {
			return 0, false, 0, false, fmt.Errorf("%w: end %q", ErrInvalidFilter, s)
		}

		if dateOnly {
			t = t.Add(24*time.Hour - time.Millisecond)
		}

		end, hasEnd = t.UnixMilli(), true
	}

	return start, hasStart, end, hasEnd, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

func parseDate(s string) (time.Time, bool, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, false, nil
		}
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, false, err
	}

	return t, true, nil
}

// BasicFilters — булевы признаки, которые хранилище умеет применять само.
type BasicFilters struct {
	Verified  bool `json:"verified"`
	HasLinks  bool `json:"hasLinks"`
	Hearted   bool `json:"hearted"`
	Member    bool `json:"member"`
	Donated   bool `json:"donated"`
	Timestamp bool `json:"timestamp"`
}

// Any — хотя бы один признак включён.
func (b BasicFilters) Any() bool {
	return b.Verified || b.HasLinks || b.Hearted || b.Member || b.Donated || b.Timestamp
}

// Match — все включённые признаки выполняются (логическое И).
func (b BasicFilters) Match(c *Comment) bool {
	switch {
	case b.Verified && !c.IsAuthorContentCreator:
		return false
	case b.HasLinks && !c.HasLinks:
		return false
	case b.Hearted && !c.IsHearted:
		return false
	case b.Member && !c.IsMember:
		return false
	case b.Donated && !c.IsDonated:
		return false
	case b.Timestamp && !c.HasTimestamp:
		return false
	}

	return true
}

// FilterState — состояние фильтров (значение, не хранится).
type FilterState struct {
	Keyword string `json:"keyword"`
	BasicFilters
	LikesThreshold Range     `json:"likesThreshold"`
	RepliesLimit   Range     `json:"repliesLimit"`
	WordCount      Range     `json:"wordCount"`
	DateTimeRange  DateRange `json:"dateTimeRange"`
}

// DefaultFilterState — каноническое «пустое» состояние.
func DefaultFilterState() FilterState {
	return FilterState{}
}

// IsDefault сравнивает состояние с каноническим по каждому полю.
func (f *FilterState) IsDefault() bool {
	return f.Keyword == "" &&
		!f.BasicFilters.Any() &&
		f.LikesThreshold.Min == 0 && f.LikesThreshold.Max == nil &&
		f.RepliesLimit.Min == 0 && f.RepliesLimit.Max == nil &&
		f.WordCount.Min == 0 && f.WordCount.Max == nil &&
		f.DateTimeRange.Start == "" && f.DateTimeRange.End == ""
}

// OnlyBasic — активны только булевы признаки (диапазоны и ключевое слово пусты).
func (f *FilterState) OnlyBasic() bool {
	return f.BasicFilters.Any() &&
		strings.TrimSpace(f.Keyword) == "" &&
		f.LikesThreshold.Unbounded() &&
		f.RepliesLimit.Unbounded() &&
		f.WordCount.Unbounded() &&
		f.DateTimeRange.Empty()
}

// Validate проверяет состояние при построении: min <= max, даты разбираются, start <= end.
func (f *FilterState) Validate() error {
	ranges := []struct {
		name string
		r    Range
	}{
		{"likesThreshold", f.LikesThreshold},
		{"repliesLimit", f.RepliesLimit},
		{"wordCount", f.WordCount},
	}

	for _, rr := range ranges {
		if rr.r.Min < 0 {
			return fmt.Errorf("%w: %s.min < 0", ErrInvalidFilter, rr.name)
		}

		if rr.r.Max != nil && *rr.r.Max < rr.r.Min {
			return fmt.Errorf("%w: %s.max < %s.min", ErrInvalidFilter, rr.name, rr.name)
		}
	}

	start, hasStart, end, hasEnd, err := f.DateTimeRange.Bounds()
	if err != nil {
		return err
	}

	if hasStart && hasEnd && end < start {
		return fmt.Errorf("%w: dateTimeRange.end before start", ErrInvalidFilter)
	}

	return nil
}

// Int64 — хелпер для верхних границ диапазонов.
func Int64(v int64) *int64 {
	return &v
}
