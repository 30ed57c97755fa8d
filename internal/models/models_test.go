package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseSortKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want SortKey
	}{
		{"date", SortDate},
		{" Likes ", SortLikes},
		{"ZSCORE", SortZScore},
		{"bayesian", SortBayesian},
		{"", SortNone},
		{"popularity", SortNone},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ParseSortKey(tt.in), tt.in)
	}

	require.True(t, SortNormalized.Composite())
	require.False(t, SortLikes.Composite())
	require.True(t, SortReplies.StoreSortable())
	require.False(t, SortAuthor.StoreSortable())
}

func TestParseSortOrder(t *testing.T) {
	t.Parallel()

	require.Equal(t, OrderAsc, ParseSortOrder("ASC"))
	require.Equal(t, OrderDesc, ParseSortOrder("desc"))
	require.Equal(t, OrderDesc, ParseSortOrder("sideways"))
}

// Границы диапазона включаются с обеих сторон.
func TestRange_ContainsInclusive(t *testing.T) {
	t.Parallel()

	r := Range{Min: 5, Max: Int64(10)}
	require.True(t, r.Contains(5))
	require.True(t, r.Contains(10))
	require.False(t, r.Contains(4))
	require.False(t, r.Contains(11))

	open := Range{Min: 3}
	require.True(t, open.Contains(1<<40))
	require.False(t, open.Unbounded())
	require.True(t, Range{}.Unbounded())
}

func TestDateRange_Bounds(t *testing.T) {
	t.Parallel()

	d := DateRange{Start: "2024-01-02", End: "2024-01-02"}
	start, hasStart, end, hasEnd, err := d.Bounds()
	require.NoError(t, err)
	require.True(t, hasStart)
	require.True(t, hasEnd)

	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	require.Equal(t, day.UnixMilli(), start)
	// Конец «только датой» покрывает весь день.
	require.Equal(t, day.Add(24*time.Hour).UnixMilli()-1, end)

	d = DateRange{Start: "2024-01-02T10:30"}
	start, hasStart, _, hasEnd, err = d.Bounds()
	require.NoError(t, err)
	require.True(t, hasStart)
	require.False(t, hasEnd)
	require.Equal(t, time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC).UnixMilli(), start)

	_, _, _, _, err = DateRange{End: "yesterday"}.Bounds()
	require.ErrorIs(t, err, ErrInvalidFilter)
}

func TestFilterState_IsDefault(t *testing.T) {
	t.Parallel()

	f := DefaultFilterState()
	require.True(t, f.IsDefault())

	f.Hearted = true
	require.False(t, f.IsDefault())
	require.True(t, f.OnlyBasic())

	f = DefaultFilterState()
	f.LikesThreshold.Max = Int64(0)
	require.False(t, f.IsDefault(), "max=0 — это граница, а не её отсутствие")

	f = DefaultFilterState()
	f.Keyword = "agree"
	require.False(t, f.IsDefault())
	require.False(t, f.OnlyBasic())
}

func TestFilterState_Validate(t *testing.T) {
	t.Parallel()

	ok := FilterState{
		LikesThreshold: Range{Min: 1, Max: Int64(1)},
		DateTimeRange:  DateRange{Start: "2024-01-01", End: "2024-02-01"},
	}
	require.NoError(t, ok.Validate())

	bad := []FilterState{
		{RepliesLimit: Range{Min: 10, Max: Int64(2)}},
		{WordCount: Range{Min: -1}},
		{DateTimeRange: DateRange{Start: "2024-03-01", End: "2024-02-01"}},
		{DateTimeRange: DateRange{Start: "not-a-date"}},
	}
	for i := range bad {
		require.ErrorIs(t, bad[i].Validate(), ErrInvalidFilter, "case %d", i)
	}
}

func TestThreadHelpers(t *testing.T) {
	t.Parallel()

	records := []Comment{
		{CommentID: "p1"},
		{CommentID: "r1", ParentID: "p1", ReplyLevel: 1},
		{CommentID: "p2"},
		{CommentID: "r2", ParentID: "p1", ReplyLevel: 1},
	}

	top := TopLevel(records)
	require.Len(t, top, 2)

	replies := RepliesByParent(records)
	require.Len(t, replies["p1"], 2)

	flat := WithReplies(top, replies)
	ids := make([]string, 0, len(flat))
	for _, c := range flat {
		ids = append(ids, c.CommentID)
	}
	require.Equal(t, []string{"p1", "r1", "r2", "p2"}, ids)
}
