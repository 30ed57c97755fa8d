package ingest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	p := Parser{Now: func() time.Time { return now }}

	raws := []RawComment{
		{CommentID: "c1", Author: "a", Content: "great video, see 1:23 and https://example.com", Likes: 5, Published: "2 days ago"},
		{CommentID: "", Content: "malformed, dropped"},
		{CommentID: "r1", CommentParentID: "c1", Content: "agree", Published: "2025-06-01T10:00:00Z"},
		{CommentID: "c2", CommentParentID: "c2", ReplyLevel: 3, Content: "  ", Likes: -3, PublishedDate: 42},
	}

	out, err := p.Parse(" v1 ", raws)
	require.NoError(t, err)
	require.Len(t, out, 3)

	c1 := out[0]
	require.Equal(t, "v1", c1.VideoID)
	require.Equal(t, int64(0), c1.Position)
	require.Equal(t, int64(6), c1.WordCount)
	require.True(t, c1.HasLinks)
	require.True(t, c1.HasTimestamp)
	require.Equal(t, 0, c1.ReplyLevel)
	require.Equal(t, now.AddDate(0, 0, -2).UnixMilli(), c1.PublishedDate)

	r1 := out[1]
	require.Equal(t, int64(2), r1.Position)
	require.Equal(t, "c1", r1.ParentID)
	require.Equal(t, 1, r1.ReplyLevel)
	require.False(t, r1.HasLinks)
	require.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC).UnixMilli(), r1.PublishedDate)

	// Ссылка на себя — не ответ; отрицательные числа — 0.
	c2 := out[2]
	require.Empty(t, c2.ParentID)
	require.Equal(t, 0, c2.ReplyLevel)
	require.Zero(t, c2.Likes)
	require.Zero(t, c2.WordCount)
	require.Equal(t, int64(42), c2.PublishedDate)
}

func TestParse_EmptyVideoID(t *testing.T) {
	t.Parallel()

	_, err := Parse("  ", []RawComment{{CommentID: "x"}})
	require.ErrorIs(t, err, ErrEmptyVideoID)

	out, err := Parse("v", nil)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestDerivedFlags(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text      string
		links     bool
		timestamp bool
	}{
		{"plain text", false, false},
		{"visit www.example.org", true, false},
		{"HTTP://EXAMPLE.COM", true, false},
		{"at 12:34:56 it breaks", false, true},
		{"0:59", false, true},
		{"ratio 3:2", false, false},
		{"score 10:7", false, false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.links, HasLinks(tc.text), tc.text)
		require.Equal(t, tc.timestamp, HasTimestamp(tc.text), tc.text)
	}
}

func TestCount(t *testing.T) {
	t.Parallel()

	require.Equal(t, Count(0), ParseCount(""))
	require.Equal(t, Count(1234), ParseCount("1,234"))
	require.Equal(t, Count(1200), ParseCount("1.2K"))
	require.Equal(t, Count(3_000_000), ParseCount("3m"))
	require.Equal(t, Count(0), ParseCount("lots"))

	var raw RawComment
	require.NoError(t, json.Unmarshal([]byte(`{"commentId":"x","likes":"2.5K","replyCount":null}`), &raw))
	require.Equal(t, Count(2500), raw.Likes)
	require.Zero(t, raw.ReplyCount)

	require.NoError(t, json.Unmarshal([]byte(`{"likes":17,"replyCount":-2}`), &raw))
	require.Equal(t, Count(17), raw.Likes)
	require.Zero(t, raw.ReplyCount)
}
