package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/comment-ranker/internal/models"
)

func ids(records []models.Comment) []string {
	out := make([]string, 0, len(records))
	for i := range records {
		out = append(out, records[i].CommentID)
	}

	return out
}

func top(id, content string) models.Comment {
	return models.Comment{CommentID: id, Content: content}
}

func reply(id, parent, content string) models.Comment {
	return models.Comment{CommentID: id, ParentID: parent, ReplyLevel: 1, Content: content}
}

func TestSearch_EmptyKeywordReturnsInput(t *testing.T) {
	t.Parallel()

	records := []models.Comment{top("a", "x"), top("b", "y")}
	require.Equal(t, records, Search(records, ""))
	require.Equal(t, records, Search(records, "   \t"))
	require.Empty(t, Search(nil, "anything"))
}

func TestSearch_ParentInclusion(t *testing.T) {
	t.Parallel()

	records := []models.Comment{top("P", "no match"), reply("C", "P", "agree")}

	out := Search(records, "agree")
	require.Equal(t, []string{"P", "C"}, ids(out))
	require.True(t, out[0].ExpandReplies)
	require.False(t, out[1].ExpandReplies)
	// Вход не изменён.
	require.False(t, records[0].ExpandReplies)
}

// Корень, отсутствующий среди кандидатов, берётся из полной ветки.
func TestSearchWithin_ParentFromThread(t *testing.T) {
	t.Parallel()

	parent := top("P", "no match")
	r := reply("C", "P", "agree https://x.io")
	thread := []models.Comment{parent, r}

	out := New(nil, 0).SearchWithin([]models.Comment{r}, thread, "agree")
	require.Equal(t, []string{"P", "C"}, ids(out))
	require.True(t, out[0].ExpandReplies)
	require.False(t, thread[0].ExpandReplies)

	// Без ветки родителя взять неоткуда.
	require.Equal(t, []string{"C"}, ids(New(nil, 0).SearchWithin([]models.Comment{r}, nil, "agree")))
}

func TestSearch_ParentMovedBeforeReply(t *testing.T) {
	t.Parallel()

	records := []models.Comment{
		reply("C", "P", "agree"),
		top("X", "agree as well"),
		top("P", "agree, parent"),
	}

	require.Equal(t, []string{"P", "C", "X"}, ids(Search(records, "agree")))
}

func TestSearch_Dedupe(t *testing.T) {
	t.Parallel()

	records := []models.Comment{
		top("P", "agree too"),
		reply("C1", "P", "agree"),
		reply("C2", "P", "I AGREE"),
		top("Q", "nothing here"),
	}

	out := Search(records, "agree")
	require.Equal(t, []string{"P", "C1", "C2"}, ids(out))
	require.True(t, out[0].ExpandReplies)

	// Повтор того же id во входе — одна запись в выдаче.
	dup := append(records[:1:1], records...)
	require.Equal(t, []string{"P", "C1", "C2"}, ids(Search(dup, "agree")))
}

func TestSearch_OrphanReplyKept(t *testing.T) {
	t.Parallel()

	records := []models.Comment{top("A", "hello"), reply("R", "missing", "hello there")}
	require.Equal(t, []string{"A", "R"}, ids(Search(records, "hello")))
}

func TestSearch_UnrelatedOrderPreserved(t *testing.T) {
	t.Parallel()

	records := []models.Comment{top("3", "foo"), top("1", "bar"), top("2", "foo bar")}
	require.Equal(t, []string{"3", "2"}, ids(Search(records, "foo")))
}

func TestSearch_Fuzzy(t *testing.T) {
	t.Parallel()

	records := []models.Comment{
		top("e", "Great explanation, thanks!"),
		top("c", "nice car"),
		top("x", "unrelated words"),
	}

	require.Equal(t, []string{"e"}, ids(Search(records, "explanatin")))
	// Двухсимвольная опечатка в длинном слове.
	require.Equal(t, []string{"e"}, ids(Search(records, "explanatoin")))
	// Короткие слова не сопоставляются нечётко.
	require.Empty(t, Search(records, "cat"))
}

func TestSearch_CaseAndDiacriticsInsensitive(t *testing.T) {
	t.Parallel()

	records := []models.Comment{top("1", "Café au lait"), top("2", "cafe racer"), top("3", "tea")}
	require.Equal(t, []string{"1", "2"}, ids(Search(records, "CAFÉ")))
	require.Equal(t, []string{"1", "2"}, ids(Search(records, "cafe")))
}

type stubMatcher float64

func (s stubMatcher) Score(string, string) float64 { return float64(s) }

func TestEngine_CustomMatcher(t *testing.T) {
	t.Parallel()

	records := []models.Comment{top("a", "alpha"), top("b", "beta"), top("e", "")}

	require.Equal(t, []string{"a", "b"}, ids(New(stubMatcher(1), 0.5).Search(records, "zzz")))
	require.Empty(t, New(stubMatcher(0.4), 0.5).Search(records, "zzz"))
}

func TestFuzzyMatcher_Score(t *testing.T) {
	t.Parallel()

	m := FuzzyMatcher{}
	require.Equal(t, 1.0, m.Score("hello", "well hello there"))
	require.InDelta(t, 1-1.0/11, m.Score("explanatin", "explanation"), 1e-9)
	require.Zero(t, m.Score("hello world", "hello there"))
	require.Zero(t, m.Score("", "anything"))
	require.Zero(t, m.Score("x", ""))
}

func TestLevenshtein(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, levenshtein("abc", "abc"))
	require.Equal(t, 3, levenshtein("", "abc"))
	require.Equal(t, 3, levenshtein("kitten", "sitting"))
	require.Equal(t, 1, levenshtein("жук", "жуки"))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	require.Equal(t, "creme brulee", Normalize("  Crème   BRÛLÉE "))
	require.Equal(t, "", Normalize("   "))
}
