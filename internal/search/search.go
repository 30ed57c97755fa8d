// Package search реализует поиск по комментариям с учётом веток:
// точное и нечёткое совпадение, подтягивание родителей ответов,
// родитель всегда раньше своих ответов.
package search

import (
	"strings"

	"github.com/pribylovaa/comment-ranker/internal/models"
)

// DefaultMinScore — порог нечёткого совпадения по умолчанию.
const DefaultMinScore = 0.6

// Engine — поисковый движок. Безопасен для конкурентного использования,
// если таков Matcher (FuzzyMatcher — да).
type Engine struct {
	matcher  TextMatcher
	minScore float64
}

// New создаёт движок; nil matcher — FuzzyMatcher, minScore <= 0 — DefaultMinScore.
func New(matcher TextMatcher, minScore float64) *Engine {
	if matcher == nil {
		matcher = FuzzyMatcher{}
	}

	if minScore <= 0 {
		minScore = DefaultMinScore
	}

	return &Engine{matcher: matcher, minScore: minScore}
}

// Search возвращает записи, совпавшие с keyword точно (подстрока) или нечётко.
//
// Пустой keyword (или из одних пробелов) — вход без изменений.
// Для совпавшего ответа в результат добавляется его корень (копия с ExpandReplies),
// стоящий не позже первого совпавшего ответа. Остальные записи сохраняют
// относительный порядок входа. Каждый CommentID встречается один раз.
// Ответ с неразрешимым родителем возвращается как есть.
func (e *Engine) Search(records []models.Comment, keyword string) []models.Comment {
	return e.SearchWithin(records, nil, keyword)
}

// SearchWithin ищет среди records, а корни совпавших ответов, которых нет в records
// (например, отсеянных фильтром), берёт из thread.
func (e *Engine) SearchWithin(records, thread []models.Comment, keyword string) []models.Comment {
	if strings.TrimSpace(keyword) == "" {
		return records
	}

	n := newNormalizer()
	q := n.Normalize(keyword)

	matched := make([]bool, len(records))
	parents := make(map[string]models.Comment)
	for i := range records {
		c := &records[i]
		if c.IsTopLevel() {
			if _, ok := parents[c.CommentID]; !ok {
				parents[c.CommentID] = *c
			}
		}

		matched[i] = e.matches(n.Normalize(c.Content), q)
	}

	for i := range thread {
		c := &thread[i]
		if c.IsTopLevel() {
			if _, ok := parents[c.CommentID]; !ok {
				parents[c.CommentID] = *c
			}
		}
	}

	out := make([]models.Comment, 0, len(records))
	pos := make(map[string]int, len(records))

	emit := func(c models.Comment) {
		pos[c.CommentID] = len(out)
		out = append(out, c)
	}

	for i := range records {
		if !matched[i] {
			continue
		}

		c := records[i]
		if _, dup := pos[c.CommentID]; dup {
			continue
		}

		if c.IsReply() {
			if p, ok := parents[c.ParentID]; ok {
				if at, seen := pos[c.ParentID]; seen {
					out[at].ExpandReplies = true
				} else {
					p.ExpandReplies = true
					emit(p)
				}
			}
		}

		emit(c)
	}

	return out
}

func (e *Engine) matches(content, q string) bool {
	if content == "" {
		return false
	}

	if strings.Contains(content, q) {
		return true
	}

	return e.matcher.Score(q, content) >= e.minScore
}

var defaultEngine = New(nil, DefaultMinScore)

// Search — поиск движком по умолчанию (FuzzyMatcher, DefaultMinScore).
func Search(records []models.Comment, keyword string) []models.Comment {
	return defaultEngine.Search(records, keyword)
}
