package service

import (
	"github.com/pribylovaa/comment-ranker/internal/models"
)

// resultSet — результат конвейера в памяти.
// Без ключевого слова units — отфильтрованные и отсортированные корни,
// а ответы подставляются из replies при нарезке. С ключевым словом units —
// результаты поиска (родители перед своими ответами), replies == nil.
type resultSet struct {
	units   []models.Comment
	replies map[string][]models.Comment
}

func (r resultSet) total() int { return len(r.units) }

// window возвращает плоский срез [offset, offset+limit) единиц пагинации.
// Без поиска каждый корень идёт со своими ответами. В режиме поиска ответ,
// чей родитель остался на предыдущей странице, получает копию родителя перед собой.
func (r resultSet) window(offset, limit int) []models.Comment {
	if offset < 0 {
		offset = 0
	}

	if offset >= len(r.units) || limit <= 0 {
		return []models.Comment{}
	}

	end := min(offset+limit, len(r.units))
	units := r.units[offset:end]

	if r.replies != nil {
		return models.WithReplies(units, r.replies)
	}

	return r.withParents(offset, units)
}

func (r resultSet) withParents(offset int, units []models.Comment) []models.Comment {
	var before map[string]int
	out := make([]models.Comment, 0, len(units))
	shown := make(map[string]struct{})

	for i := range units {
		c := units[i]
		if c.IsReply() {
			if _, ok := shown[c.ParentID]; !ok {
				if before == nil {
					before = indexTopLevel(r.units[:offset])
				}

				if at, ok := before[c.ParentID]; ok {
					p := r.units[at]
					p.ExpandReplies = true
					out = append(out, p)
					shown[p.CommentID] = struct{}{}
				}
			}
		}

		out = append(out, c)
		shown[c.CommentID] = struct{}{}
	}

	return out
}

func indexTopLevel(records []models.Comment) map[string]int {
	idx := make(map[string]int)
	for i := range records {
		if records[i].IsTopLevel() {
			idx[records[i].CommentID] = i
		}
	}

	return idx
}

// threadOrder раскладывает записи по веткам: корень, его ответы; ответы-сироты — в конце.
func threadOrder(records []models.Comment) []models.Comment {
	top := models.TopLevel(records)
	replies := models.RepliesByParent(records)

	out := models.WithReplies(top, replies)
	if len(out) == len(records) {
		return out
	}

	parents := make(map[string]struct{}, len(top))
	for i := range top {
		parents[top[i].CommentID] = struct{}{}
	}

	for i := range records {
		c := &records[i]
		if !c.IsReply() {
			continue
		}

		if _, ok := parents[c.ParentID]; !ok {
			out = append(out, *c)
		}
	}

	return out
}

// evaluate прогоняет рабочий набор через фильтр, сортировку и (при ключевом слове) поиск.
// Корни совпавших ответов ищутся по всему рабочему набору, даже если фильтр их отсеял.
// Запрос должен быть нормализован (normalizeQuery).
func (s *Service) evaluate(records []models.Comment, q models.Query) resultSet {
	kw := q.Keyword()

	if kw == "" {
		units := s.sorter.Sort(models.TopLevel(records), q.Filters, q.Sort.Key, q.Sort.Order)
		return resultSet{units: units, replies: models.RepliesByParent(records)}
	}

	thread := threadOrder(records)
	sorted := s.sorter.Sort(thread, q.Filters, q.Sort.Key, q.Sort.Order)
	units := s.search.SearchWithin(sorted, thread, kw)
	if units == nil {
		units = []models.Comment{}
	}

	return resultSet{units: units}
}

// normalizeQuery приводит ключ/направление к закрытым значениям:
// неизвестный ключ — без сортировки, неизвестное направление — desc.
func normalizeQuery(q models.Query) models.Query {
	q.Sort.Key = models.ParseSortKey(string(q.Sort.Key))
	q.Sort.Order = models.ParseSortOrder(string(q.Sort.Order))

	return q
}
