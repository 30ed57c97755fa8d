package models

import "strings"

// SortKey — закрытый перечень стратегий сортировки.
type SortKey string

const (
	SortNone       SortKey = ""
	SortDate       SortKey = "date"
	SortLikes      SortKey = "likes"
	SortReplies    SortKey = "replies"
	SortLength     SortKey = "length"
	SortAuthor     SortKey = "author"
	SortRandom     SortKey = "random"
	SortNormalized SortKey = "normalized"
	SortZScore     SortKey = "zscore"
	SortBayesian   SortKey = "bayesian"
)

var sortKeys = map[SortKey]struct{}{
	SortDate: {}, SortLikes: {}, SortReplies: {}, SortLength: {}, SortAuthor: {},
	SortRandom: {}, SortNormalized: {}, SortZScore: {}, SortBayesian: {},
}

// ParseSortKey разбирает ключ сортировки; неизвестный ключ — SortNone (тождественный порядок).
func ParseSortKey(s string) SortKey {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := sortKeys[k]; ok {
		return k
	}

	return SortNone
}

// Composite — ключ требует статистики по всей коллекции.
func (k SortKey) Composite() bool {
	return k == SortNormalized || k == SortZScore || k == SortBayesian
}

// StoreSortable — ключ, который хранилище сортирует само.
func (k SortKey) StoreSortable() bool {
	return k == SortDate || k == SortLikes || k == SortReplies
}

// SortOrder — направление сортировки.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ParseSortOrder: "asc" -> OrderAsc, всё остальное -> OrderDesc.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(OrderAsc)) {
		return OrderAsc
	}

	return OrderDesc
}

// Sort — пара ключ/направление.
type Sort struct {
	Key   SortKey   `json:"key"`
	Order SortOrder `json:"order"`
}

// Query — полное состояние выборки: фильтры (включая ключевое слово) и сортировка.
type Query struct {
	Filters FilterState `json:"filters"`
	Sort    Sort        `json:"sort"`
}

// Keyword — ключевое слово поиска без крайних пробелов.
func (q *Query) Keyword() string {
	return strings.TrimSpace(q.Filters.Keyword)
}

// Page — страница, отдаваемая слою представления.
// Items — плоский список: каждый корень, затем его прямые ответы
// (в режиме поиска — результаты с родителями перед своими ответами).
// TotalCount — число единиц пагинации (корней или результатов поиска).
type Page struct {
	Items      []Comment `json:"items"`
	HasMore    bool      `json:"hasMore"`
	TotalCount int64     `json:"totalCount"`
}

// EmptyPage — безопасный ответ при сбое хранилища.
func EmptyPage() *Page {
	return &Page{Items: []Comment{}}
}
