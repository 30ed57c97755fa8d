package ranking

import (
	"bytes"
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pribylovaa/comment-ranker/internal/filter"
	"github.com/pribylovaa/comment-ranker/internal/models"
)

// Sorter — движок сортировки. Безопасен для конкурентного использования:
// коллатор создаётся на каждый вызов.
type Sorter struct {
	tag language.Tag
}

// NewSorter создаёт сортировщик с локалью для ключа author (например, "en", "ru").
func NewSorter(locale string) (*Sorter, error) {
	if locale == "" {
		return &Sorter{tag: language.Und}, nil
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("ranking: parse locale %q: %w", locale, err)
	}

	return &Sorter{tag: tag}, nil
}

var defaultSorter = &Sorter{tag: language.Und}

// Sort — сортировка корневой локалью (см. Sorter.Sort).
func Sort(records []models.Comment, fs models.FilterState, key models.SortKey, order models.SortOrder) []models.Comment {
	return defaultSorter.Sort(records, fs, key, order)
}

// Sort фильтрует records, копирует результат и упорядочивает его по key/order.
//
// Статистики для составных ключей считаются ровно один раз до сортировки,
// оценки записей — тоже один раз; компаратор сравнивает готовые числа.
// Сортировка устойчивая (кроме random). Неизвестный ключ — исходный порядок.
// Вход вызывающего не изменяется.
func (s *Sorter) Sort(records []models.Comment, fs models.FilterState, key models.SortKey, order models.SortOrder) []models.Comment {
	filtered := filter.Apply(records, fs)

	out := make([]models.Comment, len(filtered))
	copy(out, filtered)

	if len(out) < 2 {
		return out
	}

	switch key {
	case models.SortRandom:
		rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	case models.SortAuthor:
		return permute(out, s.authorOrder(out, order))
	}

	scores := numericKeys(out, key)
	if scores == nil {
		return out
	}

	sign := 1
	if order == models.OrderDesc {
		sign = -1
	}

	idx := indexes(len(out))
	slices.SortStableFunc(idx, func(a, b int) int {
		return sign * cmp.Compare(scores[a], scores[b])
	})

	return permute(out, idx)
}

// numericKeys считает ключ сортировки для каждой записи; nil — ключ не числовой.
func numericKeys(records []models.Comment, key models.SortKey) []float64 {
	keys := make([]float64, len(records))

	switch key {
	case models.SortDate:
		for i := range records {
			keys[i] = float64(records[i].PublishedDate)
		}
	case models.SortLikes:
		for i := range records {
			keys[i] = float64(records[i].Likes)
		}
	case models.SortReplies:
		for i := range records {
			keys[i] = float64(records[i].ReplyCount)
		}
	case models.SortLength:
		// Длина текста в символах, а не в словах.
		for i := range records {
			keys[i] = float64(utf8.RuneCountInString(records[i].Content))
		}
	case models.SortNormalized:
		m := GetMaxValues(records)
		for i := range records {
			keys[i] = NormalizedScore(&records[i], m)
		}
	case models.SortZScore:
		st := GetStats(records)
		for i := range records {
			keys[i] = ZScore(&records[i], st)
		}
	case models.SortBayesian:
		avg := GetAvgValues(records)
		for i := range records {
			keys[i] = BayesianScore(&records[i], avg)
		}
	default:
		return nil
	}

	return keys
}

// authorOrder — порядок по имени автора с учётом правил локали (регистр не учитывается).
func (s *Sorter) authorOrder(records []models.Comment, order models.SortOrder) []int {
	col := collate.New(s.tag, collate.IgnoreCase)

	var buf collate.Buffer
	keys := make([][]byte, len(records))
	for i := range records {
		keys[i] = bytes.Clone(col.KeyFromString(&buf, records[i].Author))
		buf.Reset()
	}

	sign := 1
	if order == models.OrderDesc {
		sign = -1
	}

	idx := indexes(len(records))
	slices.SortStableFunc(idx, func(a, b int) int {
		return sign * bytes.Compare(keys[a], keys[b])
	})

	return idx
}

func indexes(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	return idx
}

func permute(records []models.Comment, idx []int) []models.Comment {
	out := make([]models.Comment, len(idx))
	for i, j := range idx {
		out[i] = records[j]
	}

	return out
}
