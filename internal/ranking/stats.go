// Package ranking считает статистики по коллекции, составные оценки и сортирует комментарии.
package ranking

import (
	"math"

	"github.com/pribylovaa/comment-ranker/internal/models"
)

// MaxValues — максимумы признаков для нормированной оценки (каждый не меньше 1).
type MaxValues struct {
	Likes     float64 `json:"likes"`
	Replies   float64 `json:"replies"`
	WordCount float64 `json:"wordCount"`
}

// FeatureStats — среднее и стандартное отклонение генеральной совокупности.
type FeatureStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
}

// Stats — статистики для взвешенной z-оценки.
type Stats struct {
	Likes     FeatureStats `json:"likes"`
	Replies   FeatureStats `json:"replies"`
	WordCount FeatureStats `json:"wordCount"`
}

// AvgValues — средние для байесовской оценки.
type AvgValues struct {
	Likes   float64 `json:"likes"`
	Replies float64 `json:"replies"`
}

// features — признаки записи; битые отрицательные значения считаются нулём.
type features struct {
	likes, replies, words float64
}

func featuresOf(c *models.Comment) features {
	return features{
		likes:   float64(max(c.Likes, 0)),
		replies: float64(max(c.ReplyCount, 0)),
		words:   float64(max(c.WordCount, 0)),
	}
}

// GetMaxValues — максимумы за один проход. Пустая коллекция даёт {1, 1, 1}.
func GetMaxValues(records []models.Comment) MaxValues {
	m := MaxValues{Likes: 1, Replies: 1, WordCount: 1}
	for i := range records {
		f := featuresOf(&records[i])
		m.Likes = math.Max(m.Likes, f.likes)
		m.Replies = math.Max(m.Replies, f.replies)
		m.WordCount = math.Max(m.WordCount, f.words)
	}

	return m
}

// GetStats — средние и стандартные отклонения за два прохода.
// Нулевое отклонение заменяется на 1, пустая коллекция даёт средние 0 и отклонения 1.
func GetStats(records []models.Comment) Stats {
	s := Stats{
		Likes:     FeatureStats{StdDev: 1},
		Replies:   FeatureStats{StdDev: 1},
		WordCount: FeatureStats{StdDev: 1},
	}

	n := float64(len(records))
	if n == 0 {
		return s
	}

	var sum features
	for i := range records {
		f := featuresOf(&records[i])
		sum.likes += f.likes
		sum.replies += f.replies
		sum.words += f.words
	}

	s.Likes.Mean = sum.likes / n
	s.Replies.Mean = sum.replies / n
	s.WordCount.Mean = sum.words / n

	var sq features
	for i := range records {
		f := featuresOf(&records[i])
		sq.likes += (f.likes - s.Likes.Mean) * (f.likes - s.Likes.Mean)
		sq.replies += (f.replies - s.Replies.Mean) * (f.replies - s.Replies.Mean)
		sq.words += (f.words - s.WordCount.Mean) * (f.words - s.WordCount.Mean)
	}

	s.Likes.StdDev = stdDevOrOne(sq.likes / n)
	s.Replies.StdDev = stdDevOrOne(sq.replies / n)
	s.WordCount.StdDev = stdDevOrOne(sq.words / n)

	return s
}

func stdDevOrOne(variance float64) float64 {
	sd := math.Sqrt(variance)
	if sd == 0 || math.IsNaN(sd) {
		return 1
	}

	return sd
}

// GetAvgValues — средние лайков и ответов за один проход. Пустая коллекция даёт нули.
func GetAvgValues(records []models.Comment) AvgValues {
	if len(records) == 0 {
		return AvgValues{}
	}

	var a AvgValues
	for i := range records {
		f := featuresOf(&records[i])
		a.Likes += f.likes
		a.Replies += f.replies
	}

	n := float64(len(records))
	a.Likes /= n
	a.Replies /= n

	return a
}
