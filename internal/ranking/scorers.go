package ranking

import "github.com/pribylovaa/comment-ranker/internal/models"

// Веса признаков (в сумме 1.0) и сглаживающая константа байесовской оценки.
const (
	WeightLikes   = 0.3
	WeightReplies = 0.5
	WeightWords   = 0.2

	BayesianM = 5.0
)

// ScoreOption настраивает расчёт оценки.
type ScoreOption func(*features)

// WithWordCount подставляет заранее известное число слов вместо поля записи.
func WithWordCount(n int64) ScoreOption {
	return func(f *features) {
		f.words = float64(max(n, 0))
	}
}

func resolve(c *models.Comment, opts []ScoreOption) features {
	f := featuresOf(c)
	for _, opt := range opts {
		opt(&f)
	}

	return f
}

// NormalizedScore — взвешенная сумма признаков, нормированных на максимумы коллекции.
func NormalizedScore(c *models.Comment, m MaxValues, opts ...ScoreOption) float64 {
	f := resolve(c, opts)

	return f.likes/m.Likes*WeightLikes +
		f.replies/m.Replies*WeightReplies +
		f.words/m.WordCount*WeightWords
}

// ZScore — взвешенная сумма z-оценок признаков.
func ZScore(c *models.Comment, s Stats, opts ...ScoreOption) float64 {
	f := resolve(c, opts)

	return z(f.likes, s.Likes)*WeightLikes +
		z(f.replies, s.Replies)*WeightReplies +
		z(f.words, s.WordCount)*WeightWords
}

func z(v float64, fs FeatureStats) float64 {
	if fs.StdDev == 0 {
		return 0
	}

	return (v - fs.Mean) / fs.StdDev
}

// BayesianScore — сглаженная «плотность вовлечённости» на слово:
// (likes + replies + m*(meanLikes + meanReplies)) / (wordCount + m).
func BayesianScore(c *models.Comment, a AvgValues, opts ...ScoreOption) float64 {
	f := resolve(c, opts)

	denom := f.words + BayesianM
	if denom == 0 {
		return 0
	}

	return (f.likes + f.replies + BayesianM*(a.Likes+a.Replies)) / denom
}
