// Package filter отбирает комментарии по булевым признакам и включающим диапазонам.
package filter

import "github.com/pribylovaa/comment-ranker/internal/models"

// Predicate — скомпилированный FilterState: даты разобраны один раз, до цикла по записям.
type Predicate struct {
	basic    models.BasicFilters
	likes    models.Range
	replies  models.Range
	words    models.Range
	start    int64
	end      int64
	hasStart bool
	hasEnd   bool
	active   bool
}

// Compile подготавливает предикат. Неразбираемая граница даты считается отсутствующей:
// строгая проверка делается в FilterState.Validate на входе в систему.
func Compile(fs models.FilterState) Predicate {
	p := Predicate{
		basic:   fs.BasicFilters,
		likes:   fs.LikesThreshold,
		replies: fs.RepliesLimit,
		words:   fs.WordCount,
	}

	if !fs.DateTimeRange.Empty() {
		start, hasStart, end, hasEnd, err := fs.DateTimeRange.Bounds()
		if err == nil {
			p.start, p.hasStart, p.end, p.hasEnd = start, hasStart, end, hasEnd
		}
	}

	p.active = p.basic.Any() ||
		!p.likes.Unbounded() || !p.replies.Unbounded() || !p.words.Unbounded() ||
		p.hasStart || p.hasEnd

	return p
}

// Active — предикат хоть что-то отсекает.
func (p *Predicate) Active() bool {
	return p.active
}

// Match — запись проходит все активные условия.
func (p *Predicate) Match(c *models.Comment) bool {
	if !p.basic.Match(c) {
		return false
	}

	// Отрицательные значения (битые записи) считаются нулём.
	if !p.likes.Contains(max(c.Likes, 0)) ||
		!p.replies.Contains(max(c.ReplyCount, 0)) ||
		!p.words.Contains(max(c.WordCount, 0)) {
		return false
	}

	if p.hasStart && c.PublishedDate < p.start {
		return false
	}

	if p.hasEnd && c.PublishedDate > p.end {
		return false
	}

	return true
}

// Apply возвращает устойчивую подпоследовательность records, прошедшую фильтры.
// Для состояния по умолчанию возвращается сам вход: без копирования и без проверок.
func Apply(records []models.Comment, fs models.FilterState) []models.Comment {
	if fs.IsDefault() {
		return records
	}

	p := Compile(fs)
	if !p.Active() {
		return records
	}

	out := make([]models.Comment, 0, len(records))
	for i := range records {
		if p.Match(&records[i]) {
			out = append(out, records[i])
		}
	}

	return out
}
