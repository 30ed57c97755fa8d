package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizer приводит текст к нижнему регистру и убирает диакритику.
// Не безопасен для конкурентного использования: transform.Chain хранит состояние.
type normalizer struct {
	t transform.Transformer
}

func newNormalizer() *normalizer {
	return &normalizer{
		t: transform.Chain(
			norm.NFKD,
			runes.Remove(runes.In(unicode.Mn)),
			runes.Map(unicode.ToLower),
			norm.NFKC,
		),
	}
}

// Normalize возвращает нормализованную строку со сжатыми пробелами.
// При ошибке трансформации откатывается на strings.ToLower.
func (n *normalizer) Normalize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}

	out, _, err := transform.String(n.t, s)
	n.t.Reset()
	if err != nil {
		return strings.ToLower(s)
	}

	return out
}

// Normalize — разовая нормализация (для одиночных строк вне Search).
func Normalize(s string) string {
	return newNormalizer().Normalize(s)
}

// tokens режет текст на слова: буквы и цифры, прочее — разделители.
func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
