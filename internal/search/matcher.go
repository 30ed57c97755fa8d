package search

import "unicode/utf8"

// TextMatcher оценивает похожесть запроса на текст: 0 — непохоже, 1 — совпадение.
// Оба аргумента уже нормализованы (нижний регистр, без диакритики).
type TextMatcher interface {
	Score(query, corpus string) float64
}

// FuzzyMatcher — пословное сравнение по расстоянию Левенштейна.
//
// Каждое слово запроса ищется среди слов текста; допустимое число правок
// зависит от длины слова запроса: до 4 символов — 0, до 8 — 1, длиннее — 2.
// Оценка слова — 1 - d/max(len); итог — среднее по словам запроса,
// 0 если хоть одно слово не нашлось.
type FuzzyMatcher struct{}

// Score реализует TextMatcher.
func (FuzzyMatcher) Score(query, corpus string) float64 {
	qs := tokens(query)
	if len(qs) == 0 {
		return 0
	}

	words := uniqueWords(tokens(corpus))
	if len(words) == 0 {
		return 0
	}

	var total float64
	for _, q := range qs {
		best := bestWordScore(q, words)
		if best == 0 {
			return 0
		}

		total += best
	}

	return total / float64(len(qs))
}

func bestWordScore(q string, words []string) float64 {
	qLen := utf8.RuneCountInString(q)
	budget := editBudget(qLen)

	var best float64
	for _, w := range words {
		wLen := utf8.RuneCountInString(w)
		if abs(wLen-qLen) > budget {
			continue
		}

		d := levenshtein(q, w)
		if d > budget {
			continue
		}

		sim := 1 - float64(d)/float64(max(qLen, wLen))
		if sim > best {
			best = sim
		}

		if best == 1 {
			break
		}
	}

	return best
}

func editBudget(n int) int {
	switch {
	case n <= 4:
		return 0
	case n <= 8:
		return 1
	default:
		return 2
	}
}

func uniqueWords(ws []string) []string {
	seen := make(map[string]struct{}, len(ws))
	out := ws[:0]
	for _, w := range ws {
		if _, ok := seen[w]; ok {
			continue
		}

		seen[w] = struct{}{}
		out = append(out, w)
	}

	return out
}

// levenshtein — число вставок/удалений/замен символов (по рунам), две строки матрицы.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}

	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
