package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Weights — веса комбинированной метрики.
type Weights struct {
	Edit  float64
	Token float64
}

var DefaultWeights = Weights{Edit: 0.6, Token: 0.4}

// Valid: веса неотрицательные и в сумме не больше 1, тогда результат остаётся в [0,1].
func (w Weights) Valid() error {
	if w.Edit < 0 || w.Token < 0 {
		return fmt.Errorf("similarity weights must be non-negative: edit=%v token=%v", w.Edit, w.Token)
	}
	if w.Edit+w.Token > 1+1e-9 {
		return fmt.Errorf("similarity weights must sum to at most 1: edit=%v token=%v", w.Edit, w.Token)
	}
	return nil
}

// EditSimilarity = 2*M / (|a|+|b|), M — число совпавших символов
// выравнивания (длина наибольшей общей подпоследовательности).
func EditSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	m := edlib.LCS(a, b)
	return 2 * float64(m) / float64(total)
}

// TokenSimilarity — коэффициент Жаккара по множествам токенов.
func TokenSimilarity(a, b string) float64 {
	sa := tokenSet(a)
	sb := tokenSet(b)
	union := len(sa)
	inter := 0
	for t := range sb {
		if _, ok := sa[t]; ok {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// CombinedSimilarity — взвешенная сумма двух метрик.
func CombinedSimilarity(a, b string, w Weights) float64 {
	if a == "" || b == "" {
		return 0
	}
	return w.Edit*EditSimilarity(a, b) + w.Token*TokenSimilarity(a, b)
}

func tokenSet(s string) map[string]struct{} {
	f := strings.Fields(s)
	m := make(map[string]struct{}, len(f))
	for _, t := range f {
		m[t] = struct{}{}
	}
	return m
}
