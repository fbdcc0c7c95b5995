package service

import (
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NFD + удаление диакритики: "épinards" → "epinards", "maïs" → "mais".
// Цепочка с состоянием: не делить между горутинами.
var stripMarks = sync.Pool{New: func() any {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}}

func foldMarks(s string) string {
	t := stripMarks.Get().(transform.Transformer)
	defer stripMarks.Put(t)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// всё, что не буква/цифра/_/пробел → пробел
var punct = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)

// Шумовые слова (FR/EN артикли и предлоги, единицы, упаковка).
// Храним уже в канонической форме: "boîte" → "boite", "à" отсекается по длине.
var noiseWords = map[string]struct{}{
	"le": {}, "la": {}, "les": {}, "un": {}, "une": {}, "des": {}, "du": {}, "de": {},
	"au": {}, "aux": {},
	"the": {}, "an": {}, "of": {}, "to": {}, "for": {}, "with": {},
	"pack": {}, "paquet": {}, "sachet": {}, "boite": {}, "box": {}, "piece": {}, "pcs": {},
	"kg": {}, "ml": {},
}

// IsNoiseWord — входит ли токен в шумовой словарь.
func IsNoiseWord(tok string) bool {
	_, ok := noiseWords[tok]
	return ok
}

// Canonicalize — единственная точка нормализации текста: ключи индекса,
// алиасы и выученные соответствия проходят только через неё.
func Canonicalize(s string) string {
	if s == "" {
		return ""
	}
	out := strings.ToLower(s)
	out = foldMarks(out)
	// после удаления диакритики регистр мог "вернуться" (редкие лигатуры)
	out = strings.ToLower(out)
	out = punct.ReplaceAllString(out, " ")

	fields := strings.Fields(out)
	kept := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) <= 1 || IsNoiseWord(f) {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// Tokens — токены канонической строки.
func Tokens(s string) []string { return strings.Fields(s) }
