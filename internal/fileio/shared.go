package fileio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

var ErrUnsupported = errors.New("unsupported file")

// ReadAnyMaps — выберет парсер по расширению и вернёт строки как срез map[header]value.
// headerRow — номер строки заголовков (1-based).
func ReadAnyMaps(r io.Reader, filename string, headerRow int) ([]map[string]string, error) {
	if headerRow <= 0 {
		headerRow = 1
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	case ".csv", ".txt":
		return readCSV(r, headerRow)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filename)
	}
}

// tableToMaps превращает таблицу в записи по строке заголовков (1-based).
// Пустой заголовок становится "Column N", повтор получает суффикс " (2)".
// Полностью пустые строки пропускаются.
func tableToMaps(rows [][]string, headerRow int) []map[string]string {
	if headerRow > len(rows) {
		return nil
	}
	headers := headerNames(rows[headerRow-1])

	var out []map[string]string
	for _, row := range rows[headerRow:] {
		rec := make(map[string]string, len(headers))
		blank := true
		for c, h := range headers {
			v := ""
			if c < len(row) {
				v = cleanCell(row[c])
			}
			if v != "" {
				blank = false
			}
			rec[h] = v
		}
		if !blank {
			out = append(out, rec)
		}
	}
	return out
}

func headerNames(row []string) []string {
	out := make([]string, len(row))
	seen := make(map[string]int, len(row))
	for i, v := range row {
		v = cleanCell(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		seen[v]++
		if n := seen[v]; n > 1 {
			v = fmt.Sprintf("%s (%d)", v, n)
		}
		out[i] = v
	}
	return out
}

// cleanCell: NBSP и узкий NBSP → пробел, обрезка по краям.
func cleanCell(s string) string {
	return strings.TrimSpace(nbsp.Replace(s))
}

var nbsp = strings.NewReplacer("\u00A0", " ", "\u202F", " ")

var rxHeaderJunk = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normHeaderKey: нижний регистр, без служебных символов и лишних пробелов.
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nbsp.Replace(s)
	s = foldAccents(s)
	s = rxHeaderJunk.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// ResolveKey ищет реальный ключ записи по желаемому имени колонки.
// Альтернативы через "|": "Désignation|Libellé|Article".
func ResolveKey(rec map[string]string, want string) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return ""
	}
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	// точное совпадение как есть
	for _, a := range alts {
		if _, ok := rec[a]; ok {
			return a
		}
	}

	nWantAll := make([]string, 0, len(alts))
	for _, a := range alts {
		if n := normHeaderKey(a); n != "" {
			nWantAll = append(nWantAll, n)
		}
	}

	// нормализованное сравнение, затем вхождение (составные заголовки:
	// "designation article" содержит "designation")
	bestKey, bestScore := "", 0
	for k := range rec {
		nk := normHeaderKey(k)
		for _, n := range nWantAll {
			if nk == n {
				return k
			}
		}
		score := 0
		for _, n := range nWantAll {
			// ключ ⊂ want только для ключей от 3 символов: "N°" не должен стать "name"
			if strings.Contains(nk, n) || (len(nk) >= 3 && strings.Contains(n, nk)) {
				score = max(score, len(n))
			}
		}
		// при равенстве берём лексикографически меньший ключ, иначе порог зависит от обхода map
		if score > bestScore || (score == bestScore && score > 0 && k < bestKey) {
			bestScore, bestKey = score, k
		}
	}
	return bestKey
}
