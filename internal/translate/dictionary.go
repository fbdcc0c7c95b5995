// Package translate — словарный переводчик FR ↔ EN для названий товаров.
package translate

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"product-normalizer/internal/normalize/service"
)

const (
	LangEN = "en"
	LangFR = "fr"

	// самая длинная фраза глоссария в токенах
	maxPhrase = 3
)

var ErrUnsupportedLanguage = errors.New("unsupported pivot language")

//go:embed glossary.toml
var defaultGlossary []byte

type glossary struct {
	FrEn map[string]string `toml:"fr_en"`
	EnFr map[string]string `toml:"en_fr"`
}

// Dictionary переводит канонический текст жадной заменой фраз
// (до трёх токенов), неизвестные токены остаются как есть.
type Dictionary struct {
	toEN map[string]string
	toFR map[string]string
}

var (
	defaultDict     *Dictionary
	defaultDictErr  error
	defaultDictOnce sync.Once
)

// Default — встроенный глоссарий, собирается один раз.
func Default() (*Dictionary, error) {
	defaultDictOnce.Do(func() {
		defaultDict, defaultDictErr = Parse(defaultGlossary)
	})
	return defaultDict, defaultDictErr
}

// Load читает глоссарий из файла; пустой путь — встроенный глоссарий.
func Load(path string) (*Dictionary, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read glossary: %w", err)
	}
	return Parse(data)
}

// Parse строит словарь из TOML. Обратная таблица EN → FR выводится
// обращением fr_en (первая по алфавиту французская фраза), [en_fr] её уточняет.
func Parse(data []byte) (*Dictionary, error) {
	var g glossary
	if err := toml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse glossary: %w", err)
	}
	d := &Dictionary{
		toEN: make(map[string]string, len(g.FrEn)),
		toFR: make(map[string]string, len(g.FrEn)+len(g.EnFr)),
	}

	frKeys := make([]string, 0, len(g.FrEn))
	for k := range g.FrEn {
		frKeys = append(frKeys, k)
	}
	sort.Strings(frKeys)
	for _, k := range frKeys {
		fr, en := service.Canonicalize(k), service.Canonicalize(g.FrEn[k])
		if fr == "" || en == "" {
			continue
		}
		if n := len(strings.Fields(fr)); n > maxPhrase {
			return nil, fmt.Errorf("glossary phrase %q: %d tokens, max %d", k, n, maxPhrase)
		}
		d.toEN[fr] = en
		if _, ok := d.toFR[en]; !ok {
			d.toFR[en] = fr
		}
	}
	for k, v := range g.EnFr {
		en, fr := service.Canonicalize(k), service.Canonicalize(v)
		if en == "" || fr == "" {
			continue
		}
		if n := len(strings.Fields(en)); n > maxPhrase {
			return nil, fmt.Errorf("glossary phrase %q: %d tokens, max %d", k, n, maxPhrase)
		}
		d.toFR[en] = fr
	}
	if len(d.toEN) == 0 {
		return nil, errors.New("glossary is empty")
	}
	return d, nil
}

// Len — число пар FR → EN.
func (d *Dictionary) Len() int { return len(d.toEN) }

// NormalizeToPivot переводит текст на pivot-язык ("en" или "fr").
func (d *Dictionary) NormalizeToPivot(ctx context.Context, text, pivotLang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	table, err := d.table(pivotLang)
	if err != nil {
		return "", err
	}
	return render(service.Canonicalize(text), table), nil
}

// Variants — канонический оригинал, английская и французская версии,
// без повторов и пустых строк, в этом порядке.
func (d *Dictionary) Variants(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	canon := service.Canonicalize(text)
	if canon == "" {
		return nil, nil
	}
	out := []string{canon}
	for _, v := range []string{render(canon, d.toEN), render(canon, d.toFR)} {
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (d *Dictionary) table(lang string) (map[string]string, error) {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case LangEN:
		return d.toEN, nil
	case LangFR:
		return d.toFR, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
}

// render: жадно слева направо, сначала самая длинная фраза.
func render(canon string, table map[string]string) string {
	words := strings.Fields(canon)
	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		n := maxPhrase
		if rest := len(words) - i; rest < n {
			n = rest
		}
		matched := false
		for ; n > 0; n-- {
			if v, ok := table[strings.Join(words[i:i+n], " ")]; ok {
				out = append(out, v)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, words[i])
			i++
		}
	}
	return strings.Join(out, " ")
}
