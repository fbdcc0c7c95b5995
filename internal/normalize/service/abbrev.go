package service

import "strings"

// Сокращения с чеков (ДРК) и бренды, которые сводятся к общему товару.
// Бренды обрабатываются так же, как сокращения.
var defaultAbbreviations = map[string]string{
	// французские сокращения
	"bnn":      "banane",
	"bnn pltn": "banane plantain",
	"pltn":     "plantain",
	"pvre":     "poivre",
	"pmdt":     "pomme de terre",
	"pdt":      "pomme de terre",
	"tom":      "tomate",
	"ogn":      "oignon",
	"crt":      "carotte",
	"poul":     "poulet",
	"pssn":     "poisson",
	"hle":      "huile",
	"hle plm":  "huile de palme",
	"hle vgt":  "huile végétale",
	"fne":      "farine",
	"scr":      "sucre",
	"lt":       "lait",
	"eau min":  "eau minérale",
	"jus frts": "jus de fruits",
	"svn":      "savon",
	"dtrgt":    "détergent",
	"cch":      "couches",
	"pp tlt":   "papier toilette",
	"conc tom": "concentré de tomate",
	"pte tom":  "pâte de tomate",

	// английские
	"veg oil": "vegetable oil",
	"plm oil": "palm oil",
	"tom pst": "tomato paste",
	"grndnts": "groundnuts",
	"pnts":    "peanuts",
	"chkn":    "chicken",
	"fsh":     "fish",
	"wtr":     "water",
	"min wtr": "mineral water",
	"tlt ppr": "toilet paper",

	// бренды
	"primus":  "bière",
	"skol":    "bière",
	"fanta":   "soda",
	"coca":    "soda",
	"sprite":  "soda",
	"omo":     "détergent",
	"ariel":   "détergent",
	"pampers": "couches",
	"huggies": "couches",
}

// Expander раскрывает сокращения по таблице "фраза → фраза".
type Expander struct {
	table map[string]string
}

// NewExpander строит таблицу из встроенной и дополнительных записей.
// Ключи приводятся к канонической форме, иначе они никогда не совпадут.
func NewExpander(extra map[string]string) *Expander {
	t := make(map[string]string, len(defaultAbbreviations)+len(extra))
	for k, v := range defaultAbbreviations {
		t[Canonicalize(k)] = v
	}
	for k, v := range extra {
		if ck := Canonicalize(k); ck != "" && strings.TrimSpace(v) != "" {
			t[ck] = v
		}
	}
	return &Expander{table: t}
}

var defaultExpander = NewExpander(nil)

// Expand раскрывает сокращения встроенной таблицей.
func Expand(s string) string { return defaultExpander.Expand(s) }

// Expand: сначала вся строка целиком, затем жадно слева направо —
// окно из двух токенов, потом один токен, иначе токен как есть.
// Результат не канонический: вызывающий код канонизирует его сам.
func (e *Expander) Expand(s string) string {
	c := Canonicalize(s)
	if c == "" {
		return ""
	}
	if v, ok := e.table[c]; ok {
		return v
	}

	words := Tokens(c)
	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		if i+1 < len(words) {
			if v, ok := e.table[words[i]+" "+words[i+1]]; ok {
				out = append(out, v)
				i += 2
				continue
			}
		}
		if v, ok := e.table[words[i]]; ok {
			out = append(out, v)
		} else {
			out = append(out, words[i])
		}
		i++
	}
	return strings.Join(out, " ")
}

// Len — размер таблицы.
func (e *Expander) Len() int { return len(e.table) }
