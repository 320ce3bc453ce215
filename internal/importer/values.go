package importer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"contracts-app/internal/textfold"
)

var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"2-Jan-2006",
	"2-Jan-06",
	"January 2006",
}

var (
	spanishMonths = map[string]string{
		"enero": "january", "febrero": "february", "marzo": "march",
		"abril": "april", "mayo": "may", "junio": "june", "julio": "july",
		"agosto": "august", "septiembre": "september", "setiembre": "september",
		"octubre": "october", "noviembre": "november", "diciembre": "december",
		"ene": "jan", "abr": "apr", "ago": "aug", "dic": "dec", "sept": "sep",
		"de": "", "del": "",
	}
	wordRE = regexp.MustCompile(`[a-z]+`)

	// spreadsheet day zero; 1900 leap-year bug included
	serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
)

func translateMonths(s string) string {
	s = wordRE.ReplaceAllStringFunc(s, func(w string) string {
		if en, ok := spanishMonths[w]; ok {
			return en
		}
		return w
	})
	return strings.TrimSpace(wordRuns.ReplaceAllString(s, " "))
}

// ParseDate accepts ISO, day-first numeric, English or Spanish month names,
// bare years and spreadsheet serial numbers. Empty input returns nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil && !strings.ContainsAny(s, "-/") {
		switch {
		case n >= 1900 && n <= 2100 && n == math.Trunc(n) && len(s) == 4:
			t := time.Date(int(n), 1, 1, 0, 0, 0, 0, time.UTC)
			return &t, nil
		case n >= 20000 && n <= 80000:
			t := serialEpoch.AddDate(0, 0, int(n))
			return &t, nil
		}
		return nil, fmt.Errorf("invalid date %q", s)
	}

	translated := strings.TrimSuffix(translateMonths(strings.ToLower(textfold.StripAccents(s))), ".")
	for _, candidate := range []string{s, translated} {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
				return &t, nil
			}
		}
	}
	return nil, fmt.Errorf("invalid date %q", s)
}

// ParseNumber strips currency symbols and spaces and accepts either decimal
// separator. A single comma is decimal unless exactly three digits follow a
// non-zero integer part; a single dot is always decimal. Parentheses mean a
// negative amount.
func ParseNumber(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			negative = !negative
		}
	}
	clean := b.String()
	if clean == "" || strings.Trim(clean, ",.") == "" {
		return nil, fmt.Errorf("invalid number %q", s)
	}

	commas, dots := strings.Count(clean, ","), strings.Count(clean, ".")
	switch {
	case commas > 0 && dots > 0:
		if strings.LastIndex(clean, ",") > strings.LastIndex(clean, ".") {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case commas > 1:
		clean = strings.ReplaceAll(clean, ",", "")
	case commas == 1:
		i := strings.Index(clean, ",")
		intPart, frac := clean[:i], clean[i+1:]
		if len(frac) == 3 && strings.Trim(intPart, "0") != "" {
			clean = intPart + frac
		} else {
			clean = intPart + "." + frac
		}
	case dots > 1:
		clean = strings.ReplaceAll(clean, ".", "")
	}

	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	if negative {
		f = -f
	}
	return &f, nil
}

// ParseInt is ParseNumber restricted to whole numbers.
func ParseInt(s string) (*int64, error) {
	f, err := ParseNumber(s)
	if err != nil || f == nil {
		return nil, err
	}
	if *f != math.Trunc(*f) {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	n := int64(*f)
	return &n, nil
}

var truthy = map[string]bool{
	"si": true, "s": true, "yes": true, "y": true, "x": true,
	"true": true, "1": true, "✓": true, "✔": true, "verdadero": true, "ok": true,
}

func ParseBool(s string) bool {
	return truthy[NormalizeKey(s)]
}

// Enum maps normalized spellings onto canonical values. Default is used for
// empty input; Fallback for unknown input, with "" meaning reject.
type Enum struct {
	Values   map[string]string
	Default  string
	Fallback string
}

func (e Enum) Parse(s string) (string, error) {
	key := NormalizeKey(s)
	if key == "" {
		return e.Default, nil
	}
	if v, ok := e.Values[key]; ok {
		return v, nil
	}
	if e.Fallback != "" {
		return e.Fallback, nil
	}
	return "", fmt.Errorf("unknown value %q", s)
}

var listSplit = regexp.MustCompile(`(?i)\s*(?:[,;/&]|\bfeat\b\.?|\bft\b\.?)\s*`)

// SplitList splits an artist credit such as "A, B & C feat. D".
func SplitList(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, part := range listSplit.Split(s, -1) {
		part = strings.TrimSpace(part)
		if part == "" || seen[strings.ToLower(part)] {
			continue
		}
		seen[strings.ToLower(part)] = true
		out = append(out, part)
	}
	return out
}
