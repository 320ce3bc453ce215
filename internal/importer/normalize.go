package importer

import (
	"regexp"
	"strings"

	"contracts-app/internal/textfold"
)

var (
	keyJunk  = regexp.MustCompile(`[^a-z0-9✓✔]+`)
	wordRuns = regexp.MustCompile(`\s+`)
)

// NormalizeKey folds a header or enum value to a comparable key:
// lower case, no accents, every run of other characters collapsed to "_".
// Example: "Fecha de Término" -> "fecha_de_termino"
func NormalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(textfold.StripAccents(s)))
	s = keyJunk.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
