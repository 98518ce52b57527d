package ledger

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeLabel prepares an artist info label for matching: surrounding
// whitespace and a trailing colon are removed, the text is lower-cased and
// accents are folded ("Finalización:" -> "finalizacion").
func NormalizeLabel(label string) string {
	label = strings.TrimSpace(label)
	label = strings.TrimSpace(strings.TrimSuffix(label, ":"))
	return foldAccents(strings.ToLower(label))
}

// normalizeColumn is the comparison key for column names.
func normalizeColumn(name string) string {
	return foldAccents(strings.ToLower(strings.TrimSpace(name)))
}

// foldAccents strips combining marks. Transformers are stateful, so a new
// chain is built per call.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
