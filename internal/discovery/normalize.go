package discovery

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Corporate suffixes stripped during normalization so "Acme Inc." and
// "acme" dedupe to the same record.
var corporateSuffixes = []string{
	"inc", "llc", "ltd", "gmbh", "corp", "co", "company", "plc", "sa", "ag", "inc.", "ltd.", "co.",
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName canonicalizes a competitor name for dedup: lowercase,
// diacritics folded, punctuation dropped, corporate suffixes removed.
func NormalizeName(name string) string {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}

	var sb strings.Builder

	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			sb.WriteRune(' ')
		}
	}

	words := strings.Fields(sb.String())

	for len(words) > 1 && isCorporateSuffix(words[len(words)-1]) {
		words = words[:len(words)-1]
	}

	return strings.Join(words, " ")
}

func isCorporateSuffix(word string) bool {
	for _, s := range corporateSuffixes {
		if word == s {
			return true
		}
	}

	return false
}
