// Package titlematch scores catalog titles against free-text queries.
package titlematch

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// romanNumeralRegex matches II-IX after a space. A bare "I" or "X" and a
// leading numeral are left alone ("I Robot", "American History X", "VII Days").
var romanNumeralRegex = regexp.MustCompile(`(?i) (ii|iii|iv|v|vi|vii|viii|ix)\b`)

var romanToArabic = map[string]string{
	"ii": "2", "iii": "3", "iv": "4", "v": "5",
	"vi": "6", "vii": "7", "viii": "8", "ix": "9",
}

// yearRegex finds a plausible release year in a query.
var yearRegex = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

var articles = []string{"the ", "a ", "an "}

// Normalize lowercases, strips accents, articles and punctuation, and folds
// Roman numerals so "The Godfather: Part II" and "godfather part 2" compare equal.
func Normalize(title string) string {
	s := strings.ToLower(title)
	s = romanNumeralRegex.ReplaceAllStringFunc(s, func(m string) string {
		if arabic, ok := romanToArabic[strings.TrimSpace(m)]; ok {
			return " " + arabic
		}
		return m
	})
	s = stripAccents(s)

	s = strings.NewReplacer("&", " and ", "-", " ", "'", "", ".", " ").Replace(s)

	parts := strings.Split(s, ":")
	for i, part := range parts {
		parts[i] = stripArticle(part)
	}
	s = strings.Join(parts, " ")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// SplitYear separates a trailing or embedded year from a query: "alien 1979" -> ("alien", 1979).
func SplitYear(query string) (string, int) {
	loc := yearRegex.FindStringIndex(query)
	if loc == nil {
		return query, 0
	}
	year := 0
	for _, r := range query[loc[0]:loc[1]] {
		year = year*10 + int(r-'0')
	}
	rest := strings.TrimSpace(query[:loc[0]] + " " + query[loc[1]:])
	if rest == "" {
		// The whole query is a number, e.g. the film "1917".
		return query, 0
	}
	rest = strings.Trim(rest, " ()[]")
	return rest, year
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, _ := transform.String(t, s)
	return out
}

func stripArticle(s string) string {
	s = strings.TrimSpace(s)
	for _, art := range articles {
		if strings.HasPrefix(s, art) {
			return strings.TrimPrefix(s, art)
		}
	}
	return s
}
