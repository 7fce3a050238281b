// Package textnorm folds and slugifies the free text found in application entries.
package textnorm

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const vowels = "aeiouy"

// punctuation mirrors the ASCII punctuation set stripped from résumé titles
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// StripAccents removes combining marks after canonical decomposition,
// so "Écully" becomes "Ecully".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold returns an accent-free, case-folded form suitable for comparisons
func Fold(s string) string {
	return cases.Fold().String(StripAccents(s))
}

// Contains reports whether needle occurs in haystack ignoring case and accents.
// An empty haystack or a blank needle never matches.
func Contains(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	if haystack == "" || needle == "" {
		return false
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}

// StartsWithVowel reports whether the first letter of word is a vowel once its
// accent is removed. "y" counts as a vowel.
func StartsWithVowel(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}
		base := []rune(norm.NFD.String(string(r)))[0]
		return strings.ContainsRune(vowels, unicode.ToLower(base))
	}
	return false
}

// Slug turns a job title into a file-name friendly token list joined by sep and
// prefixed with prefix, e.g. Slug("cv", "Data Engineer (H/F)", "_") == "cv_data_engineer_h_f".
func Slug(prefix, text, sep string) string {
	text = strings.ReplaceAll(text, "/", " ")
	text = strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) || ('0' <= r && r <= '9') {
			return -1
		}
		return r
	}, text)
	text = strings.ToLower(unidecode.Unidecode(text))

	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return prefix + sep + strings.Join(words, sep)
}
