package generator

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Concept is a term/definition pair supplied by the caller.
type Concept struct {
	Term       string `json:"term" yaml:"term" validate:"required,max=40"`
	Definition string `json:"definition" yaml:"definition" validate:"max=500"`
}

// ToUpper applies Unicode upper-case mapping and composes the result (NFC), so
// a letter typed as base plus combining mark becomes one rune. A Caser carries
// state, so each call builds its own.
func ToUpper(s string) string {
	return norm.NFC.String(cases.Upper(language.Und).String(s))
}

// NormalizeTerm uppercases a term and strips everything that is not a letter,
// so "Solar system" becomes "SOLARSYSTEM" and "å" stays a single cell.
func NormalizeTerm(term string) []rune {
	out := make([]rune, 0, utf8.RuneCountInString(term))
	for _, r := range ToUpper(term) {
		if unicode.IsLetter(r) {
			out = append(out, r)
		}
	}
	return out
}

// SortByLength returns a copy of concepts ordered by descending term length.
// Ties keep their input order.
func SortByLength(concepts []Concept) []Concept {
	sorted := slices.Clone(concepts)
	slices.SortStableFunc(sorted, func(a, b Concept) int {
		return cmp.Compare(len(NormalizeTerm(b.Term)), len(NormalizeTerm(a.Term)))
	})
	return sorted
}

type candidate struct {
	word []rune
	clue string
}

func candidates(concepts []Concept, maxSize, limit int) []candidate {
	out := make([]candidate, 0, min(len(concepts), limit))
	for _, c := range concepts {
		if len(out) == limit {
			break
		}
		word := NormalizeTerm(c.Term)
		if len(word) == 0 || len(word) > maxSize {
			continue
		}
		out = append(out, candidate{word: word, clue: strings.TrimSpace(c.Definition)})
	}
	return out
}
