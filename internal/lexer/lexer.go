// Package lexer splits free text into lower-cased word tokens. It is purely
// lexical: no stemming, no synonyms, no semantic interpretation.
package lexer

import (
	"strings"

	"github.com/viant/parsly"
)

// Tokenize returns the lower-cased words of text in order of appearance.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	cursor := parsly.NewCursor("", []byte(text), 0)
	var ret []string
	for cursor.Pos < cursor.InputSize {
		match := cursor.MatchAny(wordToken, whitespaceToken)
		switch match.Code {
		case wordCode:
			ret = append(ret, strings.ToLower(match.Text(cursor)))
		case whitespaceCode:
		case parsly.EOF:
			return ret
		default:
			cursor.Pos++ // punctuation and other symbols
		}
	}
	return ret
}

// Keywords returns Tokenize(text) without stop words, numbers and words
// shorter than three characters.
func Keywords(text string) []string {
	tokens := Tokenize(text)
	ret := tokens[:0]
	for _, token := range tokens {
		if len(token) < 3 || stopWords[token] || isNumber(token) {
			continue
		}
		ret = append(ret, token)
	}
	return ret
}

// Set returns the distinct tokens of text.
func Set(text string) map[string]bool {
	ret := make(map[string]bool)
	for _, token := range Tokenize(text) {
		ret[token] = true
	}
	return ret
}

// ContainsAny reports whether any of words occurs as a whole token (or a
// plain inflection of it) in tokens, or, for multi-word phrases, as a phrase
// in the normalized text.
func ContainsAny(tokens map[string]bool, normalized string, words ...string) bool {
	for _, word := range words {
		if strings.Contains(word, " ") {
			if containsPhrase(normalized, word) {
				return true
			}
			continue
		}
		if HasForm(tokens, word) {
			return true
		}
	}
	return false
}

// Matching returns the subset of words found by ContainsAny, in input order.
func Matching(tokens map[string]bool, normalized string, words ...string) []string {
	var ret []string
	for _, word := range words {
		if ContainsAny(tokens, normalized, word) {
			ret = append(ret, word)
		}
	}
	return ret
}

var suffixes = []string{"s", "es", "d", "ed", "ing"}

// HasForm reports whether tokens contain word or word with a plain
// inflectional suffix ("restart" matches "restarts", "restarted",
// "restarting"; "delete" matches "deleting").
func HasForm(tokens map[string]bool, word string) bool {
	if tokens[word] {
		return true
	}
	for _, suffix := range suffixes {
		if tokens[word+suffix] {
			return true
		}
	}
	if strings.HasSuffix(word, "e") && tokens[word[:len(word)-1]+"ing"] {
		return true
	}
	return false
}

// containsPhrase matches phrase on token boundaries of normalized.
func containsPhrase(normalized, phrase string) bool {
	return strings.Contains(" "+normalized+" ", " "+phrase+" ")
}

// Normalize joins the tokens of text with single spaces, which makes phrase
// lookups insensitive to punctuation and case.
func Normalize(text string) string {
	return strings.Join(Tokenize(text), " ")
}

func isNumber(token string) bool {
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return false
		}
	}
	return true
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true, "this": true,
	"from": true, "into": true, "was": true, "were": true, "are": true, "has": true,
	"have": true, "had": true, "been": true, "but": true, "not": true, "all": true,
	"any": true, "can": true, "could": true, "should": true, "would": true, "will": true,
	"may": true, "might": true, "its": true, "our": true, "their": true, "there": true,
	"which": true, "when": true, "where": true, "while": true, "after": true, "before": true,
	"during": true, "over": true, "under": true, "then": true, "than": true, "also": true,
	"due": true, "per": true, "via": true, "about": true, "across": true, "between": true,
	"some": true, "more": true, "most": true, "other": true, "such": true, "only": true,
	"very": true, "these": true, "those": true, "each": true, "both": true, "what": true,
	"who": true, "how": true, "why": true, "because": true, "being": true, "does": true,
	"did": true, "doing": true, "out": true, "off": true, "onto": true, "upon": true,
	"observed": true, "detected": true, "found": true, "shows": true, "showing": true,
	"likely": true, "possible": true, "potential": true, "issue": true, "issues": true,
}
