// Package query parses the query string operators spec.md §6 defines:
// bare terms (joined under the caller's default query type), `+term`
// (force Intersection), `-term` (Not), and `"multi word"` (Phrase).
package query

import (
	"strings"

	"github.com/emberindex/ember/format"
)

// Term is one parsed query atom.
type Term struct {
	Text string
	Type format.QueryType
}

// Phrase is a sequence of terms that must match as an ordered phrase.
type Phrase struct {
	Terms []string
}

// Parsed is the result of parsing a query string: loose terms (bare,
// forced-intersection, or negated) plus any phrase clauses.
type Parsed struct {
	Terms   []Term
	Phrases []Phrase
}

// Parse splits a query string into its operator-tagged terms and phrase
// clauses. defaultType is the QueryType assigned to bare terms (no `+`/`-`
// prefix); phrase clauses are always QueryPhrase and `-term` is always
// QueryNot regardless of defaultType.
func Parse(q string, defaultType format.QueryType) Parsed {
	var parsed Parsed

	i := 0
	for i < len(q) {
		for i < len(q) && q[i] == ' ' {
			i++
		}
		if i >= len(q) {
			break
		}

		if q[i] == '"' {
			end := strings.IndexByte(q[i+1:], '"')
			if end < 0 {
				// Unterminated quote: treat the rest of the string as the
				// phrase body.
				end = len(q) - i - 1
			}
			body := q[i+1 : i+1+end]
			words := strings.Fields(body)
			if len(words) > 0 {
				parsed.Phrases = append(parsed.Phrases, Phrase{Terms: words})
			}
			i += end + 2
			continue
		}

		start := i
		for i < len(q) && q[i] != ' ' {
			i++
		}
		token := q[start:i]

		switch {
		case strings.HasPrefix(token, "+") && len(token) > 1:
			parsed.Terms = append(parsed.Terms, Term{Text: token[1:], Type: format.QueryIntersection})
		case strings.HasPrefix(token, "-") && len(token) > 1:
			parsed.Terms = append(parsed.Terms, Term{Text: token[1:], Type: format.QueryNot})
		case token != "":
			parsed.Terms = append(parsed.Terms, Term{Text: token, Type: defaultType})
		}
	}

	return parsed
}
