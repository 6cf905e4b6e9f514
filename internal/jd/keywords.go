package jd

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jmartin/resume-dash/internal/section"
)

// maxKeywords caps the missing-keyword list the matcher shows.
const maxKeywords = 20

// minOccurrences filters incidental words: a term has to recur in the job
// description before its absence from the resume is worth flagging.
const minOccurrences = 2

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true,
	"has": true, "have": true, "in": true, "is": true, "it": true,
	"of": true, "on": true, "or": true, "our": true, "that": true,
	"the": true, "their": true, "this": true, "to": true, "we": true,
	"will": true, "with": true, "you": true, "your": true, "yours": true,
	"about": true, "all": true, "also": true, "more": true, "other": true,
	"who": true, "work": true, "working": true, "team": true, "teams": true,
	"experience": true, "years": true, "role": true, "job": true,
	"strong": true, "ability": true, "skills": true, "including": true,
	"us": true, "not": true, "can": true, "what": true, "if": true,
}

// MissingKeywords returns recurring job-description terms that none of the
// supplied contents mention, ordered by how often the description repeats
// them. This is the deterministic fallback used when no AI key is
// available; with a key the analyzer refines the same list.
func MissingKeywords(jobDescription string, contents []section.Content) []string {
	covered := make(map[string]bool)
	for _, c := range contents {
		for _, tok := range tokenize(contentText(c)) {
			covered[tok] = true
		}
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, tok := range tokenize(jobDescription) {
		counts[tok]++
		if _, ok := firstSeen[tok]; !ok {
			firstSeen[tok] = i
		}
	}

	var missing []string
	for tok, n := range counts {
		if n < minOccurrences || covered[tok] {
			continue
		}
		missing = append(missing, tok)
	}
	sort.Slice(missing, func(i, j int) bool {
		if counts[missing[i]] != counts[missing[j]] {
			return counts[missing[i]] > counts[missing[j]]
		}
		return firstSeen[missing[i]] < firstSeen[missing[j]]
	})
	if len(missing) > maxKeywords {
		missing = missing[:maxKeywords]
	}
	return missing
}

// tokenize lowercases and splits on non-alphanumeric runs, keeping terms
// like "ci/cd" split but "kubernetes" intact. One- and two-letter tokens
// and stopwords are dropped.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) < 3 && f != "go" && f != "c#" && f != "c++" {
			continue
		}
		if stopwords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// contentText flattens a section's content into searchable text.
func contentText(c section.Content) string {
	var sb strings.Builder
	sb.WriteString(c.Title)
	sb.WriteByte(' ')
	sb.WriteString(c.Company)
	for _, b := range c.Bullets {
		sb.WriteByte(' ')
		sb.WriteString(b)
	}
	for category, items := range c.Skills {
		sb.WriteByte(' ')
		sb.WriteString(category)
		for _, item := range items {
			sb.WriteByte(' ')
			sb.WriteString(item)
		}
	}
	return sb.String()
}
