package spreadsheet

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/schollz/closestmatch"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
var whitespaceRegex = regexp.MustCompile(`\s+`)

// normalizeText is the header key used for folded matching. Questor exports
// vary both accents/case ("Numero", "NÚMERO") and punctuation ("Base Calc.
// ICMS", "Data Escrituração/Serviço"), so it folds the first and collapses the
// second into single spaces.
func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, str)
	result = strings.ToUpper(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// columnResolver maps expected column names onto the headers actually present.
// Each header is claimed by at most one expected column.
type columnResolver struct {
	headers []string
	folded  map[string]string
	claimed map[string]bool
}

func newColumnResolver(records []Record) *columnResolver {
	set := make(map[string]bool)
	for _, record := range records {
		for name := range record {
			set[name] = true
		}
	}
	headers := make([]string, 0, len(set))
	for name := range set {
		headers = append(headers, name)
	}
	sort.Strings(headers)

	folded := make(map[string]string, len(headers))
	for _, h := range headers {
		key := normalizeText(h)
		if _, ok := folded[key]; !ok {
			folded[key] = h
		}
	}
	return &columnResolver{headers: headers, folded: folded, claimed: make(map[string]bool)}
}

// resolve maps every wanted name to a header, or to "" when absent. Exact and
// accent-folded matches are settled first for all names, then the leftovers
// get a fuzzy match against the unclaimed headers.
func (c *columnResolver) resolve(wanted []string) map[string]string {
	out := make(map[string]string, len(wanted))
	var pending []string

	for _, name := range wanted {
		if h, ok := c.exact(name); ok {
			out[name] = h
			continue
		}
		pending = append(pending, name)
	}

	var fuzzy []string
	for _, name := range pending {
		if h, ok := c.foldedMatch(name); ok {
			out[name] = h
			continue
		}
		fuzzy = append(fuzzy, name)
	}

	for _, name := range fuzzy {
		out[name] = c.closest(name)
	}
	return out
}

func (c *columnResolver) exact(name string) (string, bool) {
	for _, h := range c.headers {
		if h == name && !c.claimed[h] {
			c.claimed[h] = true
			return h, true
		}
	}
	return "", false
}

func (c *columnResolver) foldedMatch(name string) (string, bool) {
	h, ok := c.folded[normalizeText(name)]
	if !ok || c.claimed[h] {
		return "", false
	}
	c.claimed[h] = true
	return h, true
}

// closest accepts a fuzzy candidate only when every word of the wanted name
// appears in it, whole or abbreviated ("BASE CALC ICMS" for "BASE CALCULO
// ICMS"), which keeps "Valor ICMS" from landing on "Valor IPI".
func (c *columnResolver) closest(name string) string {
	var keys []string
	for key, h := range c.folded {
		if !c.claimed[h] {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	target := normalizeText(name)
	cm := closestmatch.New(keys, []int{2, 3})
	candidate := cm.Closest(target)
	if candidate == "" || !coversWords(candidate, target) {
		return ""
	}

	h := c.folded[candidate]
	c.claimed[h] = true
	return h
}

// coversWords reports whether each word of target has a counterpart in
// candidate: equal, or one a prefix of the other with at least three letters.
func coversWords(candidate, target string) bool {
	words := strings.Fields(candidate)
	if len(words) != len(strings.Fields(target)) {
		return false
	}
	for _, want := range strings.Fields(target) {
		found := false
		for _, w := range words {
			if w == want || abbreviates(w, want) || abbreviates(want, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func abbreviates(short, long string) bool {
	return len(short) >= 3 && strings.HasPrefix(long, short)
}
