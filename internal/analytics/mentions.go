package analytics

import (
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	commonNameWindow      = 50
	distinctiveNameWindow = 150
	minSurnameFallbackLen = 6
)

// First names shared by too many wrestlers and non-wrestlers to trust at a distance
var commonFirstNames = map[string]bool{
	"adam": true, "john": true, "mike": true, "chris": true, "kevin": true,
	"matt": true, "mark": true, "steve": true, "daniel": true, "bryan": true,
}

// Surnames that never count as a mention on their own
var commonSurnames = map[string]bool{
	"johnson": true, "williams": true, "brown": true, "jones": true,
	"garcia": true, "miller": true, "davis": true,
}

var wordPatterns sync.Map // string -> *wordMatcher

// wordMatcher finds a phrase as a whole word. Boundaries are checked against
// Unicode letters and digits so names such as "Moné" end where they should.
type wordMatcher struct {
	re *regexp.Regexp
}

// wordPattern returns a cached case-insensitive whole-word matcher for phrase.
// Words inside the phrase may be separated by any run of whitespace.
func wordPattern(phrase string) *wordMatcher {
	if m, ok := wordPatterns.Load(phrase); ok {
		return m.(*wordMatcher)
	}

	parts := strings.Fields(phrase)
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	m := &wordMatcher{re: regexp.MustCompile(`(?i)` + strings.Join(parts, `\s+`))}

	actual, _ := wordPatterns.LoadOrStore(phrase, m)
	return actual.(*wordMatcher)
}

// MatchString reports whether text contains the phrase as a whole word
func (m *wordMatcher) MatchString(text string) bool {
	return len(m.find(text, 1)) > 0
}

// FindAllStringIndex returns the byte offsets of every whole-word match
func (m *wordMatcher) FindAllStringIndex(text string) [][]int {
	return m.find(text, -1)
}

func (m *wordMatcher) find(text string, limit int) [][]int {
	var hits [][]int
	for start := 0; start < len(text) && (limit < 0 || len(hits) < limit); {
		loc := m.re.FindStringIndex(text[start:])
		if loc == nil {
			break
		}
		from, to := start+loc[0], start+loc[1]
		if wordBoundary(text, from, to) {
			hits = append(hits, []int{from, to})
			start = to
			continue
		}
		_, size := utf8.DecodeRuneInString(text[from:])
		start = from + size
	}
	return hits
}

func wordBoundary(text string, from, to int) bool {
	if from > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:from]); isWordRune(r) {
			return false
		}
	}
	if to < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[to:]); isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// foldAccents strips diacritics so "Moné" and "Mone" compare equal
func foldAccents(s string) string {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// IsWrestlerMentioned reports whether text refers to the named wrestler.
// Short and common names need stronger evidence than distinctive ones.
func IsWrestlerMentioned(name, text string) bool {
	return mentioned(foldAccents(strings.ToLower(strings.TrimSpace(name))), foldAccents(text))
}

// mentioned expects a lower-cased name; both arguments already accent-folded
func mentioned(name, text string) bool {
	if name == "" || text == "" {
		return false
	}

	parts := strings.Fields(name)
	if len(parts) == 1 {
		if utf8.RuneCountInString(name) <= 3 {
			return false
		}
		return wordPattern(name).MatchString(text)
	}

	if wordPattern(name).MatchString(text) {
		return true
	}

	first, last := parts[0], parts[len(parts)-1]
	if len(parts) > 2 && wordPattern(first+" "+last).MatchString(text) {
		return true
	}

	firstHits := wordPattern(first).FindAllStringIndex(text)
	lastHits := wordPattern(last).FindAllStringIndex(text)

	if len(firstHits) > 0 && len(lastHits) > 0 {
		window := distinctiveNameWindow
		if commonFirstNames[first] {
			window = commonNameWindow
		}
		for _, f := range firstHits {
			for _, l := range lastHits {
				if abs(l[0]-f[0]) <= window {
					return true
				}
			}
		}
	}

	return len(lastHits) > 0 && utf8.RuneCountInString(last) >= minSurnameFallbackLen && !commonSurnames[last]
}

// ExtractMentions returns the known names mentioned in text, in roster order
func ExtractMentions(text string, knownNames []string) []string {
	var found []string
	seen := make(map[string]bool)
	text = foldAccents(text)

	for _, name := range knownNames {
		key := strings.ToLower(strings.TrimSpace(name))
		if seen[key] {
			continue
		}
		if mentioned(foldAccents(key), text) {
			seen[key] = true
			found = append(found, name)
		}
	}

	return found
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
