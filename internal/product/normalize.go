package product

import (
	"regexp"
	"strings"
)

var (
	// familyPattern recognizes the phone product family and captures the
	// canonical model plus optional storage size.
	familyPattern = regexp.MustCompile(`iphone\s*(\d+(?:\s*(?:pro|plus|max|mini))*)\s*(\d+\s?gb)?`)

	punctuation = regexp.MustCompile(`[^\w\s]`)
	whitespace  = regexp.MustCompile(`\s+`)

	// noisePhrases are condition/marketing fillers stripped before keying.
	// Multi-word phrases come first so their fragments cannot survive.
	noisePhrases = []string{
		"excellent condition", "good condition", "fair condition", "poor condition",
		"mint condition", "perfect condition", "great condition", "like new",
		"brand new", "barely used", "charger included", "original box",
		"with box", "no box", "boxed", "unboxed",
		"new", "used", "refurbished", "unlocked", "locked", "working",
		"accessories", "apple", "genuine", "original", "official",
	}

	colorWords = []string{
		"black", "white", "red", "blue", "green", "yellow", "purple", "pink",
		"silver", "gold", "rose", "space", "gray", "grey",
	}

	noiseRegexps = compileWordList(noisePhrases)
	colorRegexps = compileWordList(colorWords)
)

func compileWordList(words []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		out = append(out, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return out
}

// Normalizer derives a canonical grouping key from a listing title so that
// near-identical listings collapse onto the same product.
type Normalizer struct {
	// MinKeyLength drops normalized keys shorter than this many characters
	// unless they came from a recognized family pattern. Very short keys
	// tend to merge unrelated products.
	MinKeyLength int
}

// NewNormalizer returns a Normalizer with the default key-length guard.
func NewNormalizer() *Normalizer {
	return &Normalizer{MinKeyLength: 3}
}

// Key maps a title to its grouping key. The empty string marks a title
// unusable for grouping. Key is idempotent: applying it to a returned key
// yields the same key.
func (n *Normalizer) Key(title string) string {
	if strings.TrimSpace(title) == "" {
		return ""
	}

	normalized := strings.ToLower(title)

	for _, re := range noiseRegexps {
		normalized = re.ReplaceAllString(normalized, "")
	}

	normalized = punctuation.ReplaceAllString(normalized, " ")
	normalized = collapse(normalized)

	if strings.Contains(normalized, "iphone") {
		if m := familyPattern.FindStringSubmatch(normalized); m != nil {
			key := "iphone " + collapse(m[1])
			if storage := strings.ReplaceAll(m[2], " ", ""); storage != "" {
				key += " " + storage
			}
			return key
		}
	}

	for _, re := range colorRegexps {
		normalized = re.ReplaceAllString(normalized, "")
	}
	normalized = collapse(normalized)

	if len(normalized) < n.MinKeyLength {
		return ""
	}
	return normalized
}

func collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
