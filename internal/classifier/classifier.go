// Package classifier scores free product text against a taxonomy of
// categories using lexical keywords and word-stem patterns.
package classifier

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/doorland/catalog-sync/internal/platform/models"
	"github.com/samber/lo"
)

const (
	// minPatternWordLen is the minimum rune length of a word to derive a stem pattern from.
	minPatternWordLen = 4
	// minVariantWordLen is the minimum rune length of a word to derive a morphological variant from.
	minVariantWordLen = 5

	multiWordFactor = 1.5
	fullNameFactor  = 2.0
	patternWeight   = 1.5
)

// defaultMarkers mark the mandatory "all products" category of a brand.
var defaultMarkers = []string{"все двери", "вся продукция", "all doors", "all products"}

// normalizer folds typographic variants to canonical forms before matching.
var normalizer = strings.NewReplacer("ё", "е", "–", "-", "—", "-")

var whitespace = regexp.MustCompile(`\s+`)

// Match is one scored category candidate.
type Match struct {
	CategoryID int
	Weight     float64
	Matches    int
}

// rules is the pre-expanded matching dictionary of one category.
type rules struct {
	fullName string
	keywords []string
	patterns []*regexp.Regexp
}

// Classifier scores text against categories. Expanded category rules are
// cached per category ID for the process lifetime.
type Classifier struct {
	mu       sync.Mutex
	cache    map[int]*rules
	synonyms map[string][]string
}

// Option is custom configuration of Classifier.
type Option func(c *Classifier)

// New returns a new Classifier.
func New(ops ...Option) *Classifier {
	cls := &Classifier{
		cache:    make(map[int]*rules),
		synonyms: defaultSynonyms,
	}

	for _, op := range ops {
		op(cls)
	}

	return cls
}

// WithSynonyms sets a custom synonyms dictionary.
func WithSynonyms(synonyms map[string][]string) Option {
	return func(c *Classifier) {
		c.synonyms = synonyms
	}
}

// IsDefault reports whether category is the mandatory "all products" bucket
// of its brand. Default categories are never matched by scoring, they are
// assigned unconditionally.
func IsDefault(category models.Category) bool {
	name := Normalize(category.Name)
	return lo.SomeBy(defaultMarkers, func(marker string) bool {
		return strings.Contains(name, marker)
	})
}

// Normalize lowercases text, folds typographic variants and collapses whitespace.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = normalizer.Replace(text)
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Classify scores text against all non-default categories and returns
// candidates with at least minMatches matches, ordered by weight descending,
// ties broken by match count and then by category input order.
func (c *Classifier) Classify(text string, categories []models.Category, minMatches int) []Match {
	text = Normalize(text)
	if text == "" {
		return nil
	}

	matches := make([]Match, 0, len(categories))
	for ix := range categories {
		if IsDefault(categories[ix]) {
			continue
		}

		match := c.score(text, c.rulesFor(&categories[ix]), categories[ix].ID)
		if match.Matches >= minMatches && match.Matches > 0 {
			matches = append(matches, match)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Weight != matches[j].Weight {
			return matches[i].Weight > matches[j].Weight
		}
		return matches[i].Matches > matches[j].Matches
	})

	return matches
}

func (c *Classifier) score(text string, rul *rules, categoryID int) Match {
	match := Match{CategoryID: categoryID}

	for _, keyword := range rul.keywords {
		if !strings.Contains(text, keyword) {
			continue
		}

		weight := float64(len(strings.Fields(keyword)))
		if strings.Contains(keyword, " ") {
			weight *= multiWordFactor
		}
		if keyword == rul.fullName {
			weight *= fullNameFactor
		}

		match.Weight += weight
		match.Matches++
	}

	for _, pattern := range rul.patterns {
		occurrences := len(pattern.FindAllStringIndex(text, -1))
		if occurrences == 0 {
			continue
		}

		match.Weight += patternWeight * float64(occurrences)
		match.Matches += occurrences
	}

	return match
}

// rulesFor returns cached expanded rules of category, expanding them once.
func (c *Classifier) rulesFor(category *models.Category) *rules {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.cache[category.ID]; ok {
		return cached
	}

	expanded := c.expand(category)
	c.cache[category.ID] = expanded

	return expanded
}

// expand builds the category matching dictionary: full name, name words,
// slug words, explicit keywords, synonyms and morphological variants, plus
// word-stem regex patterns.
func (c *Classifier) expand(category *models.Category) *rules {
	fullName := Normalize(category.Name)

	words := make([]string, 0, 8)
	words = append(words, fullName)
	words = append(words, strings.Fields(fullName)...)
	words = append(words, strings.Split(Normalize(strings.ReplaceAll(category.Slug, "-", " ")), " ")...)

	if category.Keywords != nil {
		for _, keyword := range strings.Split(*category.Keywords, ",") {
			if keyword = Normalize(keyword); keyword != "" {
				words = append(words, keyword)
			}
		}
	}

	for _, word := range words {
		words = append(words, c.synonyms[word]...)
	}

	for _, word := range words {
		if runes := []rune(word); len(runes) >= minVariantWordLen && !strings.Contains(word, " ") {
			words = append(words, string(runes[:len(runes)-1]))
		}
	}

	keywords := lo.Uniq(lo.Filter(words, func(word string, _ int) bool {
		return len([]rune(word)) >= 2
	}))

	return &rules{
		fullName: fullName,
		keywords: keywords,
		patterns: stemPatterns(keywords),
	}
}

// stemPatterns derives prefix patterns from single words of at least
// minPatternWordLen runes: the stem is the word minus its last two runes.
// RE2 \b is ASCII only, so word boundaries are matched explicitly to keep
// Cyrillic stems working.
func stemPatterns(keywords []string) []*regexp.Regexp {
	stems := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if strings.Contains(keyword, " ") {
			continue
		}
		runes := []rune(keyword)
		if len(runes) < minPatternWordLen {
			continue
		}
		stems = append(stems, string(runes[:len(runes)-2]))
	}

	patterns := make([]*regexp.Regexp, 0, len(stems))
	for _, stem := range lo.Uniq(stems) {
		patterns = append(patterns, regexp.MustCompile(`(?:^|[^\p{L}])`+regexp.QuoteMeta(stem)+`\p{L}*`))
	}

	return patterns
}

// defaultSynonyms are door-domain synonyms applied during rule expansion.
var defaultSynonyms = map[string][]string{
	"входные":       {"уличные", "стальные", "железные"},
	"межкомнатные":  {"интерьерные"},
	"металлические": {"стальные", "железные"},
	"деревянные":    {"из массива"},
	"раздвижные":    {"откатные", "купе"},
	"противопожарные": {"огнестойкие"},
	"entry":         {"exterior", "front"},
	"interior":      {"internal"},
	"sliding":       {"pocket", "barn"},
	"steel":         {"metal"},
}
