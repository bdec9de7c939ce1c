// Package interests maps free-text traveler interests onto the canonical interest tags
// understood by the relevance scorer.
package interests

import (
	"sort"
	"strings"

	a "github.com/petar-dambovaliev/aho-corasick"

	"github.com/FACorreiaa/loci-trip-planner/internal/domain/planner"
)

// keywordToInterest maps every recognised keyword or phrase to its canonical tag.
var keywordToInterest = map[string]string{
	// nature
	"nature": "nature", "outdoors": "nature", "scenery": "nature", "landscape": "nature",
	"landscapes": "nature", "mountain": "nature", "mountains": "nature", "waterfall": "nature",
	"waterfalls": "nature", "volcano": "nature", "volcanoes": "nature", "lake": "nature",
	// beaches
	"beach": "beaches", "beaches": "beaches", "island": "beaches", "islands": "beaches",
	"island hopping": "beaches", "sandbar": "beaches", "coast": "beaches",
	// adventure
	"adventure": "adventure", "adventures": "adventure", "thrill": "adventure",
	"zipline": "adventure", "extreme": "adventure", "caving": "adventure",
	// cultural
	"cultural": "cultural", "culture": "cultural", "festival": "cultural", "festivals": "cultural",
	"art": "cultural", "arts": "cultural", "museum": "cultural", "museums": "cultural",
	"church": "cultural", "churches": "cultural",
	// historical
	"historical": "historical", "history": "historical", "heritage": "historical",
	"ruins": "historical", "landmark": "historical", "landmarks": "historical",
	// wildlife
	"wildlife": "wildlife", "animals": "wildlife", "whale shark": "wildlife",
	"whale sharks": "wildlife", "butanding": "wildlife", "birdwatching": "wildlife",
	"birds": "wildlife", "fireflies": "wildlife",
	// photography
	"photography": "photography", "photo": "photography", "photos": "photography",
	"photoshoot": "photography", "sunset": "photography", "sunsets": "photography",
	// relaxation
	"relaxation": "relaxation", "relax": "relaxation", "relaxing": "relaxation",
	"spa": "relaxation", "hot spring": "relaxation", "hot springs": "relaxation",
	// hiking
	"hiking": "hiking", "hike": "hiking", "trekking": "hiking", "trek": "hiking",
	"trail": "hiking", "trails": "hiking", "climbing": "hiking",
	// water sports
	"water sports": "water_sports", "snorkeling": "water_sports", "snorkelling": "water_sports",
	"diving": "water_sports", "surfing": "water_sports", "kayaking": "water_sports",
	"swimming": "water_sports", "paddleboarding": "water_sports",
	// local cuisine
	"local cuisine": "local_cuisine", "cuisine": "local_cuisine", "food": "local_cuisine",
	"foodie": "local_cuisine", "delicacies": "local_cuisine", "restaurants": "local_cuisine",
	"street food": "local_cuisine", "seafood": "local_cuisine",
	// shopping
	"shopping": "shopping", "souvenir": "shopping", "souvenirs": "shopping",
	"market": "shopping", "markets": "shopping", "pasalubong": "shopping",
}

// Matcher normalizes interest phrases. It is safe for concurrent use.
type Matcher struct {
	automaton a.AhoCorasick
	canonical map[string]bool
}

// NewMatcher builds the keyword automaton.
func NewMatcher() *Matcher {
	keywords := make([]string, 0, len(keywordToInterest))
	for k := range keywordToInterest {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)

	builder := a.NewAhoCorasickBuilder(a.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
		MatchKind:            a.LeftMostLongestMatch,
	})

	canonical := make(map[string]bool, len(planner.InterestCategories))
	for tag := range planner.InterestCategories {
		canonical[tag] = true
	}

	return &Matcher{
		automaton: builder.Build(keywords),
		canonical: canonical,
	}
}

// Normalize returns the canonical tags found in raw, deduplicated in first-seen order.
// A phrase that already is a canonical tag passes through unchanged. Phrases with no
// recognised keyword are dropped.
func (m *Matcher) Normalize(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool)
	add := func(tag string) {
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
	}

	for _, phrase := range raw {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase == "" {
			continue
		}
		if m.canonical[phrase] {
			add(phrase)
			continue
		}

		text := strings.ReplaceAll(phrase, "_", " ")
		for _, match := range m.automaton.FindAll(text) {
			if tag, ok := keywordToInterest[text[match.Start():match.End()]]; ok {
				add(tag)
			}
		}
	}
	return out
}

// Supported lists the canonical interest tags in alphabetical order.
func (m *Matcher) Supported() []string {
	tags := make([]string, 0, len(m.canonical))
	for tag := range m.canonical {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
