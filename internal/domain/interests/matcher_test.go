package interests

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/loci-trip-planner/internal/domain/planner"
)

func TestMatcherNormalize(t *testing.T) {
	m := NewMatcher()

	tests := []struct {
		name string
		raw  []string
		want []string
	}{
		{"canonical tags pass through", []string{"nature", "water_sports"}, []string{"nature", "water_sports"}},
		{"case and spacing", []string{"  Hiking "}, []string{"hiking"}},
		{"free text", []string{"I love beaches and hiking"}, []string{"beaches", "hiking"}},
		{"phrases", []string{"island hopping, street food"}, []string{"beaches", "local_cuisine"}},
		{"underscored phrase", []string{"local_cuisine"}, []string{"local_cuisine"}},
		{"deduplicated in first-seen order", []string{"Diving", "snorkeling", "museums", "diving"}, []string{"water_sports", "cultural"}},
		{"whole words only", []string{"artisan"}, []string{}},
		{"unknown dropped", []string{"karaoke", ""}, []string{}},
		{"nil", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Normalize(tt.raw))
		})
	}
}

func TestKeywordsTargetScoredInterests(t *testing.T) {
	for keyword, tag := range keywordToInterest {
		_, ok := planner.InterestCategories[tag]
		assert.True(t, ok, "keyword %q maps to unknown interest %q", keyword, tag)
	}
}

func TestMatcherSupported(t *testing.T) {
	got := NewMatcher().Supported()

	want := make([]string, 0, len(planner.InterestCategories))
	for tag := range planner.InterestCategories {
		want = append(want, tag)
	}
	sort.Strings(want)

	assert.Equal(t, want, got)
	assert.True(t, sort.StringsAreSorted(got))
}
