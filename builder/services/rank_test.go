package services

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/testutil"
)

const day = 24 * time.Hour

func rankedPost(id string, age time.Duration, reactions, comments, views int) models.Post {
	return models.Post{
		PostID:      id,
		PublishedAt: testutil.Now.Add(-age),
		Engagement:  models.Engagement{Reactions: reactions, Comments: comments, Views: views},
		Tags:        []string{},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScorePost(t *testing.T) {
	params := DefaultRankParams()

	tests := []struct {
		name      string
		post      models.Post
		wantEng   float64
		wantDecay float64
		wantBoost float64
		wantSmart float64
		wantTier  models.Tier
	}{
		{
			name:      "fresh post without engagement",
			post:      rankedPost("a", day, 0, 0, 0),
			wantEng:   0,
			wantDecay: 1,
			wantBoost: 100,
			wantSmart: 100,
			wantTier:  models.TierRecentLowEngagement,
		},
		{
			name:      "old post with engagement",
			post:      rankedPost("b", 30*day, 50, 0, 0),
			wantEng:   50,
			wantDecay: 1 / math.Sqrt(30),
			wantBoost: 0,
			wantSmart: 50 / math.Sqrt(30),
			wantTier:  models.TierHighEngagement,
		},
		{
			name:      "comments count double and views a tenth",
			post:      rankedPost("c", 4*day, 1, 2, 30),
			wantEng:   8,
			wantDecay: 0.5,
			wantBoost: 100,
			wantSmart: 104,
			wantTier:  models.TierRecentLowEngagement,
		},
		{
			name:      "decay is floored",
			post:      rankedPost("d", 400*day, 20, 0, 0),
			wantEng:   20,
			wantDecay: 0.1,
			wantBoost: 0,
			wantSmart: 2,
			wantTier:  models.TierHighEngagement,
		},
		{
			name:      "under one day counts as one day",
			post:      rankedPost("e", time.Hour, 4, 0, 0),
			wantEng:   4,
			wantDecay: 1,
			wantBoost: 100,
			wantSmart: 104,
			wantTier:  models.TierRecentLowEngagement,
		},
		{
			name:      "future dated counts as one day",
			post:      rankedPost("f", -3*day, 0, 0, 0),
			wantEng:   0,
			wantDecay: 1,
			wantBoost: 100,
			wantSmart: 100,
			wantTier:  models.TierRecentLowEngagement,
		},
		{
			name:      "exactly seven days is not recent",
			post:      rankedPost("g", 7*day, 0, 0, 0),
			wantEng:   0,
			wantDecay: 1 / math.Sqrt(7),
			wantBoost: 0,
			wantSmart: 0,
			wantTier:  models.TierOther,
		},
		{
			name:      "engagement of exactly ten is not high",
			post:      rankedPost("h", 16*day, 10, 0, 0),
			wantEng:   10,
			wantDecay: 0.25,
			wantBoost: 0,
			wantSmart: 2.5,
			wantTier:  models.TierOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScorePost(tt.post, testutil.Now, params)
			if !almostEqual(s.Engagement, tt.wantEng) {
				t.Errorf("Engagement = %v, want %v", s.Engagement, tt.wantEng)
			}
			if !almostEqual(s.TimeDecay, tt.wantDecay) {
				t.Errorf("TimeDecay = %v, want %v", s.TimeDecay, tt.wantDecay)
			}
			if s.RecencyBoost != tt.wantBoost {
				t.Errorf("RecencyBoost = %v, want %v", s.RecencyBoost, tt.wantBoost)
			}
			if !almostEqual(s.Smart, tt.wantSmart) {
				t.Errorf("Smart = %v, want %v", s.Smart, tt.wantSmart)
			}
			if s.Tier != tt.wantTier {
				t.Errorf("Tier = %s, want %s", s.Tier, tt.wantTier)
			}
		})
	}
}

// A fresh post with no engagement still ranks after an older, engaged one
// because the high tier leads every round.
func TestRank_RecencyBoostScenario(t *testing.T) {
	a := rankedPost("A", day, 0, 0, 0)
	b := rankedPost("B", 30*day, 50, 0, 0)

	got := Rank([]models.Post{a, b}, testutil.Now, DefaultRankParams())

	if diff := cmp.Diff([]string{"B", "A"}, postIDs(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if !almostEqual(got[1].Score.Smart, 100) {
		t.Errorf("A smart = %v, want 100", got[1].Score.Smart)
	}
	if math.Abs(got[0].Score.Smart-9.13) > 0.01 {
		t.Errorf("B smart = %v, want about 9.13", got[0].Score.Smart)
	}
}

func TestRank_Interleaving(t *testing.T) {
	posts := []models.Post{
		rankedPost("h1", 100*day, 20, 0, 0), // smart 2
		rankedPost("r1", 2*day, 0, 0, 0),    // smart 100
		rankedPost("o1", 30*day, 5, 0, 0),   // smart ~0.91
		rankedPost("h2", 100*day, 40, 0, 0), // smart 4
		rankedPost("o2", 60*day, 0, 0, 0),   // smart 0
		rankedPost("r2", 3*day, 5, 0, 0),    // smart ~102.9
		rankedPost("o3", 10*day, 1, 0, 0),   // smart ~0.32
	}

	got := Rank(posts, testutil.Now, DefaultRankParams())

	want := []string{"h2", "r2", "o1", "h1", "r1", "o3", "o2"}
	if diff := cmp.Diff(want, postIDs(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestRank_FirstElement(t *testing.T) {
	high := rankedPost("high", 200*day, 30, 0, 0)
	recent := rankedPost("recent", day, 0, 0, 0)
	other := rankedPost("other", 50*day, 1, 0, 0)

	tests := []struct {
		name  string
		posts []models.Post
		want  string
	}{
		{"high tier leads", []models.Post{other, recent, high}, "high"},
		{"recent tier without high", []models.Post{other, recent}, "recent"},
		{"other tier alone", []models.Post{other}, "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rank(tt.posts, testutil.Now, DefaultRankParams())
			if got[0].PostID != tt.want {
				t.Errorf("first = %s, want %s", got[0].PostID, tt.want)
			}
		})
	}
}

func TestRank_StableAndDeterministic(t *testing.T) {
	var posts []models.Post
	for _, id := range []string{"t1", "t2", "t3", "t4"} {
		posts = append(posts, rankedPost(id, 20*day, 0, 0, 0))
	}
	posts = append(posts, rankedPost("hi", 20*day, 11, 0, 0))

	first := postIDs(Rank(posts, testutil.Now, DefaultRankParams()))
	for i := 0; i < 5; i++ {
		again := postIDs(Rank(posts, testutil.Now, DefaultRankParams()))
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
	if diff := cmp.Diff([]string{"hi", "t1", "t2", "t3", "t4"}, first); diff != "" {
		t.Errorf("tied posts should keep input order (-want +got):\n%s", diff)
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	posts := []models.Post{rankedPost("a", day, 0, 0, 0), rankedPost("b", 30*day, 50, 0, 0)}
	_ = Rank(posts, testutil.Now, DefaultRankParams())

	if posts[0].PostID != "a" || posts[0].Score != nil {
		t.Error("Rank modified its input")
	}
}

func TestRank_Empty(t *testing.T) {
	got := Rank(nil, testutil.Now, DefaultRankParams())
	if got == nil || len(got) != 0 {
		t.Errorf("Rank(nil) = %#v, want empty slice", got)
	}
}

func TestRankParamsFrom(t *testing.T) {
	tune := testutil.CreateSampleConfig().Tune
	tune.RecencyBoost = 50
	tune.HighEngagement = 0

	params := RankParamsFrom(tune)
	s := ScorePost(rankedPost("x", day, 1, 0, 0), testutil.Now, params)
	if s.RecencyBoost != 50 || s.Tier != models.TierHighEngagement {
		t.Errorf("score = %+v, want custom boost and high tier", s)
	}
}
