package services

import (
	"math"
	"sort"
	"time"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/models"
)

// RankParams holds the scoring constants.
type RankParams struct {
	RecencyWindow  time.Duration
	RecencyBoost   float64
	HighEngagement float64
	MinTimeDecay   float64
}

// DefaultRankParams returns the homepage scoring constants.
func DefaultRankParams() RankParams {
	return RankParamsFrom(config.DefaultBuildConfig())
}

// RankParamsFrom reads the scoring constants from the tunables.
func RankParamsFrom(c *config.BuildConfig) RankParams {
	return RankParams{
		RecencyWindow:  c.RecencyWindow,
		RecencyBoost:   c.RecencyBoost,
		HighEngagement: c.HighEngagement,
		MinTimeDecay:   c.MinTimeDecay,
	}
}

// ScorePost computes the score of one post at now.
func ScorePost(p models.Post, now time.Time, params RankParams) models.Score {
	days := math.Max(1, now.Sub(p.PublishedAt).Hours()/24)
	engagement := float64(p.Engagement.Reactions) +
		2*float64(p.Engagement.Comments) +
		0.1*float64(p.Engagement.Views)

	recent := p.IsRecent(now, params.RecencyWindow)
	boost := 0.0
	if recent {
		boost = params.RecencyBoost
	}
	decay := math.Max(params.MinTimeDecay, 1/math.Sqrt(days))

	tier := models.TierOther
	switch {
	case engagement > params.HighEngagement:
		tier = models.TierHighEngagement
	case recent:
		tier = models.TierRecentLowEngagement
	}

	return models.Score{
		Engagement:   engagement,
		TimeDecay:    decay,
		RecencyBoost: boost,
		Smart:        engagement*decay + boost,
		Tier:         tier,
	}
}

// Rank scores posts and orders them by round-robin over the three tiers:
// high engagement, recent low engagement, other. Each tier is sorted by
// smart score descending, ties keeping input order. The input is not
// modified; every returned post carries its Score.
func Rank(posts []models.Post, now time.Time, params RankParams) []models.Post {
	tiers := map[models.Tier][]models.Post{}
	for _, p := range posts {
		score := ScorePost(p, now, params)
		p.Score = &score
		tiers[score.Tier] = append(tiers[score.Tier], p)
	}

	order := []models.Tier{models.TierHighEngagement, models.TierRecentLowEngagement, models.TierOther}
	longest := 0
	for _, t := range order {
		bucket := tiers[t]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Score.Smart > bucket[j].Score.Smart
		})
		longest = max(longest, len(bucket))
	}

	out := make([]models.Post, 0, len(posts))
	for i := 0; i < longest; i++ {
		for _, t := range order {
			if i < len(tiers[t]) {
				out = append(out, tiers[t][i])
			}
		}
	}
	return out
}
