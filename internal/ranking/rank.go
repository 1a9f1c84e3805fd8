package ranking

import (
	"sort"

	"github.com/jonathan/jobswipe/internal/types"
)

// Ranked is a job with its score
type Ranked struct {
	Job   types.Job
	Score Score
}

// Rank scores every job and orders them best first. Ties keep catalog order.
// The returned jobs carry the computed MatchPercentage; the input is not modified.
func Rank(user *types.UserProfile, prefs Preferences, jobs []types.Job) []Ranked {
	out := make([]Ranked, len(jobs))
	for i, j := range jobs {
		s := ScoreJob(user, prefs, j)
		j.MatchPercentage = s.Percentage()
		out[i] = Ranked{Job: j, Score: s}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score.Total > out[b].Score.Total
	})
	return out
}

// Top returns at most limit ranked jobs. A non-positive limit returns all of them.
func Top(ranked []Ranked, limit int) []Ranked {
	if limit <= 0 || limit >= len(ranked) {
		return ranked
	}
	return ranked[:limit]
}
