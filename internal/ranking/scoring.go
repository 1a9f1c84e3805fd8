// Package ranking scores catalog jobs against a user profile.
package ranking

import (
	"math"
	"strings"

	"github.com/jonathan/jobswipe/internal/parsing"
	"github.com/jonathan/jobswipe/internal/types"
)

// Weights of the content score components
const (
	skillOverlapWeight = 0.6
	jobTypeWeight      = 0.2
	locationWeight     = 0.2
)

// Partial credit when a preference is not met
const (
	jobTypeMismatch  = 0.5
	locationMismatch = 0.7
)

// Preferences are the user's job search filters
type Preferences struct {
	JobTypes []types.JobType
	Remote   bool
}

// PreferencesFor derives preferences from a profile.
// A location mentioning "remote" marks the user as looking for remote work.
func PreferencesFor(user *types.UserProfile) Preferences {
	if user == nil {
		return Preferences{}
	}
	return Preferences{Remote: strings.Contains(strings.ToLower(user.Location), "remote")}
}

// Score is the breakdown of one job's match
type Score struct {
	SkillOverlap  float64
	JobType       float64
	Location      float64
	Total         float64
	MatchedSkills []string
}

// Percentage renders Total as a whole percentage
func (s Score) Percentage() int {
	return int(math.Round(s.Total * 100))
}

// ScoreJob computes how well job fits the user's skills and preferences
func ScoreJob(user *types.UserProfile, prefs Preferences, job types.Job) Score {
	overlap, matched := skillOverlap(user, job)

	jt := jobTypeMismatch
	for _, t := range prefs.JobTypes {
		if t == job.Type {
			jt = 1
			break
		}
	}

	loc := locationMismatch
	if isRemote(job) == prefs.Remote {
		loc = 1
	}

	return Score{
		SkillOverlap:  overlap,
		JobType:       jt,
		Location:      loc,
		Total:         overlap*skillOverlapWeight + jt*jobTypeWeight + loc*locationWeight,
		MatchedSkills: matched,
	}
}

// skillOverlap is the share of the job's skills the user has, in job order
func skillOverlap(user *types.UserProfile, job types.Job) (float64, []string) {
	have := make(map[string]bool)
	if user != nil {
		for _, s := range user.Skills {
			if n := skillKey(s.Name); n != "" {
				have[n] = true
			}
		}
	}

	wanted := make(map[string]bool, len(job.Skills))
	var matched []string
	for _, s := range job.Skills {
		n := skillKey(s)
		if n == "" || wanted[n] {
			continue
		}
		wanted[n] = true
		if have[n] {
			matched = append(matched, parsing.NormalizeSkillName(s))
		}
	}

	return float64(len(matched)) / math.Max(1, float64(len(wanted))), matched
}

func skillKey(name string) string {
	return strings.ToLower(parsing.NormalizeSkillName(name))
}

func isRemote(job types.Job) bool {
	return job.Type == types.JobTypeRemote || strings.Contains(strings.ToLower(job.Location), "remote")
}
