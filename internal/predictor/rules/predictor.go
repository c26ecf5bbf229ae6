package rules

import (
	"errors"
	"math/rand/v2"
	"slices"

	"github.com/yanqian/brew-advisor/internal/domain/feedback"
)

// likedWeight is how many draws a previously liked beverage gets.
const likedWeight = 3

// Request is the JSON document passed as the predictor's sole argument.
type Request struct {
	Weather     string   `json:"weather"`
	Mood        string   `json:"mood"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
}

// Result is printed on stdout after a successful prediction.
type Result struct {
	Prediction      string        `json:"prediction"`
	Success         bool          `json:"success"`
	LearningApplied bool          `json:"learning_applied"`
	FeedbackStats   FeedbackStats `json:"feedback_stats"`
}

// FeedbackStats summarises how recorded feedback shaped the pick.
type FeedbackStats struct {
	TotalFeedbacks       int      `json:"total_feedbacks"`
	LikedForThisCombo    int      `json:"liked_for_this_combo"`
	DislikedForThisCombo int      `json:"disliked_for_this_combo"`
	FilteredOut          []string `json:"filtered_out"`
}

// ErrMissingFields is returned when a request lacks any of its four signals.
var ErrMissingFields = errors.New("missing required fields: weather, mood, temperature, humidity")

// Predictor picks a beverage from the rule table, re-weighted by feedback.
type Predictor struct {
	rng *rand.Rand
}

// New builds a predictor drawing from src.
func New(src rand.Source) *Predictor {
	return &Predictor{rng: rand.New(src)}
}

// Predict chooses a beverage for req given the recorded feedback log.
func (p *Predictor) Predict(req Request, log feedback.Log) (Result, error) {
	if req.Weather == "" || req.Mood == "" || req.Temperature == nil || req.Humidity == nil {
		return Result{}, ErrMissingFields
	}
	prefs := feedback.PreferencesFor(log, req.Weather, req.Mood, *req.Temperature)
	candidates := Weighted(Options(req.Weather, req.Mood, *req.Temperature), prefs)

	return Result{
		Prediction:      candidates[p.rng.IntN(len(candidates))],
		Success:         true,
		LearningApplied: true,
		FeedbackStats: FeedbackStats{
			TotalFeedbacks:       prefs.TotalFeedback,
			LikedForThisCombo:    len(prefs.Liked),
			DislikedForThisCombo: len(prefs.Disliked),
			FilteredOut:          prefs.Disliked,
		},
	}, nil
}

// Weighted drops disliked options, unless that would drop all of them, and
// repeats liked options likedWeight times.
func Weighted(options []string, prefs feedback.Preferences) []string {
	kept := make([]string, 0, len(options))
	for _, opt := range options {
		if !slices.Contains(prefs.Disliked, opt) {
			kept = append(kept, opt)
		}
	}
	if len(kept) == 0 {
		kept = options
	}

	out := make([]string, 0, len(kept)*likedWeight)
	for _, opt := range kept {
		n := 1
		if slices.Contains(prefs.Liked, opt) {
			n = likedWeight
		}
		for i := 0; i < n; i++ {
			out = append(out, opt)
		}
	}
	return out
}
