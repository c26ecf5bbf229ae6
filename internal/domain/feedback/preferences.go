package feedback

import "math"

// preferenceWindow is the temperature tolerance, in °C, for matching past feedback.
const preferenceWindow = 5.0

// Preferences lists the beverages users liked and disliked under similar conditions.
type Preferences struct {
	Liked         []string `json:"liked"`
	Disliked      []string `json:"disliked"`
	TotalFeedback int      `json:"total_feedback"`
}

// PreferencesFor collects liked and disliked beverages from records with the same
// weather and mood whose temperature lies within ±5°C of temperature.
// Each beverage appears at most once per list, in order of first occurrence.
func PreferencesFor(log Log, weather, mood string, temperature float64) Preferences {
	prefs := Preferences{
		Liked:         []string{},
		Disliked:      []string{},
		TotalFeedback: len(log),
	}
	seenLiked := make(map[string]struct{})
	seenDisliked := make(map[string]struct{})
	for _, rec := range log {
		if rec.Weather != weather || rec.Mood != mood {
			continue
		}
		if math.Abs(rec.Temperature-temperature) > preferenceWindow {
			continue
		}
		if rec.Liked {
			if _, ok := seenLiked[rec.RecommendedBeverage]; !ok {
				seenLiked[rec.RecommendedBeverage] = struct{}{}
				prefs.Liked = append(prefs.Liked, rec.RecommendedBeverage)
			}
			continue
		}
		if _, ok := seenDisliked[rec.RecommendedBeverage]; !ok {
			seenDisliked[rec.RecommendedBeverage] = struct{}{}
			prefs.Disliked = append(prefs.Disliked, rec.RecommendedBeverage)
		}
	}
	return prefs
}
