package weather

import "strings"

// Category is the closed weather vocabulary understood by the predictor.
type Category string

const (
	Sunny  Category = "Sunny"
	Cloudy Category = "Cloudy"
	Rainy  Category = "Rainy"
	Stormy Category = "Stormy"
	Snowy  Category = "Snowy"
	Windy  Category = "Windy"
	Foggy  Category = "Foggy"
	Hot    Category = "Hot"
	Cold   Category = "Cold"
)

// Mood is the closed mood vocabulary understood by the predictor.
type Mood string

const (
	Happy     Mood = "Happy"
	Sad       Mood = "Sad"
	Energetic Mood = "Energetic"
	Tired     Mood = "Tired"
	Stressed  Mood = "Stressed"
	Relaxed   Mood = "Relaxed"
	Focused   Mood = "Focused"
	Excited   Mood = "Excited"
)

var (
	allCategories = []Category{Sunny, Cloudy, Rainy, Stormy, Snowy, Windy, Foggy, Hot, Cold}
	allMoods      = []Mood{Happy, Sad, Energetic, Tired, Stressed, Relaxed, Focused, Excited}
)

// Categories lists every weather category in display order.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// Moods lists every mood in display order.
func Moods() []Mood {
	out := make([]Mood, len(allMoods))
	copy(out, allMoods)
	return out
}

// ParseCategory matches user input against the category list ignoring case.
func ParseCategory(raw string) (Category, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, c := range allCategories {
		if strings.EqualFold(string(c), trimmed) {
			return c, true
		}
	}
	return "", false
}

// ParseMood matches user input against the mood list ignoring case.
func ParseMood(raw string) (Mood, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, m := range allMoods {
		if strings.EqualFold(string(m), trimmed) {
			return m, true
		}
	}
	return "", false
}

// Observation is a single reading from the weather source.
type Observation struct {
	Code        int
	Temperature float64
	Humidity    float64
	Location    string
	Country     string
}
