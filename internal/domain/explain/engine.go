package explain

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

// Tag is the flavor/style class inferred from a beverage name.
type Tag string

const (
	TagGeneric   Tag = "generic"
	TagCold      Tag = "cold"
	TagHot       Tag = "hot"
	TagCaffeine  Tag = "caffeine"
	TagChocolate Tag = "chocolate"
	TagJuice     Tag = "juice"
	TagSmoothie  Tag = "smoothie"
	TagHerbal    Tag = "herbal"
	TagMatcha    Tag = "matcha"
	TagTea       Tag = "tea"
	TagEnergy    Tag = "energy"
)

// Engine composes recommendation rationales. Safe for concurrent use.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New builds an engine drawing its random choices from src. A nil src seeds
// from the clock.
func New(src rand.Source) *Engine {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>32|1)
	}
	return &Engine{rng: rand.New(src)}
}

// Explain returns a multi-sentence rationale for recommending beverage. The
// opening sentence quotes beverage exactly as given; keyword matching uses the
// trimmed form.
func (e *Engine) Explain(beverage, weather, mood string, temperature float64, timeOfDay string) string {
	name := strings.TrimSpace(beverage)
	label := beverage
	if name == "" {
		name = "this beverage"
		label = name
	}
	lower := strings.ToLower(name)

	weatherReason, ok := weatherReasons[weather]
	if !ok {
		weatherReason = "the current weather"
	}
	timeReason, ok := timeReasons[timeOfDay]
	if !ok {
		timeReason = "this time of day"
	}

	sentences := []string{
		fmt.Sprintf("Based on %s and %s, %s is a great match %s.", weatherReason, timeReason, label, MoodPhrase(mood, Classify(name))),
		TemperatureNote(temperature),
		e.pick(sensoryOpeners) + " " + sensoryNotes(lower),
		e.pick(servingSuggestions(name, lower)),
		e.pick(healthNotes),
		moodPairings[mood],
		e.pick(closingTips),
	}

	parts := sentences[:0]
	for _, s := range sentences {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Classify infers the tag for beverage by case-insensitive keyword matching.
// Temperature style is resolved first; a flavor keyword, when present, overrides it.
func Classify(beverage string) Tag {
	name := strings.ToLower(beverage)
	tag := TagGeneric

	switch {
	case containsAny(name, "iced", "cold", "smoothie", "juice", "lemonade", "water"):
		tag = TagCold
	case containsAny(name, "hot", "warm"):
		tag = TagHot
	}

	switch {
	case containsAny(name, "coffee", "espresso", "cappuccino", "latte", "americano", "brew"):
		tag = TagCaffeine
	case containsAny(name, "chocolate", "mocha"):
		tag = TagChocolate
	case strings.Contains(name, "juice"):
		tag = TagJuice
	case strings.Contains(name, "smoothie"):
		tag = TagSmoothie
	case strings.Contains(name, "tea"):
		switch {
		case containsAny(name, "chamomile", "herbal", "lavender"):
			tag = TagHerbal
		case strings.Contains(name, "matcha"):
			tag = TagMatcha
		default:
			tag = TagTea
		}
	case strings.Contains(name, "energy"):
		tag = TagEnergy
	}
	return tag
}

// MoodPhrase finds the phrase explaining why a tag suits mood, falling back to
// the mood's generic phrase and then to a universal one.
func MoodPhrase(mood string, tag Tag) string {
	phrases, ok := moodPhrases[mood]
	if !ok {
		return fallbackMoodPhrase
	}
	if phrase, ok := phrases[tag]; ok {
		return phrase
	}
	return phrases[TagGeneric]
}

// TemperatureNote comments on the temperature band, or returns "" between 20 and 25°C.
func TemperatureNote(temperature float64) string {
	switch {
	case temperature > 35:
		return "The extreme heat makes a cooling beverage essential, so something crisp and hydrating will help you stay comfortable."
	case temperature > 25:
		return "The warm temperature makes this refreshing choice ideal, expect bright, citrusy or iced notes."
	case temperature < 10:
		return "The cold weather calls for something warming and comforting: think cozy, spiced and mellow flavors."
	case temperature < 20:
		return "The cool temperature makes this a perfect fit, a gentle warm or rich option works nicely."
	default:
		return ""
	}
}

func sensoryNotes(lower string) string {
	switch {
	case strings.Contains(lower, "coffee"):
		return "roasted, chocolaty, and nutty notes."
	case strings.Contains(lower, "tea"):
		return "delicate herbal and floral tones."
	case containsAny(lower, "juice", "smoothie"):
		return "fresh, fruity brightness and natural sweetness."
	default:
		return "a delightful flavor balance."
	}
}

func servingSuggestions(name, lower string) []string {
	serve := "warm and enjoy slowly"
	if containsAny(lower, "iced", "cold") {
		serve = "over ice for maximum refreshment"
	}
	return []string{
		fmt.Sprintf("Serve %s %s.", name, serve),
		"Try pairing it with a light snack like fresh fruit, a buttery biscuit, or a small savory bite.",
		"If you like twists, add a squeeze of lemon, a dash of cinnamon, or a mint sprig to elevate the flavor.",
	}
}

func (e *Engine) pick(options []string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return options[e.rng.IntN(len(options))]
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
