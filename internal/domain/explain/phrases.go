package explain

const fallbackMoodPhrase = "to suit your current mood"

var moodPhrases = map[string]map[Tag]string{
	"Happy": {
		TagGeneric:  "which complements your cheerful mood perfectly",
		TagCold:     "to celebrate your happiness with something refreshing",
		TagHot:      "to enhance your joyful spirits",
		TagCaffeine: "to keep your positive energy flowing",
		TagJuice:    "to match your bright and vibrant mood",
		TagTea:      "to maintain your happy and relaxed state",
	},
	"Sad": {
		TagGeneric:   "to comfort you and lift your spirits",
		TagCold:      "to provide a sweet pick-me-up",
		TagHot:       "to warm your heart and bring comfort",
		TagCaffeine:  "to boost your mood and energy",
		TagChocolate: "for its mood-lifting properties",
		TagTea:       "to provide gentle comfort and relaxation",
	},
	"Energetic": {
		TagGeneric:  "to match and sustain your high energy levels",
		TagCold:     "to keep you refreshed while you stay active",
		TagHot:      "to fuel your dynamic energy",
		TagCaffeine: "to amplify your natural vigor",
		TagJuice:    "to provide quick energy to match your pace",
		TagSmoothie: "to power your active lifestyle",
	},
	"Tired": {
		TagGeneric:  "to help you recharge and regain energy",
		TagCold:     "to refresh and revitalize you instantly",
		TagHot:      "to provide gentle, sustained energy",
		TagCaffeine: "to combat fatigue and boost alertness",
		TagJuice:    "to give you a natural energy lift",
		TagTea:      "to gently wake you up and restore focus",
	},
	"Stressed": {
		TagGeneric:  "to help you relax and find calm",
		TagCold:     "to cool down and ease tension",
		TagHot:      "to provide soothing warmth and relaxation",
		TagCaffeine: "with calming properties to reduce stress",
		TagHerbal:   "known for its stress-relieving benefits",
		TagTea:      "to help you unwind and release tension",
	},
	"Relaxed": {
		TagGeneric:  "to maintain your peaceful state of mind",
		TagCold:     "to keep you refreshed while you unwind",
		TagHot:      "to enhance your calm and tranquil mood",
		TagCaffeine: "with a gentle boost without disrupting your peace",
		TagJuice:    "to complement your laid-back vibe",
		TagTea:      "to deepen your sense of relaxation",
	},
	"Focused": {
		TagGeneric:  "to help you maintain sharp concentration",
		TagCold:     "to keep you alert and mentally clear",
		TagHot:      "to enhance cognitive function and focus",
		TagCaffeine: "to boost mental clarity and attention",
		TagTea:      "known for improving focus and concentration",
		TagMatcha:   "for sustained focus without jitters",
	},
	"Excited": {
		TagGeneric:  "to match your enthusiastic energy",
		TagCold:     "to keep your excitement refreshed and alive",
		TagHot:      "to amplify your thrilling mood",
		TagCaffeine: "to elevate your already high spirits",
		TagJuice:    "to add to your vibrant excitement",
		TagEnergy:   "to match your electrifying enthusiasm",
	},
}

var weatherReasons = map[string]string{
	"Hot":    "the scorching heat",
	"Sunny":  "the bright and sunny weather",
	"Cold":   "the chilly weather",
	"Rainy":  "the rainy conditions",
	"Cloudy": "the overcast sky",
	"Snowy":  "the snowy weather",
	"Stormy": "the stormy conditions",
	"Windy":  "the windy weather",
	"Foggy":  "the misty atmosphere",
}

var timeReasons = map[string]string{
	"Morning":   "to start your day right",
	"Afternoon": "to power through the afternoon",
	"Evening":   "to unwind in the evening",
	"Night":     "to wind down for the night",
}

var sensoryOpeners = []string{
	"You might notice pleasant notes of",
	"Expect a balanced profile with",
	"It often comes with",
	"This choice highlights",
}

var healthNotes = []string{
	"A lighter option that helps hydration and subtle energy without overwhelming your senses.",
	"A comforting pick that can help soothe and calm your mood.",
	"A great balance of flavor and refreshment that supports alertness when needed.",
}

var closingTips = []string{
	"Pro tip: try it chilled with a sprig of mint for an instant pick-me-up.",
	"Fun idea: pair this with mellow acoustic music to enhance the relaxed vibe.",
	"Small tip: sip slowly and notice which flavor notes you like most, it helps refine future picks.",
}

var moodPairings = map[string]string{
	"Happy":    "Consider pairing it with a small tropical snack or fruit salad to amplify the cheerful feeling.",
	"Excited":  "Consider pairing it with a small tropical snack or fruit salad to amplify the cheerful feeling.",
	"Stressed": "A light biscuit or herbal cookie pairs nicely and keeps the calm going.",
	"Relaxed":  "A light biscuit or herbal cookie pairs nicely and keeps the calm going.",
	"Focused":  "A small protein-rich snack (nuts or yogurt) can help sustain focus.",
}
