package weather

import "time"

const (
	hotOverrideAbove  = 35.0
	coldOverrideBelow = 10.0
	clearSkyHotAbove  = 30.0
)

// WMO weather interpretation codes as reported by Open-Meteo.
var codeCategories = map[int]Category{
	2:  Cloudy,
	3:  Cloudy,
	45: Foggy,
	48: Foggy,
	51: Rainy,
	53: Rainy,
	55: Rainy,
	56: Rainy,
	57: Rainy,
	61: Rainy,
	63: Rainy,
	65: Rainy,
	66: Rainy,
	67: Rainy,
	71: Snowy,
	73: Snowy,
	75: Snowy,
	77: Snowy,
	80: Rainy,
	81: Rainy,
	82: Rainy,
	85: Snowy,
	86: Snowy,
	95: Stormy,
	96: Stormy,
	99: Stormy,
}

var codeDescriptions = map[int]string{
	0:  "clear sky",
	1:  "mainly clear",
	2:  "partly cloudy",
	3:  "overcast",
	45: "foggy",
	48: "foggy with rime",
	51: "light drizzle",
	53: "moderate drizzle",
	55: "dense drizzle",
	61: "slight rain",
	63: "moderate rain",
	65: "heavy rain",
	71: "slight snow",
	73: "moderate snow",
	75: "heavy snow",
	80: "rain showers",
	81: "moderate rain showers",
	82: "violent rain showers",
	95: "thunderstorm",
	96: "thunderstorm with hail",
	99: "severe thunderstorm",
}

// IsClearSky reports whether the code is one of the clear-sky codes.
func IsClearSky(code int) bool {
	return code == 0 || code == 1
}

// Classify maps a weather code and temperature onto a Category.
//
// The table answer is computed first, then the temperature overrides apply:
// a clear sky above 35°C is always Hot, otherwise anything below 10°C is Cold.
// Unknown codes fall back to Sunny.
func Classify(code int, temperatureC float64) Category {
	category := lookup(code, temperatureC)

	switch {
	case temperatureC > hotOverrideAbove && IsClearSky(code):
		return Hot
	case temperatureC < coldOverrideBelow:
		return Cold
	default:
		return category
	}
}

func lookup(code int, temperatureC float64) Category {
	if IsClearSky(code) {
		if temperatureC > clearSkyHotAbove {
			return Hot
		}
		return Sunny
	}
	if category, ok := codeCategories[code]; ok {
		return category
	}
	return Sunny
}

// Describe returns a short human readable description of the code, or "" if unknown.
func Describe(code int) string {
	return codeDescriptions[code]
}

// TimeOfDay buckets the wall clock hour into Morning, Afternoon, Evening or Night.
func TimeOfDay(t time.Time) string {
	hour := t.Hour()
	switch {
	case hour >= 5 && hour < 12:
		return "Morning"
	case hour >= 12 && hour < 17:
		return "Afternoon"
	case hour >= 17 && hour < 21:
		return "Evening"
	default:
		return "Night"
	}
}
