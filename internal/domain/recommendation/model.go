package recommendation

import "github.com/yanqian/brew-advisor/internal/domain/weather"

// Accepted ranges for manual signals, in °C and percent.
const (
	MinTemperature = -50.0
	MaxTemperature = 60.0
	MinHumidity    = 0.0
	MaxHumidity    = 100.0
)

// ManualRequest carries user-supplied signals. Pointers distinguish an omitted
// number from zero.
type ManualRequest struct {
	Weather     string   `json:"weather"`
	Mood        string   `json:"mood"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
}

// LocationRequest asks for a recommendation using current conditions at a coordinate.
type LocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Mood      string   `json:"mood"`
}

// PredictionInput is the validated request handed to the predictor.
type PredictionInput struct {
	Weather     weather.Category `json:"weather"`
	Mood        weather.Mood     `json:"mood"`
	Temperature float64          `json:"temperature"`
	Humidity    float64          `json:"humidity"`
}

// Response is serialized back to API consumers.
type Response struct {
	RecommendedBeverage string        `json:"recommended_beverage"`
	Reason              string        `json:"reason"`
	LocationData        *LocationData `json:"location_data,omitempty"`
	WeatherData         *WeatherData  `json:"weather_data,omitempty"`
	InputData           InputData     `json:"input_data"`
	Timestamp           string        `json:"timestamp"`
}

// InputData echoes the signals the prediction was made from. Location-based
// responses carry only mood and time of day here.
type InputData struct {
	Weather     weather.Category `json:"weather,omitempty"`
	Mood        weather.Mood     `json:"mood"`
	Temperature *float64         `json:"temperature,omitempty"`
	Humidity    *float64         `json:"humidity,omitempty"`
	TimeOfDay   string           `json:"timeOfDay"`
}

// LocationData describes where the observation was taken.
type LocationData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Location  string  `json:"location"`
	Country   string  `json:"country"`
}

// WeatherData is the classified observation used for a location-based request.
type WeatherData struct {
	Weather     weather.Category `json:"weather"`
	Temperature float64          `json:"temperature"`
	Humidity    float64          `json:"humidity"`
	Description string           `json:"description"`
}

// Options lists the closed vocabularies for clients building a form.
type Options struct {
	Moods        []weather.Mood     `json:"moods,omitempty"`
	WeatherTypes []weather.Category `json:"weatherTypes,omitempty"`
}
