package recommendation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/yanqian/brew-advisor/internal/domain/weather"
	apperrors "github.com/yanqian/brew-advisor/pkg/errors"
	"github.com/yanqian/brew-advisor/pkg/util"
)

// Service exposes the beverage recommendation capabilities.
type Service interface {
	Recommend(ctx context.Context, req ManualRequest) (Response, error)
	RecommendByLocation(ctx context.Context, req LocationRequest) (Response, error)
}

// Predictor maps validated signals to a beverage label.
type Predictor interface {
	Predict(ctx context.Context, in PredictionInput) (string, error)
}

// WeatherSource reports current conditions at a coordinate.
type WeatherSource interface {
	Current(ctx context.Context, latitude, longitude float64) (weather.Observation, error)
}

// Explainer writes the human-readable rationale for a prediction.
type Explainer interface {
	Explain(beverage, weather, mood string, temperature float64, timeOfDay string) string
}

// Config wires runtime settings for the recommendation domain.
type Config struct {
	// Timezone decides the time of day reported to the explainer.
	Timezone *time.Location
	// Fallback replaces the observation when the weather source fails.
	Fallback weather.Observation
}

// DefaultFallback is used when no fallback observation is configured.
var DefaultFallback = weather.Observation{
	Code:        0,
	Temperature: 24,
	Humidity:    60,
	Location:    "Jodhpur",
	Country:     "IN",
}

type service struct {
	cfg       Config
	predictor Predictor
	weather   WeatherSource
	explainer Explainer
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires up the recommendation domain.
func NewService(cfg Config, predictor Predictor, source WeatherSource, explainer Explainer, logger *slog.Logger) Service {
	if cfg.Timezone == nil {
		cfg.Timezone = time.Local
	}
	if cfg.Fallback == (weather.Observation{}) {
		cfg.Fallback = DefaultFallback
	}
	return &service{
		cfg:       cfg,
		predictor: predictor,
		weather:   source,
		explainer: explainer,
		logger:    logger.With("component", "recommendation.service"),
		now:       util.NowUTC,
	}
}

func (s *service) Recommend(ctx context.Context, req ManualRequest) (Response, error) {
	in, err := ValidateInput(req)
	if err != nil {
		return Response{}, err
	}
	s.logger.Info("recommendation requested", "weather", in.Weather, "mood", in.Mood, "temperature", in.Temperature, "humidity", in.Humidity)

	now := s.now()
	timeOfDay := weather.TimeOfDay(now.In(s.cfg.Timezone))
	beverage, err := s.predict(ctx, in)
	if err != nil {
		return Response{}, err
	}

	temperature, humidity := in.Temperature, in.Humidity
	return Response{
		RecommendedBeverage: beverage,
		Reason:              s.explainer.Explain(beverage, string(in.Weather), string(in.Mood), in.Temperature, timeOfDay),
		InputData: InputData{
			Weather:     in.Weather,
			Mood:        in.Mood,
			Temperature: &temperature,
			Humidity:    &humidity,
			TimeOfDay:   timeOfDay,
		},
		Timestamp: util.FormatTimestamp(now),
	}, nil
}

func (s *service) RecommendByLocation(ctx context.Context, req LocationRequest) (Response, error) {
	lat, lon, mood, err := validateLocation(req)
	if err != nil {
		return Response{}, err
	}

	obs, description := s.observe(ctx, lat, lon)
	category := weather.Classify(obs.Code, obs.Temperature)
	in := PredictionInput{
		Weather:     category,
		Mood:        mood,
		Temperature: obs.Temperature,
		Humidity:    obs.Humidity,
	}

	now := s.now()
	timeOfDay := weather.TimeOfDay(now.In(s.cfg.Timezone))
	beverage, err := s.predict(ctx, in)
	if err != nil {
		return Response{}, err
	}

	return Response{
		RecommendedBeverage: beverage,
		Reason:              s.explainer.Explain(beverage, string(category), string(mood), obs.Temperature, timeOfDay),
		LocationData: &LocationData{
			Latitude:  lat,
			Longitude: lon,
			Location:  obs.Location,
			Country:   obs.Country,
		},
		WeatherData: &WeatherData{
			Weather:     category,
			Temperature: obs.Temperature,
			Humidity:    obs.Humidity,
			Description: description,
		},
		InputData: InputData{
			Mood:      mood,
			TimeOfDay: timeOfDay,
		},
		Timestamp: util.FormatTimestamp(now),
	}, nil
}

// observe never fails: a broken weather source yields the fallback observation
// with an empty description.
func (s *service) observe(ctx context.Context, lat, lon float64) (weather.Observation, string) {
	if s.weather == nil {
		return s.cfg.Fallback, ""
	}
	obs, err := s.weather.Current(ctx, lat, lon)
	if err != nil {
		s.logger.Warn("weather lookup failed, using fallback observation", "latitude", lat, "longitude", lon, "error", err)
		return s.cfg.Fallback, ""
	}
	if obs.Location == "" {
		obs.Location = s.cfg.Fallback.Location
	}
	if obs.Country == "" {
		obs.Country = s.cfg.Fallback.Country
	}
	s.logger.Info("weather observed", "code", obs.Code, "temperature", obs.Temperature, "humidity", obs.Humidity)
	return obs, weather.Describe(obs.Code)
}

func (s *service) predict(ctx context.Context, in PredictionInput) (string, error) {
	beverage, err := s.predictor.Predict(ctx, in)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodePredictionUnavailable, "prediction is unavailable right now", err)
	}
	return beverage, nil
}

// ValidateInput checks a manual request and normalizes its enums.
func ValidateInput(req ManualRequest) (PredictionInput, error) {
	var problems []string

	category, ok := weather.ParseCategory(req.Weather)
	switch {
	case strings.TrimSpace(req.Weather) == "":
		problems = append(problems, "weather is required")
	case !ok:
		problems = append(problems, fmt.Sprintf("weather %q is not a known weather type", req.Weather))
	}

	mood, moodProblem := parseMood(req.Mood)
	if moodProblem != "" {
		problems = append(problems, moodProblem)
	}

	if p := checkRange("temperature", req.Temperature, MinTemperature, MaxTemperature); p != "" {
		problems = append(problems, p)
	}
	if p := checkRange("humidity", req.Humidity, MinHumidity, MaxHumidity); p != "" {
		problems = append(problems, p)
	}

	if len(problems) > 0 {
		return PredictionInput{}, apperrors.Wrap(apperrors.CodeInvalidInput, strings.Join(problems, "; "), nil)
	}
	return PredictionInput{
		Weather:     category,
		Mood:        mood,
		Temperature: *req.Temperature,
		Humidity:    *req.Humidity,
	}, nil
}

func validateLocation(req LocationRequest) (float64, float64, weather.Mood, error) {
	var problems []string
	if p := checkRange("latitude", req.Latitude, -90, 90); p != "" {
		problems = append(problems, p)
	}
	if p := checkRange("longitude", req.Longitude, -180, 180); p != "" {
		problems = append(problems, p)
	}
	mood, moodProblem := parseMood(req.Mood)
	if moodProblem != "" {
		problems = append(problems, moodProblem)
	}
	if len(problems) > 0 {
		return 0, 0, "", apperrors.Wrap(apperrors.CodeInvalidInput, strings.Join(problems, "; "), nil)
	}
	return *req.Latitude, *req.Longitude, mood, nil
}

func parseMood(raw string) (weather.Mood, string) {
	if strings.TrimSpace(raw) == "" {
		return "", "mood is required"
	}
	mood, ok := weather.ParseMood(raw)
	if !ok {
		return "", fmt.Sprintf("mood %q is not a known mood", raw)
	}
	return mood, ""
}

func checkRange(field string, value *float64, lo, hi float64) string {
	switch {
	case value == nil:
		return field + " is required"
	case math.IsNaN(*value) || *value < lo || *value > hi:
		return fmt.Sprintf("%s must be between %g and %g", field, lo, hi)
	default:
		return ""
	}
}
