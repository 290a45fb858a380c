package action

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultOpenWeatherBaseURL = "https://api.openweathermap.org"

// WeatherProvider answers fetch_weather via the OpenWeather current
// weather API, metric units.
type WeatherProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// WeatherOption customizes a WeatherProvider.
type WeatherOption func(*WeatherProvider)

// WithWeatherBaseURL overrides the API base URL (used by tests).
func WithWeatherBaseURL(base string) WeatherOption {
	return func(p *WeatherProvider) { p.baseURL = strings.TrimSuffix(base, "/") }
}

// NewWeatherProvider creates the fetch_weather capability.
func NewWeatherProvider(apiKey string, opts ...WeatherOption) *WeatherProvider {
	p := &WeatherProvider{
		apiKey:  apiKey,
		baseURL: defaultOpenWeatherBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *WeatherProvider) Name() string { return "fetch_weather" }

func (p *WeatherProvider) Validate(params map[string]any) error {
	if stringParam(params, "location", "q") == "" {
		return missingParam("fetch_weather", "'location' or 'q'")
	}
	return nil
}

func (p *WeatherProvider) Invoke(ctx context.Context, params map[string]any) (any, error) {
	if p.apiKey == "" {
		return nil, errors.New("weather service not configured: set the OpenWeather API key")
	}
	query := stringParam(params, "location", "q")

	endpoint := fmt.Sprintf("%s/data/2.5/weather?q=%s&units=metric&appid=%s",
		p.baseURL, url.QueryEscape(query), url.QueryEscape(p.apiKey))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("location not found: %s", query)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenWeather API returned %d", resp.StatusCode)
	}

	var data struct {
		Name string `json:"name"`
		Sys  struct {
			Country string `json:"country"`
			Sunrise int64  `json:"sunrise"`
			Sunset  int64  `json:"sunset"`
		} `json:"sys"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
			Pressure  int     `json:"pressure"`
		} `json:"main"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   int     `json:"deg"`
		} `json:"wind"`
		Clouds struct {
			All int `json:"all"`
		} `json:"clouds"`
		Visibility int `json:"visibility"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("parsing weather data: %w", err)
	}
	if len(data.Weather) == 0 {
		return nil, errors.New("malformed weather response")
	}

	return map[string]any{
		"location":       data.Name,
		"country":        data.Sys.Country,
		"temperature":    int(math.Round(data.Main.Temp)),
		"feels_like":     int(math.Round(data.Main.FeelsLike)),
		"humidity":       data.Main.Humidity,
		"pressure":       data.Main.Pressure,
		"description":    data.Weather[0].Description,
		"main":           data.Weather[0].Main,
		"icon":           data.Weather[0].Icon,
		"wind_speed":     data.Wind.Speed,
		"wind_direction": data.Wind.Deg,
		"visibility":     data.Visibility,
		"clouds":         data.Clouds.All,
		"sunrise":        time.Unix(data.Sys.Sunrise, 0).Format("3:04:05 PM"),
		"sunset":         time.Unix(data.Sys.Sunset, 0).Format("3:04:05 PM"),
	}, nil
}

func (p *WeatherProvider) Format(result any) (string, bool) {
	m, ok := result.(map[string]any)
	if !ok {
		return "", false
	}
	location, _ := m["location"].(string)
	desc, _ := m["description"].(string)
	if location == "" || desc == "" {
		return "", false
	}
	return fmt.Sprintf("Weather in %s: %s, %s°C (feels like %s°C)",
		location, desc, formatCount(m["temperature"]), formatCount(m["feels_like"])), true
}
