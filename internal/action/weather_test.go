package action

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const londonWeatherJSON = `{
	"name": "London",
	"sys": {"country": "GB", "sunrise": 1700000000, "sunset": 1700040000},
	"main": {"temp": 12.4, "feels_like": 9.6, "humidity": 81, "pressure": 1012},
	"weather": [{"main": "Rain", "description": "light rain", "icon": "10d"}],
	"wind": {"speed": 4.1, "deg": 230},
	"clouds": {"all": 90},
	"visibility": 10000
}`

func TestWeatherFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "London", q.Get("q"))
		assert.Equal(t, "metric", q.Get("units"))
		assert.Equal(t, "key123", q.Get("appid"))
		w.Write([]byte(londonWeatherJSON))
	}))
	defer srv.Close()

	p := NewWeatherProvider("key123", WithWeatherBaseURL(srv.URL))
	result, err := p.Invoke(context.Background(), map[string]any{"location": "London"})
	require.NoError(t, err)

	m, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "London", m["location"])
	assert.Equal(t, "GB", m["country"])
	assert.Equal(t, 12, m["temperature"], "temperatures are rounded to whole degrees")
	assert.Equal(t, 10, m["feels_like"])
	assert.Equal(t, 81, m["humidity"])
	assert.Equal(t, "light rain", m["description"])
	assert.Equal(t, 4.1, m["wind_speed"])
}

func TestWeatherAcceptsQAlias(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Paris", r.URL.Query().Get("q"))
		w.Write([]byte(londonWeatherJSON))
	}))
	defer srv.Close()

	p := NewWeatherProvider("key123", WithWeatherBaseURL(srv.URL))
	_, err := p.Invoke(context.Background(), map[string]any{"q": "Paris"})
	require.NoError(t, err)
}

func TestWeatherLocationNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewWeatherProvider("key123", WithWeatherBaseURL(srv.URL))
	_, err := p.Invoke(context.Background(), map[string]any{"location": "Atlantis"})
	require.Error(t, err)
	assert.Equal(t, "location not found: Atlantis", err.Error())
}

func TestWeatherRequiresAPIKey(t *testing.T) {
	p := NewWeatherProvider("")

	_, err := p.Invoke(context.Background(), map[string]any{"location": "London"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestWeatherValidate(t *testing.T) {
	p := NewWeatherProvider("key")

	assert.NoError(t, p.Validate(map[string]any{"location": "London"}))
	assert.NoError(t, p.Validate(map[string]any{"q": "London"}))

	err := p.Validate(map[string]any{})
	assert.True(t, errors.Is(err, ErrMissingParameter))
}

func TestWeatherFormat(t *testing.T) {
	p := NewWeatherProvider("key")

	out, ok := p.Format(map[string]any{
		"location":    "London",
		"description": "light rain",
		"temperature": 12,
		"feels_like":  10,
	})
	require.True(t, ok)
	assert.Equal(t, "Weather in London: light rain, 12°C (feels like 10°C)", out)

	_, ok = p.Format(map[string]any{"location": "London"})
	assert.False(t, ok)
}
