package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	f, err := NewRequest("req-1", "chat.send", map[string]any{"message": "hello"})
	require.NoError(t, err)

	assert.Equal(t, FrameTypeRequest, f.Type)
	assert.Equal(t, "req-1", f.ID)
	assert.Equal(t, "chat.send", f.Method)

	var params map[string]any
	require.NoError(t, json.Unmarshal(f.Params, &params))
	assert.Equal(t, "hello", params["message"])
}

func TestNewResponse(t *testing.T) {
	f, err := NewResponse("req-1", map[string]any{"status": "ok"})
	require.NoError(t, err)

	assert.Equal(t, FrameTypeResponse, f.Type)
	assert.Equal(t, "req-1", f.ID)
	require.NotNil(t, f.OK)
	assert.True(t, *f.OK)
	assert.Nil(t, f.Error)
}

func TestNewErrorResponse(t *testing.T) {
	f := NewErrorResponse("req-2", ErrorShape{Code: "not_found", Message: "missing"})

	assert.Equal(t, FrameTypeResponse, f.Type)
	assert.Equal(t, "req-2", f.ID)
	require.NotNil(t, f.OK)
	assert.False(t, *f.OK)
	require.NotNil(t, f.Error)
	assert.Equal(t, "not_found", f.Error.Code)
	assert.Equal(t, "missing", f.Error.Message)
}

func TestNewEvent(t *testing.T) {
	f, err := NewEvent("turn", map[string]any{"text": "hi"}, 7)
	require.NoError(t, err)

	assert.Equal(t, FrameTypeEvent, f.Type)
	assert.Equal(t, "turn", f.Event)
	assert.Equal(t, int64(7), f.Seq)
	assert.Empty(t, f.ID)
}

func TestNewRequestUnmarshalableParams(t *testing.T) {
	_, err := NewRequest("req-1", "x", make(chan int))
	assert.Error(t, err)
}

func TestFrameRoundTrip(t *testing.T) {
	original, err := NewRequest("abc", "health", nil)
	require.NoError(t, err)

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Frame
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, original.Type, decoded.Type)
	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.Method, decoded.Method)
}

func TestFrameJSONFieldNames(t *testing.T) {
	f, err := NewResponse("id-1", map[string]any{"n": 1})
	require.NoError(t, err)

	raw, err := json.Marshal(f)
	require.NoError(t, err)

	var asMap map[string]any
	require.NoError(t, json.Unmarshal(raw, &asMap))
	assert.Contains(t, asMap, "type")
	assert.Contains(t, asMap, "id")
	assert.Contains(t, asMap, "ok")
	assert.Contains(t, asMap, "payload")
	// Unset request/event fields are omitted
	assert.NotContains(t, asMap, "method")
	assert.NotContains(t, asMap, "event")
	assert.NotContains(t, asMap, "error")
}

func TestConnectParamsDecoding(t *testing.T) {
	raw := []byte(`{
		"minProtocol": 1,
		"maxProtocol": 1,
		"client": {"id": "cli", "displayName": "Arise CLI", "version": "1.0.0", "platform": "linux"},
		"auth": {"token": "tok"}
	}`)

	var p ConnectParams
	require.NoError(t, json.Unmarshal(raw, &p))
	assert.Equal(t, 1, p.MinProtocol)
	assert.Equal(t, "cli", p.Client.ID)
	assert.Equal(t, "Arise CLI", p.Client.DisplayName)
	require.NotNil(t, p.Auth)
	assert.Equal(t, "tok", p.Auth.Token)
}
