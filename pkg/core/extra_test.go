package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalWithExtra(t *testing.T) {
	type sample struct {
		Symbol string                     `json:"symbol"`
		Status string                     `json:"status"`
		Extra  map[string]json.RawMessage `json:"-"`
	}

	data := []byte(`{"symbol":"BTCUSDT","status":"TRADING","permissions":["SPOT"],"ocoAllowed":true}`)

	var s sample
	err := UnmarshalWithExtra(data, &s, &s.Extra)

	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", s.Symbol)
	assert.Equal(t, "TRADING", s.Status)
	require.Len(t, s.Extra, 2)
	assert.JSONEq(t, `["SPOT"]`, string(s.Extra["permissions"]))
	assert.JSONEq(t, `true`, string(s.Extra["ocoAllowed"]))
}

func TestUnmarshalWithExtra_AllFieldsMapped(t *testing.T) {
	type sample struct {
		Symbol string                     `json:"symbol"`
		Extra  map[string]json.RawMessage `json:"-"`
	}

	var s sample
	err := UnmarshalWithExtra([]byte(`{"symbol":"ETHUSDT"}`), &s, &s.Extra)

	require.NoError(t, err)
	assert.Nil(t, s.Extra)
}

func TestUnmarshalWithExtra_TagOptions(t *testing.T) {
	type sample struct {
		Name   string                     `json:"name,omitempty"`
		Hidden string                     `json:"-"`
		Plain  string
		Extra  map[string]json.RawMessage `json:"-"`
	}

	var s sample
	err := UnmarshalWithExtra([]byte(`{"name":"x","Plain":"y","other":1}`), &s, &s.Extra)

	require.NoError(t, err)
	assert.Equal(t, "x", s.Name)
	assert.Equal(t, "y", s.Plain)
	require.Len(t, s.Extra, 1)
	assert.Contains(t, s.Extra, "other")
}
