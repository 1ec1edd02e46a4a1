package db

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_DecodesNumberAndString(t *testing.T) {
	var rule ScoreRule
	err := json.Unmarshal([]byte(`{"brake": 10, "tailgating": "7.5", "over_speed": " 3 "}`), &rule)
	require.NoError(t, err)

	require.NotNil(t, rule.Brake)
	assert.Equal(t, 10.0, rule.Brake.Float64())
	require.NotNil(t, rule.Tailgating)
	assert.Equal(t, 7.5, rule.Tailgating.Float64())
	require.NotNil(t, rule.OverSpeed)
	assert.Equal(t, 3.0, rule.OverSpeed.Float64())
	assert.Nil(t, rule.SleepAlert)
}

func TestNumber_RejectsGarbage(t *testing.T) {
	cases := []string{`{"brake": "fast"}`, `{"brake": "NaN"}`, `{"brake": true}`}
	for _, c := range cases {
		var rule ScoreRule
		assert.Error(t, json.Unmarshal([]byte(c), &rule), c)
	}
}

func TestNumber_EncodesOmittingUnset(t *testing.T) {
	rule := IncentiveRule{MinimumDistance: NewNumber(120)}

	out, err := json.Marshal(rule)
	require.NoError(t, err)
	assert.JSONEq(t, `{"minimum_distance": 120}`, string(out))
}

func TestIntValue_Coercion(t *testing.T) {
	var body struct {
		Status *IntValue `json:"status"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"status": "1"}`), &body))
	assert.Equal(t, 1, IntOr(body.Status, 9))

	body.Status = nil
	require.NoError(t, json.Unmarshal([]byte(`{"status": 2.9}`), &body))
	assert.Equal(t, 2, IntOr(body.Status, 9))

	body.Status = nil
	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))
	assert.Equal(t, 9, IntOr(body.Status, 9))

	assert.Error(t, json.Unmarshal([]byte(`{"status": "active"}`), &body))
}

func TestIsValidDeviceType(t *testing.T) {
	assert.True(t, IsValidDeviceType("ECU"))
	assert.True(t, IsValidDeviceType("IoT"))
	assert.True(t, IsValidDeviceType("DMS"))
	assert.False(t, IsValidDeviceType("iot"))
	assert.False(t, IsValidDeviceType(""))
}

func TestDecodeForm_EmptyValuesStayUnset(t *testing.T) {
	var body struct {
		Title  *string   `json:"title"`
		Brake  *Number   `json:"brake"`
		Status *IntValue `json:"status"`
		Halt   *HaltRule `json:"halt_rule"`
	}

	err := DecodeForm([]byte(`{"title":"x","brake":"","status":"","halt_rule":{"duration":""}}`), &body)
	require.NoError(t, err)

	require.NotNil(t, body.Title)
	assert.Equal(t, "x", *body.Title)
	assert.Nil(t, body.Brake)
	assert.Nil(t, body.Status)
	require.NotNil(t, body.Halt)
	assert.Nil(t, body.Halt.Duration)
}

func TestDecodeForm_KeepsRealValues(t *testing.T) {
	var body struct {
		Brake  *Number   `json:"brake"`
		Status *IntValue `json:"status"`
	}

	require.NoError(t, DecodeForm([]byte(`{"brake":"4.5","status":0}`), &body))
	require.NotNil(t, body.Brake)
	assert.Equal(t, 4.5, body.Brake.Float64())
	assert.Equal(t, 0, IntOr(body.Status, 1))

	assert.Error(t, DecodeForm([]byte(`{"status":"active"}`), &body))
	assert.Error(t, DecodeForm([]byte(`{"brake":"  "}`), &body))
	assert.Error(t, DecodeForm([]byte(`[1,2]`), &body))
	assert.NoError(t, DecodeForm([]byte(`null`), &body))
}
