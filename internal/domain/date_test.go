package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", d.String())
	assert.Equal(t, time.Saturday, d.Weekday())

	_, err = ParseDate("06/01/2024")
	assert.True(t, errors.Is(err, ErrInvalidFormat))
}

func TestDateJSON(t *testing.T) {
	t.Parallel()

	var payload struct {
		Deadline *Date `json:"deadline"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"deadline":"2024-07-15"}`), &payload))
	require.NotNil(t, payload.Deadline)
	assert.Equal(t, "2024-07-15", payload.Deadline.String())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"deadline":"2024-07-15"}`, string(out))

	payload.Deadline = nil
	require.NoError(t, json.Unmarshal([]byte(`{"deadline":null}`), &payload))
	assert.Nil(t, payload.Deadline)

	assert.Error(t, json.Unmarshal([]byte(`{"deadline":"tomorrow"}`), &payload))
}

func TestDateScan(t *testing.T) {
	t.Parallel()

	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-06-01", d.String())

	require.NoError(t, d.Scan("2024-12-31 00:00:00+00:00"))
	assert.Equal(t, "2024-12-31", d.String())

	require.NoError(t, d.Scan([]byte("2025-01-02")))
	assert.Equal(t, "2025-01-02", d.String())

	assert.Error(t, d.Scan(42))

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-01-02", v)
}
