package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "calendar date", input: "2025-07-01", expected: "2025-07-01"},
		{name: "surrounding space", input: " 2025-07-01 ", expected: "2025-07-01"},
		{name: "timestamp keeps UTC date", input: "2025-07-01T23:30:00-02:00", expected: "2025-07-02"},
		{name: "garbage", input: "next tuesday", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "impossible day", input: "2025-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d.String())
		})
	}
}

func TestInclusiveDays(t *testing.T) {
	start, _ := ParseDate("2025-07-01")

	assert.Equal(t, 1, InclusiveDays(start, start))
	assert.Equal(t, 7, InclusiveDays(start, start.AddDays(6)))
	assert.Equal(t, 0, InclusiveDays(start, start.AddDays(-1)))

	// month and leap-year boundaries
	feb, _ := ParseDate("2024-02-28")
	mar, _ := ParseDate("2024-03-01")
	assert.Equal(t, 3, InclusiveDays(feb, mar))
	assert.Equal(t, "2024-02-29", feb.AddDays(1).String())
}

func TestDate_JSON(t *testing.T) {
	var payload struct {
		Day Date `json:"day"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"day":"2025-12-31"}`), &payload))
	assert.Equal(t, "2025-12-31", payload.Day.String())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2025-12-31"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"day":"31/12/2025"}`), &payload))
}

func TestDate_Scan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan("2025-07-01"))
	assert.Equal(t, "2025-07-01", d.String())

	require.NoError(t, d.Scan([]byte("2025-07-02T00:00:00Z")))
	assert.Equal(t, "2025-07-02", d.String())

	require.NoError(t, d.Scan(time.Date(2025, 7, 3, 15, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-07-03", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
	assert.Error(t, d.Scan("July"))

	v, err := NewDate(time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)).Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-07-01", v)
}

func TestErrors(t *testing.T) {
	cause := errors.New("connection refused")
	err := PersistenceError("store stop", cause)

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to store stop")

	assert.ErrorIs(t, ErrEmptyCityList, ErrInvalidInput)
	assert.ErrorIs(t, ErrInvalidDateRange, ErrInvalidInput)
	assert.ErrorIs(t, NotFoundf("trip %s", "t1"), ErrNotFound)
	assert.NotErrorIs(t, InputErrorf("bad"), ErrNotFound)
}

func TestParseExpenseCategory(t *testing.T) {
	c, ok := ParseExpenseCategory("transport")
	assert.True(t, ok)
	assert.Equal(t, CategoryTransport, c)

	c, ok = ParseExpenseCategory("souvenirs")
	assert.False(t, ok)
	assert.Equal(t, CategoryOther, c)
}
