package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", in: `"1m30s"`, want: 90 * time.Second},
		{name: "nanoseconds", in: `1000000000`, want: time.Second},
		{name: "null", in: `null`, want: 0},
		{name: "bad string", in: `"soon"`, wantErr: true},
		{name: "bad type", in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 24 * time.Hour})
	require.NoError(t, err)
	assert.Equal(t, `"24h0m0s"`, string(b))
}

func TestFormatISO(t *testing.T) {
	ts := time.Date(2024, 5, 1, 14, 30, 0, 123456789, time.FixedZone("EEST", 3*3600))

	s := FormatISO(ts)
	assert.Equal(t, "2024-05-01T11:30:00.123Z", s)

	back, err := ParseISO(s)
	require.NoError(t, err)
	assert.True(t, back.Equal(ts.Truncate(time.Millisecond)))
}

func TestParseISO_RFC3339(t *testing.T) {
	got, err := ParseISO("2024-05-01T11:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year())

	_, err = ParseISO("yesterday")
	assert.Error(t, err)
}
