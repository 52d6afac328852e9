package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakdownNonPositive(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Millisecond, -time.Second, -48 * time.Hour} {
		components := Breakdown(d)
		assert.True(t, components.Expired, "duration %v", d)
		assert.Equal(t, Components{Expired: true}, components, "duration %v", d)
	}
}

func TestBreakdownDecomposition(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want Components
	}{
		{
			name: "one of each",
			d:    90061 * time.Second,
			want: Components{Days: 1, Hours: 1, Minutes: 1, Seconds: 1, TotalSeconds: 90061},
		},
		{
			name: "just under a day",
			d:    86399 * time.Second,
			want: Components{Hours: 23, Minutes: 59, Seconds: 59, TotalSeconds: 86399},
		},
		{
			name: "sub-second rounds down but is not expired",
			d:    500 * time.Millisecond,
			want: Components{},
		},
		{
			name: "exact minute",
			d:    time.Minute,
			want: Components{Minutes: 1, TotalSeconds: 60},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Breakdown(tt.d))
		})
	}
}

func TestComponentsDuration(t *testing.T) {
	d := 3*24*time.Hour + 4*time.Hour + 5*time.Minute + 6*time.Second
	assert.Equal(t, d, Breakdown(d).Duration())
}
