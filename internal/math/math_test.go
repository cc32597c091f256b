package math

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {

	type test struct {
		input  float64
		output string
	}

	tests := map[string]test{
		"0": {
			input:  0,
			output: "0.00",
		},
		"-1": {
			input:  -1,
			output: "-1.00",
		},
		"+1": {
			input:  1,
			output: "1.00",
		},
		"5": {
			input:  1.5555,
			output: "1.56",
		},
		"4": {
			input:  1.4444,
			output: "1.44",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := Format(tt.input)
			assert.Equal(t, tt.output, s)
		})
	}

}

func TestClamp(t *testing.T) {

	type test struct {
		input  float64
		output float64
	}

	tests := map[string]test{
		"below": {
			input:  0.1,
			output: 0.5,
		},
		"inside": {
			input:  0.7,
			output: 0.7,
		},
		"above": {
			input:  1.2,
			output: 0.99,
		},
		"edge": {
			input:  0.5,
			output: 0.5,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.output, Clamp(tt.input, 0.5, 0.99))
		})
	}
}

func TestSaturate(t *testing.T) {

	type test struct {
		distance float64
		output   float64
	}

	tests := map[string]test{
		"zero": {
			distance: 0,
			output:   0.5,
		},
		"positive": {
			distance: 0.002,
			output:   0.6,
		},
		"negative": {
			distance: -0.002,
			output:   0.6,
		},
		"capped": {
			distance: 1,
			output:   0.99,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, tt.output, Saturate(tt.distance, 0.5, 50, 0.99), 1e-9)
		})
	}
}

func TestSaturate_Monotonic(t *testing.T) {
	last := 0.0
	for i := 0; i < 100; i++ {
		v := Saturate(float64(i)*0.0005, 0.5, 50, 0.99)
		assert.GreaterOrEqual(t, v, last)
		last = v
	}
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite(1.0))
	assert.True(t, Finite(0))
	assert.False(t, Finite(math.NaN()))
	assert.False(t, Finite(math.Inf(1)))
	assert.False(t, Finite(math.Inf(-1)))
}
