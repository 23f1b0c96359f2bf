package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, StateSilent},
		{0.0001, StateLow},
		{0.099, StateLow},
		{0.1, StateNormal},
		{0.2, StateNormal},
		{0.29, StateNormal},
		{0.3, StateHigh},
		{1, StateHigh},
		{-0.5, StateNormal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.in), "Classify(%v)", tt.in)
	}
}
