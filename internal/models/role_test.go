package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoleCounts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want RoleCounts
	}{
		{"empty", "", RoleCounts{}},
		{"full", "TOP:1,JUG:2,MID:3,ADC:4,SUP:5", RoleCounts{1, 2, 3, 4, 5}},
		{"partial", "MID:7", RoleCounts{0, 0, 7, 0, 0}},
		{"spaces", " TOP : 2 , SUP:1", RoleCounts{2, 0, 0, 0, 1}},
		{"unknown role skipped", "UNK:9,ADC:1", RoleCounts{0, 0, 0, 1, 0}},
		{"malformed segments skipped", "TOP,JUG:x,:3,MID:2", RoleCounts{0, 0, 2, 0, 0}},
		{"duplicate role summed", "TOP:1,TOP:2", RoleCounts{3, 0, 0, 0, 0}},
		{"garbage", "not a count string", RoleCounts{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRoleCounts(tt.in))
		})
	}
}

func TestRoleCountsString(t *testing.T) {
	c := RoleCounts{1, 0, 2, 0, 3}
	assert.Equal(t, "TOP:1,JUG:0,MID:2,ADC:0,SUP:3", c.String())
	assert.Equal(t, c, ParseRoleCounts(c.String()))
}

func TestCanonicalRole(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "UNK"},
		{"TOP", "TOP"},
		{"JUNGLE", "JUG"},
		{"jug", "JUG"},
		{"MIDDLE", "MID"},
		{"BOTTOM", "ADC"},
		{"ADC", "ADC"},
		{"UTILITY", "SUP"},
		{"support", "SUP"},
		{"COACH", "COA"},
		{"X", "X"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalRole(tt.in))
		})
	}
}
