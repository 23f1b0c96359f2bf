package models

import (
	"strconv"
	"strings"
)

// Role is one of the five fixed team positions.
type Role int

const (
	RoleTop Role = iota
	RoleJungle
	RoleMid
	RoleADC
	RoleSupport
)

// RoleCount is the fixed cardinality of the role set.
const RoleCount = 5

// Roles lists every role in display order.
var Roles = [RoleCount]Role{RoleTop, RoleJungle, RoleMid, RoleADC, RoleSupport}

var roleTags = [RoleCount]string{"TOP", "JUG", "MID", "ADC", "SUP"}

// String returns the short role tag.
func (r Role) String() string {
	if r < 0 || int(r) >= RoleCount {
		return "UNK"
	}
	return roleTags[r]
}

// RoleFromTag resolves an exact role tag such as "MID".
func RoleFromTag(tag string) (Role, bool) {
	for i, t := range roleTags {
		if t == tag {
			return Role(i), true
		}
	}
	return 0, false
}

// RoleCounts holds one tally per role, indexed by Role.
type RoleCounts [RoleCount]int

// ParseRoleCounts decodes "ROLE:count,ROLE:count" into per-role tallies.
// Every role defaults to zero. Segments that are malformed or name an
// unknown role are skipped; a role listed twice is summed.
func ParseRoleCounts(s string) RoleCounts {
	var counts RoleCounts
	if s == "" {
		return counts
	}
	for _, part := range strings.Split(s, ",") {
		tag, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		role, ok := RoleFromTag(strings.ToUpper(strings.TrimSpace(tag)))
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			continue
		}
		counts[role] += n
	}
	return counts
}

// String encodes the tallies back into "TOP:n,JUG:n,..." form.
func (c RoleCounts) String() string {
	var b strings.Builder
	for i, n := range c {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(roleTags[i])
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// CanonicalRole standardizes a raw position string for display.
// Known spellings collapse to the five role tags; anything else is
// truncated to its first three letters and an empty input yields "UNK".
func CanonicalRole(position string) string {
	if position == "" {
		return "UNK"
	}
	p := strings.ToUpper(strings.TrimSpace(position))
	switch {
	case strings.Contains(p, "TOP"):
		return "TOP"
	case strings.Contains(p, "JUNGLE"), strings.Contains(p, "JUG"):
		return "JUG"
	case strings.Contains(p, "MID"):
		return "MID"
	case strings.Contains(p, "AD"), strings.Contains(p, "BOT"):
		return "ADC"
	case strings.Contains(p, "SUP"), strings.Contains(p, "UTILITY"):
		return "SUP"
	}
	if r := []rune(p); len(r) > 3 {
		return string(r[:3])
	}
	return p
}
