// Package chatkey derives canonical conversation keys.
//
// Direct conversations and care-group streams live in structurally disjoint
// namespaces ("dm:" vs "grp:"), so a crafted pair of user ids can never
// address a group stream and vice versa.
package chatkey

import (
	"strings"

	"github.com/google/uuid"
)

const (
	directPrefix = "dm:"
	groupPrefix  = "grp:"
	separator    = ":"
)

// Direct returns the canonical key of the 1:1 conversation between a and b.
// The two ids are sorted, so Direct(a, b) == Direct(b, a).
func Direct(a, b uuid.UUID) string {
	first, second := a.String(), b.String()
	if first > second {
		first, second = second, first
	}
	return directPrefix + first + separator + second
}

// Group returns the canonical key of a caregiver's group stream. Each
// caregiver owns exactly one group namespace key.
func Group(caregiverID uuid.UUID) string {
	return groupPrefix + caregiverID.String()
}

// IsDirect reports whether key addresses the direct-conversation namespace.
func IsDirect(key string) bool {
	return strings.HasPrefix(key, directPrefix)
}

// IsGroup reports whether key addresses the group namespace.
func IsGroup(key string) bool {
	return strings.HasPrefix(key, groupPrefix)
}
