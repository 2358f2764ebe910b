package dexie

import (
	"fmt"
	"strings"
)

// OfferStatus identifies the lifecycle state of an offer. The numeric values
// are the wire codes the API expects in status= query parameters.
type OfferStatus int

const (
	StatusActive     OfferStatus = 0
	StatusPending    OfferStatus = 1
	StatusCancelling OfferStatus = 2
	StatusCancelled  OfferStatus = 3
	StatusCompleted  OfferStatus = 4
	StatusUnknown    OfferStatus = 5
	StatusExpired    OfferStatus = 6
)

// statusNames is the single source of truth for the code<->name mapping;
// ParseOfferStatus is its inverse.
var statusNames = map[OfferStatus]string{
	StatusActive:     "active",
	StatusPending:    "pending",
	StatusCancelling: "cancelling",
	StatusCancelled:  "cancelled",
	StatusCompleted:  "completed",
	StatusUnknown:    "unknown",
	StatusExpired:    "expired",
}

func (s OfferStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("OfferStatus(%d)", int(s))
}

// Valid reports whether s is a known enumeration member.
func (s OfferStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseOfferStatus maps a status name (case-insensitive) back to its code.
func ParseOfferStatus(s string) (OfferStatus, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for status, n := range statusNames {
		if n == name {
			return status, nil
		}
	}
	return 0, fmt.Errorf("dexie: unknown offer status %q", s)
}

// dedupeStatuses drops repeated statuses, preserving first-seen order.
func dedupeStatuses(statuses []OfferStatus) []OfferStatus {
	if len(statuses) < 2 {
		return statuses
	}
	seen := make(map[OfferStatus]struct{}, len(statuses))
	out := make([]OfferStatus, 0, len(statuses))
	for _, status := range statuses {
		if _, dup := seen[status]; dup {
			continue
		}
		seen[status] = struct{}{}
		out = append(out, status)
	}
	return out
}
