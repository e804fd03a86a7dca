package domain

// Priority enumerates ticket urgency levels, P1 the most severe.
type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
	PriorityP4 Priority = "P4"
)

// Priorities lists all levels in severity order.
var Priorities = []Priority{PriorityP1, PriorityP2, PriorityP3, PriorityP4}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityP1, PriorityP2, PriorityP3, PriorityP4:
		return true
	}
	return false
}

// PriorityScope restricts which priorities a support type covers.
type PriorityScope string

const (
	PriorityScopeAll    PriorityScope = "ALL"
	PriorityScopeP1Only PriorityScope = "P1_ONLY"
)

// Includes reports whether the scope admits the given priority.
func (s PriorityScope) Includes(p Priority) bool {
	switch s {
	case PriorityScopeP1Only:
		return p == PriorityP1
	default:
		return true
	}
}
