package domain

import "github.com/google/uuid"

// NewID generates an opaque identifier for an entity row.
// All tables use uuid strings rather than auto-increment ids so rows can be
// created by importers and mirrors without coordination.
func NewID() string {
	return uuid.New().String()
}
