package flags

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("switch not found")

// Switch gates one execution operation. Operations without a stored switch
// are enabled.
type Switch struct {
	Operation string    `json:"operation"`
	Enabled   bool      `json:"enabled"`
	Reason    string    `json:"reason,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
