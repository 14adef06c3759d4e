// Package identity holds the per-client cached membership identity.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

var ErrInvalidIdentity = errors.New("invalid membership identity")

// Identity is a point-in-time snapshot of a registered member. It may go stale
// relative to the stored membership record.
type Identity struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	RegistrationNumber string    `json:"registration_number"`
	RegisteredAt       time.Time `json:"registered_at"`
}

// Validate reports whether all required fields are present.
func (i *Identity) Validate() error {
	if i == nil {
		return ErrInvalidIdentity
	}
	if strings.TrimSpace(i.ID) == "" ||
		strings.TrimSpace(i.Name) == "" ||
		strings.TrimSpace(i.Email) == "" ||
		strings.TrimSpace(i.RegistrationNumber) == "" {
		return ErrInvalidIdentity
	}
	return nil
}

// FirstName is used for the short "Welcome, X!" greeting.
func (i *Identity) FirstName() string {
	fields := strings.Fields(i.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Cache holds at most one identity for a single client.
//
// Read returns (nil, nil) when nothing usable is cached. Entries that fail to
// decode or validate are treated exactly like absent ones.
type Cache interface {
	Read(ctx context.Context) (*Identity, error)
	Write(ctx context.Context, identity *Identity) error
	Delete(ctx context.Context) error
}

// Store hands out the cache belonging to one client.
type Store interface {
	For(clientID string) Cache
}

func encode(identity *Identity) ([]byte, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	if identity.RegisteredAt.IsZero() {
		identity.RegisteredAt = time.Now().UTC()
	}
	return json.Marshal(identity)
}

// decode returns nil for anything that is not a complete identity.
func decode(data []byte) *Identity {
	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return nil
	}
	return &id
}
