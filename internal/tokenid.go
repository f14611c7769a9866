package internal

import "github.com/google/uuid"

// NewTokenID returns a fresh random (v4) UUID string used as a refresh-token jti.
func NewTokenID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
