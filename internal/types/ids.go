// internal/types/ids.go
package types

import "github.com/google/uuid"

type AuthSessionID string

func NewAuthSessionID() AuthSessionID {
	return AuthSessionID(uuid.New().String())
}
