// Package identity defines the owner key a cart is bound to and resolves it
// from an inbound request.
package identity

import (
	"errors"
	"fmt"
)

var ErrInvalidOwner = errors.New("owner key must carry exactly one of user id or session key")

// OwnerKey identifies a cart owner: an authenticated user or an anonymous
// session, never both.
type OwnerKey struct {
	UserID     uint
	SessionKey string
}

func User(id uint) OwnerKey {
	return OwnerKey{UserID: id}
}

func Session(key string) OwnerKey {
	return OwnerKey{SessionKey: key}
}

func (k OwnerKey) IsUser() bool {
	return k.UserID != 0
}

func (k OwnerKey) Validate() error {
	if (k.UserID != 0) == (k.SessionKey != "") {
		return ErrInvalidOwner
	}
	return nil
}

// Args returns the (user_id, session_key) pair for SQL, with nil for the unset side.
func (k OwnerKey) Args() (any, any) {
	if k.IsUser() {
		return k.UserID, nil
	}
	return nil, k.SessionKey
}

func (k OwnerKey) String() string {
	if k.IsUser() {
		return fmt.Sprintf("user:%d", k.UserID)
	}
	return "session:" + k.SessionKey
}
