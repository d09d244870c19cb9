package models

import "time"

type User struct {
	ID             int64     `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	FullName       string    `db:"full_name" json:"full_name"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	IsAdmin        bool      `db:"is_admin" json:"is_admin"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Actor is the identity a request or job acts as.
type Actor struct {
	UserID  int64
	IsAdmin bool
}

// SystemActor is used by the schedule trigger, which acts on behalf of every owner.
var SystemActor = Actor{IsAdmin: true}

// CanAccess reports whether the actor owns ownerID's entities or administrates them.
func (a Actor) CanAccess(ownerID int64) bool {
	return a.IsAdmin || (a.UserID != 0 && a.UserID == ownerID)
}
