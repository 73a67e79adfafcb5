package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User domain object defining a user
// swagger:model
type User struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Email       string    `gorm:"index;unique" json:"email"`
	DisplayName string    `json:"displayName"`
	Password    string    `json:"-"`
	EmailToken  uuid.UUID `gorm:"type:uuid" json:"-"`
	Validated   bool      `json:"validated"`
}

type userCtxKey int

var userKey userCtxKey

// NewContextWithUser returns a new [context.Context] that carries user. The authentication
// middleware sets it so logs and code downstream of a request can find the caller.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext returns the user stored in ctx, if any.
func GetUserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userKey).(*User)
	return user, ok
}
