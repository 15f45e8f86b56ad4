package model

import "time"

// CreateUserResponse is the body returned by POST /v1/users
type CreateUserResponse struct {
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
