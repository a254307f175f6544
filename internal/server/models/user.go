// Package models defines server-side data models persisted in the database
// and the view models returned by the services.
package models

import "time"

// User is an identity principal: comment author and website owner.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Image        *string   `json:"image"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
