package models

import "time"

// User is a registered account. PasswordHash is persisted in the credential
// store but must never leave the server; API responses use PublicUser.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicUser is the client-visible projection of a User.
type PublicUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// Public strips the credential fields from a User.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}
