package forms

import "strings"

// Credentials is the body of the register and login requests.
type Credentials struct {
	Name     string `json:"name" validate:"min=3,max=32"`
	Password string `json:"password" validate:"min=8,maxbytes=72"`
}

// Validate trims the name only; passwords are taken as typed. The password
// limit is in bytes because bcrypt rejects longer input.
func (c *Credentials) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	return check(c)
}
