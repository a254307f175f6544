package forms

import "strings"

// AvatarConfirm names the uploaded object whose URL becomes the user's image.
type AvatarConfirm struct {
	Key string `json:"key" validate:"required,max=512"`
}

func (a *AvatarConfirm) Validate() error {
	a.Key = strings.TrimSpace(a.Key)
	return check(a)
}
