package forms

import "strings"

// BaseInfo is the editable part of a website: its display name and the
// domains that may embed its comment threads.
type BaseInfo struct {
	Name string `json:"name" validate:"min=2,max=50"`
	// TODO: validate domain syntax once the accepted host forms are settled.
	Domains []string `json:"domains" validate:"min=1,dive,min=4"`
}

// Normalize trims surrounding whitespace from the name and every domain.
func (b *BaseInfo) Normalize() {
	b.Name = strings.TrimSpace(b.Name)
	for i, d := range b.Domains {
		b.Domains[i] = strings.TrimSpace(d)
	}
}

// Validate trims the form and checks it against its rules.
func (b *BaseInfo) Validate() error {
	b.Normalize()
	return check(b)
}
