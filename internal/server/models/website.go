package models

import "time"

// Website is a site registered by its owner. Domains keep their input order.
type Website struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Domains   []string  `json:"domains"`
	CreatedAt time.Time `json:"createdAt"`
}

// Page belongs to exactly one website. A closed page accepts no new comments.
type Page struct {
	ID        int64     `json:"id"`
	WebsiteID int64     `json:"websiteId"`
	Path      string    `json:"path"`
	Closed    bool      `json:"closed"`
	CreatedAt time.Time `json:"createdAt"`
}

// WebsiteRef is the part of a website needed for permission checks.
type WebsiteRef struct {
	ID      int64
	OwnerID string
}

// PageWithWebsite is a page joined with its owning website. Website is nil
// when the join found no row.
type PageWithWebsite struct {
	ID      int64
	Closed  bool
	Website *WebsiteRef
}

// OwnedBy reports whether userID owns the page's website. An empty userID
// never owns anything.
func (p *PageWithWebsite) OwnedBy(userID string) bool {
	return userID != "" && p.Website != nil && p.Website.OwnerID == userID
}
