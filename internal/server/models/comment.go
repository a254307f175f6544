package models

import "time"

// CommentAuthor is the public projection of a User attached to a comment.
type CommentAuthor struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image"`
}

// AuthorFromUser projects u; nil stays nil.
func AuthorFromUser(u *User) *CommentAuthor {
	if u == nil {
		return nil
	}
	return &CommentAuthor{ID: u.ID, Name: u.Name, Image: u.Image}
}

// CommentPermissions are the actions the current caller may take on a comment.
type CommentPermissions struct {
	Delete  bool `json:"delete"`
	Edit    bool `json:"edit"`
	Approve bool `json:"approve"`
}

// Comment is a comment on a page. AuthorID is nil for anonymous comments.
type Comment struct {
	ID          int64              `json:"id"`
	PageID      int64              `json:"pageId"`
	AuthorID    *string            `json:"-"`
	Content     string             `json:"content"`
	CreatedAt   time.Time          `json:"createdAt"`
	Published   bool               `json:"published"`
	Author      *CommentAuthor     `json:"author"`
	Permissions CommentPermissions `json:"permissions"`
}

// PagePermissions are the page-level actions the current caller may take.
type PagePermissions struct {
	Create bool `json:"create"`
}

// PageComments is the comment thread of a page as seen by one caller.
type PageComments struct {
	Comments    []*Comment      `json:"comments"`
	Permissions PagePermissions `json:"permissions"`
}
