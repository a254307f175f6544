package services

import "github.com/dmitrijs2005/pagetalk/internal/server/models"

// isAuthor reports whether userID wrote c. Anonymous callers and comments
// without an author never match.
func isAuthor(c *models.Comment, userID string) bool {
	return userID != "" && c.AuthorID != nil && *c.AuthorID == userID
}

// commentPermissions computes what userID may do with c on page.
func commentPermissions(c *models.Comment, page *models.PageWithWebsite, userID string) models.CommentPermissions {
	author := isAuthor(c, userID)
	owner := page.OwnedBy(userID)

	return models.CommentPermissions{
		Delete:  author || owner,
		Edit:    author,
		Approve: !c.Published && owner,
	}
}

// pagePermissions: any signed-in user may comment on an open page.
func pagePermissions(page *models.PageWithWebsite, userID string) models.PagePermissions {
	return models.PagePermissions{
		Create: userID != "" && !page.Closed,
	}
}
