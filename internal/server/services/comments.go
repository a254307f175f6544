package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/pagetalk/internal/common"
	"github.com/dmitrijs2005/pagetalk/internal/server/models"
	"github.com/dmitrijs2005/pagetalk/internal/server/repositories/repomanager"
)

// CommentService reads comment threads with per-caller permissions and
// performs the moderation actions those permissions allow.
type CommentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCommentService(db *sql.DB, m repomanager.RepositoryManager) *CommentService {
	return &CommentService{
		db:          db,
		repomanager: m,
	}
}

// FetchPageComments returns the comments of pageID, newest first, each
// annotated with what loggedInUserID may do with it, plus whether the caller
// may post on the page. An empty loggedInUserID means an anonymous caller.
//
// With publishedOnly=false every comment is returned regardless of who is
// asking; callers decide which flag to pass.
func (s *CommentService) FetchPageComments(ctx context.Context, pageID int64, loggedInUserID string, publishedOnly bool) (*models.PageComments, error) {

	page, err := s.repomanager.Pages(s.db).GetWithWebsite(ctx, pageID)
	if err != nil {
		return nil, err
	}

	list, err := s.repomanager.Comments(s.db).ListByPage(ctx, pageID, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}

	for _, c := range list {
		c.Permissions = commentPermissions(c, page, loggedInUserID)
	}

	return &models.PageComments{
		Comments:    list,
		Permissions: pagePermissions(page, loggedInUserID),
	}, nil
}

// FetchUnpublishedUserCommentsByPage returns user's own comments on pageID
// that still await approval. A nil user gets an empty list.
func (s *CommentService) FetchUnpublishedUserCommentsByPage(ctx context.Context, pageID int64, user *models.User) ([]*models.Comment, error) {
	if user == nil {
		return []*models.Comment{}, nil
	}

	list, err := s.repomanager.Comments(s.db).ListUnpublishedByAuthor(ctx, pageID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing unpublished comments: %w", err)
	}

	author := models.AuthorFromUser(user)
	for _, c := range list {
		c.Author = author
		c.Permissions = models.CommentPermissions{Delete: true, Edit: true, Approve: false}
	}

	return list, nil
}

// Create posts a comment on pageID as user. Comments by the website owner are
// published at once; everyone else's wait for approval.
func (s *CommentService) Create(ctx context.Context, pageID int64, user *models.User, content string) (*models.Comment, error) {
	if user == nil {
		return nil, common.ErrorUnauthorized
	}

	page, err := s.repomanager.Pages(s.db).GetWithWebsite(ctx, pageID)
	if err != nil {
		return nil, err
	}

	if !pagePermissions(page, user.ID).Create {
		return nil, common.ErrorForbidden
	}

	authorID := user.ID
	c := &models.Comment{
		PageID:    pageID,
		AuthorID:  &authorID,
		Content:   content,
		Published: page.OwnedBy(user.ID),
	}

	c, err = s.repomanager.Comments(s.db).Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}

	c.Author = models.AuthorFromUser(user)
	c.Permissions = commentPermissions(c, page, user.ID)

	return c, nil
}

// Edit replaces the content of a comment. Only its author may edit it. The
// result carries the author and the permissions of the caller.
func (s *CommentService) Edit(ctx context.Context, commentID int64, user *models.User, content string) (*models.Comment, error) {
	if user == nil {
		return nil, common.ErrorUnauthorized
	}

	c, page, err := s.loadWithPage(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if !commentPermissions(c, page, user.ID).Edit {
		return nil, common.ErrorForbidden
	}

	if err := s.repomanager.Comments(s.db).UpdateContent(ctx, commentID, content); err != nil {
		return nil, err
	}
	c.Content = content

	c.Author = models.AuthorFromUser(user)
	c.Permissions = commentPermissions(c, page, user.ID)

	return c, nil
}

// Delete removes a comment. Its author and the website owner may delete it.
func (s *CommentService) Delete(ctx context.Context, commentID int64, userID string) error {

	c, page, err := s.loadWithPage(ctx, commentID)
	if err != nil {
		return err
	}

	if !commentPermissions(c, page, userID).Delete {
		return common.ErrorForbidden
	}

	return s.repomanager.Comments(s.db).Delete(ctx, commentID)
}

// Approve publishes a pending comment. Only the website owner may approve,
// and only comments that are not yet published.
func (s *CommentService) Approve(ctx context.Context, commentID int64, userID string) error {

	c, page, err := s.loadWithPage(ctx, commentID)
	if err != nil {
		return err
	}

	if !commentPermissions(c, page, userID).Approve {
		return common.ErrorForbidden
	}

	return s.repomanager.Comments(s.db).Publish(ctx, commentID)
}

func (s *CommentService) loadWithPage(ctx context.Context, commentID int64) (*models.Comment, *models.PageWithWebsite, error) {
	c, err := s.repomanager.Comments(s.db).GetByID(ctx, commentID)
	if err != nil {
		return nil, nil, err
	}

	page, err := s.repomanager.Pages(s.db).GetWithWebsite(ctx, c.PageID)
	if err != nil {
		return nil, nil, err
	}

	return c, page, nil
}
