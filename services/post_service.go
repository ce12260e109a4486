package services

import (
	"context"
	"errors"
	"time"

	"rendezvous.club/configs"
	"rendezvous.club/models"
	"rendezvous.club/pkg/changefeed"
	"rendezvous.club/pkg/queryparams"
	"rendezvous.club/pkg/session"
	"rendezvous.club/repositories"

	"gorm.io/gorm"
)

// PostServiceError is the typed error set for the feed.
type PostServiceError string

func (e PostServiceError) Error() string { return string(e) }

const (
	ErrPostNotFound     PostServiceError = "post not found"
	ErrPostForbidden    PostServiceError = "not allowed to manage posts"
	ErrPostInvalidInput PostServiceError = "invalid post data"
)

// PostInput is the admin create payload.
type PostInput struct {
	Title         string          `json:"title" validate:"required,min=3,max=255"`
	Content       string          `json:"content" validate:"required"`
	Excerpt       string          `json:"excerpt" validate:"max=500"`
	CoverImageURL string          `json:"cover_image_url"`
	Type          models.PostType `json:"type" validate:"omitempty,oneof=announcement offer event_promotion"`
	EventID       *uint           `json:"event_id"`
	Pinned        bool            `json:"pinned"`
	Publish       bool            `json:"publish"`
}

// IPostService serves the feed and the admin post operations.
type IPostService interface {
	ListFeed(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	GetPost(ctx context.Context, id uint) (*models.Post, error)

	// Admin operations.
	CreatePost(ctx context.Context, sess session.Context, input PostInput) (*models.Post, error)
	PublishPost(ctx context.Context, sess session.Context, id uint) error
}

// PostService implements IPostService.
type PostService struct {
	repo repositories.IPostRepository
	feed changefeed.Feed
}

func NewPostService(feed changefeed.Feed) IPostService {
	return NewPostServiceWithDeps(configs.GetDB(), feed)
}

func NewPostServiceWithDeps(db *gorm.DB, feed changefeed.Feed) IPostService {
	return &PostService{repo: repositories.NewPostRepositoryTx(db), feed: feed}
}

func (s *PostService) ListFeed(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Normalize()
	posts, total, err := s.repo.ListPublished(ctx, params)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: posts,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  total,
			TotalPages:  queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if !post.Published {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) CreatePost(ctx context.Context, sess session.Context, input PostInput) (*models.Post, error) {
	if !sess.IsAdmin() {
		return nil, ErrPostForbidden
	}
	if input.Title == "" || input.Content == "" {
		return nil, ErrPostInvalidInput
	}
	postType := input.Type
	if postType == "" {
		postType = models.PostTypeAnnouncement
	}

	post := &models.Post{
		Title:         input.Title,
		Content:       input.Content,
		Excerpt:       input.Excerpt,
		CoverImageURL: input.CoverImageURL,
		Type:          postType,
		EventID:       input.EventID,
		Pinned:        input.Pinned,
		AuthorID:      sess.UserID,
	}
	if input.Publish {
		now := time.Now().UTC()
		post.Published = true
		post.PublishedAt = &now
	}
	if err := s.repo.Create(models.ContextWithUserID(ctx, sess.UserID), post); err != nil {
		return nil, err
	}

	if post.Published {
		_ = s.feed.Publish(ctx, "posts", "", changefeed.ActionInsert, post.ID, post)
	}
	return post, nil
}

func (s *PostService) PublishPost(ctx context.Context, sess session.Context, id uint) error {
	if !sess.IsAdmin() {
		return ErrPostForbidden
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if post.Published {
		return nil
	}
	now := time.Now().UTC()
	if err := s.repo.Update(models.ContextWithUserID(ctx, sess.UserID), post, map[string]interface{}{
		"published":    true,
		"published_at": &now,
	}); err != nil {
		return err
	}
	_ = s.feed.Publish(ctx, "posts", "", changefeed.ActionInsert, post.ID, post)
	return nil
}

var _ IPostService = (*PostService)(nil)
