package service

import (
	"context"

	apperrors "studysync/backend/internal/errors"
	"studysync/backend/internal/feed"
	"studysync/backend/internal/logging"
	"studysync/backend/internal/model"
	"studysync/backend/internal/repository"
)

// FeedSource yields the entries of a remote RSS or Atom feed.
type FeedSource interface {
	Fetch(ctx context.Context, url string, limit int) ([]feed.Item, error)
}

type NewsFeedService struct {
	repo   *repository.NewsFeedRepository
	source FeedSource
	logger logging.Logger
}

type CreateNewsFeedInput struct {
	Title    string  `json:"title" binding:"required"`
	Content  string  `json:"content" binding:"required"`
	ImageURL *string `json:"imageUrl" binding:"omitempty,url"`
}

type UpdateNewsFeedInput struct {
	Title    *string `json:"title" binding:"omitempty,min=1"`
	Content  *string `json:"content" binding:"omitempty,min=1"`
	ImageURL *string `json:"imageUrl" binding:"omitempty,url"`
}

type ImportFeedInput struct {
	URL   string `json:"url" binding:"required,url"`
	Limit int    `json:"limit" binding:"omitempty,gte=0"`
}

func NewNewsFeedService(repo *repository.NewsFeedRepository, source FeedSource, logger logging.Logger) *NewsFeedService {
	return &NewsFeedService{repo: repo, source: source, logger: logger}
}

// List returns posts from every user.
func (s *NewsFeedService) List(ctx context.Context, _ int64) ([]model.NewsFeed, *apperrors.APIError) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, internalError(s.logger, "list news feed", err)
	}
	return posts, nil
}

func (s *NewsFeedService) Create(ctx context.Context, userID int64, input CreateNewsFeedInput) (*model.NewsFeed, *apperrors.APIError) {
	post := model.NewsFeed{
		UserID:   userID,
		Title:    input.Title,
		Content:  input.Content,
		ImageURL: input.ImageURL,
	}
	if err := s.repo.Create(ctx, &post); err != nil {
		return nil, internalError(s.logger, "create news feed post", err)
	}
	return &post, nil
}

// Update edits a post owned by userID.
func (s *NewsFeedService) Update(ctx context.Context, userID, id int64, input UpdateNewsFeedInput) (*model.NewsFeed, *apperrors.APIError) {
	post, err := s.repo.Get(ctx, id)
	if err == repository.ErrNotFound || (err == nil && post.UserID != userID) {
		return nil, apperrors.NotFound("news_feed_not_found", "news feed post not found")
	}
	if err != nil {
		return nil, internalError(s.logger, "get news feed post", err)
	}

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.ImageURL != nil {
		post.ImageURL = input.ImageURL
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, internalError(s.logger, "update news feed post", err)
	}
	return post, nil
}

func (s *NewsFeedService) Delete(ctx context.Context, userID, id int64) *apperrors.APIError {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return internalError(s.logger, "delete news feed post", err)
	}
	return nil
}

func (s *NewsFeedService) Like(ctx context.Context, id int64) (*model.NewsFeed, *apperrors.APIError) {
	post, err := s.repo.Like(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("news_feed_not_found", "news feed post not found")
	}
	if err != nil {
		return nil, internalError(s.logger, "like news feed post", err)
	}
	return post, nil
}

// Import creates one post per feed entry, in feed order.
func (s *NewsFeedService) Import(ctx context.Context, userID int64, input ImportFeedInput) ([]model.NewsFeed, *apperrors.APIError) {
	items, err := s.source.Fetch(ctx, input.URL, feed.ClampLimit(input.Limit))
	if err != nil {
		s.logger.Error("fetch feed", input.URL, err)
		return nil, apperrors.Unavailable("feed_unavailable", "could not read the feed, please check the url and try again")
	}

	posts := make([]model.NewsFeed, 0, len(items))
	for _, item := range items {
		post := model.NewsFeed{
			UserID:  userID,
			Title:   item.Title,
			Content: item.Content,
		}
		if item.ImageURL != "" {
			imageURL := item.ImageURL
			post.ImageURL = &imageURL
		}
		if err := s.repo.Create(ctx, &post); err != nil {
			return nil, internalError(s.logger, "import news feed post", err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}
