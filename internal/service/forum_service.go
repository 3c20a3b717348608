package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"wave-client/internal/api"
	"wave-client/internal/identity"
	"wave-client/internal/models"

	"go.uber.org/zap"
)

// Tab orders the forum listing.
type Tab string

const (
	TabRecent   Tab = "recent"
	TabTrending Tab = "trending"
)

// Categories are the forum category slugs, first is the default.
var Categories = []string{"general", "vent", "motivation", "advice"}

// Report reasons used by the listing and the thread view.
const (
	ReasonAbuse  = "abuse"
	ReasonUnsafe = "unsafe"
)

// Acknowledgements shown right after a report is sent.
const (
	ReportAck       = "Reported. Thank you for keeping the forum safe."
	ThreadReportAck = "Reported"
)

// NoSummary replaces an empty thread summary.
const NoSummary = "No summary available."

// ForumService covers the forum listing and thread pages. Every forum write
// is attributed to the anonymous author id, never to the device id.
type ForumService interface {
	Load(ctx context.Context, tab Tab) ([]models.ForumPost, error)
	// Submit posts anonymously, then reloads the listing.
	Submit(ctx context.Context, title, body, category string, tab Tab) ([]models.ForumPost, error)
	// Upvote votes +1, then reloads the listing.
	Upvote(ctx context.Context, id models.ID, tab Tab) ([]models.ForumPost, error)
	Thread(ctx context.Context, id models.ID) (*models.Thread, error)
	// UpvoteThread votes +1, then reloads the thread.
	UpvoteThread(ctx context.Context, id models.ID) (*models.Thread, error)
	// Comment replies anonymously, then reloads the thread.
	Comment(ctx context.Context, id models.ID, body string) (*models.Thread, error)
	Summary(ctx context.Context, id models.ID) (string, error)
	// Report returns the acknowledgement at once. The request runs in the
	// background; its outcome is delivered on the channel, which is then closed.
	Report(ctx context.Context, id models.ID, reason, ack string) (string, <-chan error)
}

type forumService struct {
	base
}

func NewForumService(client *api.Client, ids *identity.Provider, logger *zap.Logger) ForumService {
	return &forumService{base{client: client, ids: ids, logger: logger}}
}

func (s *forumService) Load(ctx context.Context, tab Tab) ([]models.ForumPost, error) {
	posts, err := s.client.ForumPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list forum posts: %w", err)
	}
	SortPosts(posts, tab)
	return posts, nil
}

// SortPosts orders posts newest first for TabRecent and highest score first
// for TabTrending. Any other tab leaves the backend order.
func SortPosts(posts []models.ForumPost, tab Tab) {
	switch tab {
	case TabRecent:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].CreatedAt.After(posts[j].CreatedAt.Time)
		})
	case TabTrending:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].Score > posts[j].Score
		})
	}
}

func (s *forumService) Submit(ctx context.Context, title, body, category string, tab Tab) ([]models.ForumPost, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(body) == "" {
		return nil, ErrEmptyPost
	}
	if category == "" {
		category = Categories[0]
	}
	if !slices.Contains(Categories, category) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	post := models.NewForumPost{
		UserID:       s.ids.AuthorID(ctx),
		Title:        title,
		Body:         body,
		CategorySlug: category,
		IsAnonymous:  true,
	}
	if _, err := s.client.CreateForumPost(ctx, post); err != nil {
		return nil, fmt.Errorf("create forum post: %w", err)
	}
	s.logger.Info("Forum post created", zap.String("category", category))
	return s.Load(ctx, tab)
}

func (s *forumService) vote(ctx context.Context, id models.ID) error {
	if _, err := s.client.VotePost(ctx, id, models.Vote{UserID: s.ids.AuthorID(ctx), Value: 1}); err != nil {
		return fmt.Errorf("vote on post %s: %w", id, err)
	}
	return nil
}

func (s *forumService) Upvote(ctx context.Context, id models.ID, tab Tab) ([]models.ForumPost, error) {
	if err := s.vote(ctx, id); err != nil {
		return nil, err
	}
	return s.Load(ctx, tab)
}

func (s *forumService) Thread(ctx context.Context, id models.ID) (*models.Thread, error) {
	thread, err := s.client.ForumThread(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load thread %s: %w", id, err)
	}
	return thread, nil
}

func (s *forumService) UpvoteThread(ctx context.Context, id models.ID) (*models.Thread, error) {
	if err := s.vote(ctx, id); err != nil {
		return nil, err
	}
	return s.Thread(ctx, id)
}

func (s *forumService) Comment(ctx context.Context, id models.ID, body string) (*models.Thread, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyComment
	}
	comment := models.NewForumComment{UserID: s.ids.AuthorID(ctx), Body: body, IsAnonymous: true}
	if _, err := s.client.AddForumComment(ctx, id, comment); err != nil {
		return nil, fmt.Errorf("comment on post %s: %w", id, err)
	}
	return s.Thread(ctx, id)
}

func (s *forumService) Summary(ctx context.Context, id models.ID) (string, error) {
	out, err := s.client.SummarizeThread(ctx, id)
	if err != nil {
		return "", fmt.Errorf("summarize thread %s: %w", id, err)
	}
	if out.Summary == nil || *out.Summary == "" {
		return NoSummary, nil
	}
	return *out.Summary, nil
}

func (s *forumService) Report(ctx context.Context, id models.ID, reason, ack string) (string, <-chan error) {
	if reason == "" {
		reason = ReasonAbuse
	}
	if ack == "" {
		ack = ReportAck
	}
	report := models.Report{PostID: id, UserID: s.ids.AuthorID(ctx), Reason: reason}

	done := make(chan error, 1)
	go func() {
		defer close(done)
		if _, err := s.client.ReportForum(ctx, report); err != nil {
			s.logger.Warn("Forum report failed", zap.String("post_id", id.String()), zap.Error(err))
			done <- fmt.Errorf("report post %s: %w", id, err)
			return
		}
		done <- nil
	}()
	return ack, done
}
