package api

import (
	"context"
	"net/http"

	"wave-client/internal/models"
)

func forumGet(route ...string) call {
	return call{method: http.MethodGet, route: append([]string{"forum"}, route...)}
}

func (c *Client) ForumPosts(ctx context.Context) ([]models.ForumPost, error) {
	var posts []models.ForumPost
	if err := c.into(ctx, forumGet("posts"), &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.ForumPost{}
	}
	return posts, nil
}

func (c *Client) CreateForumPost(ctx context.Context, post models.NewForumPost) (models.Object, error) {
	return c.object(ctx, postForum(post, "posts"))
}

// ForumThread returns a post and its comments. Thread.Post is nil when the
// backend has no such post.
func (c *Client) ForumThread(ctx context.Context, id models.ID) (*models.Thread, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	var thread models.Thread
	if err := c.into(ctx, forumGet("thread", id.String()), &thread); err != nil {
		return nil, err
	}
	if thread.Comments == nil {
		thread.Comments = []models.ForumComment{}
	}
	return &thread, nil
}

func (c *Client) AddForumComment(ctx context.Context, id models.ID, comment models.NewForumComment) (models.Object, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return c.object(ctx, postForum(comment, "thread", id.String(), "comments"))
}

func (c *Client) VotePost(ctx context.Context, id models.ID, vote models.Vote) (models.Object, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	return c.object(ctx, postForum(vote, "thread", id.String(), "vote"))
}

func (c *Client) ReportForum(ctx context.Context, report models.Report) (models.Object, error) {
	return c.object(ctx, postForum(report, "report"))
}

// SummarizeThread returns the generated summary; Summary is nil when none was produced.
func (c *Client) SummarizeThread(ctx context.Context, id models.ID) (*models.ThreadSummary, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	var out models.ThreadSummary
	if err := c.into(ctx, forumGet("thread", id.String(), "summary"), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func postForum(body any, route ...string) call {
	return post(append([]string{"forum"}, route...), body, "")
}
