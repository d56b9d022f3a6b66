package snoo

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	pkgerrs "github.com/snoolib/snoo/pkg/errors"
	"github.com/snoolib/snoo/pkg/types"
)

// Me retrieves the authenticated account. Unlike the user about pages,
// api/v1/me answers with the bare account object, not a Thing envelope.
func (c *Client) Me(ctx context.Context) (*types.AccountData, error) {
	if err := c.requireUser("get own account"); err != nil {
		return nil, err
	}

	req, err := c.http.NewRequest(ctx, http.MethodGet, "api/v1/me", nil, nil)
	if err != nil {
		return nil, err
	}
	var account types.AccountData
	if _, err := c.http.Do(req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetInbox retrieves a page of the inbox.
func (c *Client) GetInbox(ctx context.Context, opts *types.ListingOptions) (*types.MessagesResponse, error) {
	return c.getMessageFeed(ctx, "get inbox", "message/inbox", opts)
}

// GetUnread retrieves a page of unread inbox items.
func (c *Client) GetUnread(ctx context.Context, opts *types.ListingOptions) (*types.MessagesResponse, error) {
	return c.getMessageFeed(ctx, "get unread", "message/unread", opts)
}

func (c *Client) getMessageFeed(ctx context.Context, operation, path string, opts *types.ListingOptions) (*types.MessagesResponse, error) {
	if err := c.requireUser(operation); err != nil {
		return nil, err
	}
	if err := c.validate.ValidatePagination(opts); err != nil {
		return nil, err
	}

	thing, err := c.getThing(ctx, path, listingParams(opts))
	if err != nil {
		return nil, err
	}
	messages, err := c.parser.ExtractMessages(thing)
	if err != nil {
		return nil, err
	}
	after, before := c.cursors(thing)
	return &types.MessagesResponse{Messages: messages, After: after, Before: before}, nil
}

// MarkRead marks inbox items as read.
func (c *Client) MarkRead(ctx context.Context, fullnames ...types.Fullname) error {
	return c.markMessages(ctx, "mark read", "api/read_message", fullnames)
}

// MarkUnread marks inbox items as unread.
func (c *Client) MarkUnread(ctx context.Context, fullnames ...types.Fullname) error {
	return c.markMessages(ctx, "mark unread", "api/unread_message", fullnames)
}

func (c *Client) markMessages(ctx context.Context, operation, path string, fullnames []types.Fullname) error {
	if err := c.requireUser(operation); err != nil {
		return err
	}
	if err := c.validate.ValidateFullnameBatch("fullnames", fullnames); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("id", joinFullnames(fullnames))
	req, err := c.http.NewRequest(ctx, http.MethodPost, path, formReader(form), nil)
	if err != nil {
		return err
	}
	_, err = c.http.Do(req, nil)
	return err
}

func joinFullnames(fullnames []types.Fullname) string {
	parts := make([]string, len(fullnames))
	for i, f := range fullnames {
		parts[i] = f.String()
	}
	return strings.Join(parts, ",")
}

// ComposeMessage sends a private message to another user.
func (c *Client) ComposeMessage(ctx context.Context, to, subject, text string) error {
	if err := c.requireUser("compose message"); err != nil {
		return err
	}
	if err := c.validate.ValidateUsername(to); err != nil {
		return err
	}
	if subject == "" {
		return &pkgerrs.ConfigError{Field: "subject", Message: "subject cannot be empty"}
	}

	form := url.Values{}
	form.Set("to", to)
	form.Set("subject", subject)
	form.Set("text", text)
	_, err := c.postAction(ctx, "api/compose", form)
	return err
}

// GetSaved retrieves the authenticated user's saved posts and comments.
func (c *Client) GetSaved(ctx context.Context, opts *types.ListingOptions) (*types.SavedResponse, error) {
	return c.getOwnItems(ctx, "get saved", "saved", opts)
}

// GetUpvoted retrieves the posts and comments the authenticated user has
// upvoted.
func (c *Client) GetUpvoted(ctx context.Context, opts *types.ListingOptions) (*types.SavedResponse, error) {
	return c.getOwnItems(ctx, "get upvoted", "upvoted", opts)
}

// GetDownvoted retrieves the posts and comments the authenticated user has
// downvoted.
func (c *Client) GetDownvoted(ctx context.Context, opts *types.ListingOptions) (*types.SavedResponse, error) {
	return c.getOwnItems(ctx, "get downvoted", "downvoted", opts)
}

func (c *Client) getOwnItems(ctx context.Context, operation, feed string, opts *types.ListingOptions) (*types.SavedResponse, error) {
	if err := c.requireUser(operation); err != nil {
		return nil, err
	}
	return c.getUserItems(ctx, operation, c.username, feed, opts)
}

// AddFriend adds a relationship of the given type between a user and a
// subreddit, such as "moderator_invite" or "contributor". The reported
// success flag comes from the API response.
func (c *Client) AddFriend(ctx context.Context, subreddit, username, relType string) (bool, error) {
	return c.friendAction(ctx, "add friend", subreddit, username, relType, "api/friend")
}

// RemoveFriend removes a relationship previously added with AddFriend.
func (c *Client) RemoveFriend(ctx context.Context, subreddit, username, relType string) (bool, error) {
	return c.friendAction(ctx, "remove friend", subreddit, username, relType, "api/unfriend")
}

func (c *Client) friendAction(ctx context.Context, operation, subreddit, username, relType, endpoint string) (bool, error) {
	if err := c.requireUser(operation); err != nil {
		return false, err
	}
	if err := c.validate.ValidateSubredditName(subreddit); err != nil {
		return false, err
	}
	if err := c.validate.ValidateUsername(username); err != nil {
		return false, err
	}
	if relType == "" {
		return false, &pkgerrs.ConfigError{Field: "relType", Message: "relationship type cannot be empty"}
	}

	form := url.Values{}
	form.Set("name", username)
	form.Set("type", relType)
	req, err := c.http.NewRequest(ctx, http.MethodPost, "r/"+subreddit+"/"+endpoint, formReader(form), nil)
	if err != nil {
		return false, err
	}
	var friend types.Friend
	if _, err := c.http.Do(req, &friend); err != nil {
		return false, err
	}
	return friend.Success, nil
}
