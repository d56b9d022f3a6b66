package snoo

import (
	"context"

	"github.com/snoolib/snoo/pkg/types"
)

// GetUser retrieves a user's public account data from user/{name}/about.
func (c *Client) GetUser(ctx context.Context, username string) (*types.AccountData, error) {
	if err := c.require("get user"); err != nil {
		return nil, err
	}
	if err := c.validate.ValidateUsername(username); err != nil {
		return nil, err
	}

	thing, err := c.getThing(ctx, "user/"+username+"/about", nil)
	if err != nil {
		return nil, err
	}
	return c.parser.ParseAccount(thing)
}

// GetUserOverview retrieves a user's combined post and comment history,
// newest first.
func (c *Client) GetUserOverview(ctx context.Context, username string, opts *types.ListingOptions) (*types.SavedResponse, error) {
	return c.getUserItems(ctx, "get user overview", username, "overview", opts)
}

// GetUserSubmitted retrieves the posts a user has submitted.
func (c *Client) GetUserSubmitted(ctx context.Context, username string, opts *types.ListingOptions) (*types.PostsResponse, error) {
	if err := c.require("get user submitted"); err != nil {
		return nil, err
	}
	if err := c.validate.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := c.validate.ValidatePagination(opts); err != nil {
		return nil, err
	}

	thing, err := c.getThing(ctx, "user/"+username+"/submitted", listingParams(opts))
	if err != nil {
		return nil, err
	}
	posts, err := c.parser.ExtractPosts(thing)
	if err != nil {
		return nil, err
	}
	after, before := c.cursors(thing)
	return &types.PostsResponse{Posts: posts, After: after, Before: before}, nil
}

// GetUserComments retrieves the comments a user has written, as a flat feed
// with the link fields populated.
func (c *Client) GetUserComments(ctx context.Context, username string, opts *types.ListingOptions) (*types.CommentsFeedResponse, error) {
	if err := c.require("get user comments"); err != nil {
		return nil, err
	}
	if err := c.validate.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := c.validate.ValidatePagination(opts); err != nil {
		return nil, err
	}

	thing, err := c.getThing(ctx, "user/"+username+"/comments", listingParams(opts))
	if err != nil {
		return nil, err
	}
	comments, _, err := c.parser.ExtractComments(thing)
	if err != nil {
		return nil, err
	}
	after, before := c.cursors(thing)
	return &types.CommentsFeedResponse{Comments: comments, After: after, Before: before}, nil
}

// getUserItems fetches one of the mixed post/comment feeds under user/{name}.
func (c *Client) getUserItems(ctx context.Context, operation, username, feed string, opts *types.ListingOptions) (*types.SavedResponse, error) {
	if err := c.require(operation); err != nil {
		return nil, err
	}
	if err := c.validate.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := c.validate.ValidatePagination(opts); err != nil {
		return nil, err
	}

	thing, err := c.getThing(ctx, "user/"+username+"/"+feed, listingParams(opts))
	if err != nil {
		return nil, err
	}
	items, err := c.parser.ExtractSavedItems(thing)
	if err != nil {
		return nil, err
	}
	after, before := c.cursors(thing)
	return &types.SavedResponse{Items: items, After: after, Before: before}, nil
}
