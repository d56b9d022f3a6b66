package snoo

import (
	"context"
	"net/url"

	pkgerrs "github.com/snoolib/snoo/pkg/errors"
	"github.com/snoolib/snoo/pkg/types"
)

// GetSubreddit retrieves a subreddit's metadata from r/{name}/about.
func (c *Client) GetSubreddit(ctx context.Context, name string) (*types.SubredditData, error) {
	if err := c.require("get subreddit"); err != nil {
		return nil, err
	}
	if err := c.validate.ValidateSubredditName(name); err != nil {
		return nil, err
	}

	thing, err := c.getThing(ctx, "r/"+name+"/about", nil)
	if err != nil {
		return nil, err
	}
	return c.parser.ParseSubreddit(thing)
}

// SearchSubreddits searches subreddits by name and description.
func (c *Client) SearchSubreddits(ctx context.Context, query string, opts *types.ListingOptions) (*types.SubredditsResponse, error) {
	if err := c.require("search subreddits"); err != nil {
		return nil, err
	}
	if query == "" {
		return nil, &pkgerrs.ConfigError{Field: "query", Message: "search query cannot be empty"}
	}
	if err := c.validate.ValidatePagination(opts); err != nil {
		return nil, err
	}

	params := listingParams(opts)
	params.Set("q", query)

	thing, err := c.getThing(ctx, "subreddits/search", params)
	if err != nil {
		return nil, err
	}
	subreddits, err := c.parser.ExtractSubreddits(thing)
	if err != nil {
		return nil, err
	}
	after, before := c.cursors(thing)
	return &types.SubredditsResponse{Subreddits: subreddits, After: after, Before: before}, nil
}

// GetHot retrieves hot posts from a subreddit, or from the front page when
// subreddit is empty.
func (c *Client) GetHot(ctx context.Context, subreddit string, opts *types.ListingOptions) (*types.PostsResponse, error) {
	return c.getPostFeed(ctx, "get hot posts", subreddit, "hot", listingParams(opts), opts)
}

// GetNew retrieves the newest posts from a subreddit, or from the front page
// when subreddit is empty.
func (c *Client) GetNew(ctx context.Context, subreddit string, opts *types.ListingOptions) (*types.PostsResponse, error) {
	return c.getPostFeed(ctx, "get new posts", subreddit, "new", listingParams(opts), opts)
}

// GetRising retrieves rising posts from a subreddit, or from the front page
// when subreddit is empty.
func (c *Client) GetRising(ctx context.Context, subreddit string, opts *types.ListingOptions) (*types.PostsResponse, error) {
	return c.getPostFeed(ctx, "get rising posts", subreddit, "rising", listingParams(opts), opts)
}

// GetTop retrieves top posts over the requested time period.
func (c *Client) GetTop(ctx context.Context, subreddit string, opts *types.TopOptions) (*types.PostsResponse, error) {
	return c.getPostFeed(ctx, "get top posts", subreddit, "top", topParams(opts), listingOf(opts))
}

// GetControversial retrieves controversial posts over the requested time
// period.
func (c *Client) GetControversial(ctx context.Context, subreddit string, opts *types.TopOptions) (*types.PostsResponse, error) {
	return c.getPostFeed(ctx, "get controversial posts", subreddit, "controversial", topParams(opts), listingOf(opts))
}

func topParams(opts *types.TopOptions) url.Values {
	if opts == nil {
		return url.Values{}
	}
	params := listingParams(&opts.ListingOptions)
	if opts.Period != "" {
		params.Set("t", string(opts.Period))
	}
	return params
}

func listingOf(opts *types.TopOptions) *types.ListingOptions {
	if opts == nil {
		return nil
	}
	return &opts.ListingOptions
}

func (c *Client) getPostFeed(ctx context.Context, operation, subreddit, sort string, params url.Values, opts *types.ListingOptions) (*types.PostsResponse, error) {
	if err := c.require(operation); err != nil {
		return nil, err
	}
	if subreddit != "" {
		if err := c.validate.ValidateSubredditName(subreddit); err != nil {
			return nil, err
		}
	}
	if err := c.validate.ValidatePagination(opts); err != nil {
		return nil, err
	}

	path := sort
	if subreddit != "" {
		path = "r/" + subreddit + "/" + sort
	}

	thing, err := c.getThing(ctx, path, params)
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

// GetLatestComments retrieves a subreddit's flat feed of newest comments.
// The comments carry their link via the LinkTitle, LinkURL and LinkAuthor
// fields instead of a reply tree.
func (c *Client) GetLatestComments(ctx context.Context, subreddit string, opts *types.ListingOptions) (*types.CommentsFeedResponse, error) {
	if err := c.require("get latest comments"); err != nil {
		return nil, err
	}
	if err := c.validate.ValidateSubredditName(subreddit); err != nil {
		return nil, err
	}
	if err := c.validate.ValidatePagination(opts); err != nil {
		return nil, err
	}

	thing, err := c.getThing(ctx, "r/"+subreddit+"/comments", listingParams(opts))
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

// GetModerators retrieves the moderator list of a subreddit.
func (c *Client) GetModerators(ctx context.Context, subreddit string) ([]*types.ModeratorData, error) {
	if err := c.require("get moderators"); err != nil {
		return nil, err
	}
	if err := c.validate.ValidateSubredditName(subreddit); err != nil {
		return nil, err
	}

	thing, err := c.getThing(ctx, "r/"+subreddit+"/about/moderators", nil)
	if err != nil {
		return nil, err
	}
	return c.parser.ExtractModerators(thing)
}

