package snoo

import (
	"context"

	"github.com/snoolib/snoo/internal"
	"github.com/snoolib/snoo/pkg/types"
)

// PostIterator paginates through a post feed one buffered page at a time.
// Obtain one from NewHotIterator, NewNewIterator or NewTopIterator.
type PostIterator = internal.PostIterator

// CommentIterator walks a comment tree depth- or breadth-first.
type CommentIterator = internal.CommentIterator

// CommentIteratorOptions tunes a CommentIterator's traversal.
type CommentIteratorOptions = internal.CommentIteratorOptions

// ErrNoMorePosts is returned by PostIterator.Next when the feed is
// exhausted.
var ErrNoMorePosts = internal.ErrNoMorePosts

// NewHotIterator iterates the hot feed of a subreddit, or of the front page
// when subreddit is empty. limit is the page size, clamped to 1..100.
func (c *Client) NewHotIterator(ctx context.Context, subreddit string, limit int) *PostIterator {
	return internal.NewPostIterator(ctx, limit, func(ctx context.Context, opts *types.ListingOptions) (*types.PostsResponse, error) {
		return c.GetHot(ctx, subreddit, opts)
	})
}

// NewNewIterator iterates the new feed of a subreddit, or of the front page
// when subreddit is empty.
func (c *Client) NewNewIterator(ctx context.Context, subreddit string, limit int) *PostIterator {
	return internal.NewPostIterator(ctx, limit, func(ctx context.Context, opts *types.ListingOptions) (*types.PostsResponse, error) {
		return c.GetNew(ctx, subreddit, opts)
	})
}

// NewTopIterator iterates the top feed of a subreddit over the given time
// period.
func (c *Client) NewTopIterator(ctx context.Context, subreddit string, period types.TimePeriod, limit int) *PostIterator {
	return internal.NewPostIterator(ctx, limit, func(ctx context.Context, opts *types.ListingOptions) (*types.PostsResponse, error) {
		return c.GetTop(ctx, subreddit, &types.TopOptions{ListingOptions: *opts, Period: period})
	})
}

// NewCommentIterator creates an iterator over a comment tree, such as the
// Comments slice of a CommentsResponse.
func NewCommentIterator(comments []*types.Comment, opts *CommentIteratorOptions) *CommentIterator {
	return internal.NewCommentIterator(comments, opts)
}
