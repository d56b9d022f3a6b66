package internal

import (
	"context"
	"errors"
	"fmt"

	"github.com/snoolib/snoo/pkg/types"
)

// ErrNoMorePosts is returned by PostIterator.Next when the feed is exhausted.
var ErrNoMorePosts = errors.New("no more posts available")

// PostFetchFunc loads one page of a feed.
type PostFetchFunc func(ctx context.Context, opts *types.ListingOptions) (*types.PostsResponse, error)

// PostIterator paginates through a post feed one buffered page at a time.
type PostIterator struct {
	ctx       context.Context
	fetch     PostFetchFunc
	limit     int
	buffer    []*types.Post
	bufferIdx int
	after     string
	hasMore   bool
	err       error
}

// NewPostIterator creates a new post iterator over the given fetch function.
// The limit is the page size, clamped to Reddit's 1..100 range.
func NewPostIterator(ctx context.Context, limit int, fetch PostFetchFunc) *PostIterator {
	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 1
	}
	return &PostIterator{
		ctx:     ctx,
		limit:   limit,
		fetch:   fetch,
		hasMore: true,
	}
}

// HasNext returns true if there are more posts to iterate through.
func (it *PostIterator) HasNext() bool {
	if it.err != nil {
		return false
	}
	return it.bufferIdx < len(it.buffer) || it.hasMore
}

// Next returns the next post in the iteration, fetching the next page when
// the buffer runs out.
func (it *PostIterator) Next() (*types.Post, error) {
	if it.err != nil {
		return nil, it.err
	}

	if it.bufferIdx >= len(it.buffer) {
		if !it.hasMore {
			return nil, ErrNoMorePosts
		}

		opts := &types.ListingOptions{
			Limit: it.limit,
			After: it.after,
		}

		resp, err := it.fetch(it.ctx, opts)
		if err != nil {
			it.err = err
			return nil, err
		}

		it.buffer = resp.Posts
		it.bufferIdx = 0
		it.after = resp.After

		if len(it.buffer) == 0 || resp.After == "" {
			it.hasMore = false
			if len(it.buffer) == 0 {
				return nil, ErrNoMorePosts
			}
		}
	}

	post := it.buffer[it.bufferIdx]
	it.bufferIdx++

	if post == nil {
		return it.Next()
	}

	return post, nil
}

// Collect gathers up to max posts by repeatedly calling Next. A max of 0
// collects until the feed is exhausted.
func (it *PostIterator) Collect(max int) ([]*types.Post, error) {
	var posts []*types.Post
	for it.HasNext() && (max <= 0 || len(posts) < max) {
		post, err := it.Next()
		if err != nil {
			if errors.Is(err, ErrNoMorePosts) {
				break
			}
			return posts, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// Reset clears buffered state so iteration restarts from the first page.
func (it *PostIterator) Reset() {
	it.buffer = nil
	it.bufferIdx = 0
	it.after = ""
	it.hasMore = true
	it.err = nil
}

// CommentIterator provides an iterator for traversing comment trees.
type CommentIterator struct {
	stack         []*types.Comment
	visited       map[string]bool
	depthFirst    bool
	filterFunc    func(*types.Comment) bool
	maxDepth      int
	currentDepths map[string]int
}

// CommentIteratorOptions provides options for comment iteration.
type CommentIteratorOptions struct {
	// DepthFirst selects depth-first order; false is breadth-first.
	// Nil options default to depth-first.
	DepthFirst bool
	// FilterFunc selects which comments Next returns. Filtered-out comments
	// still have their replies traversed.
	FilterFunc func(*types.Comment) bool
	// MaxDepth stops descent below this depth, 0 for no limit. Top-level
	// comments are depth 0.
	MaxDepth int
}

// NewCommentIterator creates a new iterator for traversing a comment tree.
func NewCommentIterator(comments []*types.Comment, opts *CommentIteratorOptions) *CommentIterator {
	if opts == nil {
		opts = &CommentIteratorOptions{
			DepthFirst: true,
		}
	}

	it := &CommentIterator{
		stack:         make([]*types.Comment, len(comments)),
		visited:       make(map[string]bool),
		depthFirst:    opts.DepthFirst,
		filterFunc:    opts.FilterFunc,
		maxDepth:      opts.MaxDepth,
		currentDepths: make(map[string]int),
	}
	copy(it.stack, comments)

	// Initialize depths for root comments
	for _, c := range it.stack {
		if c != nil {
			it.currentDepths[c.ID] = 0
		}
	}

	if opts.DepthFirst {
		for i, j := 0, len(it.stack)-1; i < j; i, j = i+1, j-1 {
			it.stack[i], it.stack[j] = it.stack[j], it.stack[i]
		}
	}

	return it
}

// HasNext returns true if there are more comments to iterate through.
func (it *CommentIterator) HasNext() bool {
	return len(it.stack) > 0
}

// Next returns the next comment in the iteration.
func (it *CommentIterator) Next() (*types.Comment, error) {
	if len(it.stack) == 0 {
		return nil, fmt.Errorf("no more comments available")
	}

	var comment *types.Comment

	if !it.depthFirst {
		comment = it.stack[0]
		it.stack = it.stack[1:]
	} else {
		comment = it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
	}

	if comment == nil {
		return it.Next()
	}

	if it.visited[comment.ID] {
		return it.Next()
	}
	it.visited[comment.ID] = true

	// Replies are queued before the filter runs, so a filtered-out comment
	// still has its subtree traversed. MaxDepth is what prunes descent.
	currentDepth := it.currentDepths[comment.ID]
	if it.maxDepth == 0 || currentDepth < it.maxDepth {
		if len(comment.Replies) > 0 {
			for _, reply := range comment.Replies {
				if reply != nil {
					it.currentDepths[reply.ID] = currentDepth + 1
				}
			}
			if !it.depthFirst {
				it.stack = append(it.stack, comment.Replies...)
			} else {
				for i := len(comment.Replies) - 1; i >= 0; i-- {
					it.stack = append(it.stack, comment.Replies[i])
				}
			}
		}
	}

	if it.filterFunc != nil && !it.filterFunc(comment) {
		return it.Next()
	}

	return comment, nil
}
