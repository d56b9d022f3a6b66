package snoo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	pkgerrs "github.com/snoolib/snoo/pkg/errors"
	"github.com/snoolib/snoo/pkg/types"
)

// commentBatchWorkers bounds the concurrency of GetCommentsMultiple.
const commentBatchWorkers = 4

// commentParams converts comment page options to query parameters.
func commentParams(opts *types.CommentOptions) url.Values {
	params := url.Values{}
	if opts == nil {
		return params
	}
	if opts.Sort != "" {
		params.Set("sort", opts.Sort)
	}
	if opts.Depth > 0 {
		params.Set("depth", strconv.Itoa(opts.Depth))
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	return params
}

// GetComments retrieves a post together with its comment tree. Reddit
// truncates deep or long threads; the IDs of the removed subtrees come back
// in CommentsResponse.MoreIDs and can be expanded with GetMoreComments.
func (c *Client) GetComments(ctx context.Context, subreddit, postID string, opts *types.CommentOptions) (*types.CommentsResponse, error) {
	if err := c.require("get comments"); err != nil {
		return nil, err
	}
	if err := c.validate.ValidateSubredditName(subreddit); err != nil {
		return nil, err
	}
	if err := c.validate.ValidateCommentIDs([]string{postID}); err != nil {
		return nil, err
	}

	path := "r/" + subreddit + "/comments/" + postID
	req, err := c.http.NewRequest(ctx, http.MethodGet, path, nil, commentParams(opts))
	if err != nil {
		return nil, err
	}

	// The comments endpoint answers with a two-element array of Listings:
	// the post, then the comment forest.
	things, err := c.http.DoThingArray(req)
	if err != nil {
		return nil, err
	}

	post, comments, moreIDs, err := c.parser.ExtractPostAndComments(things)
	if err != nil {
		return nil, err
	}
	return &types.CommentsResponse{Post: post, Comments: comments, MoreIDs: moreIDs}, nil
}

// GetCommentsByPermalink retrieves a post and its comments from a permalink
// such as "https://www.reddit.com/r/golang/comments/abc123/title/" or the
// relative form found in Post.Permalink.
func (c *Client) GetCommentsByPermalink(ctx context.Context, permalink string, opts *types.CommentOptions) (*types.CommentsResponse, error) {
	subreddit, postID, err := splitPermalink(permalink)
	if err != nil {
		return nil, err
	}
	return c.GetComments(ctx, subreddit, postID, opts)
}

// splitPermalink pulls the subreddit and post ID out of a comments-page URL.
func splitPermalink(permalink string) (subreddit, postID string, err error) {
	u, err := url.Parse(permalink)
	if err != nil {
		return "", "", &pkgerrs.ConfigError{Field: "permalink", Message: "invalid permalink: " + err.Error()}
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := range segments {
		if segments[i] == "r" && i+3 < len(segments) && segments[i+2] == "comments" {
			return segments[i+1], segments[i+3], nil
		}
	}
	return "", "", &pkgerrs.ConfigError{
		Field:   "permalink",
		Message: "permalink does not name a comments page: " + permalink,
	}
}

// GetMoreComments expands comment subtrees that were truncated from a
// GetComments response. At most 100 IDs are accepted per call; the returned
// comments are flat, in Reddit's order, without reply trees.
func (c *Client) GetMoreComments(ctx context.Context, request *types.MoreCommentsRequest) ([]*types.Comment, error) {
	if err := c.require("get more comments"); err != nil {
		return nil, err
	}
	if request == nil {
		return nil, &pkgerrs.ConfigError{Field: "request", Message: "more comments request is required"}
	}
	if err := c.validate.ValidateFullname("LinkFullname", request.LinkFullname); err != nil {
		return nil, err
	}
	if request.LinkFullname.Kind() != types.KindLink {
		return nil, &pkgerrs.ConfigError{Field: "LinkFullname", Message: "link fullname must have kind t3"}
	}
	if len(request.CommentIDs) == 0 {
		return []*types.Comment{}, nil
	}
	if err := c.validate.ValidateCommentIDs(request.CommentIDs); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("link_id", request.LinkFullname.String())
	form.Set("children", strings.Join(request.CommentIDs, ","))
	if request.Sort != "" {
		form.Set("sort", request.Sort)
	}
	if request.Depth > 0 {
		form.Set("depth", strconv.Itoa(request.Depth))
	}
	if request.LimitChildren {
		form.Set("limit_children", "true")
	}

	action, err := c.postAction(ctx, "api/morechildren", form)
	if err != nil {
		return nil, err
	}
	if len(action.JSON.Data) == 0 {
		return []*types.Comment{}, nil
	}

	var created types.CreatedThings
	if err := json.Unmarshal(action.JSON.Data, &created); err != nil {
		return nil, &pkgerrs.ParseError{
			Operation: "get more comments",
			Message:   "unexpected morechildren payload",
			Body:      action.JSON.Data,
			Err:       err,
		}
	}

	comments := make([]*types.Comment, 0, len(created.Things))
	for _, thing := range created.Things {
		if thing == nil || thing.Kind != types.KindComment {
			continue
		}
		comment, err := c.parser.ParseComment(thing)
		if err != nil {
			if c.logger != nil {
				c.logger.Debug("skipping unparseable comment in morechildren response", "err", err)
			}
			continue
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

// GetCommentsMultiple fetches the comment pages of several posts with
// bounded concurrency. Results keep the order of the requests. A failed
// request leaves a nil slot in the results; the first failure is returned
// alongside the partial results.
func (c *Client) GetCommentsMultiple(ctx context.Context, requests []*types.CommentsRequest) ([]*types.CommentsResponse, error) {
	if err := c.require("get comments multiple"); err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return []*types.CommentsResponse{}, nil
	}

	type result struct {
		index    int
		response *types.CommentsResponse
		err      error
	}

	sem := make(chan struct{}, commentBatchWorkers)
	resultCh := make(chan result, len(requests))

	for i, request := range requests {
		go func(index int, r *types.CommentsRequest) {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				resultCh <- result{index: index, err: ctx.Err()}
				return
			}

			if r == nil {
				resultCh <- result{index: index, err: &pkgerrs.ConfigError{
					Field:   "requests[" + strconv.Itoa(index) + "]",
					Message: "comments request is required",
				}}
				return
			}
			resp, err := c.GetComments(ctx, r.Subreddit, r.PostID, &r.CommentOptions)
			resultCh <- result{index: index, response: resp, err: err}
		}(i, request)
	}

	results := make([]*types.CommentsResponse, len(requests))
	var firstErr error
	for range requests {
		res := <-resultCh
		results[res.index] = res.response
		if res.err != nil && firstErr == nil {
			firstErr = res.err
		}
	}
	return results, firstErr
}
