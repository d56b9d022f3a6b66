package snoo

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	pkgerrs "github.com/snoolib/snoo/pkg/errors"
	"github.com/snoolib/snoo/pkg/types"
)

const maxTitleLength = 300

// SubmitRequest describes a new post. Exactly one of SelfText, URL or
// RichtextJSON selects the post kind; an empty SubmitRequest with only a
// Title submits an empty self post.
type SubmitRequest struct {
	// Title of the post. Required, at most 300 characters.
	Title string

	// SelfText is the markdown body of a self post.
	SelfText string

	// URL makes this a link post.
	URL string

	// RichtextJSON is the rich text document of a self post, mutually
	// exclusive with SelfText.
	RichtextJSON string

	// Resubmit allows a link that was already posted to the subreddit.
	// Only meaningful for link posts.
	Resubmit bool

	// FlairTemplateID applies a flair template (a GUID) to the post.
	FlairTemplateID string

	// FlairText overrides the flair text where the template allows editing.
	FlairText string

	// NSFW marks the post as not safe for work.
	NSFW bool

	// Spoiler marks the post as a spoiler.
	Spoiler bool

	// SendReplies controls whether replies land in the author's inbox.
	// Nil defaults to true.
	SendReplies *bool
}

// form serializes the request into the api/submit form.
func (r *SubmitRequest) form(subreddit string) (url.Values, error) {
	if r.Title == "" {
		return nil, &pkgerrs.ConfigError{Field: "Title", Message: "title cannot be empty"}
	}
	if len(r.Title) > maxTitleLength {
		return nil, &pkgerrs.ConfigError{Field: "Title", Message: "title cannot exceed 300 characters"}
	}

	kinds := 0
	for _, set := range []bool{r.SelfText != "", r.URL != "", r.RichtextJSON != ""} {
		if set {
			kinds++
		}
	}
	if kinds > 1 {
		return nil, &pkgerrs.ConfigError{
			Field:   "SelfText",
			Message: "exactly one of SelfText, URL or RichtextJSON may be set",
		}
	}

	form := url.Values{}
	form.Set("sr", subreddit)
	form.Set("title", r.Title)
	switch {
	case r.URL != "":
		form.Set("kind", "link")
		form.Set("url", r.URL)
		if r.Resubmit {
			form.Set("resubmit", "true")
		}
	case r.RichtextJSON != "":
		form.Set("kind", "self")
		form.Set("richtext_json", r.RichtextJSON)
	default:
		form.Set("kind", "self")
		form.Set("text", r.SelfText)
	}

	sendReplies := true
	if r.SendReplies != nil {
		sendReplies = *r.SendReplies
	}
	form.Set("sendreplies", strconv.FormatBool(sendReplies))
	form.Set("nsfw", strconv.FormatBool(r.NSFW))
	form.Set("spoiler", strconv.FormatBool(r.Spoiler))
	if r.FlairTemplateID != "" {
		form.Set("flair_id", r.FlairTemplateID)
	}
	if r.FlairText != "" {
		form.Set("flair_text", r.FlairText)
	}
	return form, nil
}

// Submit creates a new post in the subreddit and returns it in full. The
// submit endpoint only reports the new post's fullname, so Submit follows up
// with a by_id fetch.
func (c *Client) Submit(ctx context.Context, subreddit string, request *SubmitRequest) (*types.Post, error) {
	if err := c.requireUser("submit post"); err != nil {
		return nil, err
	}
	if err := c.validate.ValidateSubredditName(subreddit); err != nil {
		return nil, err
	}
	if request == nil {
		return nil, &pkgerrs.ConfigError{Field: "request", Message: "submit request is required"}
	}
	if err := c.validate.ValidateFlairTemplateID(request.FlairTemplateID); err != nil {
		return nil, err
	}
	form, err := request.form(subreddit)
	if err != nil {
		return nil, err
	}

	action, err := c.postAction(ctx, "api/submit", form)
	if err != nil {
		return nil, err
	}
	created, err := c.parser.CreatedThing(action)
	if err != nil {
		return nil, err
	}

	fullname, err := types.ParseFullname(created.Name)
	if err != nil {
		return nil, &pkgerrs.ParseError{
			Operation: "submit post",
			Message:   "submit response carried an invalid fullname",
			Err:       err,
		}
	}
	posts, err := c.GetPostsByID(ctx, fullname)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, &pkgerrs.ParseError{
			Operation: "submit post",
			Message:   "created post " + created.Name + " was not returned by by_id",
		}
	}
	return posts[0], nil
}

// Comment replies to a post, a comment or a private message and returns the
// created comment. The parent is a t1, t3 or t4 fullname.
func (c *Client) Comment(ctx context.Context, parent types.Fullname, text string) (*types.Comment, error) {
	if err := c.requireUser("comment"); err != nil {
		return nil, err
	}
	if err := c.validate.ValidateFullname("parent", parent); err != nil {
		return nil, err
	}
	switch parent.Kind() {
	case types.KindComment, types.KindLink, types.KindMessage:
	default:
		return nil, &pkgerrs.ConfigError{
			Field:   "parent",
			Message: "comment parent must be a t1, t3 or t4 fullname",
		}
	}
	if text == "" {
		return nil, &pkgerrs.ConfigError{Field: "text", Message: "comment text cannot be empty"}
	}

	form := url.Values{}
	form.Set("thing_id", parent.String())
	form.Set("text", text)
	action, err := c.postAction(ctx, "api/comment", form)
	if err != nil {
		return nil, err
	}
	return c.parser.CreatedComment(action)
}

// Edit replaces the body of the authenticated user's own post or comment.
func (c *Client) Edit(ctx context.Context, fullname types.Fullname, text string) error {
	if err := c.requireUser("edit"); err != nil {
		return err
	}
	if err := c.validate.ValidateFullname("fullname", fullname); err != nil {
		return err
	}
	if text == "" {
		return &pkgerrs.ConfigError{Field: "text", Message: "edit text cannot be empty"}
	}

	form := url.Values{}
	form.Set("thing_id", fullname.String())
	form.Set("text", text)
	_, err := c.postAction(ctx, "api/editusertext", form)
	return err
}

// GetPostsByID retrieves posts by their t3 fullnames via by_id/{csv}.
func (c *Client) GetPostsByID(ctx context.Context, fullnames ...types.Fullname) ([]*types.Post, error) {
	if err := c.require("get posts by id"); err != nil {
		return nil, err
	}
	if err := c.validate.ValidateFullnameBatch("fullnames", fullnames); err != nil {
		return nil, err
	}
	for _, f := range fullnames {
		if f.Kind() != types.KindLink {
			return nil, &pkgerrs.ConfigError{
				Field:   "fullnames",
				Message: "by_id accepts only t3 fullnames, got " + f.String(),
			}
		}
	}

	names := make([]string, len(fullnames))
	for i, f := range fullnames {
		names[i] = f.String()
	}
	thing, err := c.getThing(ctx, "by_id/"+strings.Join(names, ","), nil)
	if err != nil {
		return nil, err
	}
	return c.parser.ExtractPosts(thing)
}

// Report files a report against a post, comment or message on behalf of the
// authenticated user.
func (c *Client) Report(ctx context.Context, fullname types.Fullname, reason string) error {
	if err := c.requireUser("report"); err != nil {
		return err
	}
	if err := c.validate.ValidateFullname("fullname", fullname); err != nil {
		return err
	}
	if reason == "" {
		return &pkgerrs.ConfigError{Field: "reason", Message: "report reason cannot be empty"}
	}

	form := url.Values{}
	form.Set("id", fullname.String())
	form.Set("reason", reason)
	_, err := c.postAction(ctx, "api/report", form)
	return err
}
