package snoo

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	pkgerrs "github.com/snoolib/snoo/pkg/errors"
	"github.com/snoolib/snoo/pkg/types"
)

// DistinguishHow values accepted by Distinguish.
const (
	DistinguishYes     = "yes"
	DistinguishNo      = "no"
	DistinguishAdmin   = "admin"
	DistinguishSpecial = "special"
)

// Remove takes down a post or comment as a moderator. With spam set the
// removal also trains the subreddit's spam filter.
func (c *Client) Remove(ctx context.Context, fullname types.Fullname, spam bool) error {
	if err := c.requireUser("remove"); err != nil {
		return err
	}
	if err := c.validate.ValidateFullname("fullname", fullname); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("id", fullname.String())
	form.Set("spam", strconv.FormatBool(spam))
	_, err := c.postAction(ctx, "api/remove", form)
	return err
}

// Approve reinstates a removed or reported post or comment.
func (c *Client) Approve(ctx context.Context, fullname types.Fullname) error {
	if err := c.requireUser("approve"); err != nil {
		return err
	}
	if err := c.validate.ValidateFullname("fullname", fullname); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("id", fullname.String())
	_, err := c.postAction(ctx, "api/approve", form)
	return err
}

// Distinguish marks a post or comment with the author's role. how is one of
// the Distinguish constants; sticky additionally pins a distinguished
// comment to the top of its thread.
func (c *Client) Distinguish(ctx context.Context, fullname types.Fullname, how string, sticky bool) error {
	if err := c.requireUser("distinguish"); err != nil {
		return err
	}
	if err := c.validate.ValidateFullname("fullname", fullname); err != nil {
		return err
	}
	switch how {
	case DistinguishYes, DistinguishNo, DistinguishAdmin, DistinguishSpecial:
	default:
		return &pkgerrs.ConfigError{
			Field:   "how",
			Message: "distinguish mode must be yes, no, admin or special",
		}
	}

	form := url.Values{}
	form.Set("id", fullname.String())
	form.Set("how", how)
	if sticky {
		form.Set("sticky", "true")
	}
	_, err := c.postAction(ctx, "api/distinguish", form)
	return err
}

// Sticky pins or unpins a post in its subreddit. slot selects one of the two
// sticky positions (1 or 2); pass 0 to let Reddit pick the bottom slot.
func (c *Client) Sticky(ctx context.Context, fullname types.Fullname, state bool, slot int) error {
	if err := c.requireUser("sticky"); err != nil {
		return err
	}
	if err := c.validate.ValidateFullname("fullname", fullname); err != nil {
		return err
	}
	if slot < 0 || slot > 2 {
		return &pkgerrs.ConfigError{Field: "slot", Message: "sticky slot must be 0, 1 or 2"}
	}

	form := url.Values{}
	form.Set("id", fullname.String())
	form.Set("state", strconv.FormatBool(state))
	if slot > 0 {
		form.Set("num", strconv.Itoa(slot))
	}
	_, err := c.postAction(ctx, "api/set_subreddit_sticky", form)
	return err
}

// SelectFlair applies a flair template to a link or a user in the subreddit.
// A t3 fullname targets the link; any other target string is treated as a
// username.
func (c *Client) SelectFlair(ctx context.Context, subreddit, target, templateID string) error {
	if err := c.requireUser("select flair"); err != nil {
		return err
	}
	if err := c.validate.ValidateSubredditName(subreddit); err != nil {
		return err
	}
	if target == "" {
		return &pkgerrs.ConfigError{Field: "target", Message: "flair target cannot be empty"}
	}
	if templateID == "" {
		return &pkgerrs.ConfigError{Field: "templateID", Message: "flair template ID cannot be empty"}
	}
	if err := c.validate.ValidateFlairTemplateID(templateID); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("flair_template_id", templateID)
	if f := types.Fullname(target); f.Validate() == nil && f.Kind() == types.KindLink {
		form.Set("link", target)
	} else {
		if err := c.validate.ValidateUsername(target); err != nil {
			return err
		}
		form.Set("name", target)
	}
	_, err := c.postAction(ctx, "r/"+subreddit+"/api/selectflair", form)
	return err
}

// GetFlairChoices retrieves the flair templates selectable for a link, along
// with the currently applied choice.
func (c *Client) GetFlairChoices(ctx context.Context, subreddit string, link types.Fullname) (*types.FlairSelection, error) {
	if err := c.requireUser("get flair choices"); err != nil {
		return nil, err
	}
	if err := c.validate.ValidateSubredditName(subreddit); err != nil {
		return nil, err
	}
	if err := c.validate.ValidateFullname("link", link); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("link", link.String())
	req, err := c.http.NewRequest(ctx, http.MethodPost, "r/"+subreddit+"/api/flairselector", formReader(form), nil)
	if err != nil {
		return nil, err
	}
	var selection types.FlairSelection
	if _, err := c.http.Do(req, &selection); err != nil {
		return nil, err
	}
	return &selection, nil
}

// GetModLog retrieves a page of the subreddit's moderation log, optionally
// filtered by action type and moderator name. Requires mod permissions.
func (c *Client) GetModLog(ctx context.Context, subreddit string, opts *types.ModLogOptions) (*types.ModLogResponse, error) {
	if err := c.requireUser("get mod log"); err != nil {
		return nil, err
	}
	if err := c.validate.ValidateSubredditName(subreddit); err != nil {
		return nil, err
	}

	params := url.Values{}
	if opts != nil {
		if err := c.validate.ValidatePagination(&opts.ListingOptions); err != nil {
			return nil, err
		}
		params = listingParams(&opts.ListingOptions)
		if opts.Action != "" {
			params.Set("type", string(opts.Action))
		}
		if opts.Moderator != "" {
			params.Set("mod", opts.Moderator)
		}
	}

	thing, err := c.getThing(ctx, "r/"+subreddit+"/about/log", params)
	if err != nil {
		return nil, err
	}
	actions, err := c.parser.ExtractModActions(thing)
	if err != nil {
		return nil, err
	}
	after, before := c.cursors(thing)
	return &types.ModLogResponse{Actions: actions, After: after, Before: before}, nil
}

// GetRemovalReasons retrieves the removal reasons configured for the
// subreddit, keyed by ID with their display order.
func (c *Client) GetRemovalReasons(ctx context.Context, subreddit string) (*types.RemovalReasons, error) {
	if err := c.requireUser("get removal reasons"); err != nil {
		return nil, err
	}
	if err := c.validate.ValidateSubredditName(subreddit); err != nil {
		return nil, err
	}

	req, err := c.http.NewRequest(ctx, http.MethodGet, "api/v1/"+subreddit+"/removal_reasons", nil, nil)
	if err != nil {
		return nil, err
	}
	var reasons types.RemovalReasons
	if _, err := c.http.Do(req, &reasons); err != nil {
		return nil, err
	}
	return &reasons, nil
}
