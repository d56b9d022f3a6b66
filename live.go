package snoo

import (
	"context"
	"net/url"

	"github.com/snoolib/snoo/internal"
	pkgerrs "github.com/snoolib/snoo/pkg/errors"
	"github.com/snoolib/snoo/pkg/types"
)

// LiveStream delivers the events of a live thread's websocket feed. Events
// arrive on the channel returned by Events until the thread completes, the
// context passed to StreamLiveThread is canceled, or Close is called.
type LiveStream struct {
	inner *internal.LiveStream
}

// Events returns the event channel. It is closed when the stream ends.
func (s *LiveStream) Events() <-chan *types.LiveEvent {
	return s.inner.Events()
}

// Close tears down the websocket connection.
func (s *LiveStream) Close() error {
	return s.inner.Close()
}

// GetLiveThread retrieves a live thread's metadata from live/{id}/about.
func (c *Client) GetLiveThread(ctx context.Context, id string) (*types.LiveThreadData, error) {
	if err := c.require("get live thread"); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, &pkgerrs.ConfigError{Field: "id", Message: "live thread id cannot be empty"}
	}

	thing, err := c.getThing(ctx, "live/"+id+"/about", nil)
	if err != nil {
		return nil, err
	}
	return c.parser.ParseLiveThread(thing)
}

// GetLiveUpdates retrieves a page of a live thread's updates, newest first.
func (c *Client) GetLiveUpdates(ctx context.Context, id string, opts *types.ListingOptions) (*types.LiveUpdatesResponse, error) {
	if err := c.require("get live updates"); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, &pkgerrs.ConfigError{Field: "id", Message: "live thread id cannot be empty"}
	}
	if err := c.validate.ValidatePagination(opts); err != nil {
		return nil, err
	}

	thing, err := c.getThing(ctx, "live/"+id, listingParams(opts))
	if err != nil {
		return nil, err
	}
	updates, err := c.parser.ExtractLiveUpdates(thing)
	if err != nil {
		return nil, err
	}
	after, before := c.cursors(thing)
	return &types.LiveUpdatesResponse{Updates: updates, After: after, Before: before}, nil
}

// UpdateLiveThread posts an update to a live thread the authenticated user
// contributes to.
func (c *Client) UpdateLiveThread(ctx context.Context, id, body string) error {
	if err := c.requireUser("update live thread"); err != nil {
		return err
	}
	if id == "" {
		return &pkgerrs.ConfigError{Field: "id", Message: "live thread id cannot be empty"}
	}
	if body == "" {
		return &pkgerrs.ConfigError{Field: "body", Message: "update body cannot be empty"}
	}

	form := url.Values{}
	form.Set("body", body)
	_, err := c.postAction(ctx, "api/live/"+id+"/update", form)
	return err
}

// CloseLiveThread permanently closes a live thread. Only its contributors
// may do this; a closed thread accepts no further updates.
func (c *Client) CloseLiveThread(ctx context.Context, id string) error {
	if err := c.requireUser("close live thread"); err != nil {
		return err
	}
	if id == "" {
		return &pkgerrs.ConfigError{Field: "id", Message: "live thread id cannot be empty"}
	}

	_, err := c.postAction(ctx, "api/live/"+id+"/close_thread", url.Values{})
	return err
}

// InviteLiveContributor invites a user to contribute to a live thread.
// permissions is Reddit's permission description, such as "+update" or
// "all"; relType is the contributor relationship, usually
// "liveupdate_contributor_invite".
func (c *Client) InviteLiveContributor(ctx context.Context, id, username, permissions, relType string) error {
	if err := c.requireUser("invite live contributor"); err != nil {
		return err
	}
	if id == "" {
		return &pkgerrs.ConfigError{Field: "id", Message: "live thread id cannot be empty"}
	}
	if err := c.validate.ValidateUsername(username); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("name", username)
	if permissions != "" {
		form.Set("permissions", permissions)
	}
	if relType != "" {
		form.Set("type", relType)
	}
	_, err := c.postAction(ctx, "api/live/"+id+"/invite_contributor", form)
	return err
}

// StreamLiveThread fetches the live thread and opens its websocket feed.
// Threads that are no longer live carry no websocket URL and return a
// StateError. The stream ends when the context is canceled, the thread
// completes, or Close is called on the returned stream.
func (c *Client) StreamLiveThread(ctx context.Context, id string) (*LiveStream, error) {
	thread, err := c.GetLiveThread(ctx, id)
	if err != nil {
		return nil, err
	}
	if thread.WebsocketURL == nil || *thread.WebsocketURL == "" {
		return nil, &pkgerrs.StateError{
			Operation: "stream live thread",
			Message:   "live thread " + id + " is not live",
		}
	}

	inner, err := internal.DialLiveThread(ctx, *thread.WebsocketURL, c.userAgent, c.logger)
	if err != nil {
		return nil, err
	}
	return &LiveStream{inner: inner}, nil
}
