package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RedditObject defines the common behavior for all Reddit API objects like
// Posts, Comments, and Subreddits.
type RedditObject interface {
	GetID() string
	GetName() string
}

// ThingData holds the common fields for Reddit objects.
// It can be embedded into specific types like Post and Comment.
type ThingData struct {
	ID   string `json:"id"`   // ID (without prefix)
	Name string `json:"name"` // Full name (e.g., "t3_abc123")
}

// GetID returns the object's ID.
func (td ThingData) GetID() string {
	return td.ID
}

// GetName returns the object's full name.
func (td ThingData) GetName() string {
	return td.Name
}

// Thing is the kind/data envelope Reddit wraps every payload in. Kind is one
// of "t1" (comment), "t2" (account), "t3" (link), "t4" (message), "t5"
// (subreddit), "t6" (award), "more", "Listing" or "LiveUpdate"; Data holds
// the raw payload for the Parser to decode.
type Thing struct {
	ThingData
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Votable is an embeddable struct for things that can be voted on.
type Votable struct {
	Ups   int `json:"ups"`
	Downs int `json:"downs"`
	// Likes indicates the user's vote: true for upvote, false for downvote, null for no vote.
	Likes *bool `json:"likes"`
}

// Created is an embeddable struct for things that have a creation time.
type Created struct {
	Created    float64 `json:"created"`
	CreatedUTC float64 `json:"created_utc"`
}

// Edited represents a field that can be a boolean or a timestamp.
// If IsEdited is true and Timestamp is 0, it was an old edit marked as `true`.
// If IsEdited is true and Timestamp is non-zero, it's a modern edit with a timestamp.
// If IsEdited is false, the item was not edited.
type Edited struct {
	IsEdited  bool
	Timestamp float64
}

// UnmarshalJSON implements json.Unmarshaler to handle mixed types for the "edited" field.
func (e *Edited) UnmarshalJSON(data []byte) error {
	s := string(data)
	// It can be a boolean `false`.
	if strings.ToLower(s) == "false" {
		e.IsEdited = false
		e.Timestamp = 0
		return nil
	}

	// It can be a boolean `true` for old edits.
	if strings.ToLower(s) == "true" {
		e.IsEdited = true
		e.Timestamp = 0
		return nil
	}

	// It could be null, which we treat as not edited.
	if strings.ToLower(s) == "null" {
		e.IsEdited = false
		e.Timestamp = 0
		return nil
	}

	// It can be a float timestamp.
	var timestamp float64
	if err := json.Unmarshal(data, &timestamp); err == nil {
		e.IsEdited = true
		e.Timestamp = timestamp
		return nil
	}

	return fmt.Errorf("unrecognized type for 'edited' field: %s", s)
}

// Distinguished marks how a post or comment is highlighted. The wire value is
// null for regular content, which decodes to DistinguishedNone.
type Distinguished string

const (
	DistinguishedNone      Distinguished = ""
	DistinguishedModerator Distinguished = "moderator"
	DistinguishedAdmin     Distinguished = "admin"
	DistinguishedSpecial   Distinguished = "special"
)

// UnmarshalJSON implements json.Unmarshaler, mapping null to DistinguishedNone.
// Unrecognized values are kept as-is rather than rejected.
func (d *Distinguished) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*d = DistinguishedNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unrecognized type for 'distinguished' field: %s", data)
	}
	*d = Distinguished(s)
	return nil
}

// Replies holds a comment's raw reply listing. Reddit sends an empty string
// in place of the Thing when a comment has no replies.
type Replies struct {
	Listing *Thing
}

// UnmarshalJSON implements json.Unmarshaler to handle the listing-or-empty-string form.
func (r *Replies) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == `""` || s == "null" {
		r.Listing = nil
		return nil
	}
	var t Thing
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("unrecognized type for 'replies' field: %w", err)
	}
	r.Listing = &t
	return nil
}

// ListingData contains the data for a Listing, which is used for pagination.
type ListingData struct {
	BeforeFullname string   `json:"before"` // Reddit fullname for pagination (previous page)
	AfterFullname  string   `json:"after"`  // Reddit fullname for pagination (next page)
	Modhash        string   `json:"modhash"`
	Dist           *int     `json:"dist"`     // Number of children, null on some endpoints
	Children       []*Thing `json:"children"` // Raw Things with kind+data, parsed by caller
}

// ActionResponse is the envelope returned by api_type=json form posts, such
// as api/submit and api/comment.
type ActionResponse struct {
	JSON ActionResult `json:"json"`
}

// ActionResult carries the errors array and the action payload. Each errors
// entry is a [code, message, field] triple.
type ActionResult struct {
	Errors [][]string      `json:"errors"`
	Data   json.RawMessage `json:"data"`
}

// ThingCreated is the lazy payload identifying a newly created thing. The
// full object must be fetched separately.
type ThingCreated struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	DraftsCount int    `json:"drafts_count"`
}

// CreatedThings is the payload for actions that return the created things in
// full, such as api/comment.
type CreatedThings struct {
	Things []*Thing `json:"things"`
}
