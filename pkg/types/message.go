package types

import "encoding/json"

// MessageData contains the data for a private Message (kind t4). Comment
// replies delivered to the inbox use the same shape with WasComment set.
type MessageData struct {
	ThingData
	Created
	Author                string          `json:"author"`
	Body                  string          `json:"body"`
	BodyHTML              string          `json:"body_html"`
	Context               string          `json:"context"`
	Dest                  string          `json:"dest"`
	FirstMessage          *int64          `json:"first_message"`
	FirstMessageName      *string         `json:"first_message_name"`
	Likes                 *bool           `json:"likes"`
	LinkTitle             string          `json:"link_title"`
	New                   bool            `json:"new"`
	ParentID              *string         `json:"parent_id"`
	RepliesData           json.RawMessage `json:"replies"` // Raw replies data, handled separately
	Subject               string          `json:"subject"`
	Subreddit             *string         `json:"subreddit"`
	SubredditNamePrefixed *string         `json:"subreddit_name_prefixed"`
	Type                  string          `json:"type"`
	WasComment            bool            `json:"was_comment"`
}
