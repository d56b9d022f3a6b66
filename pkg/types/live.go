package types

import "encoding/json"

// Live thread states.
const (
	LiveStateLive     = "live"
	LiveStateComplete = "complete"
)

// LiveThreadData describes a live thread (live/{id}/about). WebsocketURL is
// only present while the thread is in the live state.
type LiveThreadData struct {
	Created
	ID                  string  `json:"id"`
	Fullname            string  `json:"name"` // e.g. "LiveUpdateEvent_abc123"
	Title               string  `json:"title"`
	Description         string  `json:"description"`
	DescriptionHTML     string  `json:"description_html"`
	Resources           string  `json:"resources"`
	ResourcesHTML       string  `json:"resources_html"`
	State               string  `json:"state"` // LiveStateLive or LiveStateComplete
	NSFW                bool    `json:"nsfw"`
	ViewerCount         int     `json:"viewer_count"`
	ViewerCountFuzzed   bool    `json:"viewer_count_fuzzed"`
	WebsocketURL        *string `json:"websocket_url"`
	Icon                string  `json:"icon"`
	IsAnnouncement      bool    `json:"is_announcement"`
	AnnouncementURL     string  `json:"announcement_url"`
	ButtonCTA           string  `json:"button_cta"`
	TotalViews          *int    `json:"total_views"`
	NumTimesDismissable int     `json:"num_times_dismissable"`
}

// LiveUpdateData is one update of a live thread (kind LiveUpdate). Name is a
// non-standard fullname of the form "LiveUpdate_<uuid>".
type LiveUpdateData struct {
	Created
	ID       string `json:"id"`
	Name     string `json:"name"`
	Author   string `json:"author"`
	Body     string `json:"body"`
	BodyHTML string `json:"body_html"`
	Stricken bool   `json:"stricken"`
}

// LiveEventType identifies a frame from a live thread's websocket stream.
type LiveEventType string

const (
	LiveEventUpdate   LiveEventType = "update"
	LiveEventStrike   LiveEventType = "strike"
	LiveEventDelete   LiveEventType = "delete"
	LiveEventSettings LiveEventType = "settings"
	LiveEventComplete LiveEventType = "complete"
)

// LiveEvent is one message from a live thread's websocket stream. Update is
// decoded for update frames; Payload keeps the raw frame payload for every
// frame type.
type LiveEvent struct {
	Type    LiveEventType
	Update  *LiveUpdateData
	Payload json.RawMessage
}
