package types

// MaxCommentBodyLength is the longest comment body Reddit accepts.
const MaxCommentBodyLength = 10000

// Comment represents a Reddit comment (kind t1) with all its fields.
// Bodies are HTML-entity unescaped by the Parser.
type Comment struct {
	ThingData
	Votable
	Created
	ApprovedBy          *string       `json:"approved_by"`
	Archived            bool          `json:"archived"`
	Author              string        `json:"author"`
	AuthorFlairCSSClass *string       `json:"author_flair_css_class"`
	AuthorFlairText     *string       `json:"author_flair_text"`
	BannedBy            *string       `json:"banned_by"`
	Body                string        `json:"body"`
	BodyHTML            string        `json:"body_html"`
	Controversiality    int           `json:"controversiality"`
	Depth               int           `json:"depth"`
	Edited              Edited        `json:"edited"` // Can be a boolean (for old comments) or a float64 timestamp
	Gilded              int           `json:"gilded"`
	LinkAuthor          string        `json:"link_author,omitempty"`
	LinkID              string        `json:"link_id"`
	LinkTitle           string        `json:"link_title,omitempty"`
	LinkURL             string        `json:"link_url,omitempty"`
	NumReports          *int          `json:"num_reports"`
	ParentID            string        `json:"parent_id"`
	RTEMode             string        `json:"rte_mode,omitempty"` // Set on freshly created comments
	Saved               bool          `json:"saved"`
	Score               int           `json:"score"`
	ScoreHidden         bool          `json:"score_hidden"`
	Stickied            bool          `json:"stickied"`
	Subreddit           string        `json:"subreddit"`
	SubredditID         string        `json:"subreddit_id"`
	Distinguished       Distinguished `json:"distinguished"`

	// RepliesData is the raw reply listing, a Thing or the empty string on
	// the wire. The Parser expands it into Replies and MoreChildrenIDs.
	RepliesData     Replies    `json:"replies"`
	Replies         []*Comment `json:"-"`
	MoreChildrenIDs []string   `json:"-"` // Aggregated IDs for deferred comment loading
}

// MoreData represents a "more" object (kind more), a placeholder for comments
// omitted from a tree. The IDs in Children can be expanded through the
// morechildren endpoint.
type MoreData struct {
	ThingData
	Count    int      `json:"count"`
	Depth    int      `json:"depth"`
	ParentID string   `json:"parent_id"`
	Children []string `json:"children"`
}
