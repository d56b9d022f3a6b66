package types

// AccountData contains the data for a user Account (kind t2). The mail and
// modhash fields are only present for the authenticated user's own account.
type AccountData struct {
	ThingData
	Created
	CommentKarma     int    `json:"comment_karma"`
	HasMail          *bool  `json:"has_mail"`
	HasModMail       *bool  `json:"has_mod_mail"`
	HasVerifiedEmail *bool  `json:"has_verified_email"`
	IconImg          string `json:"icon_img"`
	InboxCount       int    `json:"inbox_count,omitempty"`
	IsEmployee       bool   `json:"is_employee"`
	IsFriend         bool   `json:"is_friend"`
	IsGold           bool   `json:"is_gold"`
	IsMod            bool   `json:"is_mod"`
	LinkKarma        int    `json:"link_karma"`
	Modhash          string `json:"modhash,omitempty"`
	Over18           bool   `json:"over_18"`
	TotalKarma       int    `json:"total_karma"`
}

// Friend is the response of the friend and unfriend endpoints.
type Friend struct {
	Success bool `json:"success"`
}

// SavedItem is one element of a mixed t1/t3 listing, as returned by the
// saved, upvoted, downvoted and overview feeds. Exactly one side is set.
type SavedItem struct {
	Post    *Post
	Comment *Comment
}
