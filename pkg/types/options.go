package types

// ListingOptions captures the shared pagination behaviour for Reddit listing
// endpoints. Reddit paginates with "fullnames": strings like "t3_abc123"
// where "t3" indicates the type (link/post) and "abc123" is the item ID.
type ListingOptions struct {
	// Limit specifies the number of items to retrieve.
	// Reddit enforces a maximum of 100 items per request.
	// If 0 or not specified, Reddit's default limit (usually 25) is used.
	Limit int

	// After specifies the Reddit fullname after which to get items.
	// Used for forward pagination. Cannot be used together with Before.
	After string

	// Before specifies the Reddit fullname before which to get items.
	// Used for backward pagination. Cannot be used together with After.
	Before string

	// Count is the number of items already seen in the listing. Reddit uses
	// it to fill in the before/after tokens of the returned page.
	Count int
}

// TimePeriod selects the aggregation window for top and controversial feeds.
type TimePeriod string

const (
	PeriodHour  TimePeriod = "hour"
	PeriodDay   TimePeriod = "day"
	PeriodWeek  TimePeriod = "week"
	PeriodMonth TimePeriod = "month"
	PeriodYear  TimePeriod = "year"
	PeriodAll   TimePeriod = "all"
)

// TopOptions extends ListingOptions with the time window for the top and
// controversial sorts.
type TopOptions struct {
	ListingOptions
	Period TimePeriod
}

// CommentOptions tunes a comments-page request.
type CommentOptions struct {
	// Sort specifies the comment sort order.
	// Valid values: "confidence" (default), "new", "top", "controversial", "old", "qa".
	Sort string

	// Depth specifies the maximum depth of comment replies to retrieve.
	// 0 means no limit, 1 means only top-level comments, 2 means one level of replies, etc.
	Depth int

	// Limit specifies the maximum number of comments to retrieve.
	// Reddit's default is 100. Setting this too high may cause timeouts.
	Limit int
}

// CommentsRequest names a post whose comment page should be fetched. Used by
// the batch helper; the single-post call takes the pieces directly.
type CommentsRequest struct {
	Subreddit string
	PostID    string
	CommentOptions
}

// MoreCommentsRequest describes a request to expand previously truncated
// comment trees. Pass the link fullname together with the comment IDs you
// want to load.
type MoreCommentsRequest struct {
	LinkFullname Fullname
	CommentIDs   []string

	// Sort specifies the comment sort order, as in CommentOptions.
	Sort string

	// Depth limits the reply depth, 0 for no limit.
	Depth int

	// LimitChildren, when true, only returns the requested children instead
	// of expanding the tree beneath them.
	LimitChildren bool
}

// ModLogOptions filters a moderation log listing.
type ModLogOptions struct {
	ListingOptions

	// Action restricts the log to one action type.
	Action ModActionType

	// Moderator restricts the log to actions by one moderator name.
	Moderator string
}
