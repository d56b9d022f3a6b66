package types

// PostsResponse represents a page of posts with its pagination tokens.
type PostsResponse struct {
	Posts  []*Post
	After  string // Reddit fullname of the last item, for the next page
	Before string // Reddit fullname of the first item, for the previous page
}

// CommentsResponse represents a post with its comment tree and the IDs of
// comments that were truncated from it.
type CommentsResponse struct {
	Post     *Post
	Comments []*Comment
	MoreIDs  []string // IDs of additional comments that can be loaded
	After    string
	Before   string
}

// CommentsFeedResponse represents a page of a flat comment feed, such as a
// subreddit's latest comments or a user's comment history.
type CommentsFeedResponse struct {
	Comments []*Comment
	After    string
	Before   string
}

// SubredditsResponse represents a page of subreddits from a search.
type SubredditsResponse struct {
	Subreddits []*SubredditData
	After      string
	Before     string
}

// MessagesResponse represents a page of inbox messages.
type MessagesResponse struct {
	Messages []*MessageData
	After    string
	Before   string
}

// SavedResponse represents a page of a mixed post/comment feed.
type SavedResponse struct {
	Items  []*SavedItem
	After  string
	Before string
}

// ModLogResponse represents a page of a subreddit moderation log.
type ModLogResponse struct {
	Actions []*ModActionData
	After   string
	Before  string
}

// LiveUpdatesResponse represents a page of live thread updates.
type LiveUpdatesResponse struct {
	Updates []*LiveUpdateData
	After   string
	Before  string
}
