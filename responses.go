package snoo

import "github.com/snoolib/snoo/pkg/types"

// Aliases for the types callers handle on every request, so that basic use
// of the client does not require importing pkg/types directly.

type (
	ListingOptions      = types.ListingOptions
	TopOptions          = types.TopOptions
	CommentOptions      = types.CommentOptions
	CommentsRequest     = types.CommentsRequest
	MoreCommentsRequest = types.MoreCommentsRequest
	ModLogOptions       = types.ModLogOptions

	PostsResponse        = types.PostsResponse
	CommentsResponse     = types.CommentsResponse
	CommentsFeedResponse = types.CommentsFeedResponse
	SubredditsResponse   = types.SubredditsResponse
	MessagesResponse     = types.MessagesResponse
	SavedResponse        = types.SavedResponse
	ModLogResponse       = types.ModLogResponse
	LiveUpdatesResponse  = types.LiveUpdatesResponse

	Fullname = types.Fullname
)
