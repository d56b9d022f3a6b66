package internal

import (
	"encoding/json"
	"fmt"
	"html"

	pkgerrs "github.com/snoolib/snoo/pkg/errors"
	"github.com/snoolib/snoo/pkg/types"
)

// Parser handles parsing of Reddit API responses
type Parser struct{}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseThing determines the type of a Thing and returns the appropriate typed struct.
func (p *Parser) ParseThing(thing *types.Thing) (interface{}, error) {
	if thing == nil {
		return nil, &pkgerrs.ParseError{Operation: "ParseThing", Message: "thing is nil"}
	}

	switch thing.Kind {
	case "Listing":
		return p.ParseListing(thing)
	case "t1":
		return p.ParseComment(thing)
	case "t2":
		return p.ParseAccount(thing)
	case "t3":
		return p.ParseLink(thing)
	case "t4":
		return p.ParseMessage(thing)
	case "t5":
		return p.ParseSubreddit(thing)
	case "more":
		return p.ParseMore(thing)
	case "LiveUpdate":
		return p.ParseLiveUpdate(thing)
	case "LiveUpdateEvent":
		return p.ParseLiveThread(thing)
	default:
		return nil, &pkgerrs.ParseError{Operation: "ParseThing", Message: fmt.Sprintf("unknown kind: %s", thing.Kind)}
	}
}

// ParseListing extracts a ListingData from a Thing of kind "Listing".
func (p *Parser) ParseListing(thing *types.Thing) (*types.ListingData, error) {
	if err := expectKind(thing, "Listing"); err != nil {
		return nil, err
	}

	var listing types.ListingData
	if err := json.Unmarshal(thing.Data, &listing); err != nil {
		return nil, decodeError("ParseListing", thing.Data, err)
	}
	return &listing, nil
}

// ParseLink extracts a Post from a Thing of kind "t3".
func (p *Parser) ParseLink(thing *types.Thing) (*types.Post, error) {
	if err := expectKind(thing, "t3"); err != nil {
		return nil, err
	}

	var post types.Post
	if err := json.Unmarshal(thing.Data, &post); err != nil {
		return nil, decodeError("ParseLink", thing.Data, err)
	}

	post.SelfText = html.UnescapeString(post.SelfText)
	if post.SelfTextHTML != nil {
		unescaped := html.UnescapeString(*post.SelfTextHTML)
		post.SelfTextHTML = &unescaped
	}

	return &post, nil
}

// ParseComment extracts a Comment from a Thing of kind "t1" and builds its
// reply tree. MoreChildrenIDs collects the IDs hidden behind "more" stubs
// anywhere below this comment.
func (p *Parser) ParseComment(thing *types.Thing) (*types.Comment, error) {
	if err := expectKind(thing, "t1"); err != nil {
		return nil, err
	}

	var comment types.Comment
	if err := json.Unmarshal(thing.Data, &comment); err != nil {
		return nil, decodeError("ParseComment", thing.Data, err)
	}

	comment.Body = html.UnescapeString(comment.Body)
	comment.BodyHTML = html.UnescapeString(comment.BodyHTML)

	// Reddit sends "" instead of a listing when a comment has no replies;
	// the Replies decoder already mapped that to a nil listing.
	if comment.RepliesData.Listing != nil {
		replies, moreIDs, err := p.ExtractComments(comment.RepliesData.Listing)
		if err == nil {
			comment.Replies = replies
			comment.MoreChildrenIDs = moreIDs
		}
	}

	return &comment, nil
}

// ParseSubreddit extracts a SubredditData from a Thing of kind "t5".
func (p *Parser) ParseSubreddit(thing *types.Thing) (*types.SubredditData, error) {
	if err := expectKind(thing, "t5"); err != nil {
		return nil, err
	}

	var subreddit types.SubredditData
	if err := json.Unmarshal(thing.Data, &subreddit); err != nil {
		return nil, decodeError("ParseSubreddit", thing.Data, err)
	}
	return &subreddit, nil
}

// ParseAccount extracts an AccountData from a Thing of kind "t2".
func (p *Parser) ParseAccount(thing *types.Thing) (*types.AccountData, error) {
	if err := expectKind(thing, "t2"); err != nil {
		return nil, err
	}

	var account types.AccountData
	if err := json.Unmarshal(thing.Data, &account); err != nil {
		return nil, decodeError("ParseAccount", thing.Data, err)
	}
	return &account, nil
}

// ParseMessage extracts a MessageData from a Thing of kind "t4".
func (p *Parser) ParseMessage(thing *types.Thing) (*types.MessageData, error) {
	if err := expectKind(thing, "t4"); err != nil {
		return nil, err
	}

	var message types.MessageData
	if err := json.Unmarshal(thing.Data, &message); err != nil {
		return nil, decodeError("ParseMessage", thing.Data, err)
	}

	message.Body = html.UnescapeString(message.Body)
	message.BodyHTML = html.UnescapeString(message.BodyHTML)

	return &message, nil
}

// ParseMore extracts a MoreData from a Thing of kind "more".
func (p *Parser) ParseMore(thing *types.Thing) (*types.MoreData, error) {
	if err := expectKind(thing, "more"); err != nil {
		return nil, err
	}

	var more types.MoreData
	if err := json.Unmarshal(thing.Data, &more); err != nil {
		return nil, decodeError("ParseMore", thing.Data, err)
	}
	return &more, nil
}

// ParseLiveThread extracts a LiveThreadData from a Thing of kind
// "LiveUpdateEvent", as returned by live/{id}/about.
func (p *Parser) ParseLiveThread(thing *types.Thing) (*types.LiveThreadData, error) {
	if err := expectKind(thing, "LiveUpdateEvent"); err != nil {
		return nil, err
	}

	var thread types.LiveThreadData
	if err := json.Unmarshal(thing.Data, &thread); err != nil {
		return nil, decodeError("ParseLiveThread", thing.Data, err)
	}
	return &thread, nil
}

// ParseLiveUpdate extracts a LiveUpdateData from a Thing of kind "LiveUpdate".
func (p *Parser) ParseLiveUpdate(thing *types.Thing) (*types.LiveUpdateData, error) {
	if err := expectKind(thing, "LiveUpdate"); err != nil {
		return nil, err
	}

	var update types.LiveUpdateData
	if err := json.Unmarshal(thing.Data, &update); err != nil {
		return nil, decodeError("ParseLiveUpdate", thing.Data, err)
	}

	update.Body = html.UnescapeString(update.Body)
	update.BodyHTML = html.UnescapeString(update.BodyHTML)

	return &update, nil
}

// ParseModAction extracts a ModActionData from a Thing of kind "modaction".
func (p *Parser) ParseModAction(thing *types.Thing) (*types.ModActionData, error) {
	if err := expectKind(thing, "modaction"); err != nil {
		return nil, err
	}

	var action types.ModActionData
	if err := json.Unmarshal(thing.Data, &action); err != nil {
		return nil, decodeError("ParseModAction", thing.Data, err)
	}
	return &action, nil
}

// ExtractPosts extracts all Post objects from a listing Thing.
func (p *Parser) ExtractPosts(listing *types.Thing) ([]*types.Post, error) {
	listingData, err := p.ParseListing(listing)
	if err != nil {
		return nil, err
	}

	posts := make([]*types.Post, 0, len(listingData.Children))
	for _, child := range listingData.Children {
		if child.Kind == "t3" {
			post, err := p.ParseLink(child)
			if err != nil {
				continue
			}
			posts = append(posts, post)
		}
	}
	return posts, nil
}

// ExtractSubreddits extracts all SubredditData objects from a listing Thing.
func (p *Parser) ExtractSubreddits(listing *types.Thing) ([]*types.SubredditData, error) {
	listingData, err := p.ParseListing(listing)
	if err != nil {
		return nil, err
	}

	subreddits := make([]*types.SubredditData, 0, len(listingData.Children))
	for _, child := range listingData.Children {
		if child.Kind == "t5" {
			subreddit, err := p.ParseSubreddit(child)
			if err != nil {
				continue
			}
			subreddits = append(subreddits, subreddit)
		}
	}
	return subreddits, nil
}

// ExtractMessages extracts all MessageData objects from a listing Thing.
func (p *Parser) ExtractMessages(listing *types.Thing) ([]*types.MessageData, error) {
	listingData, err := p.ParseListing(listing)
	if err != nil {
		return nil, err
	}

	messages := make([]*types.MessageData, 0, len(listingData.Children))
	for _, child := range listingData.Children {
		if child.Kind == "t4" {
			message, err := p.ParseMessage(child)
			if err != nil {
				continue
			}
			messages = append(messages, message)
		}
	}
	return messages, nil
}

// ExtractModActions extracts all ModActionData objects from a mod log listing.
func (p *Parser) ExtractModActions(listing *types.Thing) ([]*types.ModActionData, error) {
	listingData, err := p.ParseListing(listing)
	if err != nil {
		return nil, err
	}

	actions := make([]*types.ModActionData, 0, len(listingData.Children))
	for _, child := range listingData.Children {
		if child.Kind == "modaction" {
			action, err := p.ParseModAction(child)
			if err != nil {
				continue
			}
			actions = append(actions, action)
		}
	}
	return actions, nil
}

// ExtractSavedItems extracts the mixed t1/t3 children of a listing, as
// returned by saved, upvoted and overview feeds.
func (p *Parser) ExtractSavedItems(listing *types.Thing) ([]*types.SavedItem, error) {
	listingData, err := p.ParseListing(listing)
	if err != nil {
		return nil, err
	}

	items := make([]*types.SavedItem, 0, len(listingData.Children))
	for _, child := range listingData.Children {
		switch child.Kind {
		case "t1":
			comment, err := p.ParseComment(child)
			if err != nil {
				continue
			}
			items = append(items, &types.SavedItem{Comment: comment})
		case "t3":
			post, err := p.ParseLink(child)
			if err != nil {
				continue
			}
			items = append(items, &types.SavedItem{Post: post})
		}
	}
	return items, nil
}

// ExtractLiveUpdates extracts all LiveUpdateData objects from a live thread
// listing.
func (p *Parser) ExtractLiveUpdates(listing *types.Thing) ([]*types.LiveUpdateData, error) {
	listingData, err := p.ParseListing(listing)
	if err != nil {
		return nil, err
	}

	updates := make([]*types.LiveUpdateData, 0, len(listingData.Children))
	for _, child := range listingData.Children {
		if child.Kind == "LiveUpdate" {
			update, err := p.ParseLiveUpdate(child)
			if err != nil {
				continue
			}
			updates = append(updates, update)
		}
	}
	return updates, nil
}

// ExtractModerators decodes the UserList payload of about/moderators.
// The endpoint returns moderator records directly rather than wrapped Things.
func (p *Parser) ExtractModerators(thing *types.Thing) ([]*types.ModeratorData, error) {
	if err := expectKind(thing, "UserList"); err != nil {
		return nil, err
	}

	var userList struct {
		Children []*types.ModeratorData `json:"children"`
	}
	if err := json.Unmarshal(thing.Data, &userList); err != nil {
		return nil, decodeError("ExtractModerators", thing.Data, err)
	}
	return userList.Children, nil
}

// ExtractComments walks a comment listing and returns the top-level comments
// with their reply trees attached, plus the IDs of all comments hidden
// behind "more" stubs anywhere in the forest.
func (p *Parser) ExtractComments(thing *types.Thing) ([]*types.Comment, []string, error) {
	if thing == nil {
		return nil, nil, &pkgerrs.ParseError{Operation: "ExtractComments", Message: "thing is nil"}
	}

	comments := make([]*types.Comment, 0)
	moreIDs := make([]string, 0)

	// A bare t1 is treated as a single-comment forest.
	if thing.Kind == "t1" {
		comment, err := p.ParseComment(thing)
		if err != nil {
			return nil, nil, err
		}
		comments = append(comments, comment)
		moreIDs = append(moreIDs, comment.MoreChildrenIDs...)
		return comments, moreIDs, nil
	}

	if thing.Kind != "Listing" {
		return nil, nil, &pkgerrs.ParseError{Operation: "ExtractComments", Message: fmt.Sprintf("expected Listing or t1, got %s", thing.Kind)}
	}

	listingData, err := p.ParseListing(thing)
	if err != nil {
		return nil, nil, err
	}

	for _, child := range listingData.Children {
		switch child.Kind {
		case "t1":
			comment, err := p.ParseComment(child)
			if err != nil {
				continue
			}
			comments = append(comments, comment)
			moreIDs = append(moreIDs, comment.MoreChildrenIDs...)
		case "more":
			more, err := p.ParseMore(child)
			if err != nil {
				continue
			}
			moreIDs = append(moreIDs, more.Children...)
		}
	}

	return comments, moreIDs, nil
}

// ExtractPostAndComments parses the typical response from the comments
// endpoint, which contains [post_listing, comments_listing].
func (p *Parser) ExtractPostAndComments(response []*types.Thing) (*types.Post, []*types.Comment, []string, error) {
	if len(response) == 0 {
		return nil, nil, nil, &pkgerrs.ParseError{Operation: "ExtractPostAndComments", Message: "empty response"}
	}

	// Reddit can return either:
	// 1. Two listings: [post_listing, comments_listing]
	// 2. One listing with just comments (when fetching comments for a specific post)

	if len(response) >= 2 {
		// Standard format: first is post, second is comments
		var post *types.Post
		posts, err := p.ExtractPosts(response[0])
		if err == nil && len(posts) > 0 {
			post = posts[0]
		}
		// Even if post extraction fails, try to extract comments

		comments, moreIDs, err := p.ExtractComments(response[1])
		if err != nil {
			if post != nil {
				return post, nil, nil, fmt.Errorf("failed to extract comments: %w", err)
			}
			return nil, nil, nil, fmt.Errorf("failed to extract both post and comments: %w", err)
		}

		// Return whatever we successfully extracted (post might be nil)
		return post, comments, moreIDs, nil
	}

	// Single listing format: just comments, no post
	comments, moreIDs, err := p.ExtractComments(response[0])
	if err != nil {
		// Try to extract as posts instead (might be a post-only response)
		posts, postsErr := p.ExtractPosts(response[0])
		if postsErr != nil || len(posts) == 0 {
			return nil, nil, nil, fmt.Errorf("failed to extract data from single listing: %w", err)
		}
		return posts[0], nil, nil, nil
	}

	return nil, comments, moreIDs, nil
}

// CreatedThing extracts the lazy created-thing payload from a submit
// envelope.
func (p *Parser) CreatedThing(action *types.ActionResponse) (*types.ThingCreated, error) {
	if action == nil || len(action.JSON.Data) == 0 {
		return nil, &pkgerrs.ParseError{Operation: "CreatedThing", Message: "envelope has no data payload"}
	}

	var created types.ThingCreated
	if err := json.Unmarshal(action.JSON.Data, &created); err != nil {
		return nil, decodeError("CreatedThing", action.JSON.Data, err)
	}
	if created.Name == "" {
		return nil, &pkgerrs.ParseError{Operation: "CreatedThing", Message: "created payload has no fullname"}
	}
	return &created, nil
}

// CreatedComment extracts the single created comment from a comment
// envelope's things array.
func (p *Parser) CreatedComment(action *types.ActionResponse) (*types.Comment, error) {
	if action == nil || len(action.JSON.Data) == 0 {
		return nil, &pkgerrs.ParseError{Operation: "CreatedComment", Message: "envelope has no data payload"}
	}

	var created types.CreatedThings
	if err := json.Unmarshal(action.JSON.Data, &created); err != nil {
		return nil, decodeError("CreatedComment", action.JSON.Data, err)
	}
	if len(created.Things) != 1 {
		return nil, &pkgerrs.ParseError{Operation: "CreatedComment", Message: fmt.Sprintf("expected exactly one created thing, got %d", len(created.Things))}
	}

	return p.ParseComment(created.Things[0])
}

func expectKind(thing *types.Thing, kind string) error {
	if thing == nil {
		return &pkgerrs.ParseError{Operation: "Parse" + kind, Message: "thing is nil"}
	}
	if thing.Kind != kind {
		return &pkgerrs.ParseError{Operation: "Parse" + kind, Message: fmt.Sprintf("expected %s, got %s", kind, thing.Kind)}
	}
	return nil
}

func decodeError(operation string, body []byte, err error) error {
	snippet := body
	if len(snippet) > maxErrorBodyBytes {
		snippet = snippet[:maxErrorBodyBytes]
	}
	return &pkgerrs.ParseError{
		Operation: operation,
		Body:      snippet,
		Err:       err,
	}
}
