package types

// ModActionType names a moderation log action, e.g. "removelink". The set is
// open; Reddit adds actions without notice, so unrecognized values pass
// through unchanged.
type ModActionType string

// Common moderation log actions.
const (
	ModActionBanUser               ModActionType = "banuser"
	ModActionUnbanUser             ModActionType = "unbanuser"
	ModActionRemoveLink            ModActionType = "removelink"
	ModActionApproveLink           ModActionType = "approvelink"
	ModActionRemoveComment         ModActionType = "removecomment"
	ModActionApproveComment        ModActionType = "approvecomment"
	ModActionSpamLink              ModActionType = "spamlink"
	ModActionSpamComment           ModActionType = "spamcomment"
	ModActionDistinguish           ModActionType = "distinguish"
	ModActionSticky                ModActionType = "sticky"
	ModActionEditFlair             ModActionType = "editflair"
	ModActionLock                  ModActionType = "lock"
	ModActionUnlock                ModActionType = "unlock"
	ModActionMuteUser              ModActionType = "muteuser"
	ModActionUnmuteUser            ModActionType = "unmuteuser"
	ModActionInviteModerator       ModActionType = "invitemoderator"
	ModActionAcceptModeratorInvite ModActionType = "acceptmoderatorinvite"
	ModActionWikiRevise            ModActionType = "wikirevise"
)

// ModActionData describes one entry of a subreddit moderation log (kind
// modaction).
type ModActionData struct {
	ID              string        `json:"id"`
	Action          ModActionType `json:"action"`
	CreatedUTC      float64       `json:"created_utc"`
	Details         *string       `json:"details"`
	Moderator       string        `json:"mod"`
	ModID36         string        `json:"mod_id36"`
	Subreddit       string        `json:"subreddit"`
	TargetAuthor    string        `json:"target_author"`
	TargetBody      *string       `json:"target_body"`
	TargetFullname  *string       `json:"target_fullname"`
	TargetPermalink *string       `json:"target_permalink"`
	TargetTitle     *string       `json:"target_title"`
}

// ModeratorData describes one moderator of a subreddit.
type ModeratorData struct {
	ID              string   `json:"id"` // Account fullname, e.g. "t2_abc123"
	Name            string   `json:"name"`
	AuthorFlairText *string  `json:"author_flair_text"`
	ModPermissions  []string `json:"mod_permissions"`
}

// RemovalReason is one configured removal message of a subreddit.
type RemovalReason struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// RemovalReasons holds a subreddit's removal reasons along with their
// display order.
type RemovalReasons struct {
	Data  map[string]RemovalReason `json:"data"`
	Order []string                 `json:"order"`
}

// FlairChoice is one selectable flair template.
type FlairChoice struct {
	FlairCSSClass     string `json:"flair_css_class"`
	FlairPosition     string `json:"flair_position"`
	FlairTemplateID   string `json:"flair_template_id"`
	FlairText         string `json:"flair_text"`
	FlairTextEditable bool   `json:"flair_text_editable"`
}

// FlairCurrentChoice is the flair currently applied to the selector's target.
type FlairCurrentChoice struct {
	FlairCSSClass   *string `json:"flair_css_class"`
	FlairPosition   string  `json:"flair_position"`
	FlairTemplateID *string `json:"flair_template_id"`
	FlairText       *string `json:"flair_text"`
}

// FlairSelection is the flairselector response: the available templates and
// the current choice.
type FlairSelection struct {
	Choices []FlairChoice      `json:"choices"`
	Current FlairCurrentChoice `json:"current"`
}
