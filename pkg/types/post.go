package types

import (
	"encoding/json"
	"fmt"
)

// MaxPostTitleLength is the longest title Reddit accepts on submission.
const MaxPostTitleLength = 300

// Post represents a Reddit post (a "link", kind t3) with all its fields.
type Post struct {
	ThingData
	Votable
	Created
	Author                string          `json:"author"`
	AuthorFlairCSSClass   *string         `json:"author_flair_css_class"`
	AuthorFlairText       *string         `json:"author_flair_text"`
	Archived              bool            `json:"archived"`
	CanModPost            bool            `json:"can_mod_post"`
	Clicked               bool            `json:"clicked"`
	Domain                string          `json:"domain"`
	GalleryData           *GalleryData    `json:"gallery_data"`
	Hidden                bool            `json:"hidden"`
	IsGallery             bool            `json:"is_gallery"`
	IsSelf                bool            `json:"is_self"`
	IsVideo               bool            `json:"is_video"`
	LinkFlairCSSClass     *string         `json:"link_flair_css_class"`
	LinkFlairTemplateID   *string         `json:"link_flair_template_id"`
	LinkFlairText         *string         `json:"link_flair_text"`
	Locked                bool            `json:"locked"`
	Media                 json.RawMessage `json:"media"`
	MediaEmbed            json.RawMessage `json:"media_embed"`
	MediaMetadata         MediaMetadata   `json:"media_metadata"`
	NumComments           int             `json:"num_comments"`
	Over18                bool            `json:"over_18"`
	Permalink             string          `json:"permalink"`
	Preview               *Preview        `json:"preview"`
	Quarantine            bool            `json:"quarantine"`
	Saved                 bool            `json:"saved"`
	Score                 int             `json:"score"`
	SelfText              string          `json:"selftext"`
	SelfTextHTML          *string         `json:"selftext_html"`
	Spoiler               bool            `json:"spoiler"`
	Stickied              bool            `json:"stickied"`
	Subreddit             string          `json:"subreddit"`
	SubredditID           string          `json:"subreddit_id"`
	SubredditNamePrefixed string          `json:"subreddit_name_prefixed"`
	SuggestedSort         *string         `json:"suggested_sort"`
	Thumbnail             string          `json:"thumbnail"`
	Title                 string          `json:"title"`
	UpvoteRatio           float64         `json:"upvote_ratio"`
	URL                   string          `json:"url"`
	Visited               bool            `json:"visited"`
	Edited                Edited          `json:"edited"` // Can be a boolean or a float64 timestamp
	Distinguished         Distinguished   `json:"distinguished"`

	// Moderation holds the moderator-only fields. It is populated only when
	// the authenticated user can moderate the post (can_mod_post), nil
	// otherwise.
	Moderation *PostModeration `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler. The moderator-only fields share
// the post object on the wire; they are split into Moderation when
// can_mod_post indicates they are meaningful.
func (p *Post) UnmarshalJSON(data []byte) error {
	type plain Post
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}
	if p.CanModPost {
		var mod PostModeration
		if err := json.Unmarshal(data, &mod); err != nil {
			return fmt.Errorf("moderation fields: %w", err)
		}
		p.Moderation = &mod
	}
	return nil
}

// PostModeration carries the moderator-only fields of a post.
type PostModeration struct {
	Approved          *bool           `json:"approved"`
	ApprovedAtUTC     *float64        `json:"approved_at_utc"`
	ApprovedBy        *string         `json:"approved_by"`
	BanNote           *string         `json:"ban_note"`
	BannedAtUTC       *float64        `json:"banned_at_utc"`
	BannedBy          *string         `json:"banned_by"`
	IgnoreReports     *bool           `json:"ignore_reports"`
	ModNote           *string         `json:"mod_note"`
	ModReasonBy       *string         `json:"mod_reason_by"`
	ModReasonTitle    *string         `json:"mod_reason_title"`
	ModReports        json.RawMessage `json:"mod_reports"`
	NumReports        *int            `json:"num_reports"`
	RemovalReason     *string         `json:"removal_reason"`
	Removed           *bool           `json:"removed"`
	RemovedBy         *string         `json:"removed_by"`
	RemovedByCategory *string         `json:"removed_by_category"`
	Spam              *bool           `json:"spam"`
	UserReports       json.RawMessage `json:"user_reports"`
}

// Preview holds the preview renditions Reddit generates for a post.
type Preview struct {
	Images  []PreviewImage `json:"images"`
	Enabled bool           `json:"enabled"`
}

// PreviewImage is one previewed asset with its scaled resolutions.
type PreviewImage struct {
	Source      ImageSource   `json:"source"`
	Resolutions []ImageSource `json:"resolutions"`
	ID          string        `json:"id"`
}

// ImageSource locates one rendition of a preview image.
type ImageSource struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// GalleryData lists the items of a gallery post in display order. The item
// metadata lives in the post's MediaMetadata, keyed by MediaID.
type GalleryData struct {
	Items []GalleryItem `json:"items"`
}

// GalleryItem is one entry of a gallery post.
type GalleryItem struct {
	Caption *string `json:"caption"`
	ID      int64   `json:"id"`
	MediaID string  `json:"media_id"`
}

// MediaMetadata maps media asset IDs to their metadata entries.
type MediaMetadata map[string]MediaMetadataEntry

// MediaMetadataEntry is a tagged union over the "e" field. Image and Video
// are set for the known tags; unknown tags keep the raw payload in Raw
// rather than failing the decode.
type MediaMetadataEntry struct {
	Type  string
	Image *ImageMetadata
	Video *RedditVideoMetadata
	Raw   json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler, dispatching on the "e" tag.
func (m *MediaMetadataEntry) UnmarshalJSON(data []byte) error {
	var tag struct {
		E string `json:"e"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("media metadata tag: %w", err)
	}
	m.Type = tag.E
	switch tag.E {
	case "Image":
		var img ImageMetadata
		if err := json.Unmarshal(data, &img); err != nil {
			return fmt.Errorf("media metadata image: %w", err)
		}
		m.Image = &img
	case "RedditVideo":
		var vid RedditVideoMetadata
		if err := json.Unmarshal(data, &vid); err != nil {
			return fmt.Errorf("media metadata video: %w", err)
		}
		m.Video = &vid
	default:
		m.Raw = append([]byte(nil), data...)
	}
	return nil
}

// ImageMetadata describes an image asset from media_metadata.
type ImageMetadata struct {
	ID     string     `json:"id"`
	Mime   string     `json:"m"`
	Source ImageAsset `json:"s"`
}

// ImageAsset locates one image rendition inside media_metadata.
type ImageAsset struct {
	URL    string `json:"u"`
	Width  int    `json:"x"`
	Height int    `json:"y"`
}

// RedditVideoMetadata describes a hosted video asset from media_metadata.
type RedditVideoMetadata struct {
	ID      string `json:"id"`
	IsGif   bool   `json:"isGif"`
	Status  string `json:"status"`
	Width   int    `json:"x"`
	Height  int    `json:"y"`
	DashURL string `json:"dashUrl"`
	HLSURL  string `json:"hlsUrl"`
}
