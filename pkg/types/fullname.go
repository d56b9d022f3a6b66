package types

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind prefixes used in fullnames.
const (
	KindComment   = "t1"
	KindAccount   = "t2"
	KindLink      = "t3"
	KindMessage   = "t4"
	KindSubreddit = "t5"
	KindAward     = "t6"
)

// Fullname identifies a Reddit object as "<kind>_<base36 id>", e.g.
// "t3_abc123". Listing pagination tokens and most form parameters use this
// form.
type Fullname string

// NewFullname builds a fullname from a kind prefix and a bare ID.
func NewFullname(kind, id string) Fullname {
	return Fullname(kind + "_" + id)
}

// ParseFullname validates s and returns it as a Fullname.
func ParseFullname(s string) (Fullname, error) {
	f := Fullname(s)
	if err := f.Validate(); err != nil {
		return "", err
	}
	return f, nil
}

// FullnameFromPermalink extracts the link fullname from a comments-page URL
// such as "https://www.reddit.com/r/golang/comments/abc123/some_title/".
// Relative permalinks as returned in Post.Permalink work too.
func FullnameFromPermalink(permalink string) (Fullname, error) {
	u, err := url.Parse(permalink)
	if err != nil {
		return "", fmt.Errorf("invalid permalink %q: %w", permalink, err)
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if seg == "comments" && i+1 < len(segments) {
			return ParseFullname(KindLink + "_" + segments[i+1])
		}
	}
	return "", fmt.Errorf("permalink %q has no comments segment", permalink)
}

// String returns the fullname as a plain string.
func (f Fullname) String() string {
	return string(f)
}

// Kind returns the kind prefix, e.g. "t3", or "" if the fullname is malformed.
func (f Fullname) Kind() string {
	kind, _, ok := strings.Cut(string(f), "_")
	if !ok {
		return ""
	}
	return kind
}

// ID returns the bare base36 ID, or "" if the fullname is malformed.
func (f Fullname) ID() string {
	_, id, ok := strings.Cut(string(f), "_")
	if !ok {
		return ""
	}
	return id
}

// Validate checks the "<kind>_<base36>" shape with a known kind prefix.
func (f Fullname) Validate() error {
	kind, id, ok := strings.Cut(string(f), "_")
	if !ok {
		return fmt.Errorf("fullname %q missing '_' separator", string(f))
	}
	switch kind {
	case KindComment, KindAccount, KindLink, KindMessage, KindSubreddit, KindAward:
	default:
		return fmt.Errorf("fullname %q has unknown kind %q", string(f), kind)
	}
	if id == "" {
		return fmt.Errorf("fullname %q has empty id", string(f))
	}
	for _, r := range id {
		if (r < '0' || r > '9') && (r < 'a' || r > 'z') {
			return fmt.Errorf("fullname %q id is not base36", string(f))
		}
	}
	return nil
}
