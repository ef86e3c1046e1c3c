package models

import (
	"net/url"
	"strings"
)

// IsURLLike reports whether v parses as an absolute http or https URL.
func IsURLLike(v string) bool {
	u, err := url.Parse(strings.TrimSpace(v))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsBlankish reports whether a cell carries no displayable value.
func IsBlankish(v string) bool {
	t := strings.TrimSpace(v)
	if t == "" || t == "-" || t == "—" {
		return true
	}
	l := strings.ToLower(t)
	return l == "n/a" || l == "na"
}

// NormalizeImageURL turns common share links into direct image URLs.
// Google Drive file links become uc?export=view links and Dropbox links get raw=1.
// Anything else is returned trimmed and unchanged.
func NormalizeImageURL(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}

	switch {
	case strings.Contains(u.Host, "drive.google.com"):
		id := ""
		if rest, ok := strings.CutPrefix(u.Path, "/file/d/"); ok {
			id, _, _ = strings.Cut(rest, "/")
		}
		if id == "" {
			id = u.Query().Get("id")
		}
		if id != "" {
			return "https://drive.google.com/uc?export=view&id=" + id
		}
	case strings.Contains(u.Host, "dropbox.com"):
		q := u.Query()
		q.Del("dl")
		q.Set("raw", "1")
		u.RawQuery = q.Encode()
		return u.String()
	}
	return s
}
