package weibo

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// createdAtLayout is the timestamp format used by the v2 API.
const createdAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

// User is the author of a status.
type User struct {
	ID              int64  `json:"id"`
	ScreenName      string `json:"screen_name"`
	ProfileImageURL string `json:"profile_image_url"`
	AvatarLarge     string `json:"avatar_large"`
	VerifiedType    int    `json:"verified_type"`
	MBRank          int    `json:"mbrank"`
}

// Picture is one attached image.
type Picture struct {
	ThumbnailPic string `json:"thumbnail_pic"`
}

// LargeURL returns the full-size variant of the thumbnail.
func (p Picture) LargeURL() string {
	return strings.Replace(p.ThumbnailPic, "/thumbnail/", "/large/", 1)
}

// Status is a timeline item.
type Status struct {
	ID              int64     `json:"id"`
	Text            string    `json:"text"`
	CreatedAt       string    `json:"created_at"`
	Source          string    `json:"source"`
	User            *User     `json:"user"`
	RetweetedStatus *Status   `json:"retweeted_status"`
	PicURLs         []Picture `json:"pic_urls"`
	RepostsCount    int       `json:"reposts_count"`
	CommentsCount   int       `json:"comments_count"`
	AttitudesCount  int       `json:"attitudes_count"`
}

// ParseStatus maps a raw status object onto a Status.
func ParseStatus(d Dict) (*Status, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode status: %w", err)
	}
	return DecodeStatus(b)
}

// DecodeStatus decodes a raw status JSON document.
func DecodeStatus(raw []byte) (*Status, error) {
	var s Status
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &s, nil
}

// Created parses CreatedAt. The zero time is returned when it is malformed.
func (s *Status) Created() time.Time {
	t, err := time.Parse(createdAtLayout, s.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ScreenName returns the author's screen name, or "" when the user is missing.
func (s *Status) ScreenName() string {
	if s.User == nil {
		return ""
	}
	return s.User.ScreenName
}
