package domain

import (
	"errors"
	"fmt"
	"time"
)

// ContentType discriminates which payload fields of a StoryItem are
// meaningful. The set is closed: the duration policy and the frame
// renderer switch over it exhaustively.
type ContentType string

const (
	TypeImage ContentType = "image"
	TypeVideo ContentType = "video"
	TypeText  ContentType = "text"
)

func (t ContentType) String() string {
	return string(t)
}

// ParseContentType validates a raw content type string (e.g. a database
// column value).
func ParseContentType(raw string) (ContentType, error) {
	switch ContentType(raw) {
	case TypeImage, TypeVideo, TypeText:
		return ContentType(raw), nil
	}
	return "", fmt.Errorf("unknown content type %q", raw)
}

// DefaultTextBackground is used when a text story carries no background color.
const DefaultTextBackground = "#1F2937"

var ErrMissingPayload = errors.New("story item missing payload for its content type")

// StoryItem is a single ephemeral content unit attached to a card profile.
// Immutable once fetched; only the field matching ContentType is meaningful,
// extra fields are ignored even if populated.
type StoryItem struct {
	ID                  string
	CardID              string
	ContentType         ContentType
	ImageURL            string
	VideoURL            string
	TextContent         string
	TextBackgroundColor string
	IsActive            bool
	ViewCount           int
	CreatedAt           time.Time
	ExpiresAt           time.Time
}

// Validate reports whether the payload field required by ContentType is
// present. A malformed item is still advanced past on schedule, it just
// renders as an empty frame.
func (s StoryItem) Validate() error {
	switch s.ContentType {
	case TypeImage:
		if s.ImageURL == "" {
			return ErrMissingPayload
		}
	case TypeVideo:
		if s.VideoURL == "" {
			return ErrMissingPayload
		}
	case TypeText:
		if s.TextContent == "" {
			return ErrMissingPayload
		}
	default:
		return fmt.Errorf("unknown content type %q", s.ContentType)
	}
	return nil
}

// Expired reports whether the item is past its expiry at the given instant.
func (s StoryItem) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
