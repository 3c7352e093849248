package player

import (
	"github.com/tapcard/story-engine/internal/domain"
)

// FrameKind tags the variant a Frame carries.
type FrameKind string

const (
	FrameEmpty FrameKind = "empty"
	FrameImage FrameKind = "image"
	FrameVideo FrameKind = "video"
	FrameText  FrameKind = "text"
)

// Frame is the view model for one story item. Rendering is a pure function
// of the item: the clock and navigation never look inside it, so adding a
// content variant only touches Render and the duration policy.
type Frame struct {
	Kind       FrameKind `json:"kind"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	VideoURL   string    `json:"videoUrl,omitempty"`
	Text       string    `json:"text,omitempty"`
	Background string    `json:"background,omitempty"`
	Autoplay   bool      `json:"autoplay,omitempty"`
	Loop       bool      `json:"loop,omitempty"`
	Muted      bool      `json:"muted,omitempty"`
}

// Render maps a story item to its frame. Malformed items (payload missing
// for their type) render as an empty frame rather than failing: the clock
// still advances past them on schedule.
func Render(item domain.StoryItem) Frame {
	if err := item.Validate(); err != nil {
		return Frame{Kind: FrameEmpty}
	}

	switch item.ContentType {
	case domain.TypeImage:
		return Frame{Kind: FrameImage, ImageURL: item.ImageURL}
	case domain.TypeVideo:
		// Videos start muted so browser autoplay policies allow them.
		return Frame{Kind: FrameVideo, VideoURL: item.VideoURL, Autoplay: true, Loop: true, Muted: true}
	case domain.TypeText:
		bg := item.TextBackgroundColor
		if bg == "" {
			bg = domain.DefaultTextBackground
		}
		return Frame{Kind: FrameText, Text: item.TextContent, Background: bg}
	default:
		return Frame{Kind: FrameEmpty}
	}
}
