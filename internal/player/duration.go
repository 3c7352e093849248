package player

import (
	"time"

	"github.com/tapcard/story-engine/internal/domain"
)

const (
	// TickInterval is how often the playback clock recomputes progress.
	TickInterval = 50 * time.Millisecond

	// VideoDuration is a fixed ceiling, not the media's real length. The
	// clock advances on wall time so a stalled or buffering video can
	// never freeze the sequence.
	VideoDuration = 15 * time.Second
	ImageDuration = 5 * time.Second
	TextDuration  = 5 * time.Second

	// MaxItems caps how many stories a session fetches for a card.
	MaxItems = 10
)

// Duration returns the display time for a content type. Re-evaluated on
// every index change since items in one session may mix types. Unknown
// types fall back to the image duration so a bad row still advances on
// schedule.
func Duration(t domain.ContentType) time.Duration {
	switch t {
	case domain.TypeVideo:
		return VideoDuration
	case domain.TypeText:
		return TextDuration
	case domain.TypeImage:
		return ImageDuration
	default:
		return ImageDuration
	}
}
