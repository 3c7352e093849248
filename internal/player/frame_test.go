package player

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tapcard/story-engine/internal/domain"
)

func TestRender_Image(t *testing.T) {
	f := Render(domain.StoryItem{ContentType: domain.TypeImage, ImageURL: "https://cdn.example.com/a.jpg"})
	require.Equal(t, FrameImage, f.Kind)
	require.Equal(t, "https://cdn.example.com/a.jpg", f.ImageURL)
}

func TestRender_Video(t *testing.T) {
	f := Render(domain.StoryItem{ContentType: domain.TypeVideo, VideoURL: "https://cdn.example.com/a.mp4"})
	require.Equal(t, FrameVideo, f.Kind)
	require.True(t, f.Autoplay)
	require.True(t, f.Loop)
	require.True(t, f.Muted, "videos start muted for autoplay policies")
}

func TestRender_Text(t *testing.T) {
	f := Render(domain.StoryItem{ContentType: domain.TypeText, TextContent: "hey", TextBackgroundColor: "#FF0000"})
	require.Equal(t, FrameText, f.Kind)
	require.Equal(t, "hey", f.Text)
	require.Equal(t, "#FF0000", f.Background)
}

func TestRender_TextDefaultBackground(t *testing.T) {
	f := Render(domain.StoryItem{ContentType: domain.TypeText, TextContent: "hey"})
	require.Equal(t, domain.DefaultTextBackground, f.Background)
}

func TestRender_MalformedItemYieldsEmptyFrame(t *testing.T) {
	// An image story with no URL renders nothing rather than failing.
	f := Render(domain.StoryItem{ContentType: domain.TypeImage})
	require.Equal(t, FrameEmpty, f.Kind)

	f = Render(domain.StoryItem{ContentType: domain.ContentType("gif"), ImageURL: "x"})
	require.Equal(t, FrameEmpty, f.Kind)
}
