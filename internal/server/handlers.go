package server

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tapcard/story-engine/internal/player"
	"github.com/tapcard/story-engine/pkg/formatter"
	"github.com/tapcard/story-engine/pkg/whatsapp"
)

type feedItem struct {
	ID        string       `json:"id"`
	Frame     player.Frame `json:"frame"`
	Duration  int64        `json:"durationMs"`
	PostedAgo string       `json:"postedAgo"`
	Views     string       `json:"views"`
}

// handleCardStories serves the playable feed for a card: active,
// non-expired stories, newest first, frames pre-rendered for the client.
func (s *Server) handleCardStories(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardID")

	limit := s.cfg.Player.MaxStories
	if limit <= 0 {
		limit = player.MaxItems
	}

	items, err := s.storyRepo.ListActiveByCard(r.Context(), cardID, limit)
	if err != nil {
		s.logger.Error("Failed to list stories for card", "card_id", cardID, "error", err)
		// Degrade to an empty feed: the viewer shows nothing, not an error.
		writeJSON(w, http.StatusOK, []feedItem{})
		return
	}

	now := time.Now()
	feed := make([]feedItem, 0, len(items))
	for _, item := range items {
		feed = append(feed, feedItem{
			ID:        item.ID,
			Frame:     player.Render(item),
			Duration:  player.Duration(item.ContentType).Milliseconds(),
			PostedAgo: formatter.TimeAgo(item.CreatedAt, now),
			Views:     formatter.FormatNumber(item.ViewCount),
		})
	}

	writeJSON(w, http.StatusOK, feed)
}

// handleStoryView records a view. Best effort and advisory: the increment
// runs on the accountant's pool and the response never waits for it.
func (s *Server) handleStoryView(w http.ResponseWriter, r *http.Request) {
	storyID := chi.URLParam(r, "storyID")
	if storyID == "" {
		http.Error(w, "missing story id", http.StatusBadRequest)
		return
	}

	if !s.limiter.Allow(viewerKey(r)) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	s.accountant.Record(storyID)
	w.WriteHeader(http.StatusAccepted)
}

// handleReplyLink builds the WhatsApp deep link for replying to a card
// owner. Pure string construction; the client opens the URL itself.
func (s *Server) handleReplyLink(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	name := r.URL.Query().Get("name")
	if phone == "" || name == "" {
		http.Error(w, "phone and name are required", http.StatusBadRequest)
		return
	}

	link := whatsapp.ReplyLinkWithGreeting(phone, fmt.Sprintf(s.cfg.Reply.Greeting, name))
	writeJSON(w, http.StatusOK, map[string]string{"url": link})
}

func viewerKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
