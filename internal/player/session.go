// Package player implements the ephemeral story playback engine: an
// auto-advancing slideshow over the stories attached to a card, driven by
// a cancellable 50ms clock with manual navigation layered on top.
package player

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"
	"github.com/tapcard/story-engine/internal/domain"
	"github.com/tapcard/story-engine/internal/repositories/story"
	"github.com/tapcard/story-engine/pkg/logger"
	"github.com/tapcard/story-engine/pkg/whatsapp"
)

// State enumerates the playback clock's states.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateAdvancing
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateAdvancing:
		return "advancing"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Opts configures a playback session. Either Items (used verbatim, caller
// pre-filters) or CardID (fetched through Repo) supplies the content.
type Opts struct {
	CardID        string
	Items         []domain.StoryItem
	OwnerName     string
	OwnerPhotoURL string
	ContactPhone  string
	AutoStart     bool

	// OnClose, when set, replaces the loop-to-first termination policy:
	// finishing the last item invokes it exactly once and ends the session.
	OnClose func()

	Repo     story.Repository
	Recorder Recorder
	Logger   logger.Logger
	Clock    clockwork.Clock
	Tick     time.Duration
}

// Session owns the playback state for one mounted story viewer. All fields
// are guarded by mu; no two sessions ever share state. Items are fixed
// after Load, only the cursor and progress move.
type Session struct {
	opts  Opts
	clock clockwork.Clock
	tick  time.Duration
	log   logger.Logger

	mu        sync.Mutex
	items     []domain.StoryItem
	idx       int
	progress  float64
	state     State
	muted     bool
	itemStart time.Time
	running   bool
	closed    bool

	done chan struct{}
}

func NewSession(opts Opts) *Session {
	clk := opts.Clock
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = TickInterval
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	return &Session{
		opts:  opts,
		clock: clk,
		tick:  tick,
		log:   log,
		state: StateIdle,
		muted: true,
		done:  make(chan struct{}),
	}
}

// Load resolves the final item list, once. A fetch error degrades to an
// empty list: the viewer shows nothing rather than an error. Results
// arriving after Close are discarded.
func (s *Session) Load(ctx context.Context) {
	items := s.resolve(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.items = items
	if len(items) == 0 {
		s.state = StateIdle
		s.mu.Unlock()
		return
	}

	s.idx = 0
	s.progress = 0
	s.itemStart = s.clock.Now()
	if s.opts.AutoStart {
		s.state = StatePlaying
	} else {
		s.state = StatePaused
	}
	first := items[0].ID
	s.mu.Unlock()

	// The initial index counts as a view.
	s.record(first)
}

func (s *Session) resolve(ctx context.Context) []domain.StoryItem {
	// Override path: the caller owns filtering.
	if s.opts.Items != nil {
		return s.opts.Items
	}
	if s.opts.Repo == nil {
		return nil
	}

	items, err := s.opts.Repo.ListActiveByCard(ctx, s.opts.CardID, MaxItems)
	if err != nil {
		s.log.Error("Failed to load stories for card", "card_id", s.opts.CardID, "error", err)
		return nil
	}

	now := s.clock.Now()
	return lo.Filter(items, func(it domain.StoryItem, _ int) bool {
		return !it.Expired(now)
	})
}

// Start spawns the tick loop. A session with no items never starts one.
func (s *Session) Start() {
	s.mu.Lock()
	if s.closed || s.running || len(s.items) == 0 {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	go s.run()
}

func (s *Session) run() {
	ticker := s.clock.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.Chan():
			s.step()
		}
	}
}

// step is one clock tick: recompute progress from the item baseline and
// advance when the item's duration has fully elapsed.
func (s *Session) step() {
	s.mu.Lock()
	if s.closed || s.state != StatePlaying {
		s.mu.Unlock()
		return
	}

	d := Duration(s.items[s.idx].ContentType)
	elapsed := s.clock.Now().Sub(s.itemStart)
	p := float64(elapsed) / float64(d)
	if p < 1 {
		if p > s.progress {
			s.progress = p
		}
		s.mu.Unlock()
		return
	}

	s.progress = 1
	id, closeCb := s.advanceLocked()
	s.mu.Unlock()

	s.finishTransition(id, closeCb)
}

// advanceLocked moves the cursor forward, applying the termination policy
// at the last item. Returns the story to account for, or the close
// callback when the session terminated. Callers hold mu.
func (s *Session) advanceLocked() (string, func()) {
	resume := s.state
	if resume != StatePaused {
		resume = StatePlaying
	}
	s.state = StateAdvancing

	if s.idx == len(s.items)-1 {
		if s.opts.OnClose != nil {
			cb := s.opts.OnClose
			s.closeLocked()
			return "", cb
		}
		s.idx = 0 // loop back around
	} else {
		s.idx++
	}

	s.progress = 0
	s.itemStart = s.clock.Now()
	s.state = resume
	return s.items[s.idx].ID, nil
}

func (s *Session) finishTransition(id string, closeCb func()) {
	if closeCb != nil {
		closeCb()
		return
	}
	if id != "" {
		s.record(id)
	}
}

// Next advances manually. At the last item it follows the same termination
// policy as the clock.
func (s *Session) Next() {
	s.mu.Lock()
	if s.closed || len(s.items) == 0 {
		s.mu.Unlock()
		return
	}
	id, closeCb := s.advanceLocked()
	s.mu.Unlock()

	s.finishTransition(id, closeCb)
}

// Prev steps back one item. No wraparound: a no-op at index 0.
func (s *Session) Prev() {
	s.mu.Lock()
	if s.closed || len(s.items) == 0 || s.idx == 0 {
		s.mu.Unlock()
		return
	}
	s.idx--
	s.progress = 0
	s.itemStart = s.clock.Now()
	id := s.items[s.idx].ID
	s.mu.Unlock()

	s.record(id)
}

// Tap maps a viewport tap to navigation: left third is previous, right
// third is next, the middle toggles pause.
func (s *Session) Tap(x, width float64) {
	if width <= 0 {
		return
	}
	switch {
	case x < width/3:
		s.Prev()
	case x > 2*width/3:
		s.Next()
	default:
		s.TogglePlay()
	}
}

func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StatePlaying {
		s.state = StatePaused
	}
}

// Resume rebases the item baseline so paused time does not count toward
// the item's duration.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePaused {
		return
	}
	d := Duration(s.items[s.idx].ContentType)
	s.itemStart = s.clock.Now().Add(-time.Duration(s.progress * float64(d)))
	s.state = StatePlaying
}

func (s *Session) TogglePlay() {
	s.mu.Lock()
	playing := s.state == StatePlaying
	s.mu.Unlock()

	if playing {
		s.Pause()
	} else {
		s.Resume()
	}
}

// ToggleMute flips audio for video items. Never touches the cursor or
// progress.
func (s *Session) ToggleMute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = !s.muted
}

// Close cancels the tick synchronously. No state mutation or accounting
// happens afterwards; it does not invoke OnClose (that is reserved for
// playback reaching the end).
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	s.state = StateTerminated
	close(s.done)
}

func (s *Session) record(id string) {
	if s.opts.Recorder == nil {
		return
	}
	s.opts.Recorder.Record(id)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx
}

func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

func (s *Session) IsMuted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// CurrentItem returns the item under the cursor, if any.
func (s *Session) CurrentItem() (domain.StoryItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return domain.StoryItem{}, false
	}
	return s.items[s.idx], true
}

// ReplyLink builds the WhatsApp deep link for replying to the card owner.
// Pure string construction, meant for the explicit reply tap; empty when
// the owner has no contact number.
func (s *Session) ReplyLink() string {
	if s.opts.ContactPhone == "" {
		return ""
	}
	return whatsapp.ReplyLink(s.opts.ContactPhone, s.opts.OwnerName)
}

// View is a consistent snapshot of what the viewer should show.
type View struct {
	Frame      Frame   `json:"frame"`
	Index      int     `json:"index"`
	Count      int     `json:"count"`
	Progress   float64 `json:"progress"`
	Playing    bool    `json:"playing"`
	Muted      bool    `json:"muted"`
	OwnerName  string  `json:"ownerName,omitempty"`
	OwnerPhoto string  `json:"ownerPhoto,omitempty"`
}

// View renders the current item with the session's mute flag applied.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Index:      s.idx,
		Count:      len(s.items),
		Progress:   s.progress,
		Playing:    s.state == StatePlaying,
		Muted:      s.muted,
		OwnerName:  s.opts.OwnerName,
		OwnerPhoto: s.opts.OwnerPhotoURL,
	}
	if len(s.items) == 0 {
		v.Frame = Frame{Kind: FrameEmpty}
		return v
	}

	v.Frame = Render(s.items[s.idx])
	if v.Frame.Kind == FrameVideo {
		v.Frame.Muted = s.muted
	}
	return v
}
