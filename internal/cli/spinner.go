package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/dijkstraviz/pkg/graph"
	"github.com/matzehuels/dijkstraviz/pkg/session"
	"github.com/matzehuels/dijkstraviz/pkg/state"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinOut receives spinner frames. Tests swap it for a buffer.
var spinOut io.Writer = os.Stderr

// spinner animates a single progress line until it is stopped or its context
// ends. A status func, when set, is polled on every frame and appended to the
// message, which is how the replay shows settled and queued counts.
type spinner struct {
	message string
	status  func() string

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu    sync.Mutex
	width int // visible width of the last frame, cleared on stop
}

func newSpinner(ctx context.Context, message string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &spinner{
		message: message,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// withStatus sets the live status poll. Call before Start.
func (s *spinner) withStatus(fn func() string) *spinner {
	s.status = fn
	return s
}

func (s *spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *spinner) draw(frame string) {
	text := s.message
	if s.status != nil {
		text += " " + s.status()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pad := max(s.width-len([]rune(text)), 0)
	fmt.Fprintf(spinOut, "\r%s %s%s", styleIconSpinner.Render(frame), styleDim.Render(text), strings.Repeat(" ", pad))
	s.width = len([]rune(text))
}

// Stop halts the animation and clears the line. Safe to call more than once.
func (s *spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.width > 0 {
			fmt.Fprintf(spinOut, "\r%s\r", strings.Repeat(" ", s.width+2))
		}
	})
}

func (s *spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

func (s *spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// replayStatus describes how far a replay has got, e.g. "12 settled · 40 queued".
func replayStatus(s *session.Session) string {
	info := s.Info()
	var settled int
	s.View(func(_ *graph.Graph, st *state.State, _ session.Selection) {
		settled = st.VisitedCount()
	})
	text := fmt.Sprintf("%d settled", settled)
	if info.Backlog > 0 {
		text += fmt.Sprintf(" · %d queued", info.Backlog)
	}
	return text
}
