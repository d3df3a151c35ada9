package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner renders an indeterminate progress line until stopped.
type Spinner struct {
	mu      sync.Mutex
	w       io.Writer
	message string
	value   int
	started time.Time

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func NewSpinner(w io.Writer, message string) *Spinner {
	s := &Spinner{
		w:       w,
		message: strings.TrimSpace(message),
		started: time.Now(),
		done:    make(chan struct{}),
	}
	// hide cursor
	fmt.Fprint(w, "\033[?25l")
	s.render()

	s.wg.Add(1)
	go s.start()
	return s
}

func (s *Spinner) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	if s.message != "" {
		sb.WriteString(s.message)
		sb.WriteString(" ")
	}
	sb.WriteString(frames[s.value])
	fmt.Fprintf(&sb, " %s", time.Since(s.started).Round(time.Second))
	return sb.String()
}

func (s *Spinner) render() {
	fmt.Fprint(s.w, "\r\033[2K", s.String())
}

func (s *Spinner) start() {
	defer s.wg.Done()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.value = (s.value + 1) % len(frames)
			s.mu.Unlock()
			s.render()
		}
	}
}

// Stop clears the spinner line and restores the cursor. It is safe to call
// more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.done)
		s.wg.Wait()
		// clear line, show cursor
		fmt.Fprint(s.w, "\r\033[2K", "\033[?25h")
	})
}
