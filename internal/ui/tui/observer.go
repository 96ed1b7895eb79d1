package tui

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/blueprints/pkg/blueprint"
)

// Observer turns deployment events into TUI messages. It also serves as a
// log writer so standard log output ends up in the view instead of on the
// terminal the view draws on.
type Observer struct {
	sink *sink
}

// sink is shared by every Observer derived with WithFields.
type sink struct {
	mu     sync.Mutex
	ch     chan tea.Msg
	closed bool
}

var _ blueprint.Observer = (*Observer)(nil)

// NewObserver creates an observer buffering up to size messages.
func NewObserver(size int) *Observer {
	return &Observer{sink: &sink{ch: make(chan tea.Msg, size)}}
}

// Messages returns the channel the messages are delivered on. It is closed
// by Close.
func (o *Observer) Messages() <-chan tea.Msg {
	return o.sink.ch
}

// Close closes the message channel. Later events are dropped.
func (o *Observer) Close() {
	o.sink.mu.Lock()
	defer o.sink.mu.Unlock()
	if !o.sink.closed {
		o.sink.closed = true
		close(o.sink.ch)
	}
}

func (o *Observer) send(msg tea.Msg) {
	o.sink.mu.Lock()
	defer o.sink.mu.Unlock()
	if o.sink.closed {
		return
	}
	o.sink.ch <- msg
}

// Printf implements blueprint.Observer.
func (o *Observer) Printf(format string, v ...any) {
	o.send(LogMsg{Line: fmt.Sprintf(format, v...)})
}

// Write implements io.Writer, one LogMsg per line.
func (o *Observer) Write(p []byte) (int, error) {
	for line := range strings.SplitSeq(strings.TrimRight(string(p), "\n"), "\n") {
		o.send(LogMsg{Line: line})
	}
	return len(p), nil
}

// WithFields implements blueprint.Observer. Fields are not displayed.
func (o *Observer) WithFields(map[string]string) blueprint.Observer {
	return o
}

// Event implements blueprint.Observer.
func (o *Observer) Event(event blueprint.Event) {
	if msg := translate(event); msg != nil {
		o.send(msg)
	}
}

// translate maps an event to its message, or nil for events the view does
// not show.
func translate(event blueprint.Event) tea.Msg {
	switch event.Type {
	case blueprint.EventPhaseStarted:
		return PhaseMsg{Phase: phaseKey(event.Phase)}
	case blueprint.EventPhaseCompleted:
		return PhaseMsg{Phase: phaseKey(event.Phase), Done: true}
	case blueprint.EventPhaseFailed:
		return PhaseMsg{Phase: phaseKey(event.Phase), Err: errors.New(event.Message)}
	case blueprint.EventResourceResolved:
		return ResourceMsg{Key: event.Resource}
	case blueprint.EventAddOnDeployed:
		status := AddOnCompleted
		if strings.Contains(event.Message, "pending") {
			status = AddOnPending
		}
		return AddOnMsg{Name: event.Resource, Status: status}
	case blueprint.EventAddOnCompleted:
		return AddOnMsg{Name: event.Resource, Status: AddOnCompleted}
	case blueprint.EventAddOnFailed:
		return AddOnMsg{Name: event.Resource, Status: AddOnFailed, Message: event.Message}
	case blueprint.EventPostDeployed:
		return AddOnMsg{Name: event.Resource, Status: AddOnPostDeployed}
	case blueprint.EventTeamReady:
		return TeamMsg{Name: event.Resource}
	}
	return nil
}

// phaseKey strips the "(i/n)" position from a phase name.
func phaseKey(phase string) string {
	key, _, _ := strings.Cut(phase, " (")
	return key
}
