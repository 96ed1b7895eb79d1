package blueprint

import (
	"bytes"
	"log"
	"os"
	"testing"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleObserver_Printf(t *testing.T) {
	observer := NewConsoleObserver()

	// Should not panic
	observer.Printf("test message: %s", "value")
}

func TestConsoleObserver_WithFields(t *testing.T) {
	t.Parallel()
	observer := NewConsoleObserver()

	child := observer.WithFields(map[string]string{"blueprint": "dev"})
	grandchild := child.WithFields(map[string]string{"run": "r-1"})

	assert.Empty(t, observer.contextFields)
	assert.Equal(t, map[string]string{"blueprint": "dev"}, child.(*ConsoleObserver).contextFields)
	assert.Equal(t, map[string]string{"blueprint": "dev", "run": "r-1"}, grandchild.(*ConsoleObserver).contextFields)
}

func TestFormatEvent(t *testing.T) {
	t.Parallel()
	event := Event{
		Type:     EventAddOnDeployed,
		Phase:    "addons",
		Resource: "logging",
		Message:  "deployed",
		Fields:   map[string]string{"run": "r-1", "blueprint": "dev"},
	}

	assert.Equal(t, "addon.deployed [addons] resource=logging deployed (blueprint=dev, run=r-1)", formatEvent(event))
}

func TestMergeFields(t *testing.T) {
	t.Parallel()
	event := mergeFields(Event{Fields: map[string]string{"run": "event"}}, map[string]string{"run": "context", "blueprint": "dev"})

	assert.False(t, event.Timestamp.IsZero())
	assert.Equal(t, "event", event.Fields["run"])
	assert.Equal(t, "dev", event.Fields["blueprint"])

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, ts, mergeFields(Event{Timestamp: ts}, nil).Timestamp)
}

func TestConsoleObserver_EventWritesToLog(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	NewConsoleObserver().WithFields(map[string]string{"blueprint": "dev"}).Event(Event{
		Type:    EventTeamReady,
		Phase:   "teams",
		Message: "ready",
	})

	assert.Contains(t, buf.String(), "team.ready [teams] ready (blueprint=dev)")
}

func TestLogrObserver(t *testing.T) {
	t.Parallel()
	var lines []string
	logger := funcr.New(func(_, args string) {
		lines = append(lines, args)
	}, funcr.Options{})

	observer := NewLogrObserver(logger).WithFields(map[string]string{"blueprint": "dev"})
	observer.Printf("deploying %d add-ons", 2)
	observer.Event(Event{Type: EventAddOnDeployed, Resource: "logging", Message: "deployed"})
	observer.Event(Event{Type: EventAddOnFailed, Resource: "gitops", Message: "chart not found"})

	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"msg"="deploying 2 add-ons"`)
	assert.Contains(t, lines[0], `"blueprint"="dev"`)
	assert.Contains(t, lines[1], `"resource"="logging"`)
	assert.Contains(t, lines[1], `"type"="addon.deployed"`)
	assert.Contains(t, lines[2], `"error"`)
	assert.Contains(t, lines[2], `"msg"="chart not found"`)
}
