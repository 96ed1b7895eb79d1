package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/imamik/blueprints/pkg/blueprint"
)

// DeployFunc runs a deployment that reports to the Observer passed to
// RunDeployTUI.
type DeployFunc func(ctx context.Context) (*blueprint.Result, error)

// RunDeployTUI shows deployment progress while deploy runs. obs is closed
// once deploy returns. Quitting the view cancels the deployment, and
// RunDeployTUI still waits for it to return so the result is complete.
func RunDeployTUI(ctx context.Context, m Model, obs *Observer, deploy DeployFunc, opts ...tea.ProgramOption) (*blueprint.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)

	var (
		result    *blueprint.Result
		deployErr error
	)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		defer obs.Close()
		result, deployErr = deploy(ctx)
	}()

	// Forward until the observer closes, then stop the program.
	go func() {
		for msg := range obs.Messages() {
			p.Send(msg)
		}
		<-finished
		p.Send(DoneMsg{Err: deployErr})
	}()

	_, tuiErr := p.Run()
	// The view is gone; stop a deployment that is still running.
	cancel()
	<-finished

	if tuiErr != nil {
		return result, errors.Join(deployErr, fmt.Errorf("TUI error: %w", tuiErr))
	}
	return result, deployErr
}
