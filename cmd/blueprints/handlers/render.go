package handlers

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/blueprints/pkg/blueprint"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorAmber = lipgloss.Color("#f59e0b")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	okStyle      = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle    = lipgloss.NewStyle().Foreground(colorAmber)
	failStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// useColor reports whether output is styled.
var useColor = isInteractiveTTY

func styled(style lipgloss.Style, text string) string {
	if !useColor() {
		return text
	}
	return style.Render(text)
}

// renderResult produces the run summary printed after a deployment.
func renderResult(r *blueprint.Result) string {
	var b strings.Builder

	title := fmt.Sprintf("  blueprint %s", r.BlueprintID)
	b.WriteString("\n")
	b.WriteString(styled(titleStyle, title))
	b.WriteString("\n")
	b.WriteString(styled(dimStyle, "  "+strings.Repeat("═", len(title)-2)))
	b.WriteString("\n")

	fmt.Fprintf(&b, "  %-10s %s\n", "Run:", r.RunID)
	fmt.Fprintf(&b, "  %-10s %s\n", "Outcome:", renderOutcome(r.Outcome()))
	state := string(r.State)
	if r.FailedIn != "" {
		state = fmt.Sprintf("%s (in %s)", r.State, r.FailedIn)
	}
	fmt.Fprintf(&b, "  %-10s %s\n", "State:", state)
	if r.Network != nil {
		fmt.Fprintf(&b, "  %-10s %s (%s)\n", "Network:", r.Network.Name, r.Network.IPRange)
	}
	if r.Cluster != nil {
		fmt.Fprintf(&b, "  %-10s %s (kubernetes %s) %s\n", "Cluster:", r.Cluster.Name, r.Cluster.Version, r.Cluster.Endpoint)
	}
	fmt.Fprintf(&b, "  %-10s %s\n", "Duration:", r.Duration.Round(time.Millisecond))

	if len(r.AddOns) > 0 {
		b.WriteString("\n")
		b.WriteString(styled(sectionStyle, "  Add-ons"))
		b.WriteString("\n")
		for _, a := range r.AddOns {
			b.WriteString("  ")
			b.WriteString(addOnIndicator(a))
			fmt.Fprintf(&b, " %-20s", a.Name)
			var notes []string
			if a.Async {
				notes = append(notes, "async")
			}
			if a.PostDeployed {
				notes = append(notes, "post-deployed")
			}
			if len(notes) > 0 {
				b.WriteString(styled(dimStyle, " "+strings.Join(notes, ", ")))
			}
			if a.Err != nil {
				b.WriteString(" ")
				b.WriteString(styled(failStyle, a.Err.Error()))
			}
			b.WriteString("\n")
		}
	}

	if len(r.Teams) > 0 {
		b.WriteString("\n")
		b.WriteString(styled(sectionStyle, "  Teams"))
		b.WriteString("\n")
		for _, t := range r.Teams {
			fmt.Fprintf(&b, "  %s %s\n", styled(okStyle, "✔"), t)
		}
	}

	if r.Err != nil {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %v\n", styled(failStyle, "Error:"), r.Err)
	}
	return b.String()
}

func renderOutcome(o blueprint.Outcome) string {
	switch o {
	case blueprint.OutcomeSucceeded:
		return styled(okStyle, string(o))
	case blueprint.OutcomePartial:
		return styled(warnStyle, string(o))
	default:
		return styled(failStyle, string(o))
	}
}

func addOnIndicator(a blueprint.AddOnResult) string {
	switch {
	case a.Err != nil:
		return styled(failStyle, "✘")
	case a.Completed:
		return styled(okStyle, "✔")
	default:
		return styled(dimStyle, "…")
	}
}
