package tui

import (
	"fmt"
	"strings"
	"time"
)

const barWidth = 32

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderProgressBar(&b, m)
	renderPhases(&b, m)
	if len(m.AddOns) > 0 {
		renderAddOns(&b, m)
	}
	renderTeamsAndResources(&b, m)
	if len(m.Logs) > 0 {
		renderLogs(&b, m)
	}
	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	b.WriteString(titleStyle.Render("blueprints: " + m.BlueprintID))
	b.WriteString(" ")
	switch {
	case m.Done && m.Err == nil:
		b.WriteString(readyStyle.Render("Deployed"))
	case m.Err != nil:
		b.WriteString(failedStyle.Render(fmt.Sprintf("Failed: %v", m.Err)))
	case m.Aborted:
		b.WriteString(warningStyle.Render("Aborting..."))
	default:
		b.WriteString(activeStyle.Render(currentSpinner(m.SpinnerFrame)) + " " + dimStyle.Render("Deploying"))
	}
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	filled := min(int(barWidth*m.progress()), barWidth)
	bar := readyStyle.Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", barWidth-filled))
	fmt.Fprintf(b, "  %s %d%%\n", bar, int(m.progress()*100))
}

func renderPhases(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Phases"))
	b.WriteString("\n")
	for _, p := range m.Phases {
		switch {
		case p.Err != nil:
			fmt.Fprintf(b, "  %s %s %s\n", failedStyle.Render(crossMark), p.Name, dimStyle.Render(p.Err.Error()))
		case p.Done:
			fmt.Fprintf(b, "  %s %s\n", readyStyle.Render(checkMark), p.Name)
		case p.Active:
			fmt.Fprintf(b, "  %s %s\n", activeStyle.Render(currentSpinner(m.SpinnerFrame)), activeStyle.Render(p.Name))
		default:
			fmt.Fprintf(b, "  %s %s\n", dimStyle.Render(waitMark), dimStyle.Render(p.Name))
		}
	}
}

func renderAddOns(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Add-ons"))
	b.WriteString("\n")
	for _, a := range m.AddOns {
		var mark string
		switch a.Status {
		case AddOnCompleted, AddOnPostDeployed:
			mark = readyStyle.Render(checkMark)
		case AddOnFailed:
			mark = failedStyle.Render(crossMark)
		case AddOnPending:
			mark = warningStyle.Render(currentSpinner(m.SpinnerFrame))
		default:
			mark = dimStyle.Render(waitMark)
		}
		line := fmt.Sprintf("  %s %-24s %s", mark, a.Name, dimStyle.Render(string(a.Status)))
		if a.Message != "" {
			line += " " + failedStyle.Render(a.Message)
		}
		b.WriteString(line + "\n")
	}
}

func renderTeamsAndResources(b *strings.Builder, m Model) {
	if len(m.Resources) > 0 {
		fmt.Fprintf(b, "\n  %s %s\n", dimStyle.Render("Resources:"), strings.Join(m.Resources, ", "))
	}
	if len(m.Teams) > 0 {
		fmt.Fprintf(b, "  %s %s\n", dimStyle.Render("Teams:    "), strings.Join(m.Teams, ", "))
	}
}

func renderLogs(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Log"))
	b.WriteString("\n")
	for _, line := range m.Logs {
		b.WriteString("  " + dimStyle.Render(line) + "\n")
	}
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := time.Since(m.StartTime).Round(time.Second)
	b.WriteString(footerStyle.Render(fmt.Sprintf("  %s elapsed  q: abort", formatDuration(elapsed))))
	b.WriteString("\n")
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
