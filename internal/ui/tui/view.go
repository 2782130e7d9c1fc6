package tui

import (
	"fmt"
	"strings"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
)

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	if m.Watch && !m.Fetched && m.Err == nil {
		b.WriteString(dimStyle.Render("  Fetching status..."))
		b.WriteString("\n")
		return b.String()
	}
	renderNodes(&b, m)
	renderConditions(&b, m)
	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	b.WriteString(titleStyle.Render(fmt.Sprintf("h2o: %s", m.Cluster)))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case m.Status.Lifecycle == "Terminating" || m.Status.Lifecycle == "Released":
		status += warningStyle.Render("Terminating")
	case m.Status.Phase == h2ov1.ClusterPhaseRunning:
		status += readyStyle.Render("Running")
	case m.Status.Phase != "":
		status += warningStyle.Render(currentSpinner(m.SpinnerFrame) + " " + string(m.Status.Phase))
	default:
		status += dimStyle.Render("Waiting for operator")
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderNodes(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Nodes"))
	b.WriteString("\n")

	barWidth := 30
	if m.Width > 0 && m.Width < 60 {
		barWidth = max(m.Width-30, 10)
	}
	progress := nodeProgress(m.Status)
	filled := min(int(float64(barWidth)*progress), barWidth)
	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))
	fmt.Fprintf(b, "  %s %d/%d ready\n", bar, m.Status.Ready, m.Status.Desired)

	fmt.Fprintf(b, "  %s %s\n", dimStyle.Render("Image:    "), m.Status.Image)
	if m.Status.Lifecycle != "" {
		fmt.Fprintf(b, "  %s %s\n", dimStyle.Render("Lifecycle:"), m.Status.Lifecycle)
	}
}

func renderConditions(b *strings.Builder, m Model) {
	if len(m.Status.Conditions) == 0 {
		return
	}
	b.WriteString(sectionStyle.Render("  Conditions"))
	b.WriteString("\n")
	for _, c := range m.Status.Conditions {
		mark := pending
		switch c.Status {
		case "True":
			mark = readyStyle.Render(checkMark)
		case "False":
			mark = failedStyle.Render(crossMark)
		}
		line := fmt.Sprintf("  %s %s", mark, c.Type)
		if c.Reason != "" {
			line += dimStyle.Render(fmt.Sprintf(" (%s)", c.Reason))
		}
		if c.Message != "" {
			line += " " + c.Message
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func renderFooter(b *strings.Builder, m Model) {
	if !m.Watch {
		return
	}
	b.WriteString(footerStyle.Render("  Press q to quit"))
	b.WriteString("\n")
}

// nodeProgress returns the share of ready nodes in [0, 1].
func nodeProgress(s StatusMsg) float64 {
	if s.Desired <= 0 {
		return 0
	}
	p := float64(s.Ready) / float64(s.Desired)
	if p > 1 {
		return 1
	}
	return p
}
