package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/claude-usage-cli/internal/application"
	"github.com/bnema/claude-usage-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Now        time.Time
	StaleAfter time.Duration
}

func renderView(statuses []application.AccountStatus, signal domain.StatusSignal, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Claude Usage"),
		s.header.Render(fmt.Sprintf("accounts: %d/%d  session: %s", len(statuses), domain.MaxAccounts, signalLabel(signal))),
	}

	if len(statuses) == 0 {
		lines = append(lines, s.empty.Render("No accounts linked. Add one with `cu account add`."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, status := range statuses {
		lines = append(lines, s.section.Render(renderAccount(status, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// StatusLine renders the one-line aggregated signal shown by `cu watch`.
func StatusLine(signal domain.StatusSignal) string {
	s := newStyles()
	parts := []string{s.title.Render("claude"), usageStyle(float64(signal.Percentage)).Render(signalLabel(signal))}
	for _, account := range signal.Accounts {
		parts = append(parts, usageStyle(float64(account.Percentage)).Render(fmt.Sprintf("%s %d%%", account.Name, account.Percentage)))
	}

	return strings.Join(parts, " ")
}

func signalLabel(signal domain.StatusSignal) string {
	if !signal.HasData {
		return "--"
	}

	return fmt.Sprintf("%d%%", signal.Percentage)
}

func renderAccount(status application.AccountStatus, opts RenderOptions, s styles) string {
	parts := []string{
		s.account.Render(fmt.Sprintf("%s (%s)", strings.TrimSpace(status.Name), status.ID)),
	}

	switch {
	case status.ErrorMessage != "":
		parts = append(parts, s.warning.Render("error: "+status.ErrorMessage))
	case status.IsLoading:
		parts = append(parts, s.detail.Render("loading..."))
	}

	if !status.HasFetchedData {
		if status.ErrorMessage == "" && !status.IsLoading {
			parts = append(parts, s.detail.Render("usage: n/a"))
		}
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	parts = append(parts, windowLine(status.Session, opts, s), windowLine(status.Weekly, opts, s))
	if status.Secondary != nil {
		parts = append(parts, windowLine(*status.Secondary, opts, s))
	}

	if stale(status.LastUpdated, opts) {
		parts = append(parts, s.warning.Render("[stale]"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func windowLine(window application.WindowStatus, opts RenderOptions, s styles) string {
	used := clampPercent(float64(window.Percentage))
	bar := renderProgressBar(used, 24, s)
	label := s.windowKey.Render(fmt.Sprintf("%-9s", window.Window.Label()))
	meta := usageStyle(used).Render(fmt.Sprintf("%3.0f%% used", used))

	reset := s.windowMeta.Render("(reset unknown)")
	if window.ResetsAt != nil {
		resetStyle := lipgloss.NewStyle().Foreground(resetTimeColor(*window.ResetsAt, opts.Now, window.Window))
		reset = resetStyle.Render(fmt.Sprintf("(%s)", formatResetRelative(*window.ResetsAt, opts.Now)))
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		label,
		" ",
		bar,
		" ",
		meta,
		" ",
		reset,
	)
}

func stale(lastUpdated time.Time, opts RenderOptions) bool {
	if opts.Now.IsZero() || opts.StaleAfter <= 0 || lastUpdated.IsZero() {
		return false
	}

	return opts.Now.Sub(lastUpdated) > opts.StaleAfter
}

func renderProgressBar(usedPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	used := clampPercent(usedPercent)
	filled := int(math.Round(float64(width) * used / 100.0))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	empty := width - filled
	fillSegment := usageStyle(used).Render(strings.Repeat("=", filled))
	emptySegment := s.barEmpty.Render(strings.Repeat("-", empty))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fillSegment,
		emptySegment,
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatResetAt(resetsAt, now time.Time) string {
	if resetsAt.IsZero() {
		return "unknown"
	}
	if now.IsZero() {
		return resetsAt.Format(time.RFC3339)
	}

	yearA, monthA, dayA := now.Date()
	yearB, monthB, dayB := resetsAt.Date()
	if yearA == yearB && monthA == monthB && dayA == dayB {
		return resetsAt.Format("15:04")
	}

	return resetsAt.Format("15:04 on 02 Jan")
}

func formatResetRelative(resetsAt, now time.Time) string {
	if now.IsZero() {
		return "resets " + formatResetAt(resetsAt, now)
	}

	if resetsAt.Before(now) {
		return "reset now"
	}

	remaining := resetsAt.Sub(now)
	if remaining < 24*time.Hour {
		hours := int(math.Ceil(remaining.Hours()))
		if hours < 1 {
			hours = 1
		}
		suffix := "hours"
		if hours == 1 {
			suffix = "hour"
		}
		return fmt.Sprintf("resets in %d %s (%s)", hours, suffix, resetsAt.Format("15:04"))
	}

	days := int(math.Ceil(remaining.Hours() / 24))
	if days < 1 {
		days = 1
	}
	suffix := "days"
	if days == 1 {
		suffix = "day"
	}

	return fmt.Sprintf("resets in %d %s (%s)", days, suffix, resetsAt.Format("15:04 on 02 Jan"))
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// ANSI 256 greyscale ramp from 240 (faded) to 255 (bright white).
	baseColor := 240.0
	targetColor := 255.0
	colorCode := int(baseColor + (targetColor-baseColor)*normalized)

	return lipgloss.Color(fmt.Sprintf("%d", colorCode))
}

// resetTimeColor brightens as the reset approaches within the window length.
func resetTimeColor(resetsAt, now time.Time, window domain.Window) lipgloss.Color {
	if now.IsZero() || resetsAt.Before(now) {
		return lipgloss.Color("255")
	}

	maxDuration := 7 * 24 * time.Hour
	if window == domain.WindowSession {
		maxDuration = 5 * time.Hour
	}

	inverted := maxDuration.Seconds() - resetsAt.Sub(now).Seconds()
	return interpolateColor(inverted, 0, maxDuration.Seconds())
}
