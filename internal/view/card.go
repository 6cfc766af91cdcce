package view

import (
	"fmt"
	"regexp"
	"strings"

	"adview/internal/format"
	"adview/internal/present"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"
)

const cardPadding = 2

func renderCard(v present.View, totalWidth int, useColor bool) []string {
	if totalWidth <= 0 {
		totalWidth = 80
	}

	maxContentWidth := totalWidth - cardPadding*2 - 4
	if maxContentWidth < 8 {
		maxContentWidth = 8
	}

	header := format.HeaderText(v)
	body := format.RenderViewLines(v, maxContentWidth)
	content := wrapLines(append([]string{header}, body...), maxContentWidth)

	cardWidth := contentMaxWidth(content)
	if cardWidth > maxContentWidth {
		cardWidth = maxContentWidth
	}

	headerLines := len(wrapText(header, maxContentWidth))
	if useColor {
		content = colorLines(v, content, headerLines)
	}

	pad := strings.Repeat(" ", cardPadding)
	top := fmt.Sprintf("%s╭%s╮", pad, strings.Repeat("─", cardWidth+2))
	rule := fmt.Sprintf("%s├%s┤", pad, strings.Repeat("─", cardWidth+2))
	bottom := fmt.Sprintf("%s╰%s╯", pad, strings.Repeat("─", cardWidth+2))

	result := []string{top}
	for idx, line := range content {
		if idx == headerLines && len(content) > headerLines {
			result = append(result, rule)
		}
		result = append(result, renderCardBodyLine(line, cardWidth, useColor))
	}
	result = append(result, bottom)
	return result
}

// colorLines highlights the header and the call to action.
func colorLines(v present.View, lines []string, headerLines int) []string {
	out := make([]string, len(lines))
	var cta string
	if v.CTA != nil {
		cta = format.CTAText(*v.CTA)
	}
	for idx, line := range lines {
		switch {
		case idx < headerLines:
			out[idx] = colorize(true, kindColor(v.Kind), line)
		case cta != "" && line == cta:
			out[idx] = colorize(true, ansiCTA, line)
		default:
			out[idx] = line
		}
	}
	return out
}

func renderCardBodyLine(line string, cardWidth int, useColor bool) string {
	displayLen := visibleWidth(line)
	if displayLen > cardWidth {
		line = truncateToWidth(line, cardWidth)
		displayLen = cardWidth
	}
	paddingRight := cardWidth - displayLen

	border := "│"
	if useColor {
		border = colorize(true, ansiSeparator, border)
	}

	return fmt.Sprintf("%s%s %s%s %s", strings.Repeat(" ", cardPadding), border, line, strings.Repeat(" ", paddingRight), border)
}

func wrapLines(lines []string, width int) []string {
	var out []string
	for _, line := range lines {
		out = append(out, wrapText(line, width)...)
	}
	return out
}

func wrapText(line string, width int) []string {
	line = strings.TrimRight(line, " ")
	if width <= 0 || line == "" {
		return []string{line}
	}
	return strings.Split(text.WrapHard(line, width), "\n")
}

func contentMaxWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		if w := visibleWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

// truncateToWidth cuts line to width display columns, keeping escape sequences.
func truncateToWidth(line string, width int) string {
	out := line
	for n := width; n > 0 && visibleWidth(out) > width; n-- {
		out = text.Trim(line, n)
	}
	return out
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func visibleWidth(line string) int {
	return runewidth.StringWidth(ansiPattern.ReplaceAllString(line, ""))
}
