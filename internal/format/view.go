// Package format provides formatting and rendering functions for ad views.
package format

import (
	"fmt"
	"strings"

	"adview/internal/present"

	"github.com/jedib0t/go-pretty/v6/text"
)

// SpinnerGlyph prefixes the loading message.
const SpinnerGlyph = "⠋"

// HeaderText returns the header line of a view's card.
func HeaderText(v present.View) string {
	if v.Kind == present.KindContent {
		return v.Headline
	}
	if v.Title == "" {
		return "Ad"
	}
	return v.Title
}

// RenderViewLines returns the formatted body lines for a view.
func RenderViewLines(v present.View, wrapWidth int) []string {
	switch v.Kind {
	case present.KindContent:
		return renderContent(v, wrapWidth)
	case present.KindLoading:
		return splitBody(SpinnerGlyph+" "+v.Message, wrapWidth)
	default:
		return splitBody(v.Message, wrapWidth)
	}
}

func renderContent(v present.View, wrapWidth int) []string {
	var lines []string
	if v.Image != nil {
		lines = append(lines, fmt.Sprintf("Image: %s", v.Image.URL), "")
	}
	lines = append(lines, splitBody(v.Body, wrapWidth)...)
	lines = append(lines, "", fmt.Sprintf("Campaign ID: %s", v.CampaignID), fmt.Sprintf("Ad ID: %s", v.AdID))
	if v.CTA != nil {
		lines = append(lines, "", CTAText(*v.CTA))
	}
	return lines
}

// CTAText renders a call to action as a single line.
func CTAText(cta present.CTA) string {
	return fmt.Sprintf("[ %s ] -> %s", cta.Label, cta.URL)
}

func splitBody(body string, wrapWidth int) []string {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}
	return strings.Split(wrapBody(body, wrapWidth), "\n")
}

func wrapBody(body string, width int) string {
	if width <= 0 || text.RuneWidthWithoutEscSequences(body) <= width {
		return body
	}
	return text.WrapSoft(body, width)
}
