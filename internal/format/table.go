package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"adview/internal/present"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WriteView writes v to w in the requested format: table, plain or json.
func WriteView(w io.Writer, v present.View, format string) error {
	format = strings.ToLower(format)
	switch format {
	case "", "table":
		return writeViewTable(w, v)
	case "plain":
		return writeViewPlain(w, v)
	case "json":
		return writeViewJSON(w, v)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

type field struct {
	name  string
	value string
}

// viewFields lists the populated fields of v in display order.
func viewFields(v present.View) []field {
	fields := []field{{"kind", string(v.Kind)}}
	add := func(name, value string) {
		if value != "" {
			fields = append(fields, field{name, value})
		}
	}
	add("title", v.Title)
	add("message", v.Message)
	add("headline", v.Headline)
	add("content", v.Body)
	add("campaign_id", v.CampaignID)
	add("ad_id", v.AdID)
	if v.Image != nil {
		add("image_url", v.Image.URL)
	}
	if v.CTA != nil {
		add("cta_label", v.CTA.Label)
		add("cta_url", v.CTA.URL)
	}
	return fields
}

func writeViewPlain(w io.Writer, v present.View) error {
	for _, f := range viewFields(v) {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", f.name, escapeNewlines(f.value)); err != nil {
			return err
		}
	}
	return nil
}

func writeViewJSON(w io.Writer, v present.View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func escapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", "\\n")
}

func writeViewTable(w io.Writer, v present.View) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateHeader = true
	tw.Style().Options.DrawBorder = true

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 80},
	})
	tw.AppendHeader(table.Row{"Field", "Value"})

	for _, f := range viewFields(v) {
		tw.AppendRow(table.Row{f.name, escapeNewlines(f.value)})
	}

	_ = tw.Render()
	return nil
}
