package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// NewRenderer returns a function that renders markdown using glamour.
// With color off it uses the plain "notty" style.
func NewRenderer(color bool, wordWrap int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wordWrap)}
	if color {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"), glamour.WithColorProfile(termenv.Ascii))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render, nil
}

// NodeDoc builds the Markdown page for a node type: its description followed
// by an attribute table.
func NodeDoc(def domain.NodeDefinition) string {
	var sb strings.Builder
	desc := strings.TrimSpace(def.Description)
	if desc == "" {
		desc = "# " + def.Name
	}
	sb.WriteString(desc)
	sb.WriteString("\n\n## Attributes\n\n")
	sb.WriteString("| Name | Type | Default |\n|------|------|---------|\n")
	for _, a := range def.Attributes {
		typ := a.Type.String()
		if a.Extended != "" {
			typ += " (" + string(a.Extended) + ")"
		}
		dflt := ""
		if a.Default != nil {
			dflt = fmt.Sprintf("`%v`", a.Default)
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", a.Name, typ, dflt)
	}
	return sb.String()
}
