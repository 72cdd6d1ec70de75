package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/morenodes/pkg/domain"
	"github.com/aretw0/morenodes/pkg/nodes/dynamicmatcher"
	"github.com/aretw0/morenodes/pkg/nodes/loggingnode"
)

// GenerateMermaid produces a Mermaid flowchart of a graph snapshot.
// Shapes follow the node type:
// - DynamicMatcher: {{Hexagon}}
// - LoggingNode: [/Parallelogram/]
// - Default: [Rectangle]
// Each connection is labelled "outputAttr → inputAttr". Nodes that have been
// computed are styled "ok" or "failed" by their last result.
func GenerateMermaid(snap *domain.GraphSnapshot) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	var ok, failed []string
	for _, n := range snap.Nodes {
		safeID := sanitizeMermaidID(n.Path)

		opener, closer := "[", "]"
		switch n.Type {
		case dynamicmatcher.TypeName:
			opener, closer = "{{", "}}"
		case loggingnode.TypeName:
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s<br/><small>%s</small>\"%s\n", safeID, opener, n.Path, n.Type, closer)

		if n.LastCompute != nil {
			if *n.LastCompute {
				ok = append(ok, safeID)
			} else {
				failed = append(failed, safeID)
			}
		}
	}

	for _, c := range snap.Connections {
		from, err := domain.ParseEndpoint(c.From)
		if err != nil {
			continue
		}
		to, err := domain.ParseEndpoint(c.To)
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "    %s -- \"%s → %s\" --> %s\n",
			sanitizeMermaidID(from.Node), from.Attribute, to.Attribute, sanitizeMermaidID(to.Node))
	}

	if len(ok)+len(failed) > 0 {
		sb.WriteString("\n    %% Compute results\n")
		sb.WriteString("    classDef ok fill:#dcfce7,stroke:#166534,color:#000;\n")
		sb.WriteString("    classDef failed fill:#fee2e2,stroke:#991b1b,stroke-width:3px,color:#000;\n")
		if len(ok) > 0 {
			fmt.Fprintf(&sb, "    class %s ok;\n", strings.Join(ok, ","))
		}
		if len(failed) > 0 {
			fmt.Fprintf(&sb, "    class %s failed;\n", strings.Join(failed, ","))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", ":", "_", " ", "_")
	return r.Replace(id)
}
