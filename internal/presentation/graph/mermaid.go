package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/waypoint/internal/config"
	"github.com/aretw0/waypoint/pkg/matcher"
)

// Overlay contains navigation data to highlight on the graph.
type Overlay struct {
	Visited []string
	Current string
}

// GenerateMermaid produces a Mermaid flowchart of the route tree.
// It applies semantic styling:
// - Root: ((Circle))
// - Guarded (can_activate/can_deactivate): {{Hexagon}}
// - Data loader: [/Parallelogram/]
// - Default: [Rectangle]
// Redirect verdicts become dotted edges to their target.
// Overlay paths are styled when provided.
func GenerateMermaid(routes []config.RouteConfig, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	writeRoutes(&sb, routes, "")

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high contrast regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, p := range overlay.Visited {
			id := sanitizeMermaidID(p)
			if !seen[id] && id != "" {
				seen[id] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", id))
			}
		}
		if overlay.Current != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.Current)))
		}
	}
	return sb.String()
}

func writeRoutes(sb *strings.Builder, routes []config.RouteConfig, parent string) {
	for _, r := range routes {
		full := matcher.JoinPattern(parent, r.Path)
		id := sanitizeMermaidID(full)

		b, err := config.DecodeBehavior(r.Behavior)
		opener, closer := "[", "]"
		switch {
		case full == "/":
			opener, closer = "((", "))"
		case err == nil && (b.CanActivate != "" || b.CanDeactivate != ""):
			opener, closer = "{{", "}}"
		case err == nil && b.Data != nil:
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, full, closer))

		if parent != "" {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(parent), id))
		}
		if err == nil {
			for _, v := range []string{b.CanActivate, b.CanDeactivate} {
				if target, ok := strings.CutPrefix(v, "redirect:"); ok {
					sb.WriteString(fmt.Sprintf("    %s -. \"redirect\" .-> %s\n", id, sanitizeMermaidID(target)))
				}
			}
		}
		writeRoutes(sb, r.Children, full)
	}
}

func sanitizeMermaidID(id string) string {
	if id == "/" {
		return "root"
	}
	s := strings.TrimPrefix(id, "/")
	for _, old := range []string{".", "-", "/", "\\", "{", "}", ":", "*"} {
		s = strings.ReplaceAll(s, old, "_")
	}
	return s
}
