package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/waypoint/internal/config"
	"github.com/aretw0/waypoint/internal/presentation/tui"
	"github.com/aretw0/waypoint/pkg/matcher"
)

// RoutesMarkdown renders the route table as a markdown table.
func RoutesMarkdown(f *config.File) string {
	var sb strings.Builder
	sb.WriteString("| Pattern | Name | Can activate | Can deactivate | Reuse | Data |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")

	var walk func(routes []config.RouteConfig, parent string)
	walk = func(routes []config.RouteConfig, parent string) {
		for _, r := range routes {
			pattern := matcher.JoinPattern(parent, r.Path)
			b, err := config.DecodeBehavior(r.Behavior)
			if err != nil {
				fmt.Fprintf(&sb, "| `%s` | %s | invalid: %v | | | |\n", pattern, r.Name, err)
			} else {
				data := ""
				if b.Data != nil {
					data = fmt.Sprintf("%v", b.Data)
					if b.WaitForData {
						data += " (wait)"
					}
				}
				fmt.Fprintf(&sb, "| `%s` | %s | %s | %s | %s | %s |\n",
					pattern, r.Name, orDash(b.CanActivate), orDash(b.CanDeactivate), orDash(b.Reuse), orDash(data))
			}
			walk(r.Children, pattern)
		}
	}
	walk(f.Routes, "")
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// PrintRoutes writes the route table to out, rendered with glamour on a terminal.
func PrintRoutes(f *config.File, out io.Writer) error {
	md := RoutesMarkdown(f)
	if !tui.IsTerminal(out) {
		_, err := io.WriteString(out, md)
		return err
	}
	rendered, err := tui.NewRenderer()(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, rendered)
	return err
}
