package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/waypoint/internal/config"
	"github.com/aretw0/waypoint/pkg/matcher"
)

// ValidateRoutes checks a route table for bad behaviors, broken redirect targets
// and redirect cycles that would only end at the redirect limit.
func ValidateRoutes(f *config.File) error {
	if len(f.Routes) == 0 {
		return fmt.Errorf("route table is empty")
	}

	var errors []string
	redirects := make(map[string]string) // pattern -> target of an unconditional redirect

	var walk func(routes []config.RouteConfig, parent string)
	walk = func(routes []config.RouteConfig, parent string) {
		for _, r := range routes {
			pattern := matcher.JoinPattern(parent, r.Path)
			b, err := config.DecodeBehavior(r.Behavior)
			if err != nil {
				errors = append(errors, fmt.Sprintf("Route '%s': %v", pattern, err))
			} else if target, ok := strings.CutPrefix(b.CanActivate, "redirect:"); ok {
				redirects[pattern] = target
			}
			walk(r.Children, pattern)
		}
	}
	walk(f.Routes, "")

	if len(errors) == 0 {
		table, err := f.Table()
		if err != nil {
			return fmt.Errorf("failed to compile routes: %w", err)
		}
		for from, target := range redirects {
			if msg := followRedirects(table, redirects, from, target); msg != "" {
				errors = append(errors, msg)
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

// followRedirects walks the chain of unconditional redirects starting at from.
// It returns a description of the problem, or "" when the chain ends on a route.
func followRedirects(table *matcher.Table, redirects map[string]string, from, target string) string {
	visited := map[string]bool{from: true}
	for {
		loc, err := table.Match(target)
		if err != nil {
			return fmt.Sprintf("Route '%s' redirects to unknown path '%s'", from, target)
		}
		next, ok := redirects[loc.Pattern]
		if !ok {
			return ""
		}
		if visited[loc.Pattern] {
			return fmt.Sprintf("Route '%s' enters a redirect cycle at '%s'", from, loc.Pattern)
		}
		visited[loc.Pattern] = true
		target = next
	}
}
