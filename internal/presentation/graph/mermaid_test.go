package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/waypoint/internal/config"
	"github.com/aretw0/waypoint/internal/presentation/graph"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		routes   []config.RouteConfig
		overlay  *graph.Overlay
		contains []string
	}{
		{
			name:     "Root Shape",
			routes:   []config.RouteConfig{{Path: "/"}},
			contains: []string{`root(("/"))`},
		},
		{
			name: "Guarded Shape And Redirect Edge",
			routes: []config.RouteConfig{
				{Path: "/login"},
				{Path: "/admin", Behavior: map[string]any{"can_activate": "redirect:/login"}},
			},
			contains: []string{
				`admin{{"/admin"}}`,
				`admin -. "redirect" .-> login`,
			},
		},
		{
			name: "Nested Data Loader",
			routes: []config.RouteConfig{
				{Path: "/users", Children: []config.RouteConfig{
					{Path: "{id}", Behavior: map[string]any{"data": "profile"}},
				}},
			},
			contains: []string{
				`users["/users"]`,
				`users__id_[/"/users/{id}"/]`,
				`users --> users__id_`,
			},
		},
		{
			name:    "Overlay",
			routes:  []config.RouteConfig{{Path: "/"}, {Path: "/a"}},
			overlay: &graph.Overlay{Visited: []string{"/", "/", "/a"}, Current: "/a"},
			contains: []string{
				"class root visited;",
				"class a visited;",
				"class a current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.routes, tt.overlay)
			if !strings.HasPrefix(got, "graph TD\n") {
				t.Errorf("missing header: %q", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() missing %q\n%s", want, got)
				}
			}
			if tt.overlay != nil && strings.Count(got, "class root visited;") != 1 {
				t.Errorf("visited classes should be deduplicated\n%s", got)
			}
		})
	}
}
