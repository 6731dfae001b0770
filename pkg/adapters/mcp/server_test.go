package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/waypoint/internal/config"
	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/matcher"
	"github.com/aretw0/waypoint/pkg/pipeline"
	"github.com/aretw0/waypoint/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	table, err := matcher.New(
		matcher.Route{Path: "/", Name: "home"},
		matcher.Route{Path: "/docs/{slug}", Name: "doc"},
		matcher.Route{Path: "/locked", Name: "locked", Component: &pipeline.Component{
			Name: "locked",
			CanActivate: func(*runtime.Exposed) (runtime.Result, error) {
				return runtime.Bool(false), nil
			},
		}},
	)
	require.NoError(t, err)
	return NewServer(session.NewManager(table, memory.NewStore()), table, "0.1.0\n")
}

func TestServer_Navigate(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleNavigate(ctx, mcp.CallToolRequest{}, NavigateArgs{SessionID: "agent", Path: "/docs/intro?lang=en"})
	require.NoError(t, err)
	assert.True(t, resp.Completed)
	assert.Equal(t, "/docs/intro", resp.Path)
	assert.Equal(t, "/docs/intro?lang=en", resp.FullPath)
	assert.Equal(t, "intro", resp.Params["slug"])
	assert.Equal(t, []string{"doc"}, resp.Handlers)

	current, err := s.handleCurrentLocation(ctx, mcp.CallToolRequest{}, LocationArgs{SessionID: "agent"})
	require.NoError(t, err)
	assert.Equal(t, "/docs/intro", current.Path)
}

func TestServer_NavigateAborted(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleNavigate(ctx, mcp.CallToolRequest{}, NavigateArgs{SessionID: "agent", Path: "/docs/a"})
	require.NoError(t, err)

	resp, err := s.handleNavigate(ctx, mcp.CallToolRequest{}, NavigateArgs{SessionID: "agent", Path: "/locked"})
	require.NoError(t, err)
	assert.False(t, resp.Completed)
	assert.Equal(t, "/docs/a", resp.Path)
}

func TestServer_Errors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleNavigate(ctx, mcp.CallToolRequest{}, NavigateArgs{SessionID: "agent", Path: "docs"})
	assert.Error(t, err)

	_, err = s.handleNavigate(ctx, mcp.CallToolRequest{}, NavigateArgs{SessionID: "agent", Path: "/missing"})
	assert.ErrorContains(t, err, "navigate failed")

	_, err = s.handleCurrentLocation(ctx, mcp.CallToolRequest{}, LocationArgs{SessionID: "nobody"})
	assert.ErrorContains(t, err, "unknown session")
}

func TestServer_RoutesResource(t *testing.T) {
	f, err := config.Parse([]byte(`
routes:
  - path: /
    name: home
  - path: /items/{id}
    name: item
    params:
      id: int
    query:
      tags: "[string]?"
`), false)
	require.NoError(t, err)
	table, err := f.Table()
	require.NoError(t, err)
	s := NewServer(session.NewManager(table, memory.NewStore()), table, "0.1.0")

	contents, err := s.readRoutes(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "application/json", text.MIMEType)

	var routes []struct {
		Pattern string `json:"pattern"`
		Name    string `json:"name"`
		Meta    struct {
			ParamTypes map[string]string `json:"param_types"`
			QueryTypes map[string]string `json:"query_types"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &routes))
	require.Len(t, routes, 2)
	assert.Equal(t, "home", routes[0].Name)
	assert.Empty(t, routes[0].Meta.ParamTypes)
	assert.Equal(t, "/items/{id}", routes[1].Pattern)
	assert.Equal(t, map[string]string{"id": "int"}, routes[1].Meta.ParamTypes)
	assert.Equal(t, map[string]string{"tags": "[string]?"}, routes[1].Meta.QueryTypes)
}
