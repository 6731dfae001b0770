package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/matcher"
	"github.com/aretw0/waypoint/pkg/router"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const routesURI = "waypoint://routes"

// Sessions is the navigation surface exposed as tools. *session.Manager implements it.
type Sessions interface {
	Navigate(ctx context.Context, sessionID, path string) (*router.Outcome, error)
	Current(ctx context.Context, sessionID string) (*domain.Location, error)
}

// Routes describes the registered routes. *matcher.Table implements it.
type Routes interface {
	Patterns() []string
	Routes() []matcher.RouteInfo
}

// LocationResponse is the structured result of the navigation tools.
type LocationResponse struct {
	SessionID string            `json:"session_id" jsonschema_description:"The navigated session"`
	Completed bool              `json:"completed" jsonschema_description:"False when the requested navigation was aborted or redirected"`
	Path      string            `json:"path" jsonschema_description:"The committed path"`
	FullPath  string            `json:"full_path" jsonschema_description:"The committed path with its query string"`
	Params    map[string]string `json:"params,omitempty" jsonschema_description:"Route parameters"`
	Handlers  []string          `json:"handlers,omitempty" jsonschema_description:"Matched handler chain, root first"`
}

// NavigateArgs are the arguments of the navigate tool.
type NavigateArgs struct {
	SessionID string `json:"session_id"`
	Path      string `json:"path"`
}

// LocationArgs are the arguments of the current_location tool.
type LocationArgs struct {
	SessionID string `json:"session_id"`
}

// Server exposes sessions as an MCP Server.
type Server struct {
	sessions  Sessions
	routes    Routes
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance. routes may be nil.
func NewServer(sessions Sessions, routes Routes, version string, opts ...Option) *Server {
	s := &Server{
		sessions:  sessions,
		routes:    routes,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("waypoint-mcp", strings.TrimSpace(version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP server over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	navigateTool := mcp.NewTool("navigate",
		mcp.WithDescription("Navigate a session to a path. Hooks may abort or redirect the navigation."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to navigate")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Target path, optionally with a query string")),
		mcp.WithOutputSchema[LocationResponse](),
	)
	s.mcpServer.AddTool(navigateTool, mcp.NewStructuredToolHandler(s.handleNavigate))

	locationTool := mcp.NewTool("current_location",
		mcp.WithDescription("Get the location a session last committed."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to inspect")),
		mcp.WithOutputSchema[LocationResponse](),
	)
	s.mcpServer.AddTool(locationTool, mcp.NewStructuredToolHandler(s.handleCurrentLocation))

	if s.routes == nil {
		return
	}
	s.mcpServer.AddTool(mcp.NewTool("list_routes",
		mcp.WithDescription("List the registered route patterns."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(strings.Join(s.routes.Patterns(), "\n")), nil
	})
}

func (s *Server) handleNavigate(ctx context.Context, request mcp.CallToolRequest, args NavigateArgs) (LocationResponse, error) {
	if args.SessionID == "" || !strings.HasPrefix(args.Path, "/") {
		return LocationResponse{}, fmt.Errorf("session_id and an absolute path are required")
	}
	outcome, err := s.sessions.Navigate(ctx, args.SessionID, args.Path)
	if err != nil {
		return LocationResponse{}, fmt.Errorf("navigate failed: %w", err)
	}
	if outcome.Location == nil {
		return LocationResponse{}, fmt.Errorf("navigation to %s settled without a location: %w", args.Path, domain.ErrAborted)
	}
	resp := toResponse(args.SessionID, outcome.Location)
	resp.Completed = outcome.Completed
	return resp, nil
}

func (s *Server) handleCurrentLocation(ctx context.Context, request mcp.CallToolRequest, args LocationArgs) (LocationResponse, error) {
	loc, err := s.sessions.Current(ctx, args.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return LocationResponse{}, fmt.Errorf("unknown session %q", args.SessionID)
		}
		return LocationResponse{}, fmt.Errorf("lookup failed: %w", err)
	}
	resp := toResponse(args.SessionID, loc)
	resp.Completed = true
	return resp, nil
}

func toResponse(sessionID string, loc *domain.Location) LocationResponse {
	resp := LocationResponse{
		SessionID: sessionID,
		Path:      loc.Path,
		FullPath:  loc.FullPath(),
		Params:    loc.Params,
	}
	for _, h := range loc.Matched {
		resp.Handlers = append(resp.Handlers, h.Name)
	}
	return resp
}

func (s *Server) registerResources() {
	if s.routes == nil {
		return
	}
	s.mcpServer.AddResource(mcp.NewResource(routesURI, "Registered Routes",
		mcp.WithResourceDescription("Route patterns with their metadata and param/query types."),
		mcp.WithMIMEType("application/json"),
	), s.readRoutes)
}

func (s *Server) readRoutes(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.routes.Routes())
	if err != nil {
		return nil, fmt.Errorf("failed to encode routes: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      routesURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
