package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/waypoint/internal/presentation/tui"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/router"
)

func sessionOf(opts Options) string {
	if opts.SessionID == "" {
		return "cli"
	}
	return opts.SessionID
}

func reset(ctx context.Context, app *App, opts Options) error {
	if !opts.Fresh {
		return nil
	}
	if err := app.Sessions.Delete(ctx, sessionOf(opts)); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}

// Navigate drives the session through paths, printing one line per navigation.
// Without paths it reads one path per line from in until EOF, "exit" or "quit".
func Navigate(ctx context.Context, app *App, opts Options, paths []string, in io.Reader, out io.Writer) error {
	sessionID := sessionOf(opts)
	if err := reset(ctx, app, opts); err != nil {
		return err
	}

	if !opts.Quiet {
		if loc, err := app.Sessions.Current(ctx, sessionID); err == nil {
			app.Logger.Info("Session Resumed", "session_id", sessionID, "path", loc.Path)
			printSystemMessage(out, "Resuming session '%s' at %s", sessionID, loc.FullPath())
		} else if errors.Is(err, domain.ErrSessionNotFound) {
			app.Logger.Info("Session Created", "session_id", sessionID)
			printSystemMessage(out, "Session '%s' active.", sessionID)
		}
	}

	step := func(path string) error {
		outcome, err := app.Sessions.Navigate(ctx, sessionID, path)
		if err != nil {
			return err
		}
		if opts.Quiet {
			return nil
		}
		if outcome.Location == nil {
			printSystemMessage(out, "%s did not settle on any location", path)
			return nil
		}
		verdict := "reached"
		if !outcome.Completed {
			verdict = "not reached"
		}
		printSystemMessage(out, "%s %s; now at %s", path, verdict, outcome.Location.FullPath())
		return nil
	}

	if len(paths) > 0 {
		for _, p := range paths {
			if err := step(p); err != nil {
				return err
			}
		}
		return nil
	}

	interactive := tui.IsTerminal(in)
	prompt := func() {
		if interactive {
			fmt.Fprint(out, "> ")
		}
	}
	return readPaths(ctx, in, prompt, strings.TrimSpace, func(path string) error {
		err := step(path)
		// A bad path should not end an interactive session.
		if err != nil && (interactive || recoverable(err)) {
			printSystemMessage(out, "error: %v", err)
			return nil
		}
		return err
	})
}

// NavigateJSON is Navigate for machines: paths are read as JSON strings (or raw
// lines) and every transition event and outcome is written as one JSON line.
func NavigateJSON(ctx context.Context, app *App, opts Options, paths []string, in io.Reader, jw *JSONWriter) error {
	sessionID := sessionOf(opts)
	if err := reset(ctx, app, opts); err != nil {
		return err
	}

	step := func(path string) error {
		outcome, err := app.Sessions.Navigate(ctx, sessionID, path)
		if err != nil && !recoverable(err) {
			return err
		}
		return jw.Outcome(path, outcome, err)
	}

	if len(paths) > 0 {
		for _, p := range paths {
			if err := step(p); err != nil {
				return err
			}
		}
		return nil
	}
	return readPaths(ctx, in, func() {}, decodeLine, step)
}

// recoverable errors concern one requested path, not the session.
func recoverable(err error) bool {
	return errors.Is(err, domain.ErrNoMatch) || errors.Is(err, domain.ErrInvalidPath)
}

// decodeLine accepts a JSON string ("/users/1") or plain text.
func decodeLine(line string) string {
	line = strings.TrimSpace(line)
	var val string
	if err := json.Unmarshal([]byte(line), &val); err == nil {
		return strings.TrimSpace(val)
	}
	return line
}

func readPaths(ctx context.Context, in io.Reader, prompt func(), decode func(string) string, fn func(string) error) error {
	scanner := bufio.NewScanner(in)
	for {
		prompt()
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := decode(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		if err := fn(line); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// outcomeView is an Outcome as written by JSONWriter.
type outcomeView struct {
	Kind      string           `json:"kind"`
	Requested string           `json:"requested"`
	Completed bool             `json:"completed"`
	Location  *domain.Location `json:"location,omitempty"`
	Error     string           `json:"error,omitempty"`
}

func newOutcomeView(requested string, outcome *router.Outcome, err error) outcomeView {
	v := outcomeView{Kind: "outcome", Requested: requested}
	if outcome != nil {
		v.Completed = outcome.Completed
		v.Location = outcome.Location
	}
	if err != nil {
		v.Error = err.Error()
	}
	return v
}
