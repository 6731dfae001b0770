package observability_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/matcher"
	"github.com/aretw0/waypoint/pkg/observability"
	"github.com/aretw0/waypoint/pkg/pipeline"
	"github.com/aretw0/waypoint/pkg/router"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, hooks domain.LifecycleHooks) *router.Router {
	t.Helper()
	table, err := matcher.New(
		matcher.Route{Path: "/", Component: &pipeline.Component{Name: "home"}},
		matcher.Route{Path: "/private", Component: &pipeline.Component{
			Name: "private",
			CanActivate: func(e *runtime.Exposed) (runtime.Result, error) {
				e.Redirect("/")
				return runtime.Pending(), nil
			},
		}},
		matcher.Route{Path: "/broken", Component: &pipeline.Component{
			Name: "broken",
			CanActivate: func(e *runtime.Exposed) (runtime.Result, error) {
				return runtime.Pending(), errors.New("backend down")
			},
		}},
	)
	require.NoError(t, err)
	r, err := router.New(table,
		router.WithLifecycleHooks(hooks),
		router.WithErrorReporter(func(error) {}),
	)
	require.NoError(t, err)
	return r
}

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	r := newRouter(t, m.Hooks())
	ctx := context.Background()

	_, err := r.Navigate(ctx, "/")
	require.NoError(t, err)
	_, err = r.Navigate(ctx, "/private")
	require.NoError(t, err)
	_, err = r.Navigate(ctx, "/broken")
	require.NoError(t, err)

	events := func(typ domain.EventType) float64 {
		c, err := m.Registry().Gather()
		require.NoError(t, err)
		for _, mf := range c {
			if mf.GetName() != "waypoint_transition_events_total" {
				continue
			}
			for _, metric := range mf.GetMetric() {
				for _, l := range metric.GetLabel() {
					if l.GetName() == "event" && l.GetValue() == string(typ) {
						return metric.GetCounter().GetValue()
					}
				}
			}
		}
		return 0
	}

	// "/" once, "/private" redirected to "/", "/broken" aborted back to "/".
	assert.Equal(t, float64(5), events(domain.EventTransitionStart))
	assert.Equal(t, float64(3), events(domain.EventTransitionComplete))
	assert.Equal(t, float64(1), events(domain.EventTransitionRedirect))
	assert.Equal(t, float64(1), events(domain.EventTransitionAbort))
	assert.Equal(t, float64(1), events(domain.EventHookError))

	assert.Equal(t, 3, testutil.CollectAndCount(m.Registry(), "waypoint_transition_duration_seconds"))
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics()
	r := newRouter(t, m.Hooks())
	_, err := r.Navigate(context.Background(), "/")
	require.NoError(t, err)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `waypoint_transition_events_total{event="transition_complete"} 1`)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelInfo)
	r := newRouter(t, observability.LogHooks(logger))

	_, err := r.Navigate(context.Background(), "/private")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "transition_redirect")
	assert.Contains(t, out, "target=/")
	assert.NotContains(t, out, "transition_start", "debug events are filtered at info level")
}
