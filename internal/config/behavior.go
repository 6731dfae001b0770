package config

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/matcher"
	"github.com/aretw0/waypoint/pkg/pipeline"
	"github.com/aretw0/waypoint/pkg/schema"
	"github.com/mitchellh/mapstructure"
)

// Behavior scripts the hooks of a route's component.
//
// Verdicts are "allow", "deny", "redirect:<path>", "abort" or "error:<message>".
type Behavior struct {
	CanActivate   string `mapstructure:"can_activate"`
	CanDeactivate string `mapstructure:"can_deactivate"`

	// Reuse is "always" (default), "never" or "params".
	Reuse string `mapstructure:"reuse"`

	// Data, when set, is loaded into the outlet after activation.
	Data        any  `mapstructure:"data"`
	WaitForData bool `mapstructure:"wait_for_data"`

	// Delay makes every scripted hook answer asynchronously.
	Delay time.Duration `mapstructure:"delay"`
}

// DecodeBehavior decodes a loose behavior map, rejecting unknown keys.
func DecodeBehavior(raw map[string]any) (Behavior, error) {
	var b Behavior
	if len(raw) == 0 {
		return b, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &b,
	})
	if err != nil {
		return b, err
	}
	if err := dec.Decode(raw); err != nil {
		return b, fmt.Errorf("invalid behavior: %w", err)
	}
	for _, v := range []string{b.CanActivate, b.CanDeactivate} {
		if err := checkVerdict(v); err != nil {
			return b, err
		}
	}
	switch b.Reuse {
	case "", "always", "never", "params":
	default:
		return b, fmt.Errorf("invalid reuse policy %q", b.Reuse)
	}
	return b, nil
}

func checkVerdict(v string) error {
	switch {
	case v == "", v == "allow", v == "deny", v == "abort":
		return nil
	case strings.HasPrefix(v, "redirect:") && strings.HasPrefix(strings.TrimPrefix(v, "redirect:"), "/"):
		return nil
	case strings.HasPrefix(v, "error:"):
		return nil
	default:
		return fmt.Errorf("invalid verdict %q", v)
	}
}

// Meta keys under which typed routes publish their param and query schemas.
const (
	MetaParamTypes = "param_types"
	MetaQueryTypes = "query_types"
)

// MatcherRoutes converts the file's route tree into matcher routes whose components
// run the scripted behaviors.
func (f *File) MatcherRoutes() ([]matcher.Route, error) {
	return buildRoutes(f.Routes, "")
}

func buildRoutes(cfgs []RouteConfig, parent string) ([]matcher.Route, error) {
	out := make([]matcher.Route, 0, len(cfgs))
	for _, rc := range cfgs {
		full := matcher.JoinPattern(parent, rc.Path)
		b, err := DecodeBehavior(rc.Behavior)
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", full, err)
		}
		name := rc.Name
		if name == "" {
			name = full
		}
		component := b.Component(name)
		meta := maps.Clone(rc.Meta)
		if len(rc.Params) > 0 || len(rc.Query) > 0 {
			params, err := schema.ParseTypeMap(rc.Params)
			if err != nil {
				return nil, fmt.Errorf("route %s: params: %w", full, err)
			}
			query, err := schema.ParseTypeMap(rc.Query)
			if err != nil {
				return nil, fmt.Errorf("route %s: query: %w", full, err)
			}
			component.CanActivate = typeCheck(component.CanActivate, params, query)
			component.CanReuse = reuseTyped(component.CanReuse, params, query)
			if meta == nil {
				meta = make(map[string]any, 2)
			}
			meta[MetaParamTypes] = params
			meta[MetaQueryTypes] = query
		}
		children, err := buildRoutes(rc.Children, full)
		if err != nil {
			return nil, err
		}
		out = append(out, matcher.Route{
			Path:      rc.Path,
			Name:      name,
			Component: component,
			Meta:      meta,
			Children:  children,
		})
	}
	return out, nil
}

// Table compiles the file into a matcher table.
func (f *File) Table() (*matcher.Table, error) {
	routes, err := f.MatcherRoutes()
	if err != nil {
		return nil, err
	}
	return matcher.New(routes...)
}

// Component builds the pipeline component for the behavior.
func (b Behavior) Component(name string) *pipeline.Component {
	c := &pipeline.Component{
		Name:          name,
		CanActivate:   b.gate(b.CanActivate),
		CanDeactivate: b.gate(b.CanDeactivate),
		WaitForData:   b.WaitForData,
	}
	switch b.Reuse {
	case "never":
		c.CanReuse = func(to, from *domain.Location) bool { return false }
	case "params":
		c.CanReuse = func(to, from *domain.Location) bool { return maps.Equal(to.Params, from.Params) }
	}
	if b.Data != nil {
		data := b.Data
		c.Data = func(e *runtime.Exposed) (runtime.Result, error) {
			return b.answer(data, nil), nil
		}
	}
	return c
}

// typeCheck rejects locations whose params or query do not fit their schema,
// then defers to next.
func typeCheck(next runtime.Hook, params, query schema.Schema) runtime.Hook {
	return func(e *runtime.Exposed) (runtime.Result, error) {
		if err := checkLocation(e.To(), params, query); err != nil {
			return runtime.Rejected(err), nil
		}
		if next == nil {
			return runtime.Bool(true), nil
		}
		return next(e)
	}
}

// reuseTyped refuses to reuse an outlet for an ill-typed location so that
// canActivate gets to reject it.
func reuseTyped(next func(to, from *domain.Location) bool, params, query schema.Schema) func(to, from *domain.Location) bool {
	return func(to, from *domain.Location) bool {
		if checkLocation(to, params, query) != nil {
			return false
		}
		return next == nil || next(to, from)
	}
}

func checkLocation(loc *domain.Location, params, query schema.Schema) error {
	if _, err := schema.Validate(params, loc.Params); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	if _, err := schema.Validate(query, loc.Query); err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}
	return nil
}

// gate turns a verdict into a validation hook; nil lets the step proceed.
func (b Behavior) gate(verdict string) runtime.Hook {
	switch {
	case verdict == "" || verdict == "allow":
		if b.Delay == 0 {
			return nil
		}
		return func(*runtime.Exposed) (runtime.Result, error) { return b.verdict(true), nil }
	case verdict == "deny":
		return func(*runtime.Exposed) (runtime.Result, error) { return b.verdict(false), nil }
	case verdict == "abort":
		return func(e *runtime.Exposed) (runtime.Result, error) {
			e.Abort()
			return runtime.Pending(), nil
		}
	case strings.HasPrefix(verdict, "redirect:"):
		target := strings.TrimPrefix(verdict, "redirect:")
		return func(e *runtime.Exposed) (runtime.Result, error) {
			e.Redirect(target)
			return runtime.Pending(), nil
		}
	default:
		msg := strings.TrimPrefix(verdict, "error:")
		return func(*runtime.Exposed) (runtime.Result, error) {
			return b.answer(nil, errors.New(msg)), nil
		}
	}
}

func (b Behavior) verdict(ok bool) runtime.Result {
	if b.Delay == 0 {
		return runtime.Bool(ok)
	}
	return b.answer(ok, nil)
}

// answer settles with value or err, after Delay when one is set.
func (b Behavior) answer(value any, err error) runtime.Result {
	if b.Delay == 0 {
		if err != nil {
			return runtime.Rejected(err)
		}
		return runtime.Resolved(value)
	}
	d := runtime.NewDeferred()
	time.AfterFunc(b.Delay, func() {
		if err != nil {
			d.Reject(err)
			return
		}
		d.Resolve(value)
	})
	return runtime.Defer(d)
}
