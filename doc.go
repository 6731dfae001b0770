/*
Package waypoint is a client-side navigation pipeline: it moves an application from
one location to another through a transition that components can veto, delay or
redirect.

# Concept

A navigation matches a path against a route table, yielding the chain of handlers
that should be on screen. The transition then walks three steps:

  - Reuse: the longest prefix of the current view chain that can stay in place.
  - Validation: can-deactivate on the views leaving, then can-activate on the
    handlers entering. Any hook may abort or redirect; nothing changes on screen.
  - Commit: the new location becomes current, leaving views are torn down, reused
    views reload their data and the remaining handlers are activated.

Hooks answer with a boolean, a deferred value, or by calling Next on the exposed
transition later. A newer navigation silently cancels the one in flight.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/waypoint"
	)

	func main() {
		admin := &waypoint.Component{
			Name: "admin",
			CanActivate: func(t *waypoint.Exposed) (waypoint.Result, error) {
				t.Redirect("/login")
				return waypoint.Pending(), nil
			},
		}

		r, err := waypoint.New([]waypoint.Route{
			{Path: "/login", Component: &waypoint.Component{Name: "login"}},
			{Path: "/admin", Component: admin},
		})
		if err != nil {
			log.Fatal(err)
		}

		outcome, err := r.Navigate(context.Background(), "/admin")
		if err != nil {
			log.Fatal(err)
		}
		log.Println(outcome.Location.Path) // /login
	}

Sessions, persistence (memory or Redis), metrics and the HTTP and MCP adapters live
under pkg/. The waypoint command drives route tables from YAML or JSON files.
*/
package waypoint
