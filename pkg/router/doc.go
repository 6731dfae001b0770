/*
Package router is the navigation system around the transition pipeline.

A Router matches a path, builds a transition from the live view chain towards the
matched handlers and starts it. It records the location at each commit point,
follows aborts and redirects, and cancels a transition superseded by a newer
navigation.

	table, _ := matcher.New(matcher.Route{Path: "/users/{id}", Component: userView})
	r, _ := router.New(table, router.WithLogger(logger))
	outcome, err := r.Navigate(ctx, "/users/42")
*/
package router
