package waypoint_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/waypoint"
)

// ExampleNew shows a guard redirecting an anonymous visitor to the login page.
func ExampleNew() {
	loggedIn := false
	dashboard := &waypoint.Component{
		Name: "dashboard",
		CanActivate: func(t *waypoint.Exposed) (waypoint.Result, error) {
			if !loggedIn {
				t.Redirect("/login")
				return waypoint.Pending(), nil
			}
			return waypoint.Bool(true), nil
		},
	}

	r, err := waypoint.New([]waypoint.Route{
		{Path: "/login", Name: "login", Component: &waypoint.Component{Name: "login"}},
		{Path: "/dashboard", Name: "dashboard", Component: dashboard},
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	outcome, _ := r.Navigate(ctx, "/dashboard")
	fmt.Println(outcome.Completed, outcome.Location.Path)

	loggedIn = true
	outcome, _ = r.Navigate(ctx, "/dashboard")
	fmt.Println(outcome.Completed, outcome.Location.Path)

	// Output:
	// false /login
	// true /dashboard
}

// ExampleNew_data shows a nested route loading data from its parameters.
func ExampleNew_data() {
	user := &waypoint.Component{
		Name:        "user",
		WaitForData: true,
		Data: func(t *waypoint.Exposed) (waypoint.Result, error) {
			d := waypoint.NewDeferred()
			go d.Resolve("profile of " + t.To().Params["id"])
			return waypoint.Defer(d), nil
		},
	}

	r, err := waypoint.New([]waypoint.Route{{
		Path:      "/users",
		Component: &waypoint.Component{Name: "users"},
		Children:  []waypoint.Route{{Path: "{id}", Component: user}},
	}})
	if err != nil {
		log.Fatal(err)
	}

	if _, err := r.Navigate(context.Background(), "/users/42"); err != nil {
		log.Fatal(err)
	}
	fmt.Println(r.Root().Child().Data())

	// Output:
	// profile of 42
}
