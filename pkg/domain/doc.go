/*
Package domain contains the core domain models for the waypoint navigation engine.

It defines the entities shared by the transition pipeline, the router and the adapters.
This package is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - Location: A resolved navigation target (path, params, query and matched handler chain).
  - Handler: A view definition attached to one matched route segment.
  - ViewNode: A currently rendered position in the view chain.
  - LifecycleHooks: Observability callbacks emitted around a transition.
*/
package domain
