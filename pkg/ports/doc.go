/*
Package ports defines the driven ports (interfaces) for the waypoint engine.

These interfaces decouple the transition pipeline and the router from external
implementations, allowing the engine to work with various storage backends and hosts.

# Key Interfaces

  - Navigator: The navigation system a transition reports to (commit point and re-navigation).
  - LocationStore: Responsible for persisting the committed location of a session.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
*/
package ports
