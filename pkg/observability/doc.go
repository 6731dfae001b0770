/*
Package observability turns transition lifecycle events into logs and Prometheus metrics.

Both are plain domain.LifecycleHooks, so they can be combined with domain.Merge and
passed to router.WithLifecycleHooks.
*/
package observability
