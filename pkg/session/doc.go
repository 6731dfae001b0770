/*
Package session keeps one Router per navigation session.

The Manager serializes navigations of a session behind a reference-counted local
lock, optionally backed by a distributed lock so replicas sharing a LocationStore
never run two transitions for the same session at once. A session that is unknown
locally is restored from the store at its last committed location.
*/
package session
