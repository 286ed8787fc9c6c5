// Package landing holds the state machines behind the landing page: the
// new-link form, the transient error banner and the background resolver.
// Nothing here performs I/O; callers feed in responses and schedule timers.
package landing
