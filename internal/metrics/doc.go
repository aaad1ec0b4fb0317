// Package metrics summarises a session while it runs. Every metric observes
// the loop snapshot once per tick.
package metrics
