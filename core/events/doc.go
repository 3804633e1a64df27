// Package events defines the events the coordinator emits on the event bus.
//
// Available event types:
//   - Decision: an assignment, reassignment or release, committed or rejected
package events
