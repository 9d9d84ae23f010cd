// Package events carries in-process notifications between components.
//
// The task service emits a TypeTaskSubmitted event after storing a task;
// a poller running in the same process registers as a handler and wakes up
// instead of waiting out its poll interval. Delivery is best-effort and
// synchronous. Pollers in other processes still find the task by polling.
package events
