// Package task runs the background side of the generation pipeline.
//
// A Poller owns one or more sequential loops that claim the oldest pending
// task from the store, hand it to the Orchestrator, and poll again. The
// Orchestrator calls the content generator once per claim and records the
// result as either completed or failed. Loops coordinate only through the
// store's atomic claim, so any number of pollers in any number of processes
// can share one queue without running a task twice.
package task
