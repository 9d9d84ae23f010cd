// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the task lifecycle logic, allowing the poller, orchestrator and API to
// remain independent of specific database technologies.
package store
