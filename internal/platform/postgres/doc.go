// Package postgres provides the PostgreSQL implementation of the task store
// defined in the internal/store package. It handles query execution, the
// atomic claim of pending tasks, and mapping between domain entities and
// database records. Schema migrations live in the migrations subpackage.
package postgres
