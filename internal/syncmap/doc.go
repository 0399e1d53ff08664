// Package syncmap offers a small, generic, concurrency-safe map keyed by string
// and guarded by a sync.RWMutex. It tracks live MCP connections whose
// notifiers receive tool list changes.
package syncmap
