// Package context holds request scoped values shared by tool handlers.
package context
