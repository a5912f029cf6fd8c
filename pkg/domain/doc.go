// Package domain holds the core types of the Galaxy execution engine:
// descriptors, execution results, persisted records and the error
// taxonomy. It has no dependencies on adapters or the runtime.
package domain
