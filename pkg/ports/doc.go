// Package ports defines the driven-port interfaces of the engine.
// Adapters (OpenAI, shell, SQLite, loaders) implement these so the core
// stays decoupled from transport and storage choices.
package ports
