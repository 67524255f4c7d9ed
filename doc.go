// Package notedown is a personal note-taking REST service with token-based
// authentication and multiple database backends.
//
// Users register with an email and password, receive a signed bearer token,
// and manage their own notes through a small JSON API. Every note belongs to
// exactly one owner; the API never exposes one user's notes to another, and
// requests for notes the caller does not own are indistinguishable from
// requests for notes that do not exist.
//
// # Features
//
//   - Email/password accounts with bcrypt password hashing
//   - Stateless authentication using signed JWT bearer tokens (24 hour expiry)
//   - Owner-scoped CRUD for notes: create, list, update, delete
//   - Pluggable persistence behind [github.com/notedown/notedown/pkg/store.Store]:
//     PostgreSQL (GORM), SurrealDB, or an in-memory store for tests
//   - A typed Go client in [github.com/notedown/notedown/pkg/client]
//
// # Architecture Overview
//
//   - [github.com/notedown/notedown/pkg/models] defines the domain entities
//     with typed IDs that work across JSON, SQL, and SurrealDB's CBOR protocol
//   - [github.com/notedown/notedown/pkg/store] abstracts persistence so that
//     handlers never know which backend is serving them
//   - [github.com/notedown/notedown/pkg/noteapp] wires configuration, the
//     HTTP routing table, and the command entrypoints (run, migrate)
//
// # Running
//
// The server reads its configuration from the environment (optionally via a
// .env file). JWT_SECRET is required; the backend defaults to PostgreSQL and
// can be switched with the -memory or -surreal flags:
//
//	JWT_SECRET=change-me notedown run -port=3001
//	JWT_SECRET=change-me notedown migrate
package notedown
