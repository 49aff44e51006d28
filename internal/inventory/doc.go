// Package inventory holds the entity model and persistence layer for the
// home inventory: people, rooms, device types, devices, and the
// person-device assignment graph.
//
// Repositories follow the interface-plus-SQLite pattern used across the
// codebase. Referential conflicts are enforced by the schema (ON DELETE
// RESTRICT) and surfaced to callers as sentinel errors such as
// ErrRoomInUse, never as raw driver errors.
//
// Visibility rules live in the scope package and mutation policy in the
// guard package; this package answers only "what is stored" questions.
package inventory
