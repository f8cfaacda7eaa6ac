// Package core provides the version-control engine for interactive dataset
// preprocessing.
//
// This package contains all domain logic independent of any UI or transport
// layer. It can be used by web handlers, CLI tools, or tests without
// modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Sessions: One per ingested dataset, owning a version history, a
//     transform registry and an audit log, created via [SessionStore.Create]
//     and reclaimed by idle eviction.
//   - Versions: Immutable snapshots of the working table. The
//     [VersionManager] keeps a linear history with an undo/redo pointer;
//     applying a new operation discards any redo branch.
//   - Handlers: One pure function per operation family (missing values,
//     duplicates, constant columns, encoding, scaling, outliers, sampling)
//     mapping a snapshot and typed parameters to a new snapshot.
//   - Transforms: Fitted encoder and scaler parameters stored as plain data
//     in the [TransformRegistry], portable to a downstream training stage.
//   - Audit: An append-only record of every applied operation.
//
// # Undo and redo
//
// Every [Version] retains its full snapshot, so undo and redo are O(1)
// pointer moves, never replays:
//
//	result, _ := svc.ApplyMissing(id, core.MissingParams{Strategy: "mean"})
//	svc.Undo(id) // back to the pre-imputation snapshot
//	svc.Redo(id) // bit-identical to result's snapshot
//
// # Error Handling
//
// The error taxonomy is closed (see errors.go); handlers fail fast with a
// typed sentinel before doing any work, and technical errors are mapped to
// user-friendly messages with support codes using [MapError]:
//
//   - SES001: Session errors (unknown or evicted sessions)
//   - SEL001-SEL002: Selection errors (missing columns, empty selections)
//   - OPS001-OPS003: Operation errors (bad strategies, methods, re-encodes)
//   - HIS001: History errors (nothing to undo or redo)
package core
