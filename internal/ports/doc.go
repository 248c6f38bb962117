// Package ports defines the interfaces that connect the import engine to
// its collaborators.
//
// The engine itself only decides where a file belongs and when batched
// writes are flushed. Everything that touches file content or album
// storage sits behind a port:
//
//   - [Backend]: opens a repository root discovered on disk
//   - [Repository]: one versioned album; reports boundary timestamps and
//     produces writers
//   - [Writer]: batches staged files for one repository until committed
//   - [Extractor]: derives content type and creation timestamp for a
//     candidate file
//
// The import session (internal/importer) and the registry/index
// (internal/albums) depend only on these interfaces. Concrete
// implementations live under internal/adapters.
package ports
