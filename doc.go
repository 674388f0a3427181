// Package cellar is the entry point of the Cellar storage library.
//
// Cellar keeps a keyed collection of items in memory and persists it as a
// single index file per repository:
//
//	<base>/<name>/<name>-<identifier>-Index
//
// Nothing happens implicitly. Reload reads the file, Flush writes it (in one
// atomic write), Destroy removes it. Between those calls the in-memory
// mapping is the source of truth.
//
// Features:
//
//   - **Generic items**: any type with a Key() method, converted to and from
//     records by a Converter (see pkg/typed for struct types and
//     pkg/document for schemaless items).
//   - **Hooks**: observe and veto insertions and replacements.
//   - **Caches**: items expire after an item duration, reads extend their
//     life, and Compact evicts what is stale.
//   - **Formats**: JSON (default) or YAML index files.
//   - **Versioning**: optionally commit every flush to a local Git repository.
//
// Usage:
//
//	repo, err := cellar.OpenRepository[*Profile](cellar.TypedConverter[*Profile](),
//		cellar.WithIdentifier("users"),
//		cellar.WithLogger(logger),
//	)
//
//	err = repo.AddItem(&Profile{Email: "ada@example.com"})
//	err = repo.Flush()
//
// Repositories and caches are not safe for concurrent use; wrap them with
// Locked when sharing between goroutines.
package cellar
