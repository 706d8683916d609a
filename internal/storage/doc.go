// Package storage provides SQLite-based persistence for the bookmark cache and
// search settings.
//
// # Database Schema
//
// Tables:
//   - schema_version: applied migrations
//   - bookmarks: the flattened bookmark list, in tree order
//   - bookmark_cache: a single row recording when and from where bookmarks were read
//   - settings: search settings as key/value pairs
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("fetchmark.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	err = db.ReplaceBookmarks(ctx, &storage.BookmarkSnapshot{
//	    Bookmarks:  bookmarks,
//	    SourcePath: path,
//	    FetchedAt:  time.Now(),
//	})
//
//	snap, err := db.LoadBookmarks(ctx)
//	if errors.Is(err, storage.ErrNotFound) {
//	    // nothing cached yet
//	}
//
// Replacing bookmarks and saving settings each run in a single transaction, so
// readers never see a half-written list.
//
// # Drivers
//
// The default build uses modernc.org/sqlite, a pure Go driver. Building with
// the sqlite_cgo tag switches to github.com/mattn/go-sqlite3:
//
//	CGO_ENABLED=1 go build -tags sqlite_cgo ./...
//
// # Migrations
//
// Schema changes are listed in AllMigrations and ordered by semantic version.
// NewSQLiteStorage applies pending migrations on open; RollbackMigration undoes
// the most recent one.
package storage
