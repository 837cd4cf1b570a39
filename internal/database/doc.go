// Package database provides the local store for bookmarks and recently viewed books.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── errors.go        # StorageError, the local store error type
//	├── bookmarks/       # Bookmarked books, newest first
//	└── recents/         # Recently viewed books, capped and pruned
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./bookshelf.db")
//
//	bookmarkStore := bookmarks.NewRepository(db.DB)
//	recentStore := recents.NewRepository(db.DB, recents.DefaultLimit)
//
// Every write runs inside one transaction, so a delete+insert+trim sequence
// either commits as a whole or leaves the table untouched.
//
// # Errors
//
// All failures come back as *StorageError and match ErrStorage:
//
//	if errors.Is(err, database.ErrStorage) { ... }
package database
