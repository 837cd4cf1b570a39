// Package interfaces holds compile-time checks that tie bookshelf's
// implementations to the interfaces their consumers declare.
//
// Interfaces live with the consumer, not the implementation:
//
//	catalog.Searcher            used by repository.CatalogBookRepository
//	repository.BookmarkStore    implemented by database/bookmarks
//	repository.RecentStore      implemented by database/recents
//	repository.*Repository      real (catalog, stored) and offline (fixture, memory) variants
//	usecases.*                  one-method capabilities the screen reactors depend on
//	tasks.RecentViewWriter      saved by the record_recent_view queue
//	tasks.RecentViewPruner      pruned by the prune_recent_views queue
//	scheduler.TaskAdder         satisfied by *tasks.Client
//	http.NextRunner             satisfied by the prune scheduler for /health
//
// The composition root in internal/entrypoint picks one variant per interface
// (online or offline) and hands it down. Nothing outside entrypoint and the
// tests constructs a concrete repository.
//
// # Adding a screen
//
// Define the action, mutation and state types in internal/screens, write a
// Behavior with Mutate and Reduce, and implement reactor.Filter when results of
// superseded requests must be dropped. Wire it into screens.Session, then
// expose it from internal/http and internal/shell.
//
// # Adding a stored list
//
// Put the gorm model in internal/entities, add it to the migration in
// database.NewDatabase, create internal/database/<name> with
// NewRepository(db *gorm.DB), and add a check below:
//
//	var _ repository.SomeStore = (*name.Repository)(nil)
package interfaces
