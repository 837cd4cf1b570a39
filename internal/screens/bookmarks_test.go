package screens

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/usecases"
)

func newBookmarkList(t *testing.T, set *usecases.Set) *BookmarkListReactor {
	r := NewBookmarkListReactor(context.Background(), set.FetchBookmarks, set.RemoveBookmark, set.ClearBookmarks, newTestPool(t))
	t.Cleanup(r.Close)
	return r
}

func TestBookmarkList_LoadReflectsExternalChanges(t *testing.T) {
	f := setupStored(t)
	ctx := context.Background()
	r := newBookmarkList(t, f.set)

	r.Dispatch(LoadBookmarks{})
	settleAll(t, r)
	assert.Empty(t, r.State().Bookmarks)

	detail := newDetail(t, sapiens, f.set)
	detail.Dispatch(ToggleBookmark{})
	settleAll(t, detail)
	require.NoError(t, f.bookmarkStore.Insert(ctx, entities.Book{Title: "코스모스"}))

	r.Dispatch(LoadBookmarks{})
	settleAll(t, r)

	state := r.State()
	assert.Equal(t, []string{"코스모스", "사피엔스"}, titles(state.Bookmarks))
	assert.False(t, state.IsLoading)
	assert.NoError(t, state.Err)
}

func TestBookmarkList_SelectAndClear(t *testing.T) {
	f := setupStored(t)
	r := newBookmarkList(t, f.set)

	r.Dispatch(SelectBook{Book: sapiens})
	settleAll(t, r)
	require.NotNil(t, r.State().SelectedBook)
	assert.Equal(t, "사피엔스", r.State().SelectedBook.Title)

	r.Dispatch(ClearSelection{})
	settleAll(t, r)
	assert.Nil(t, r.State().SelectedBook)
}

func TestBookmarkList_DeleteReloads(t *testing.T) {
	f := setupStored(t)
	ctx := context.Background()
	require.NoError(t, f.bookmarkStore.Insert(ctx, sapiens))
	require.NoError(t, f.bookmarkStore.Insert(ctx, entities.Book{Title: "데미안"}))

	r := newBookmarkList(t, f.set)
	r.Dispatch(LoadBookmarks{})
	settleAll(t, r)
	require.Len(t, r.State().Bookmarks, 2)

	r.Dispatch(DeleteBookmark{Book: sapiens})
	settleAll(t, r)

	state := r.State()
	assert.Equal(t, []string{"데미안"}, titles(state.Bookmarks))
	assert.False(t, state.IsLoading)

	count, err := f.bookmarkStore.CountByKey(ctx, sapiens.Key())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBookmarkList_ClearAllReloads(t *testing.T) {
	f := setupStored(t)
	ctx := context.Background()
	require.NoError(t, f.bookmarkStore.Insert(ctx, sapiens))
	require.NoError(t, f.bookmarkStore.Insert(ctx, entities.Book{Title: "데미안"}))

	r := newBookmarkList(t, f.set)
	r.Dispatch(LoadBookmarks{})
	r.Dispatch(SelectBook{Book: sapiens})
	settleAll(t, r)
	require.Len(t, r.State().Bookmarks, 2)

	r.Dispatch(ClearBookmarks{})
	settleAll(t, r)

	state := r.State()
	assert.Empty(t, state.Bookmarks)
	assert.False(t, state.IsLoading)
	assert.NoError(t, state.Err)
	assert.NotNil(t, state.SelectedBook, "clearing the list keeps the selection")

	books, err := f.bookmarkStore.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}

type failingFetch struct{}

func (failingFetch) Execute(context.Context) ([]entities.Book, error) { return nil, errStore }

type failingRemove struct{}

func (failingRemove) Execute(context.Context, entities.Book) error { return errStore }

type failingClear struct{}

func (failingClear) Execute(context.Context) (int64, error) { return 0, errStore }

func TestBookmarkList_Failures(t *testing.T) {
	t.Run("load", func(t *testing.T) {
		r := NewBookmarkListReactor(context.Background(), failingFetch{}, failingRemove{}, failingClear{}, newTestPool(t))
		defer r.Close()

		r.Dispatch(LoadBookmarks{})
		settleAll(t, r)

		state := r.State()
		assert.False(t, state.IsLoading)
		assert.ErrorIs(t, state.Err, errStore)
		assert.NotNil(t, state.Bookmarks)
	})

	t.Run("delete", func(t *testing.T) {
		f := setupStored(t)
		require.NoError(t, f.bookmarkStore.Insert(context.Background(), sapiens))
		r := NewBookmarkListReactor(context.Background(), f.set.FetchBookmarks, failingRemove{}, failingClear{}, newTestPool(t))
		defer r.Close()

		r.Dispatch(LoadBookmarks{})
		r.Dispatch(DeleteBookmark{Book: sapiens})
		settleAll(t, r)

		state := r.State()
		assert.False(t, state.IsLoading)
		assert.ErrorIs(t, state.Err, errStore)
	})

	t.Run("clear", func(t *testing.T) {
		f := setupStored(t)
		require.NoError(t, f.bookmarkStore.Insert(context.Background(), sapiens))
		r := NewBookmarkListReactor(context.Background(), f.set.FetchBookmarks, failingRemove{}, failingClear{}, newTestPool(t))
		defer r.Close()

		r.Dispatch(LoadBookmarks{})
		settleAll(t, r)
		r.Dispatch(ClearBookmarks{})
		settleAll(t, r)

		state := r.State()
		assert.False(t, state.IsLoading)
		assert.ErrorIs(t, state.Err, errStore)
	})
}
