package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/recents"
	"github.com/mrlokans/bookshelf/internal/entities"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "bookshelf.db")
	cfg.Reactor.Workers = 1
	return cfg
}

func TestSearchCommand_ParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		query   string
		page    int
		offline bool
		wantErr bool
	}{
		{"single word", []string{"사피엔스"}, "사피엔스", 1, false, false},
		{"multi word", []string{"clean", "code"}, "clean code", 1, false, false},
		{"with page", []string{"clean", "code", "3"}, "clean code", 3, false, false},
		{"numeric title only", []string{"1984"}, "1984", 1, false, false},
		{"offline flag", []string{"-offline", "코스모스"}, "코스모스", 1, true, false},
		{"zero page", []string{"x", "0"}, "", 0, false, true},
		{"no query", []string{}, "", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewSearchCommand(testConfig(t), &bytes.Buffer{})
			err := cmd.ParseFlags(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.query, cmd.Query)
			assert.Equal(t, tt.page, cmd.Page)
			assert.Equal(t, tt.offline, cmd.Offline)
		})
	}
}

func TestSearchCommand_RunOffline(t *testing.T) {
	var out bytes.Buffer
	cmd := NewSearchCommand(testConfig(t), &out)
	require.NoError(t, cmd.ParseFlags([]string{"-offline", "사피엔스"}))

	require.NoError(t, cmd.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, `Results for "사피엔스", page 1:`)
	assert.Contains(t, text, `2. "사피엔스" by 유발 하라리`)
	assert.Contains(t, text, "More results on page 2.")
}

func TestSearchCommand_RunOfflineJSON(t *testing.T) {
	var out bytes.Buffer
	cmd := NewSearchCommand(testConfig(t), &out)
	require.NoError(t, cmd.ParseFlags([]string{"-offline", "-json", "x"}))
	require.NoError(t, cmd.Run(context.Background()))

	var books []entities.Book
	require.NoError(t, json.Unmarshal(out.Bytes(), &books))
	assert.Len(t, books, 16)
}

func TestListCommands(t *testing.T) {
	t.Run("bookmarks from an empty database", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewBookmarksCommand(testConfig(t), &out)
		require.NoError(t, cmd.ParseFlags(nil))
		require.NoError(t, cmd.Run(context.Background()))
		assert.Equal(t, "No books.\n", out.String())
	})

	t.Run("offline recents are seeded", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewRecentsCommand(testConfig(t), &out)
		require.NoError(t, cmd.ParseFlags([]string{"-offline"}))
		require.NoError(t, cmd.Run(context.Background()))
		assert.Contains(t, out.String(), "1. ")
		assert.Contains(t, out.String(), "3. ")
	})

	t.Run("arguments are rejected", func(t *testing.T) {
		cmd := NewRecentsCommand(testConfig(t), &bytes.Buffer{})
		assert.Error(t, cmd.ParseFlags([]string{"extra"}))
	})
}

// seedRecents stores one view per title, the first backdated by age.
func seedRecents(t *testing.T, cfg *config.Config, age time.Duration, titles ...string) {
	t.Helper()
	db, err := database.NewDatabaseWithOptions(cfg.Database.Path, database.Options{LogLevel: gormlogger.Silent})
	require.NoError(t, err)
	defer db.Close()

	repo := recents.NewRepository(db.DB, cfg.Recents.Limit)
	for _, title := range titles {
		require.NoError(t, repo.Upsert(context.Background(), entities.Book{Title: title, Authors: []string{}}))
	}
	require.NoError(t, db.DB.Model(&entities.RecentViewRecord{}).
		Where("book_key = ?", entities.TitleKey(titles[0])).
		Update("viewed_at", time.Now().Add(-age).UTC()).Error)
}

func TestPruneCommand(t *testing.T) {
	t.Run("removes views older than max age", func(t *testing.T) {
		cfg := testConfig(t)
		seedRecents(t, cfg, 48*time.Hour, "old", "new")

		var out bytes.Buffer
		cmd := NewPruneCommand(cfg, &out)
		require.NoError(t, cmd.ParseFlags([]string{"-max-age", "24h"}))
		require.NoError(t, cmd.Run(context.Background()))
		assert.Contains(t, out.String(), "Removed 1 recent views, 1 remain")
	})

	t.Run("all empties the list", func(t *testing.T) {
		cfg := testConfig(t)
		seedRecents(t, cfg, time.Hour, "a", "b", "c")

		var out bytes.Buffer
		cmd := NewPruneCommand(cfg, &out)
		require.NoError(t, cmd.ParseFlags([]string{"-all"}))
		require.NoError(t, cmd.Run(context.Background()))
		assert.Contains(t, out.String(), "Removed 3 recent views, 0 remain")
	})

	t.Run("invalid flags", func(t *testing.T) {
		cmd := NewPruneCommand(testConfig(t), &bytes.Buffer{})
		assert.Error(t, cmd.ParseFlags([]string{"-max-age", "0s"}))
		assert.Error(t, cmd.ParseFlags([]string{"extra"}))
	})

	t.Run("offline is rejected", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Catalog.Offline = true
		cmd := NewPruneCommand(cfg, &bytes.Buffer{})
		require.NoError(t, cmd.ParseFlags([]string{"-all"}))
		assert.ErrorIs(t, cmd.Run(context.Background()), errPruneOffline)
	})
}

func TestPrintBooks(t *testing.T) {
	var out bytes.Buffer
	books := []entities.Book{
		{Title: "GoF", Authors: []string{"Gamma, Erich", "Helm, Richard"}, Publisher: "AW", Price: 30000},
		{Title: "Anonymous", Price: 1000},
	}
	require.NoError(t, printBooks(&out, books, false))

	assert.Equal(t,
		"1. \"GoF\" by Gamma, Erich, Helm, Richard, AW, 30000원\n"+
			"2. \"Anonymous\" by (no author), , 1000원\n",
		out.String())
}
