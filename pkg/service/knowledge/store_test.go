package knowledge_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/pitchside-lab/pitchside/pkg/domain/types"
	"github.com/pitchside-lab/pitchside/pkg/service/knowledge"
)

func newStore(t *testing.T) *knowledge.Store {
	t.Helper()
	store, err := knowledge.NewStore(t.TempDir())
	gt.NoError(t, err).Required()
	return store
}

func TestStoreAdd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("add and get round trip", func(t *testing.T) {
		store := newStore(t)

		doc, err := store.Add(ctx, "Arsenal Profile", "Arsenal play at the Emirates.", types.CategoryTeams, "manual", map[string]string{"lang": "en"})
		gt.NoError(t, err).Required()
		gt.Value(t, len(doc.ID)).Equal(12)
		gt.Bool(t, doc.CreatedAt.IsZero()).False()

		got, err := store.Get(ctx, doc.ID, types.CategoryTeams)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal("Arsenal Profile")
		gt.Value(t, got.Content).Equal("Arsenal play at the Emirates.")
		gt.Value(t, got.Metadata["lang"]).Equal("en")
	})

	t.Run("re-adding identical document is idempotent", func(t *testing.T) {
		store := newStore(t)

		first, err := store.Add(ctx, "Dup", "same content", types.CategoryBetting, "manual", nil)
		gt.NoError(t, err).Required()
		second, err := store.Add(ctx, "Dup", "same content", types.CategoryBetting, "manual", nil)
		gt.NoError(t, err).Required()

		gt.Value(t, second.ID).Equal(first.ID)
		gt.Value(t, second.CreatedAt).Equal(first.CreatedAt)

		docs, err := store.List(ctx, types.CategoryBetting)
		gt.NoError(t, err).Required()
		gt.Array(t, docs).Length(1)
	})

	t.Run("re-adding under another category moves the document", func(t *testing.T) {
		store := newStore(t)

		first, err := store.Add(ctx, "Derby Notes", "shared analysis text", types.CategoryMatches, "manual", nil)
		gt.NoError(t, err).Required()
		second, err := store.Add(ctx, "Derby Notes", "shared analysis text", types.CategoryBetting, "manual", nil)
		gt.NoError(t, err).Required()

		gt.Value(t, second.ID).Equal(first.ID)
		gt.Value(t, second.CreatedAt).Equal(first.CreatedAt)

		stats, err := store.Stats(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, stats.TotalDocuments).Equal(1)
		gt.Value(t, stats.PerCategory[types.CategoryMatches]).Equal(0)
		gt.Value(t, stats.PerCategory[types.CategoryBetting]).Equal(1)

		got, err := store.Get(ctx, first.ID, "")
		gt.NoError(t, err).Required()
		gt.Value(t, got.Category).Equal(types.CategoryBetting)
	})

	t.Run("invalid category is rejected", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Add(ctx, "Bad", "content", types.Category("weather"), "manual", nil)
		gt.Error(t, err)
	})

	t.Run("get without category searches all categories", func(t *testing.T) {
		store := newStore(t)
		doc, err := store.Add(ctx, "Anywhere", "findable content", types.CategoryStatistics, "manual", nil)
		gt.NoError(t, err).Required()

		got, err := store.Get(ctx, doc.ID, "")
		gt.NoError(t, err).Required()
		gt.Value(t, got.Category).Equal(types.CategoryStatistics)
	})

	t.Run("get unknown document", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Get(ctx, "ffffffffffff", "")
		gt.Bool(t, errors.Is(err, knowledge.ErrDocumentNotFound)).True()
	})
}

func TestStoreUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newStore(t)

	doc, err := store.Add(ctx, "Mutable", "original content", types.CategoryPlayers, "manual", nil)
	gt.NoError(t, err).Required()

	updated, err := store.Update(ctx, doc.ID, "revised content", map[string]string{"rev": "2"})
	gt.NoError(t, err).Required()

	gt.Value(t, updated.ID).Equal(doc.ID)
	gt.Value(t, updated.Content).Equal("revised content")
	gt.Value(t, updated.CreatedAt).Equal(doc.CreatedAt)
	gt.Bool(t, updated.ContentHash == doc.ContentHash).False()
	gt.Bool(t, updated.UpdatedAt.Before(doc.UpdatedAt)).False()
	gt.Value(t, updated.Metadata["rev"]).Equal("2")
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newStore(t)

	doc, err := store.Add(ctx, "Doomed", "to be removed", types.CategoryMatches, "manual", nil)
	gt.NoError(t, err).Required()

	gt.NoError(t, store.Delete(ctx, doc.ID))

	_, err = store.Get(ctx, doc.ID, "")
	gt.Bool(t, errors.Is(err, knowledge.ErrDocumentNotFound)).True()

	err = store.Delete(ctx, doc.ID)
	gt.Bool(t, errors.Is(err, knowledge.ErrDocumentNotFound)).True()
}

func TestStoreSearch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newStore(t)

	_, err := store.Add(ctx, "Pressing Styles", "Gegenpressing demands fitness.", types.CategoryTeams, "manual", nil)
	gt.NoError(t, err).Required()
	_, err = store.Add(ctx, "Possession Play", "Positional play controls the game tempo.", types.CategoryTeams, "manual", nil)
	gt.NoError(t, err).Required()

	t.Run("matches content case-insensitively", func(t *testing.T) {
		docs, err := store.Search(ctx, "GEGENPRESSING", "", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, docs).Length(1)
		gt.Value(t, docs[0].Title).Equal("Pressing Styles")
	})

	t.Run("matches title", func(t *testing.T) {
		docs, err := store.Search(ctx, "possession", "", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, docs).Length(1)
	})

	t.Run("no match yields empty result", func(t *testing.T) {
		docs, err := store.Search(ctx, "cricket", "", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, docs).Length(0)
	})
}

func TestStoreStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newStore(t)

	stats, err := store.Stats(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, stats.TotalDocuments).Equal(0)

	_, err = store.Add(ctx, "A", "alpha", types.CategoryTeams, "manual", nil)
	gt.NoError(t, err).Required()
	_, err = store.Add(ctx, "B", "beta", types.CategoryTeams, "manual", nil)
	gt.NoError(t, err).Required()
	_, err = store.Add(ctx, "C", "gamma", types.CategoryBetting, "manual", nil)
	gt.NoError(t, err).Required()

	stats, err = store.Stats(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, stats.TotalDocuments).Equal(3)
	gt.Value(t, stats.PerCategory[types.CategoryTeams]).Equal(2)
	gt.Value(t, stats.PerCategory[types.CategoryBetting]).Equal(1)
	gt.Bool(t, stats.LastUpdated != nil).True()
}

func TestStoreSeed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newStore(t)

	docs, err := store.Seed(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, docs).Length(5)

	// Seeding twice must not duplicate documents
	_, err = store.Seed(ctx)
	gt.NoError(t, err).Required()

	stats, err := store.Stats(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, stats.TotalDocuments).Equal(5)
}
