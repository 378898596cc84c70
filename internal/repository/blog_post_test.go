package repository

import (
	"context"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/deppfellow/blog-api/internal/config"
	"github.com/deppfellow/blog-api/internal/database"
	"github.com/deppfellow/blog-api/internal/model"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"go", "%go%"},
		{"100%", `%100\%%`},
		{"snake_case", `%snake\_case%`},
		{`C:\temp`, `%C:\\temp%`},
		{"", "%%"},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsPattern(tt.term))
		})
	}
}

type stubDBTX struct{ name string }

func (s *stubDBTX) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (s *stubDBTX) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }

func (s *stubDBTX) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func TestQuerierPrefersRequestConnection(t *testing.T) {
	pool := &stubDBTX{name: "pool"}
	conn := &stubDBTX{name: "conn"}

	assert.Same(t, pool, querier(context.Background(), pool))

	ctx := database.WithConn(context.Background(), conn)
	assert.Same(t, conn, querier(ctx, pool))
}

// Integration tests below need a disposable PostgreSQL database.
// They truncate blog_posts before each test.
const testDatabaseURLEnv = "BLOG_TEST_DATABASE_URL"

func setupRepository(t *testing.T) (*BlogPostRepository, *pgxpool.Pool) {
	t.Helper()

	url := os.Getenv(testDatabaseURLEnv)
	if url == "" {
		t.Skipf("%s not set", testDatabaseURLEnv)
	}

	ctx := context.Background()
	cfg := config.Default()
	cfg.Database.URL = url

	logger := zerolog.Nop()
	require.NoError(t, database.Migrate(ctx, &logger, cfg))

	poolConfig, err := database.PoolConfig(cfg.Database)
	require.NoError(t, err)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE blog_posts RESTART IDENTITY`)
	require.NoError(t, err)

	return NewBlogPostRepository(pool), pool
}

func sampleInput(title string, tags ...string) model.BlogPostInput {
	return model.BlogPostInput{
		Title:    title,
		Content:  "Content of " + title,
		Category: "Technology",
		Tags:     tags,
	}
}

var ignoreTimestamps = cmpopts.IgnoreFields(model.BlogPost{}, "CreatedAt", "UpdatedAt")

func TestBlogPostRepository_InsertAndFind(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	created, err := repo.Insert(ctx, sampleInput("Go generics", "go", "generics"))
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	if diff := cmp.Diff(created, *found, cmpopts.EquateApproxTime(time.Microsecond)); diff != "" {
		t.Errorf("FindByID mismatch (-want +got):\n%s", diff)
	}

	missing, err := repo.FindByID(ctx, created.ID+1000)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBlogPostRepository_ListAll(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	empty, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first, err := repo.Insert(ctx, sampleInput("First", "a"))
	require.NoError(t, err)
	second, err := repo.Insert(ctx, sampleInput("Second", "b", "c"))
	require.NoError(t, err)

	posts, err := repo.ListAll(ctx)
	require.NoError(t, err)

	sortByID := cmpopts.SortSlices(func(a, b model.BlogPost) bool { return a.ID < b.ID })
	want := []model.BlogPost{first, second}
	if diff := cmp.Diff(want, posts, sortByID, ignoreTimestamps); diff != "" {
		t.Errorf("ListAll mismatch (-want +got):\n%s", diff)
	}
}

func TestBlogPostRepository_UpdateByID(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	created, err := repo.Insert(ctx, sampleInput("Draft", "draft"))
	require.NoError(t, err)

	updated, err := repo.UpdateByID(ctx, created.ID, sampleInput("Final", "final", "go"))
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, []string{"final", "go"}, updated.Tags)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	again, err := repo.UpdateByID(ctx, created.ID, sampleInput("Final", "final", "go"))
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.True(t, again.UpdatedAt.After(updated.UpdatedAt))

	missing, err := repo.UpdateByID(ctx, created.ID+1000, sampleInput("Ghost", "x"))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBlogPostRepository_DeleteByID(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	created, err := repo.Insert(ctx, sampleInput("Short lived", "tmp"))
	require.NoError(t, err)

	n, err := repo.DeleteByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.DeleteByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestBlogPostRepository_Search(t *testing.T) {
	repo, _ := setupRepository(t)
	ctx := context.Background()

	golang, err := repo.Insert(ctx, sampleInput("Learning Go", "golang", "tutorial"))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, model.BlogPostInput{
		Title: "Cooking", Content: "Pasta at 100% hydration", Category: "Food", Tags: []string{"kitchen"},
	})
	require.NoError(t, err)

	ids := func(posts []model.BlogPost) []int64 {
		out := make([]int64, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.ID)
		}
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
		return out
	}

	t.Run("title is case insensitive", func(t *testing.T) {
		posts, err := repo.Search(ctx, "LEARNING")
		require.NoError(t, err)
		assert.Equal(t, []int64{golang.ID}, ids(posts))
	})

	t.Run("tags are searched", func(t *testing.T) {
		posts, err := repo.Search(ctx, "tutor")
		require.NoError(t, err)
		assert.Equal(t, []int64{golang.ID}, ids(posts))
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		posts, err := repo.Search(ctx, "%")
		require.NoError(t, err)
		assert.Len(t, posts, 1)

		posts, err = repo.Search(ctx, "_")
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("no match is an empty slice", func(t *testing.T) {
		posts, err := repo.Search(ctx, "rust")
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})
}

func TestBlogPostRepository_UsesRequestConnection(t *testing.T) {
	repo, pool := setupRepository(t)
	ctx := context.Background()

	conn, err := pool.Acquire(ctx)
	require.NoError(t, err)
	defer conn.Release()

	// A temporary table is only visible on the connection that created it.
	_, err = conn.Exec(ctx, `CREATE TEMPORARY TABLE blog_posts (LIKE public.blog_posts INCLUDING ALL)`)
	require.NoError(t, err)

	reqCtx := database.WithConn(ctx, conn)
	_, err = repo.Insert(reqCtx, sampleInput("Scoped", "temp"))
	require.NoError(t, err)

	scoped, err := repo.ListAll(reqCtx)
	require.NoError(t, err)
	assert.Len(t, scoped, 1)

	shared, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, shared)
}
