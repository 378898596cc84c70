package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/blog-api/internal/database"
	"github.com/deppfellow/blog-api/internal/model"
	"github.com/deppfellow/blog-api/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

const blogPostColumns = `id, title, content, category, tags, created_at, updated_at`

type BlogPostRepository struct {
	pool database.DBTX
}

func NewBlogPostRepository(pool database.DBTX) *BlogPostRepository {
	return &BlogPostRepository{pool: pool}
}

func (r *BlogPostRepository) Insert(ctx context.Context, input model.BlogPostInput) (model.BlogPost, error) {
	stmt := `
		INSERT INTO
			blog_posts (title, content, category, tags)
		VALUES
			($1, $2, $3, $4)
		RETURNING ` + blogPostColumns

	rows, err := querier(ctx, r.pool).Query(ctx, stmt, input.Title, input.Content, input.Category, input.Tags)
	if err != nil {
		return model.BlogPost{}, sqlerr.HandleError(fmt.Errorf("insert blog post: %w", err))
	}

	post, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.BlogPost])
	if err != nil {
		return model.BlogPost{}, sqlerr.HandleError(fmt.Errorf("collect inserted blog post: %w", err))
	}

	return post, nil
}

// ListAll returns every post in no particular order.
func (r *BlogPostRepository) ListAll(ctx context.Context) ([]model.BlogPost, error) {
	stmt := `SELECT ` + blogPostColumns + ` FROM blog_posts`

	return r.collect(ctx, "list blog posts", stmt)
}

// FindByID returns nil when no post has the id.
func (r *BlogPostRepository) FindByID(ctx context.Context, id int64) (*model.BlogPost, error) {
	stmt := `SELECT ` + blogPostColumns + ` FROM blog_posts WHERE id = $1`

	return r.one(ctx, "find blog post", stmt, id)
}

// UpdateByID replaces the four mutable fields and bumps updated_at.
// updated_at always moves forward, even when NOW() has not advanced past
// the stored value. It returns nil when no post has the id.
func (r *BlogPostRepository) UpdateByID(ctx context.Context, id int64, input model.BlogPostInput) (*model.BlogPost, error) {
	stmt := `
		UPDATE blog_posts
		SET
			title = $1,
			content = $2,
			category = $3,
			tags = $4,
			updated_at = GREATEST(NOW(), updated_at + INTERVAL '1 microsecond')
		WHERE
			id = $5
		RETURNING ` + blogPostColumns

	return r.one(ctx, "update blog post", stmt, input.Title, input.Content, input.Category, input.Tags, id)
}

// DeleteByID returns the number of rows removed, 0 or 1.
func (r *BlogPostRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	tag, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return 0, sqlerr.HandleError(fmt.Errorf("delete blog post: %w", err))
	}
	return tag.RowsAffected(), nil
}

// Search returns posts whose title, content or comma-joined tags contain
// term, ignoring case. The term is matched literally.
func (r *BlogPostRepository) Search(ctx context.Context, term string) ([]model.BlogPost, error) {
	stmt := `
		SELECT ` + blogPostColumns + `
		FROM blog_posts
		WHERE
			title ILIKE $1 ESCAPE '\'
			OR content ILIKE $1 ESCAPE '\'
			OR blog_post_tags_text(tags) ILIKE $1 ESCAPE '\'`

	return r.collect(ctx, "search blog posts", stmt, ContainsPattern(term))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a LIKE pattern matching any text containing term.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func (r *BlogPostRepository) collect(ctx context.Context, op, stmt string, args ...any) ([]model.BlogPost, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, stmt, args...)
	if err != nil {
		return nil, sqlerr.HandleError(fmt.Errorf("%s: %w", op, err))
	}

	posts, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.BlogPost])
	if err != nil {
		return nil, sqlerr.HandleError(fmt.Errorf("collect %s: %w", op, err))
	}

	if posts == nil {
		posts = []model.BlogPost{}
	}
	return posts, nil
}

func (r *BlogPostRepository) one(ctx context.Context, op, stmt string, args ...any) (*model.BlogPost, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, stmt, args...)
	if err != nil {
		return nil, sqlerr.HandleError(fmt.Errorf("%s: %w", op, err))
	}

	post, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.BlogPost])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, sqlerr.HandleError(fmt.Errorf("collect %s: %w", op, err))
	}

	return &post, nil
}
