// Package servicetest provides an in-memory PostStore for tests.
package servicetest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/deppfellow/blog-api/internal/model"
)

// MemoryStore mirrors the PostgreSQL repository's behaviour in memory.
// Setting Err makes every call fail with it.
type MemoryStore struct {
	mu     sync.Mutex
	posts  map[int64]model.BlogPost
	nextID int64
	now    func() time.Time

	Err error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts: make(map[int64]model.BlogPost),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func clone(p model.BlogPost) model.BlogPost {
	p.Tags = append([]string(nil), p.Tags...)
	return p
}

func (m *MemoryStore) Insert(_ context.Context, input model.BlogPostInput) (model.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return model.BlogPost{}, m.Err
	}

	m.nextID++
	now := m.now()
	post := model.BlogPost{
		ID:        m.nextID,
		Title:     input.Title,
		Content:   input.Content,
		Category:  input.Category,
		Tags:      append([]string(nil), input.Tags...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.posts[post.ID] = post
	return clone(post), nil
}

func (m *MemoryStore) ListAll(_ context.Context) ([]model.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	posts := make([]model.BlogPost, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, clone(p))
	}
	return posts, nil
}

func (m *MemoryStore) FindByID(_ context.Context, id int64) (*model.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	p = clone(p)
	return &p, nil
}

func (m *MemoryStore) UpdateByID(_ context.Context, id int64, input model.BlogPostInput) (*model.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	p.Title = input.Title
	p.Content = input.Content
	p.Category = input.Category
	p.Tags = append([]string(nil), input.Tags...)
	now := m.now()
	if !now.After(p.UpdatedAt) {
		now = p.UpdatedAt.Add(time.Microsecond)
	}
	p.UpdatedAt = now
	m.posts[id] = p

	p = clone(p)
	return &p, nil
}

func (m *MemoryStore) DeleteByID(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return 0, m.Err
	}

	if _, ok := m.posts[id]; !ok {
		return 0, nil
	}
	delete(m.posts, id)
	return 1, nil
}

func (m *MemoryStore) Search(_ context.Context, term string) ([]model.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	needle := strings.ToLower(term)
	posts := []model.BlogPost{}
	for _, p := range m.posts {
		haystacks := []string{p.Title, p.Content, strings.Join(p.Tags, ",")}
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), needle) {
				posts = append(posts, clone(p))
				break
			}
		}
	}
	return posts, nil
}

// Len returns the number of stored posts.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posts)
}
