// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

type memoryRepository struct {
	mu     sync.Mutex
	nextID int64
	terms  map[string][]*reference.Term
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{terms: map[string][]*reference.Term{}}
}

func (repo *memoryRepository) List(_ context.Context, kind reference.Kind, filter reference.Filter) ([]*reference.Term, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var matched []*reference.Term
	for _, term := range repo.terms[kind.Resource] {
		if strings.Contains(strings.ToLower(term.Name), strings.ToLower(filter.Search)) {
			matched = append(matched, term)
		}
	}
	start := min(filter.Offset(), len(matched))
	end := min(start+filter.Limit, len(matched))
	return matched[start:end], len(matched), nil
}

func (repo *memoryRepository) Create(_ context.Context, kind reference.Kind, term *reference.Term) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, existing := range repo.terms[kind.Resource] {
		if existing.Slug == term.Slug {
			return apperr.FieldInvalid("slug", "duplicate")
		}
	}
	repo.nextID++
	term.ID = repo.nextID
	repo.terms[kind.Resource] = append(repo.terms[kind.Resource], term)
	return nil
}

func (repo *memoryRepository) DeleteBySlug(_ context.Context, kind reference.Kind, slug string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	terms := repo.terms[kind.Resource]
	for i, term := range terms {
		if term.Slug == slug {
			repo.terms[kind.Resource] = append(terms[:i], terms[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound(kind.Resource)
}

/*
TestCreate_SlugHandling covers explicit, generated and invalid slugs.
*/
func TestCreate_SlugHandling(t *testing.T) {
	tests := []struct {
		name     string
		input    reference.CreateInput
		wantSlug string
		wantErr  bool
	}{
		{"explicit", reference.CreateInput{Name: "Films", Slug: "movie"}, "movie", false},
		{"generated", reference.CreateInput{Name: "Science Fiction"}, "science-fiction", false},
		{"accents_removed", reference.CreateInput{Name: "Café Noir"}, "cafe-noir", false},
		{"bad_alphabet", reference.CreateInput{Name: "Films", Slug: "a b"}, "", true},
		{"no_usable_characters", reference.CreateInput{Name: "!!!"}, "", true},
		{"missing_name", reference.CreateInput{Slug: "x"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := reference.NewService(newMemoryRepository())

			term, err := service.Create(context.Background(), reference.Categories, tt.input)
			if tt.wantErr {
				assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, term.Slug)
		})
	}
}

/*
TestCreate_GeneratedSlugIsTruncated keeps generated slugs within the column limit.
*/
func TestCreate_GeneratedSlugIsTruncated(t *testing.T) {
	service := reference.NewService(newMemoryRepository())

	term, err := service.Create(context.Background(), reference.Genres, reference.CreateInput{
		Name: strings.Repeat("word ", 20),
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(term.Slug), 50)
	assert.False(t, strings.HasSuffix(term.Slug, "-"))
}

/*
TestKinds_AreIsolated keeps categories and genres apart.
*/
func TestKinds_AreIsolated(t *testing.T) {
	ctx := context.Background()
	service := reference.NewService(newMemoryRepository())

	_, err := service.Create(ctx, reference.Categories, reference.CreateInput{Name: "Books", Slug: "books"})
	require.NoError(t, err)
	_, err = service.Create(ctx, reference.Genres, reference.CreateInput{Name: "Books", Slug: "books"})
	require.NoError(t, err)

	_, err = service.Create(ctx, reference.Genres, reference.CreateInput{Name: "Again", Slug: "books"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	terms, total, err := service.List(ctx, reference.Categories, reference.Filter{Params: pagination.Params{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "books", terms[0].Slug)

	assert.True(t, apperr.HasCode(service.Delete(ctx, reference.Genres, "ghost"), apperr.CodeNotFound))
	require.NoError(t, service.Delete(ctx, reference.Genres, "books"))
}

/*
TestHandler_CatalogPolicy checks public reads and admin-only writes.
*/
func TestHandler_CatalogPolicy(t *testing.T) {
	user := &sec.AuthClaims{UserID: "u1", Username: "reader", Role: sec.RoleUser}
	moderator := &sec.AuthClaims{UserID: "m1", Username: "mod", Role: sec.RoleModerator}
	admin := &sec.AuthClaims{UserID: "a1", Username: "boss", Role: sec.RoleAdmin}

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		claims     *sec.AuthClaims
		wantStatus int
	}{
		{"anonymous_list", http.MethodGet, "/?search=dr", "", nil, http.StatusOK},
		{"anonymous_create", http.MethodPost, "/", `{"name":"Drama"}`, nil, http.StatusUnauthorized},
		{"user_create", http.MethodPost, "/", `{"name":"Drama"}`, user, http.StatusForbidden},
		{"moderator_delete", http.MethodDelete, "/drama/", "", moderator, http.StatusForbidden},
		{"admin_create", http.MethodPost, "/", `{"name":"Comedy"}`, admin, http.StatusCreated},
		{"admin_create_duplicate", http.MethodPost, "/", `{"name":"Drama","slug":"drama"}`, admin, http.StatusBadRequest},
		{"admin_delete", http.MethodDelete, "/drama/", "", admin, http.StatusNoContent},
		{"admin_delete_missing", http.MethodDelete, "/ghost/", "", admin, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := reference.NewService(newMemoryRepository())
			_, err := service.Create(context.Background(), reference.Genres, reference.CreateInput{Name: "Drama"})
			require.NoError(t, err)

			router := reference.NewHandler(service, reference.Genres).Routes()
			request := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.claims != nil {
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), tt.claims))
			}
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code, recorder.Body.String())
		})
	}
}
