// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/core/review"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/authz"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// # Fixtures

type memoryTitles map[int64]bool

func (titles memoryTitles) Exists(_ context.Context, id int64) (bool, error) {
	return titles[id], nil
}

type memoryStore struct {
	mu       sync.Mutex
	nextID   int64
	clock    time.Time
	reviews  map[int64]*review.Review
	comments map[int64]*review.Comment
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		clock:    time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		reviews:  map[int64]*review.Review{},
		comments: map[int64]*review.Comment{},
	}
}

func (store *memoryStore) tick() (int64, time.Time) {
	store.nextID++
	store.clock = store.clock.Add(time.Minute)
	return store.nextID, store.clock
}

func (store *memoryStore) ListReviews(_ context.Context, titleID int64, params pagination.Params) ([]*review.Review, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	var matched []*review.Review
	for _, item := range store.reviews {
		if item.TitleID == titleID {
			copied := *item
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].PubDate.After(matched[j].PubDate) })
	start := min(params.Offset(), len(matched))
	end := min(start+params.Limit, len(matched))
	return matched[start:end], len(matched), nil
}

func (store *memoryStore) FindReview(_ context.Context, titleID, reviewID int64) (*review.Review, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if item, ok := store.reviews[reviewID]; ok && item.TitleID == titleID {
		copied := *item
		return &copied, nil
	}
	return nil, apperr.NotFound("Review")
}

func (store *memoryStore) CreateReview(_ context.Context, item *review.Review) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, existing := range store.reviews {
		if existing.TitleID == item.TitleID && existing.AuthorID == item.AuthorID {
			return apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: "title", Message: "You have already reviewed this title"})
		}
	}
	item.ID, item.PubDate = store.tick()
	copied := *item
	store.reviews[item.ID] = &copied
	return nil
}

func (store *memoryStore) UpdateReview(_ context.Context, item *review.Review) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	copied := *item
	store.reviews[item.ID] = &copied
	return nil
}

func (store *memoryStore) DeleteReview(_ context.Context, _, reviewID int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.reviews, reviewID)
	for id, comment := range store.comments {
		if comment.ReviewID == reviewID {
			delete(store.comments, id)
		}
	}
	return nil
}

func (store *memoryStore) ListComments(_ context.Context, reviewID int64, params pagination.Params) ([]*review.Comment, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	var matched []*review.Comment
	for _, item := range store.comments {
		if item.ReviewID == reviewID {
			copied := *item
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].PubDate.After(matched[j].PubDate) })
	start := min(params.Offset(), len(matched))
	end := min(start+params.Limit, len(matched))
	return matched[start:end], len(matched), nil
}

func (store *memoryStore) FindComment(_ context.Context, reviewID, commentID int64) (*review.Comment, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if item, ok := store.comments[commentID]; ok && item.ReviewID == reviewID {
		copied := *item
		return &copied, nil
	}
	return nil, apperr.NotFound("Comment")
}

func (store *memoryStore) CreateComment(_ context.Context, item *review.Comment) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	item.ID, item.PubDate = store.tick()
	copied := *item
	store.comments[item.ID] = &copied
	return nil
}

func (store *memoryStore) UpdateComment(_ context.Context, item *review.Comment) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	copied := *item
	store.comments[item.ID] = &copied
	return nil
}

func (store *memoryStore) DeleteComment(_ context.Context, _, commentID int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.comments, commentID)
	return nil
}

var (
	alice     = &authz.Actor{UserID: "u-alice", Username: "alice", Role: sec.RoleUser}
	bob       = &authz.Actor{UserID: "u-bob", Username: "bob", Role: sec.RoleUser}
	moderator = &authz.Actor{UserID: "u-mod", Username: "mod", Role: sec.RoleModerator}
	admin     = &authz.Actor{UserID: "u-admin", Username: "boss", Role: sec.RoleAdmin}
)

func newService() (*review.Service, *memoryStore) {
	store := newMemoryStore()
	return review.NewService(store, memoryTitles{1: true, 2: true}), store
}

func page() pagination.Params {
	return pagination.Params{Page: 1, Limit: pagination.DefaultLimit}
}

// # Reviews

/*
TestCreateReview_Validation covers score bounds, text and the parent title.
*/
func TestCreateReview_Validation(t *testing.T) {
	tests := []struct {
		name     string
		titleID  int64
		text     string
		score    int
		wantCode string
	}{
		{"valid_low", 1, "Fine", 1, ""},
		{"valid_high", 1, "Great", 10, ""},
		{"score_zero", 1, "Meh", 0, apperr.CodeValidation},
		{"score_eleven", 1, "Wow", 11, apperr.CodeValidation},
		{"blank_text", 1, "   ", 5, apperr.CodeValidation},
		{"long_text", 1, strings.Repeat("a", 501), 5, apperr.CodeValidation},
		{"missing_title", 99, "Nice", 5, apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newService()
			created, err := service.CreateReview(context.Background(), alice, tt.titleID, tt.text, tt.score)
			if tt.wantCode != "" {
				assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", created.Author)
			assert.NotZero(t, created.ID)
			assert.False(t, created.PubDate.IsZero())
		})
	}
}

/*
TestCreateReview_OnePerAuthorAndTitle rejects a second review but allows
other titles and other authors.
*/
func TestCreateReview_OnePerAuthorAndTitle(t *testing.T) {
	ctx := context.Background()
	service, _ := newService()

	_, err := service.CreateReview(ctx, alice, 1, "First", 8)
	require.NoError(t, err)

	_, err = service.CreateReview(ctx, alice, 1, "Again", 3)
	require.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Equal(t, "title", apperr.As(err).Details[0].Field)

	_, err = service.CreateReview(ctx, alice, 2, "Other title", 3)
	assert.NoError(t, err)
	_, err = service.CreateReview(ctx, bob, 1, "Other author", 3)
	assert.NoError(t, err)
}

/*
TestCreateReview_ConcurrentDuplicates lets exactly one of many racing
submissions through.
*/
func TestCreateReview_ConcurrentDuplicates(t *testing.T) {
	service, store := newService()

	const attempts = 16
	var succeeded atomic.Int32
	var wg sync.WaitGroup
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.CreateReview(context.Background(), alice, 1, "Race", 7); err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, succeeded.Load())
	_, total, err := store.ListReviews(context.Background(), 1, page())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

/*
TestListReviews_NewestFirst orders by publication date descending.
*/
func TestListReviews_NewestFirst(t *testing.T) {
	ctx := context.Background()
	service, _ := newService()

	for _, actor := range []*authz.Actor{alice, bob, moderator} {
		_, err := service.CreateReview(ctx, actor, 1, "by "+actor.Username, 5)
		require.NoError(t, err)
	}

	reviews, total, err := service.ListReviews(ctx, 1, page())
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, reviews, 3)
	assert.Equal(t, []string{"mod", "bob", "alice"},
		[]string{reviews[0].Author, reviews[1].Author, reviews[2].Author})

	_, _, err = service.ListReviews(ctx, 99, page())
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestUpdateReview_ObjectPermission allows the author, moderators and admins.
*/
func TestUpdateReview_ObjectPermission(t *testing.T) {
	tests := []struct {
		name     string
		actor    *authz.Actor
		wantCode string
	}{
		{"author", alice, ""},
		{"other_user", bob, apperr.CodeForbidden},
		{"moderator", moderator, ""},
		{"admin", admin, ""},
		{"anonymous", nil, apperr.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			service, _ := newService()
			created, err := service.CreateReview(ctx, alice, 1, "Original", 4)
			require.NoError(t, err)

			updated, err := service.UpdateReview(ctx, tt.actor, 1, created.ID, review.ReviewPatch{Score: pointer.To(9)})
			if tt.wantCode != "" {
				assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 9, updated.Score)
			assert.Equal(t, "Original", updated.Text)
			assert.Equal(t, "alice", updated.Author)
		})
	}
}

/*
TestUpdateReview_ScoreOutOfRange rejects a patch outside 1..10.
*/
func TestUpdateReview_ScoreOutOfRange(t *testing.T) {
	ctx := context.Background()
	service, _ := newService()
	created, err := service.CreateReview(ctx, alice, 1, "Original", 4)
	require.NoError(t, err)

	_, err = service.UpdateReview(ctx, alice, 1, created.ID, review.ReviewPatch{Score: pointer.To(0)})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestReview_ScopedByTitle hides a review behind the wrong title id.
*/
func TestReview_ScopedByTitle(t *testing.T) {
	ctx := context.Background()
	service, _ := newService()
	created, err := service.CreateReview(ctx, alice, 1, "Scoped", 6)
	require.NoError(t, err)

	_, err = service.GetReview(ctx, 2, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	err = service.DeleteReview(ctx, admin, 2, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = service.CreateComment(ctx, bob, 2, created.ID, "Wrong path")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

// # Comments

/*
TestComments_Lifecycle creates, lists, edits and deletes comments.
*/
func TestComments_Lifecycle(t *testing.T) {
	ctx := context.Background()
	service, _ := newService()
	parent, err := service.CreateReview(ctx, alice, 1, "Parent", 6)
	require.NoError(t, err)

	first, err := service.CreateComment(ctx, bob, 1, parent.ID, "Agree")
	require.NoError(t, err)
	_, err = service.CreateComment(ctx, alice, 1, parent.ID, "Thanks")
	require.NoError(t, err)

	_, err = service.CreateComment(ctx, bob, 1, parent.ID, strings.Repeat("x", 201))
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	comments, total, err := service.ListComments(ctx, 1, parent.ID, page())
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Thanks", comments[0].Text)

	text := pointer.To("Changed my mind")
	_, err = service.UpdateComment(ctx, alice, 1, parent.ID, first.ID, text)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	updated, err := service.UpdateComment(ctx, bob, 1, parent.ID, first.ID, text)
	require.NoError(t, err)
	assert.Equal(t, *text, updated.Text)

	require.NoError(t, service.DeleteComment(ctx, moderator, 1, parent.ID, first.ID))
	_, err = service.GetComment(ctx, 1, parent.ID, first.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestDeleteReview_RemovesComments drops the comments with their review.
*/
func TestDeleteReview_RemovesComments(t *testing.T) {
	ctx := context.Background()
	service, store := newService()
	parent, err := service.CreateReview(ctx, alice, 1, "Parent", 6)
	require.NoError(t, err)
	_, err = service.CreateComment(ctx, bob, 1, parent.ID, "Reply")
	require.NoError(t, err)

	require.NoError(t, service.DeleteReview(ctx, alice, 1, parent.ID))

	_, total, err := store.ListComments(ctx, parent.ID, page())
	require.NoError(t, err)
	assert.Zero(t, total)
}

// # HTTP

/*
TestHandler_Routes exercises the content policy through the router.
*/
func TestHandler_Routes(t *testing.T) {
	service, _ := newService()
	seeded, err := service.CreateReview(context.Background(), alice, 1, "Seeded", 7)
	require.NoError(t, err)
	require.Equal(t, int64(1), seeded.ID)

	router := review.NewHandler(service).Routes()

	aliceClaims := &sec.AuthClaims{UserID: "u-alice", Username: "alice", Role: sec.RoleUser}
	bobClaims := &sec.AuthClaims{UserID: "u-bob", Username: "bob", Role: sec.RoleUser}
	modClaims := &sec.AuthClaims{UserID: "u-mod", Username: "mod", Role: sec.RoleModerator}

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		claims     *sec.AuthClaims
		wantStatus int
	}{
		{"list_anonymous", http.MethodGet, "/1/reviews/", "", nil, http.StatusOK},
		{"list_missing_title", http.MethodGet, "/99/reviews/", "", nil, http.StatusNotFound},
		{"get_anonymous", http.MethodGet, "/1/reviews/1/", "", nil, http.StatusOK},
		{"get_wrong_title", http.MethodGet, "/2/reviews/1/", "", nil, http.StatusNotFound},
		{"get_malformed_id", http.MethodGet, "/1/reviews/abc/", "", nil, http.StatusNotFound},
		{"create_anonymous", http.MethodPost, "/1/reviews/", `{"text":"x","score":5}`, nil, http.StatusUnauthorized},
		{"create_missing_score", http.MethodPost, "/1/reviews/", `{"text":"x"}`, bobClaims, http.StatusBadRequest},
		{"create_bob", http.MethodPost, "/1/reviews/", `{"text":"Bob here","score":5}`, bobClaims, http.StatusCreated},
		{"create_duplicate", http.MethodPost, "/1/reviews/", `{"text":"Again","score":5}`, aliceClaims, http.StatusBadRequest},
		{"patch_not_owner", http.MethodPatch, "/1/reviews/1/", `{"score":1}`, bobClaims, http.StatusForbidden},
		{"patch_moderator", http.MethodPatch, "/1/reviews/1/", `{"text":"Moderated"}`, modClaims, http.StatusOK},
		{"comment_bob", http.MethodPost, "/1/reviews/1/comments/", `{"text":"Nice"}`, bobClaims, http.StatusCreated},
		{"comments_anonymous", http.MethodGet, "/1/reviews/1/comments/", "", nil, http.StatusOK},
		{"comment_wrong_review", http.MethodGet, "/1/reviews/1/comments/999/", "", nil, http.StatusNotFound},
		{"delete_not_owner", http.MethodDelete, "/1/reviews/1/", "", bobClaims, http.StatusForbidden},
		{"delete_owner", http.MethodDelete, "/1/reviews/1/", "", aliceClaims, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
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

/*
TestHandler_ReviewShape checks the serialized review fields.
*/
func TestHandler_ReviewShape(t *testing.T) {
	service, _ := newService()
	_, err := service.CreateReview(context.Background(), alice, 1, "Shape", 7)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	review.NewHandler(service).Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/1/reviews/1/", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "alice", body.Data["author"])
	assert.EqualValues(t, 7, body.Data["score"])
	assert.Contains(t, body.Data, "pub_date")
	assert.NotContains(t, body.Data, "title_id")
}
