// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

type memoryAccounts struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newMemoryAccounts(users ...*auth.User) *memoryAccounts {
	repo := &memoryAccounts{users: map[string]*auth.User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (repo *memoryAccounts) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if user, ok := repo.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryAccounts) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryAccounts) List(_ context.Context, filter account.ListFilter) ([]*auth.User, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var matched []*auth.User
	for _, user := range repo.users {
		if strings.Contains(strings.ToLower(user.Username), strings.ToLower(filter.Search)) {
			matched = append(matched, user)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })

	start := min(filter.Offset(), len(matched))
	end := min(start+filter.Limit, len(matched))
	return matched[start:end], len(matched), nil
}

func (repo *memoryAccounts) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, existing := range repo.users {
		if existing.Username == user.Username {
			return apperr.FieldInvalid(auth.FieldUsername, "taken")
		}
	}
	copied := *user
	repo.users[user.ID] = &copied
	return nil
}

func (repo *memoryAccounts) Update(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	copied := *user
	repo.users[user.ID] = &copied
	return nil
}

func (repo *memoryAccounts) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	delete(repo.users, id)
	return nil
}

func seed() *memoryAccounts {
	return newMemoryAccounts(
		&auth.User{ID: "u1", Username: "reader", Email: "reader@example.com", Role: sec.RoleUser},
		&auth.User{ID: "m1", Username: "mod", Email: "mod@example.com", Role: sec.RoleModerator},
		&auth.User{ID: "a1", Username: "boss", Email: "boss@example.com", Role: sec.RoleAdmin},
	)
}

func ptr[T any](value T) *T { return &value }

/*
TestUpdateSelf_RoleDroppedForUser checks that plain users cannot promote themselves.
*/
func TestUpdateSelf_RoleDroppedForUser(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		wantRole sec.UserRole
	}{
		{"user_is_ignored", "u1", sec.RoleUser},
		{"moderator_may_change", "m1", sec.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := account.NewService(seed())

			user, err := service.UpdateSelf(context.Background(), tt.userID, account.UpdateInput{
				Bio:  ptr("hello"),
				Role: ptr(sec.RoleAdmin),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, user.Role)
			assert.Equal(t, "hello", user.Bio)
		})
	}
}

/*
TestUpdate_ValidatesFields rejects bad values before reaching storage.
*/
func TestUpdate_ValidatesFields(t *testing.T) {
	service := account.NewService(seed())

	_, err := service.Update(context.Background(), "reader", account.UpdateInput{Username: ptr("me")})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.Update(context.Background(), "reader", account.UpdateInput{Role: ptr(sec.UserRole("owner"))})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.Update(context.Background(), "ghost", account.UpdateInput{})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestCreate_DefaultsRole creates a plain user when no role is given.
*/
func TestCreate_DefaultsRole(t *testing.T) {
	service := account.NewService(seed())

	user, err := service.Create(context.Background(), account.CreateInput{Username: "newbie", Email: "newbie@example.com"})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)
}

/*
TestList_SearchAndPaginate filters by username substring.
*/
func TestList_SearchAndPaginate(t *testing.T) {
	service := account.NewService(seed())

	users, total, err := service.List(context.Background(), account.ListFilter{
		Search: "O",
		Params: pagination.Params{Page: 1, Limit: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, users, 1)
	assert.Equal(t, "boss", users[0].Username)
}

// # HTTP

func serve(router http.Handler, method, path, body string, claims *sec.AuthClaims) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if claims != nil {
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Policies drives the self-service and admin routes with each role.
*/
func TestHandler_Policies(t *testing.T) {
	reader := &sec.AuthClaims{UserID: "u1", Username: "reader", Role: sec.RoleUser}
	moderator := &sec.AuthClaims{UserID: "m1", Username: "mod", Role: sec.RoleModerator}
	admin := &sec.AuthClaims{UserID: "a1", Username: "boss", Role: sec.RoleAdmin}
	superuser := &sec.AuthClaims{UserID: "u1", Username: "reader", Role: sec.RoleUser, IsSuperuser: true}

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		claims     *sec.AuthClaims
		wantStatus int
	}{
		{"me_anonymous", http.MethodGet, "/me/", "", nil, http.StatusUnauthorized},
		{"me_reader", http.MethodGet, "/me/", "", reader, http.StatusOK},
		{"me_patch", http.MethodPatch, "/me/", `{"first_name":"Ann"}`, reader, http.StatusOK},
		{"me_patch_bad_email", http.MethodPatch, "/me/", `{"email":"x"}`, reader, http.StatusBadRequest},
		{"list_anonymous", http.MethodGet, "/", "", nil, http.StatusUnauthorized},
		{"list_reader", http.MethodGet, "/", "", reader, http.StatusForbidden},
		{"list_moderator", http.MethodGet, "/", "", moderator, http.StatusForbidden},
		{"list_admin", http.MethodGet, "/", "", admin, http.StatusOK},
		{"list_superuser", http.MethodGet, "/", "", superuser, http.StatusOK},
		{"get_by_username", http.MethodGet, "/mod/", "", admin, http.StatusOK},
		{"get_missing", http.MethodGet, "/ghost/", "", admin, http.StatusNotFound},
		{"create", http.MethodPost, "/", `{"username":"fresh","email":"fresh@example.com"}`, admin, http.StatusCreated},
		{"create_bad_role", http.MethodPost, "/", `{"username":"x1","email":"x1@example.com","role":"owner"}`, admin, http.StatusBadRequest},
		{"patch_role", http.MethodPatch, "/reader/", `{"role":"moderator"}`, admin, http.StatusOK},
		{"patch_unknown_role", http.MethodPatch, "/reader/", `{"role":"superadmin"}`, admin, http.StatusBadRequest},
		{"delete", http.MethodDelete, "/mod/", "", admin, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := account.NewHandler(account.NewService(seed())).Routes()
			recorder := serve(router, tt.method, tt.path, tt.body, tt.claims)
			assert.Equal(t, tt.wantStatus, recorder.Code, recorder.Body.String())
		})
	}
}

/*
TestHandler_MeRoleIgnored drops any role sent by a plain user, even an unknown
one, and keeps the rest of the update.
*/
func TestHandler_MeRoleIgnored(t *testing.T) {
	reader := &sec.AuthClaims{UserID: "u1", Username: "reader", Role: sec.RoleUser}
	moderator := &sec.AuthClaims{UserID: "m1", Username: "mod", Role: sec.RoleModerator}

	tests := []struct {
		name       string
		body       string
		claims     *sec.AuthClaims
		wantStatus int
		wantBody   []string
	}{
		{"known_role", `{"role":"admin"}`, reader, http.StatusOK, []string{`"role":"user"`}},
		{"unknown_role", `{"role":"superadmin","bio":"x"}`, reader, http.StatusOK, []string{`"role":"user"`, `"bio":"x"`}},
		{"moderator_unknown_role", `{"role":"superadmin","bio":"x"}`, moderator, http.StatusBadRequest, []string{`"field":"role"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := account.NewHandler(account.NewService(seed())).Routes()

			recorder := serve(router, http.MethodPatch, "/me/", tt.body, tt.claims)
			require.Equal(t, tt.wantStatus, recorder.Code, recorder.Body.String())
			for _, fragment := range tt.wantBody {
				assert.Contains(t, recorder.Body.String(), fragment)
			}
		})
	}
}
