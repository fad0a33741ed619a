// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// # Stubs

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]*auth.User{}}
}

func (repo *memoryUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if user, ok := repo.users[username]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUsers) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.users[user.Username]; ok {
		return apperr.FieldInvalid(auth.FieldUsername, "taken")
	}
	copied := *user
	repo.users[user.Username] = &copied
	return nil
}

func (repo *memoryUsers) MarkVerified(_ context.Context, userID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.users {
		if user.ID == userID {
			user.IsVerified = true
		}
	}
	return nil
}

type memoryCodes struct {
	mu    sync.Mutex
	codes map[string]string
}

func (store *memoryCodes) Set(_ context.Context, username, codeHash string, _ time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.codes[username] = codeHash
	return nil
}

func (store *memoryCodes) Get(_ context.Context, username string) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if codeHash, ok := store.codes[username]; ok {
		return codeHash, nil
	}
	return "", apperr.NotFound("Confirmation code")
}

func (store *memoryCodes) Consume(_ context.Context, username, codeHash string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.codes[username] != codeHash {
		return false, nil
	}
	delete(store.codes, username)
	return true, nil
}

type capturingNotifier struct {
	mu    sync.Mutex
	codes map[string]string
}

func (notifier *capturingNotifier) SendConfirmationCode(_ context.Context, user *auth.User, code string) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.codes[user.Username] = code
	return nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateAccessToken(subject sec.TokenSubject, _ time.Duration) (string, error) {
	return "token-for-" + subject.Username, nil
}

type fixture struct {
	service  *auth.Service
	users    *memoryUsers
	codes    *memoryCodes
	notifier *capturingNotifier
}

func newFixture() *fixture {
	f := &fixture{
		users:    newMemoryUsers(),
		codes:    &memoryCodes{codes: map[string]string{}},
		notifier: &capturingNotifier{codes: map[string]string{}},
	}
	f.service = auth.NewService(f.users, f.codes, fakeTokens{}, f.notifier, auth.Options{
		CodeTTL:  time.Hour,
		TokenTTL: time.Hour,
	})
	return f
}

// # Signup

/*
TestSignup_CreatesUnverifiedUser checks the new-account path.
*/
func TestSignup_CreatesUnverifiedUser(t *testing.T) {
	f := newFixture()

	user, code, err := f.service.Signup(context.Background(), auth.SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	assert.Equal(t, sec.RoleUser, user.Role)
	assert.False(t, user.IsVerified)
	assert.Len(t, code, 6)
	assert.Equal(t, code, f.notifier.codes["alice"])
	assert.NotEqual(t, code, f.codes.codes["alice"], "only the hash is stored")
}

/*
TestSignup_IdentityConflicts rejects usernames or emails owned by another account.
*/
func TestSignup_IdentityConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, _, err := f.service.Signup(ctx, auth.SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name      string
		input     auth.SignupInput
		wantField string
	}{
		{"username_with_other_email", auth.SignupInput{Username: "alice", Email: "other@example.com"}, auth.FieldUsername},
		{"email_with_other_username", auth.SignupInput{Username: "bob", Email: "alice@example.com"}, auth.FieldEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.service.Signup(ctx, tt.input)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, apperr.CodeValidation, appError.Code)
			require.Len(t, appError.Details, 1)
			assert.Equal(t, tt.wantField, appError.Details[0].Field)
		})
	}
}

// # Token Exchange

/*
TestIssueToken_LastCodeWins re-signs up and checks only the newest code works.
*/
func TestIssueToken_LastCodeWins(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	identity := auth.SignupInput{Username: "alice", Email: "alice@example.com"}

	first, firstCode, err := f.service.Signup(ctx, identity)
	require.NoError(t, err)
	second, secondCode, err := f.service.Signup(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "account is reused")

	if firstCode != secondCode {
		_, err = f.service.IssueToken(ctx, auth.TokenInput{Username: "alice", ConfirmationCode: firstCode})
		assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
	}

	token, err := f.service.IssueToken(ctx, auth.TokenInput{Username: "alice", ConfirmationCode: secondCode})
	require.NoError(t, err)
	assert.Equal(t, "token-for-alice", token)
	assert.True(t, f.users.users["alice"].IsVerified)
}

/*
TestIssueToken_Rejections covers every AuthError path.
*/
func TestIssueToken_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, code, err := f.service.Signup(ctx, auth.SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = f.service.IssueToken(ctx, auth.TokenInput{Username: "ghost", ConfirmationCode: code})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized), "unknown user")

	_, err = f.service.IssueToken(ctx, auth.TokenInput{Username: "alice", ConfirmationCode: "000000"})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized), "wrong code")

	// A wrong guess does not burn the code.
	_, err = f.service.IssueToken(ctx, auth.TokenInput{Username: "alice", ConfirmationCode: code})
	require.NoError(t, err)

	_, err = f.service.IssueToken(ctx, auth.TokenInput{Username: "alice", ConfirmationCode: code})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized), "code is single use")
}

/*
TestIssueToken_ConcurrentExchange lets exactly one of many racing exchanges win.
*/
func TestIssueToken_ConcurrentExchange(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, code, err := f.service.Signup(ctx, auth.SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.service.IssueToken(ctx, auth.TokenInput{Username: "alice", ConfirmationCode: code}); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

// # HTTP

/*
TestHandler_SignupAndToken drives both endpoints through the router.
*/
func TestHandler_SignupAndToken(t *testing.T) {
	f := newFixture()
	router := auth.NewHandler(f.service).Routes()

	post := func(path, body string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	recorder := post("/signup/", `{"username":"alice","email":"alice@example.com"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var signup struct {
		Data struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &signup))
	assert.Equal(t, "alice", signup.Data.Username)
	assert.Equal(t, "alice@example.com", signup.Data.Email)

	recorder = post("/token/", `{"username":"alice","confirmation_code":"`+f.notifier.codes["alice"]+`"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "token-for-alice")

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{"reserved_username", "/signup/", `{"username":"me","email":"me@example.com"}`, http.StatusBadRequest},
		{"bad_username_alphabet", "/signup/", `{"username":"a b","email":"ab@example.com"}`, http.StatusBadRequest},
		{"bad_email", "/signup/", `{"username":"carol","email":"nope"}`, http.StatusBadRequest},
		{"malformed_json", "/signup/", `{"username":`, http.StatusBadRequest},
		{"token_missing_code", "/token/", `{"username":"alice"}`, http.StatusBadRequest},
		{"token_bad_code", "/token/", `{"username":"alice","confirmation_code":"123"}`, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, post(tt.path, tt.body).Code)
		})
	}
}
