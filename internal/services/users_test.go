package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelsos/timecamp-cli/internal/client"
	"github.com/kelsos/timecamp-cli/internal/config"
	"github.com/kelsos/timecamp-cli/internal/logger"
)

func init() {
	logger.Init()
}

func newTestConfig(baseURL string) *config.Config {
	cfg := config.NewConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = baseURL
	cfg.Timeout = 2 * time.Second
	cfg.MaxRetries = 2
	cfg.RetryDelay = time.Millisecond
	cfg.InvitePollAttempts = 3
	cfg.InvitePollDelay = time.Millisecond
	cfg.NamePatchMaxRetries = 2
	return cfg
}

func newUsersService(cfg *config.Config) *UsersService {
	apiClient := client.NewAPIClient(cfg)
	userService := NewUserService(apiClient, cfg)
	return NewUsersService(apiClient, userService, cfg)
}

func TestInviteResolvesUserIDAndPatchesDisplayName(t *testing.T) {
	var inviteCalls, pollCalls, patchCalls atomic.Int32
	var inviteBody map[string]interface{}
	var patchedName, patchedID string

	mux := http.NewServeMux()
	mux.HandleFunc("/group/42/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			inviteCalls.Add(1)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&inviteBody))
			w.Write([]byte(`{"statuses":{"new@example.com":{"status":"Invite"}}}`))
			return
		}

		// The freshly created member only shows up on the second listing.
		if pollCalls.Add(1) < 2 {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"user_id":"77","email":"new@example.com"}]`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		patchCalls.Add(1)
		require.NoError(t, r.ParseForm())
		patchedName = r.PostForm.Get("display_name")
		patchedID = r.PostForm.Get("user_id")
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	service := newUsersService(newTestConfig(server.URL))

	result, err := service.Invite(InviteRequest{
		Email:       "new@example.com",
		DisplayName: "Jane Doe",
		GroupID:     42,
	})

	require.NoError(t, err)
	assert.Equal(t, "77", result.UserID)
	assert.NoError(t, result.ResolveErr)
	assert.NoError(t, result.DisplayNameUpdateErr)
	assert.Equal(t, "Invite", result.Statuses["new@example.com"].Status)

	assert.Equal(t, int32(1), inviteCalls.Load())
	assert.Equal(t, int32(2), pollCalls.Load(), "polling stops as soon as the member is found")
	assert.Equal(t, int32(1), patchCalls.Load(), "display name patch issued exactly once")
	assert.Equal(t, "Jane Doe", patchedName)
	assert.Equal(t, "77", patchedID)

	// Fixed policy flags ride along on every invite.
	assert.Equal(t, []interface{}{"new@example.com"}, inviteBody["email"])
	for key, value := range config.InviteDefaults {
		assert.Equal(t, value, inviteBody[key], "invite default %s", key)
	}
}

func TestInviteRetriesCreationOnRateLimit(t *testing.T) {
	var inviteCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/group/42/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if inviteCalls.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(`{"statuses":{"new@example.com":{"status":"Invite"}}}`))
			return
		}
		w.Write([]byte(`[{"user_id":"77","email":"new@example.com"}]`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {})

	server := httptest.NewServer(mux)
	defer server.Close()

	service := newUsersService(newTestConfig(server.URL))

	result, err := service.Invite(InviteRequest{
		Email:       "new@example.com",
		DisplayName: "Jane Doe",
		GroupID:     42,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), inviteCalls.Load())
	assert.Equal(t, "77", result.UserID)
}

func TestInviteWithoutDisplayNameMakesSingleCall(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/group/42/user", r.URL.Path)
		w.Write([]byte(`{"statuses":{"plain@example.com":{"status":"Invite"}}}`))
	}))
	defer server.Close()

	service := newUsersService(newTestConfig(server.URL))

	result, err := service.Invite(InviteRequest{Email: "plain@example.com", GroupID: 42})
	require.NoError(t, err)

	// No name to patch means no id discovery: the creation POST is the
	// only request issued.
	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, result.UserID)
	assert.NoError(t, result.ResolveErr)
	assert.NoError(t, result.DisplayNameUpdateErr)
	assert.Equal(t, "Invite", result.Statuses["plain@example.com"].Status)
}

func TestInviteReportsResolutionExhaustion(t *testing.T) {
	var pollCalls, patchCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/group/42/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"statuses":{"ghost@example.com":{"status":"Invite"}}}`))
			return
		}
		pollCalls.Add(1)
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		patchCalls.Add(1)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := newTestConfig(server.URL)
	service := newUsersService(cfg)

	result, err := service.Invite(InviteRequest{
		Email:       "ghost@example.com",
		DisplayName: "Ghost",
		GroupID:     42,
	})

	// The membership was created, so exhaustion is a partial success.
	require.NoError(t, err)
	assert.Empty(t, result.UserID)

	var resolutionErr *UserResolutionError
	require.ErrorAs(t, result.ResolveErr, &resolutionErr)
	assert.Equal(t, "ghost@example.com", resolutionErr.Email)
	assert.Equal(t, cfg.InvitePollAttempts, resolutionErr.Attempts)

	assert.Equal(t, int32(cfg.InvitePollAttempts), pollCalls.Load())
	assert.Equal(t, int32(0), patchCalls.Load(), "no patch without a resolved id")
}

func TestInviteResolvesDefaultGroupFromProfile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var meCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		meCalls.Add(1)
		w.Write([]byte(`{"user_id":"1","email":"admin@example.com","root_group_id":"42","group_id":"42"}`))
	})
	mux.HandleFunc("/group/42/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"statuses":{"new@example.com":{"status":"Invite"}}}`))
			return
		}
		w.Write([]byte(`[{"id":"88","email":"new@example.com"}]`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {})

	server := httptest.NewServer(mux)
	defer server.Close()

	service := newUsersService(newTestConfig(server.URL))

	result, err := service.Invite(InviteRequest{Email: "new@example.com", DisplayName: "Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), meCalls.Load())
	assert.Equal(t, "88", result.UserID, "member id may arrive under the id key")
}

func TestInviteSurfacesDisplayNamePatchFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/group/42/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"statuses":{"new@example.com":{"status":"Invite"}}}`))
			return
		}
		w.Write([]byte(`[{"user_id":"77","email":"new@example.com"}]`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	service := newUsersService(newTestConfig(server.URL))

	result, err := service.Invite(InviteRequest{
		Email:       "new@example.com",
		DisplayName: "Jane Doe",
		GroupID:     42,
	})

	require.NoError(t, err, "a failed display-name patch does not fail the invite")
	assert.Equal(t, "77", result.UserID)
	assert.Error(t, result.DisplayNameUpdateErr)
}

func TestGetAllNormalizesKeyedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"5":{"user_id":"5","email":"a@example.com"},"6":{"user_id":"6","email":"b@example.com"}}`))
	}))
	defer server.Close()

	service := newUsersService(newTestConfig(server.URL))

	users, err := service.GetAll()
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
