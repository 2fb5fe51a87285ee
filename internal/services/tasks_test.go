package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelsos/timecamp-cli/internal/client"
	"github.com/kelsos/timecamp-cli/internal/config"
	"github.com/kelsos/timecamp-cli/internal/models"
)

func newTasksService(cfg *config.Config) *TasksService {
	apiClient := client.NewAPIClient(cfg)
	userService := NewUserService(apiClient, cfg)
	return NewTasksService(apiClient, userService)
}

func TestGetActiveUserTasksSelfSendsAdminOverride(t *testing.T) {
	var ignoreAdminRights string

	mux := http.NewServeMux()
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		ignoreAdminRights = r.URL.Query().Get("ignoreAdminRights")
		w.Write([]byte(`{
			"1": {"task_id":"1","parent_id":"0","archived":"0","user_access_type":"2","name":"writable"},
			"2": {"task_id":"2","parent_id":"1","archived":"0","user_access_type":"1","name":"read only"}
		}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	service := newTasksService(newTestConfig(server.URL))

	result, err := service.GetActiveUserTasks(GetActiveUserTasksOptions{
		User:                  "me",
		IncludeFullBreadcrumb: false,
	})

	require.NoError(t, err)
	assert.Equal(t, "1", ignoreAdminRights)
	require.Len(t, result, 1)
	assert.Equal(t, 1, result[0].TaskID.Int())
}

func TestGetActiveUserTasksOtherUserBreadcrumb(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	mux := http.NewServeMux()
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user_id":"1","email":"admin@example.com","root_group_id":"42"}`))
	})
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("ignoreAdminRights"))
		w.Write([]byte(`{
			"1": {"task_id":"1","parent_id":"0","archived":"0","name":"parent"},
			"2": {"task_id":"2","parent_id":"1","archived":"0","name":"child","users":{"7":{"user_id":"7","role_id":"3"}}}
		}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	service := newTasksService(newTestConfig(server.URL))

	result, err := service.GetActiveUserTasks(GetActiveUserTasksOptions{
		User:                  "7",
		IncludeFullBreadcrumb: true,
	})

	require.NoError(t, err)
	require.Len(t, result, 2)

	trackable := map[int]bool{}
	for _, task := range result {
		require.NotNil(t, task.CanTrackTime)
		trackable[task.TaskID.Int()] = *task.CanTrackTime
	}
	assert.False(t, trackable[1], "ancestor is context only")
	assert.True(t, trackable[2], "direct assignment grants tracking")
}

func TestGetActiveUserTasksNumericSelfShortCircuits(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var ignoreAdminRights string

	mux := http.NewServeMux()
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user_id":"7","email":"me@example.com","root_group_id":"42"}`))
	})
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		ignoreAdminRights = r.URL.Query().Get("ignoreAdminRights")
		w.Write([]byte(`{"1": {"task_id":"1","parent_id":"0","archived":"0","user_access_type":"3","name":"mine"}}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	service := newTasksService(newTestConfig(server.URL))

	result, err := service.GetActiveUserTasks(GetActiveUserTasksOptions{User: "7"})
	require.NoError(t, err)
	assert.Equal(t, "1", ignoreAdminRights, "own numeric id resolves to the self branch")
	require.Len(t, result, 1)
}

func TestGetActiveUserTasksOpaqueTokenSeesNothing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"1": {"task_id":"1","parent_id":"0","archived":"0","user_access_type":"3","name":"secret","users":{"7":{"user_id":"7"}}}}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	service := newTasksService(newTestConfig(server.URL))

	result, err := service.GetActiveUserTasks(GetActiveUserTasksOptions{User: "someone@example.com"})
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestGetActiveUserTasksSkipsMalformedEntries(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"1": {"task_id":"1","parent_id":"0","archived":"0","user_access_type":"2","name":"ok"},
			"2": 17
		}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	service := newTasksService(newTestConfig(server.URL))

	result, err := service.GetActiveUserTasks(GetActiveUserTasksOptions{User: "me"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 1, result[0].TaskID.Int())
}

func TestGetAllIncludesArchivedAndStripsTags(t *testing.T) {
	var status string

	mux := http.NewServeMux()
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		status = r.URL.Query().Get("status")
		w.Write([]byte(`{
			"1": {"task_id":"1","parent_id":"0","archived":"0","name":"live","tags":[{"tagId":"5"}]},
			"2": {"task_id":"2","parent_id":"0","archived":"1","name":"done"}
		}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	service := newTasksService(newTestConfig(server.URL))

	result, err := service.GetAll()
	require.NoError(t, err)
	assert.Equal(t, "all", status)
	assert.Len(t, result, 2)
	for _, task := range result {
		assert.Nil(t, task.Tags)
	}
}

func TestCreateTaskStringEncodesParentID(t *testing.T) {
	var body map[string]interface{}

	mux := http.NewServeMux()
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"5": {"task_id":"5","parent_id":"3","archived":"0","name":"new task"}}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	service := newTasksService(newTestConfig(server.URL))

	created, err := service.Create(models.CreateTaskRequest{Name: "new task", ParentID: 3})
	require.NoError(t, err)
	assert.Contains(t, created, "5")
	assert.Equal(t, "3", body["parent_id"], "parent id travels as a string")
}
