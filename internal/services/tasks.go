package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/kelsos/timecamp-cli/internal/client"
	"github.com/kelsos/timecamp-cli/internal/models"
	"github.com/kelsos/timecamp-cli/internal/tasks"
)

var numericUserPattern = regexp.MustCompile(`^\d+$`)

// GetActiveUserTasksOptions scope a task visibility query. User accepts
// "me" (or empty), a numeric user id, or an opaque token that is treated as
// an unresolved other user.
type GetActiveUserTasksOptions struct {
	User                  string
	IncludeFullBreadcrumb bool
}

// TasksService handles task management and visibility queries
type TasksService struct {
	client *client.APIClient
	user   *UserService
}

// NewTasksService creates a new tasks service
func NewTasksService(apiClient *client.APIClient, userService *UserService) *TasksService {
	return &TasksService{
		client: apiClient,
		user:   userService,
	}
}

// GetAll retrieves every task including archived ones.
func (s *TasksService) GetAll() ([]models.Task, error) {
	var raw json.RawMessage
	if err := s.client.Get("tasks", map[string]string{"status": "all"}, &raw); err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}

	taskMap, err := models.DecodeTaskMap(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tasks response: %w", err)
	}

	result := make([]models.Task, 0, len(taskMap))
	for _, task := range taskMap {
		task.Tags = nil
		result = append(result, task)
	}

	return result, nil
}

// GetActiveUserTasks retrieves the tasks the given user may see, annotated
// with per-task trackability.
func (s *TasksService) GetActiveUserTasks(opts GetActiveUserTasksOptions) ([]models.Task, error) {
	principal, err := s.resolveUserParam(opts.User)
	if err != nil {
		return nil, err
	}

	params := map[string]string{}
	if principal.IsSelf {
		params["ignoreAdminRights"] = "1"
	}

	var raw json.RawMessage
	if err := s.client.Get("tasks", params, &raw); err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}

	taskMap, err := models.DecodeTaskMap(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tasks response: %w", err)
	}

	return tasks.PrepareTasks(taskMap, tasks.FilterOptions{
		Principal:             principal,
		IncludeFullBreadcrumb: opts.IncludeFullBreadcrumb,
	}), nil
}

// resolveUserParam disambiguates a caller-supplied user identifier into a
// principal before any visibility work happens. A numeric id matching the
// authenticated user's own id short-circuits to the self branch; an opaque
// token stays unresolved and can never track time.
func (s *TasksService) resolveUserParam(user string) (tasks.Principal, error) {
	if user == "" || user == "me" {
		return tasks.Principal{IsSelf: true}, nil
	}

	if !numericUserPattern.MatchString(user) {
		return tasks.Principal{}, nil
	}

	currentUser, err := s.user.GetCached()
	if err != nil {
		return tasks.Principal{}, fmt.Errorf("failed to resolve user parameter: %w", err)
	}

	if currentUser.UserID == user {
		return tasks.Principal{IsSelf: true, TargetID: user}, nil
	}

	return tasks.Principal{TargetID: user}, nil
}

// Create adds a new task. The response record comes back with
// string-encoded numbers and is normalized on decode.
func (s *TasksService) Create(req models.CreateTaskRequest) (models.TaskMap, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("task name is required")
	}

	body, err := taskRequestBody(req)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := s.client.Post("tasks", body, &raw); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return models.DecodeTaskMap(raw)
}

// Update modifies an existing task.
func (s *TasksService) Update(req models.UpdateTaskRequest) (models.TaskMap, error) {
	if req.TaskID == 0 {
		return nil, fmt.Errorf("task id is required")
	}

	body, err := updateTaskRequestBody(req)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := s.client.Put("tasks", body, &raw); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return models.DecodeTaskMap(raw)
}

// GetFavorites retrieves the caller's favorite tasks.
func (s *TasksService) GetFavorites() ([]models.TaskFavorite, error) {
	var response models.TaskFavoritesResponse
	endpoint := client.BuildV3Endpoint("taskPicker/favourites")
	if err := s.client.Get(endpoint, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to get favorite tasks: %w", err)
	}

	return response.Data, nil
}

// AddFavorite marks a task as favorite.
func (s *TasksService) AddFavorite(taskID int) error {
	endpoint := client.BuildV3Endpoint(fmt.Sprintf("taskPicker/favourites/add/%d", taskID))

	var response models.TaskFavoriteMutationResponse
	if err := s.client.Post(endpoint, nil, &response); err != nil {
		return fmt.Errorf("failed to add favorite task %d: %w", taskID, err)
	}

	return nil
}

// RemoveFavorite removes a task from favorites.
func (s *TasksService) RemoveFavorite(taskID int) error {
	endpoint := client.BuildV3Endpoint(fmt.Sprintf("taskPicker/favourites/delete/%d", taskID))

	var response models.TaskFavoriteMutationResponse
	if err := s.client.Delete(endpoint, nil, &response); err != nil {
		return fmt.Errorf("failed to remove favorite task %d: %w", taskID, err)
	}

	return nil
}

// taskRequestBody renders a create request. Parent ids go out string-encoded
// the way the API expects.
func taskRequestBody(req models.CreateTaskRequest) (map[string]interface{}, error) {
	jsonBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task request: %w", err)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &body); err != nil {
		return nil, fmt.Errorf("failed to build task request body: %w", err)
	}

	if req.ParentID != 0 {
		body["parent_id"] = strconv.Itoa(req.ParentID)
	}

	return body, nil
}

func updateTaskRequestBody(req models.UpdateTaskRequest) (map[string]interface{}, error) {
	jsonBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task request: %w", err)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &body); err != nil {
		return nil, fmt.Errorf("failed to build task request body: %w", err)
	}

	body["task_id"] = strconv.Itoa(req.TaskID)
	if req.ParentID != nil {
		body["parent_id"] = strconv.Itoa(*req.ParentID)
	}

	return body, nil
}
