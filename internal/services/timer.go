package services

import (
	"fmt"
	"time"

	"github.com/kelsos/timecamp-cli/internal/client"
	"github.com/kelsos/timecamp-cli/internal/models"
	"github.com/kelsos/timecamp-cli/internal/utils"
)

// TimerService handles timer operations
type TimerService struct {
	client *client.APIClient
}

// NewTimerService creates a new timer service
func NewTimerService(apiClient *client.APIClient) *TimerService {
	return &TimerService{
		client: apiClient,
	}
}

// Start starts a timer, optionally against a task. An empty startedAt
// defaults to now.
func (s *TimerService) Start(taskID int, startedAt string) (*models.TimerStatus, error) {
	if startedAt == "" {
		startedAt = utils.FormatTimestamp(time.Now())
	}

	action := models.TimerAction{
		Action:    "start",
		TaskID:    taskID,
		StartedAt: startedAt,
		Service:   s.client.ClientName(),
	}

	var status models.TimerStatus
	if err := s.client.Post("timer", action, &status); err != nil {
		return nil, fmt.Errorf("failed to start timer: %w", err)
	}

	return &status, nil
}

// Stop stops the running timer. An empty stoppedAt defaults to now.
func (s *TimerService) Stop(stoppedAt string) (*models.TimerStatus, error) {
	if stoppedAt == "" {
		stoppedAt = utils.FormatTimestamp(time.Now())
	}

	action := models.TimerAction{
		Action:    "stop",
		StoppedAt: stoppedAt,
		Service:   s.client.ClientName(),
	}

	var status models.TimerStatus
	if err := s.client.Post("timer", action, &status); err != nil {
		return nil, fmt.Errorf("failed to stop timer: %w", err)
	}

	return &status, nil
}

// Status returns the current timer state.
func (s *TimerService) Status() (*models.TimerStatus, error) {
	action := models.TimerAction{
		Action:  "status",
		Service: s.client.ClientName(),
	}

	var status models.TimerStatus
	if err := s.client.Post("timer", action, &status); err != nil {
		return nil, fmt.Errorf("failed to get timer status: %w", err)
	}

	return &status, nil
}
