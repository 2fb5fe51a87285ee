package services

import (
	"encoding/json"
	"fmt"

	"github.com/kelsos/timecamp-cli/internal/client"
	"github.com/kelsos/timecamp-cli/internal/models"
)

// BillingRatesService handles billing rate management for tasks, users,
// groups and task-user combinations
type BillingRatesService struct {
	client *client.APIClient
}

// NewBillingRatesService creates a new billing rates service
func NewBillingRatesService(apiClient *client.APIClient) *BillingRatesService {
	return &BillingRatesService{
		client: apiClient,
	}
}

// GetTaskRates retrieves billing rates for a task.
func (s *BillingRatesService) GetTaskRates(taskID int, rateTypeID string) ([]models.BillingRate, error) {
	return s.getRates(fmt.Sprintf("task/%d/rate", taskID), rateTypeID)
}

// SetTaskRate sets or updates a billing rate for a task.
func (s *BillingRatesService) SetTaskRate(taskID int, req models.SetRateRequest) (*models.BillingRate, error) {
	return s.setRate(fmt.Sprintf("task/%d/rate", taskID), req)
}

// GetUserRates retrieves billing rates for a user.
func (s *BillingRatesService) GetUserRates(userID int, rateTypeID string) ([]models.BillingRate, error) {
	return s.getRates(fmt.Sprintf("user/%d/rate", userID), rateTypeID)
}

// SetUserRate sets or updates a billing rate for a user.
func (s *BillingRatesService) SetUserRate(userID int, req models.SetRateRequest) (*models.BillingRate, error) {
	return s.setRate(fmt.Sprintf("user/%d/rate", userID), req)
}

// GetTaskUserRates retrieves billing rates for a task-user combination.
func (s *BillingRatesService) GetTaskUserRates(taskID, userID int, rateTypeID string) ([]models.BillingRate, error) {
	return s.getRates(fmt.Sprintf("task/%d/user/%d/rate", taskID, userID), rateTypeID)
}

// SetTaskUserRate sets or updates a billing rate for a task-user combination.
func (s *BillingRatesService) SetTaskUserRate(taskID, userID int, req models.SetRateRequest) (*models.BillingRate, error) {
	return s.setRate(fmt.Sprintf("task/%d/user/%d/rate", taskID, userID), req)
}

// GetGroupRates retrieves billing rates for a group.
func (s *BillingRatesService) GetGroupRates(groupID int, rateTypeID string) ([]models.BillingRate, error) {
	return s.getRates(fmt.Sprintf("group/%d/rate", groupID), rateTypeID)
}

// SetGroupRate sets or updates a billing rate for a group.
func (s *BillingRatesService) SetGroupRate(groupID int, req models.SetRateRequest) (*models.BillingRate, error) {
	return s.setRate(fmt.Sprintf("group/%d/rate", groupID), req)
}

func (s *BillingRatesService) getRates(endpoint, rateTypeID string) ([]models.BillingRate, error) {
	params := map[string]string{}
	if rateTypeID != "" {
		params["rate_id"] = rateTypeID
	}

	var raw json.RawMessage
	if err := s.client.Get(endpoint, params, &raw); err != nil {
		return nil, fmt.Errorf("failed to get rates from %s: %w", endpoint, err)
	}

	rates, err := models.NormalizeCollection[models.BillingRate](raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize rates response: %w", err)
	}

	return rates, nil
}

func (s *BillingRatesService) setRate(endpoint string, req models.SetRateRequest) (*models.BillingRate, error) {
	var rate models.BillingRate
	if err := s.client.Post(endpoint, req, &rate); err != nil {
		return nil, fmt.Errorf("failed to set rate on %s: %w", endpoint, err)
	}

	return &rate, nil
}
