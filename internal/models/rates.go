package models

// BillingRate is one rate assignment on a task, user, group or
// task-user combination.
type BillingRate struct {
	RateID     FlexInt `json:"rate_id,omitempty"`
	RateTypeID FlexInt `json:"rateTypeId,omitempty"`
	Value      string  `json:"value"`
	AddDate    string  `json:"addDate,omitempty"`
}

// SetRateRequest holds the writable rate fields.
type SetRateRequest struct {
	RateTypeID int    `json:"rateTypeId"`
	Value      string `json:"value"`
	AddDate    string `json:"addDate,omitempty"`
}
