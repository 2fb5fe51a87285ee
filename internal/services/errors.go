package services

import "fmt"

// UserResolutionError reports that the invite workflow created a membership
// but could not discover the new member's id within the polling budget.
type UserResolutionError struct {
	Email    string
	Attempts int
}

func (e *UserResolutionError) Error() string {
	return fmt.Sprintf("unable to resolve user id for invited user %s after %d attempts", e.Email, e.Attempts)
}
