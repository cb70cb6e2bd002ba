package controller

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-loanform/pkg/client"
	"github.com/goliatone/go-loanform/pkg/loan"
)

// User-facing notice texts.
const (
	MsgLoadFailed     = "Failed to load loan applications. Please ensure the backend is running."
	MsgEditLoadFailed = "Failed to load loan for editing."
	MsgUpdated        = "Loan application updated successfully!"
	MsgAdded          = "Loan application added successfully!"
	MsgConfirmDelete  = "Are you sure you want to delete this loan application?"
	MsgDeleted        = "Loan application deleted successfully!"
	MsgNotFound       = "Loan application not found."
)

func editingMessage(id int64) string {
	return fmt.Sprintf("Editing Loan ID: %d", id)
}

// failureMessage turns an API error into a notice. HTTP errors report the
// status; anything else reports the error text.
func failureMessage(action string, err error) string {
	if status := client.StatusCode(err); status > 0 {
		return fmt.Sprintf("Error: Failed to %s loan. Status: %d", action, status)
	}
	return "Error: " + err.Error()
}

func validationMessage(err error) string {
	var verr *loan.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("Error: %s %s", verr.Field, verr.Message)
	}
	return "Error: " + err.Error()
}
