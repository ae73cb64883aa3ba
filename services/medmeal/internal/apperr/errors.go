package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidCart       = errors.New("invalid cart")
	ErrOutOfStock        = errors.New("out of stock")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidState      = errors.New("invalid state")
	ErrAlreadyRated      = errors.New("already rated")
	ErrPastCutoff        = errors.New("past order cut-off")
	ErrInvalidRating     = errors.New("invalid rating")
	ErrInvalidDiet       = errors.New("invalid diet type")
	ErrInvalidPrice      = errors.New("invalid price")
)

type kind struct {
	err     error
	status  int
	message string
}

// kinds is checked in order; the first match wins.
var kinds = []kind{
	{ErrNotFound, http.StatusNotFound, "The requested record does not exist"},
	{ErrInvalidCart, http.StatusBadRequest, "The cart is empty or has a non-positive quantity"},
	{ErrOutOfStock, http.StatusConflict, "One or more dishes are out of stock"},
	{ErrInvalidTransition, http.StatusConflict, "The order cannot move to that status"},
	{ErrInvalidState, http.StatusConflict, "Only completed orders can be rated"},
	{ErrAlreadyRated, http.StatusConflict, "This order has already been rated"},
	{ErrPastCutoff, http.StatusForbidden, "Orders are closed for today"},
	{ErrInvalidRating, http.StatusBadRequest, "Rating must be between 1 and 5 stars"},
	{ErrInvalidDiet, http.StatusBadRequest, "Unknown diet type"},
	{ErrInvalidPrice, http.StatusBadRequest, "Price must not be negative"},
}

// Status maps an error to the HTTP status that reports it.
func Status(err error) int {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

// Message returns the user-facing message for err.
func Message(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.message
		}
	}
	return "Internal server error"
}

// Is reports whether err belongs to one of the known kinds.
func Is(err error) bool {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return true
		}
	}
	return false
}
