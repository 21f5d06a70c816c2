package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusForAbsentReferences(t *testing.T) {
	for _, msg := range []string{
		"room not found",
		"project not found",
		"question not found",
		"poll not found",
		"raffle not found",
		"participant not found",
		"message not found",
		"session not found",
	} {
		assert.Equal(t, http.StatusNotFound, statusFor(errors.New(msg)), msg)
	}
}

func TestStatusForValidationFailures(t *testing.T) {
	for _, msg := range []string{
		"unknown program",
		"answer index out of range",
		"question is not accepting answers",
	} {
		assert.Equal(t, http.StatusBadRequest, statusFor(errors.New(msg)), msg)
	}
	assert.Equal(t, http.StatusBadRequest, statusFor(nil))
}
