package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewValidationError("bad").HTTPStatus())
	assert.Equal(t, http.StatusNotFound, NewNotFoundError("Session", "x").HTTPStatus())
	assert.Equal(t, http.StatusConflict, NewInvalidStateError("a", "b").HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, NewUnauthorizedError("invalid credentials").HTTPStatus())
	assert.Equal(t, http.StatusBadGateway, NewUpstreamError("routing", errors.New("boom")).HTTPStatus())
}

func TestIsCode_Wrapped(t *testing.T) {
	err := fmt.Errorf("render: %w", NewValidationError("route has no shape"))
	assert.True(t, IsCode(err, CodeValidation))
	assert.False(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(errors.New("plain"), CodeValidation))
}

func TestNewPaginatedResult(t *testing.T) {
	res := NewPaginatedResult([]int{1, 2}, 21, 1, 10)
	assert.Equal(t, 3, res.TotalPages)
	assert.Len(t, res.Items, 2)
}
