package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"frutolandia/internal/service"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrInvalidToken, http.StatusUnauthorized},
		{service.ErrUnauthorized, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrUserNotFound, http.StatusNotFound},
		{service.ErrProductNotFound, http.StatusNotFound},
		{service.ErrItemNotFound, http.StatusNotFound},
		{service.ErrFavoriteNotFound, http.StatusNotFound},
		{service.ErrDuplicateFavorite, http.StatusConflict},
		{service.ErrDuplicateEmail, http.StatusBadRequest},
		{service.ErrInvalidQuantity, http.StatusBadRequest},
		{fmt.Errorf("%w: bad name", service.ErrInvalidInput), http.StatusBadRequest},
		{service.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{fmt.Errorf("list: %w: %w", service.ErrInternal, errors.New("disk full")), http.StatusInternalServerError},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestMessageForHidesInternals(t *testing.T) {
	err := fmt.Errorf("list: %w: %w", service.ErrInternal, errors.New("database is locked"))
	assert.Equal(t, "an internal server error occurred", messageFor(err, http.StatusInternalServerError))
	assert.Equal(t, "invalid email or password", messageFor(service.ErrInvalidCredentials, http.StatusUnauthorized))
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"Bearer   abc ", "abc", true},
		{"bearer abc", "", false},
		{"Bearer a b", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		token, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}
