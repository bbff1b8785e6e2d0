package controllers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"testing"

	"fsgraph/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing path", services.ErrMissingPath, http.StatusBadRequest},
		{"invalid depth", fmt.Errorf("%w: -1", services.ErrInvalidDepth), http.StatusBadRequest},
		{"not found", &services.AccessError{Path: "/x", Err: fs.ErrNotExist}, http.StatusNotFound},
		{"permission", &services.AccessError{Path: "/x", Err: fs.ErrPermission}, http.StatusForbidden},
		{"timeout", &services.AccessError{Path: "/x", Err: fmt.Errorf("%w: %w", services.ErrTimeout, context.DeadlineExceeded)}, http.StatusGatewayTimeout},
		{"other access", &services.AccessError{Path: "/x", Err: errors.New("io error")}, http.StatusInternalServerError},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
