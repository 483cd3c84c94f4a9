package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindStatusCode(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindBadRequest, http.StatusBadRequest},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindMethodNotAllowed, http.StatusMethodNotAllowed},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			require.Equal(t, tt.want, tt.kind.StatusCode())
		})
	}
}

func TestAsKeepsTagThroughWrapping(t *testing.T) {
	base := BadRequest("Cannot up vote %s: %s has already been up voted.", "Post", "Post")
	wrapped := fmt.Errorf("vote: %w", base)

	got := As(wrapped)
	require.Equal(t, KindBadRequest, got.Kind)
	require.Equal(t, "Cannot up vote Post: Post has already been up voted.", got.Message)
}

func TestAsUntaggedIsInternal(t *testing.T) {
	cause := errors.New("disk I/O error")
	got := As(cause)
	require.Equal(t, KindInternal, got.Kind)
	require.Equal(t, "Internal server error!", got.Message)
	require.ErrorIs(t, got, cause)
}
