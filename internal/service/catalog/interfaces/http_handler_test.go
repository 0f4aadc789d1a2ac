package interfaces

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"freshcart/internal/service/catalog/domain"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing item", domain.ErrItemNotFound, http.StatusNotFound},
		{"inactive item", domain.ErrItemInactive, http.StatusConflict},
		{"insufficient stock", domain.ErrInsufficientStock, http.StatusConflict},
		{"bad input", fmt.Errorf("%w: unknown category %q", domain.ErrInvalidItem, "Snacks"), http.StatusBadRequest},
		{"wrapped sentinel survives", pkgerrors.Wrap(domain.ErrItemNotFound, "failed to query item"), http.StatusNotFound},
		// storage faults are the server's problem, never the client's
		{"storage fault", pkgerrors.Wrap(fmt.Errorf("connection reset"), "failed to save item"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}
