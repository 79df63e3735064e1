package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/domain/entity"
	"majicmall/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	deliverycontext.SetRequestID(c, "req-42")

	return c, rec
}

func TestSuccessWithMessage(t *testing.T) {
	c, rec := newContext()
	deliverycontext.SetResolvedStore(c, &usecase.ResolvedStore{Store: &entity.Store{ID: 7}})

	require.NoError(t, SuccessWithMessage(c, http.StatusCreated, map[string]int{"id": 1}, "Product created"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Product created", body["message"])
	assert.Equal(t, map[string]any{"request_id": "req-42", "store_id": float64(7)}, body["meta"])
}

func TestSuccess_OmitsEmptyMessageAndStore(t *testing.T) {
	c, rec := newContext()

	require.NoError(t, Success(c, http.StatusOK, nil))

	assert.JSONEq(t, `{"data":null,"meta":{"request_id":"req-42"}}`, rec.Body.String())
}

func TestError_Details(t *testing.T) {
	details := map[string]string{"name": "required"}

	tests := []struct {
		status      int
		wantDetails bool
	}{
		{status: http.StatusBadRequest, wantDetails: true},
		{status: http.StatusConflict, wantDetails: true},
		{status: http.StatusUnauthorized, wantDetails: false},
		{status: http.StatusForbidden, wantDetails: false},
		{status: http.StatusInternalServerError, wantDetails: false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c, rec := newContext()
			require.NoError(t, Error(c, tt.status, "CODE", "message", details))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "CODE", body.Error.Code)
			assert.Equal(t, tt.wantDetails, body.Error.Details != nil)
		})
	}
}
