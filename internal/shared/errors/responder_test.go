package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errOutOfBolts = fmt.Errorf("out of bolts")

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/thing", handler)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/thing", nil))
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestRespond_FillsInstanceAndMessage(t *testing.T) {
	responder := NewResponder(nil)
	rec, problem := serve(t, func(c *gin.Context) {
		responder.Respond(c, ErrInsufficientStock.WithDetail("Not enough stock available"))
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, "/thing", problem.Instance)
	assert.Equal(t, "Not enough stock available", problem.Message)
	assert.Equal(t, TypeInsufficientStock, problem.Type)
}

func TestRespond_MessageFallsBackToTitle(t *testing.T) {
	responder := NewResponder(nil)
	_, problem := serve(t, func(c *gin.Context) {
		responder.Respond(c, ErrValidation)
	})

	assert.Equal(t, ErrValidation.Title, problem.Message)
}

func TestRespondError_UsesMappersThenWrappedProblems(t *testing.T) {
	responder := NewResponder(nil, func(err error) (ProblemDetail, bool) {
		if err == errOutOfBolts {
			return ErrNotFound.WithDetail("no bolts"), true
		}
		return ProblemDetail{}, false
	})

	rec, problem := serve(t, func(c *gin.Context) {
		responder.RespondError(c, errOutOfBolts)
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no bolts", problem.Message)

	rec, problem = serve(t, func(c *gin.Context) {
		responder.RespondError(c, fmt.Errorf("update: %w", ErrBadRequest.WithDetail("bad id")))
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad id", problem.Detail)
}

func TestRespondError_HidesUnexpectedErrors(t *testing.T) {
	var logs bytes.Buffer
	responder := NewResponder(slog.New(slog.NewJSONHandler(&logs, nil)))
	cause := fmt.Errorf(`pq: relation "stock_items" does not exist`)

	rec, problem := serve(t, func(c *gin.Context) {
		responder.RespondError(c, cause)
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, internalErrorDetail, problem.Detail)
	assert.Equal(t, internalErrorDetail, problem.Message)
	assert.NotContains(t, rec.Body.String(), "stock_items")
	assert.Contains(t, logs.String(), `relation \"stock_items\" does not exist`)
	assert.Contains(t, logs.String(), `"path":"/thing"`)
}
