package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMarkReadContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, "/v1/conversations/item-1_buyer-1/read", nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, "/v1/conversations/item-1_buyer-1/read", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("item-1_buyer-1")
	c.Set("uid", "seller-1")
	return c, rec
}

func TestMarkConversationReadHonorsFalseFlag(t *testing.T) {
	// A nil use case panics if the handler touches the store anyway.
	h := NewMessagingHandler(nil)

	c, rec := newMarkReadContext(t, `{"mark_as_read": false}`)
	require.NoError(t, h.MarkConversationRead(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "left unchanged")
}

func TestMarkConversationReadRejectsMalformedBody(t *testing.T) {
	h := NewMessagingHandler(nil)

	c, rec := newMarkReadContext(t, `{"mark_as_read": `)
	require.NoError(t, h.MarkConversationRead(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
