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

func TestIndexToRowLabel(t *testing.T) {
	cases := []struct {
		idx  int
		want string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
		{-1, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, indexToRowLabel(tc.idx), "index %d", tc.idx)
	}
}

func TestGetUserID(t *testing.T) {
	e := echo.New()

	newCtx := func() echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return e.NewContext(req, httptest.NewRecorder())
	}

	t.Run("float64 claim", func(t *testing.T) {
		c := newCtx()
		c.Set("user_id", float64(42))
		id, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), id)
	})

	t.Run("string claim", func(t *testing.T) {
		c := newCtx()
		c.Set("user_id", "7")
		id, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), id)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := getUserID(newCtx())
		assert.Error(t, err)
	})

	t.Run("garbage string", func(t *testing.T) {
		c := newCtx()
		c.Set("user_id", "not-a-number")
		_, err := getUserID(c)
		assert.Error(t, err)
	})
}

func TestVIPPriceCents(t *testing.T) {
	assert.Equal(t, uint32(1500), vipPriceCents(1000))
	assert.Equal(t, uint32(37), vipPriceCents(25))
}

func TestWebhookRejectsBadSecret(t *testing.T) {
	e := echo.New()
	h := &PaymentHandler{Secret: "expected"}

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/webhook",
		strings.NewReader(`{"booking_id":1,"status":"paid"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Webhook-Secret", "wrong")
	rec := httptest.NewRecorder()

	require.NoError(t, h.HandleWebhook(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookRejectsUnknownStatus(t *testing.T) {
	e := echo.New()
	h := &PaymentHandler{Secret: "expected"}

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/webhook",
		strings.NewReader(`{"booking_id":1,"status":"refunded"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Webhook-Secret", "expected")
	rec := httptest.NewRecorder()

	require.NoError(t, h.HandleWebhook(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
