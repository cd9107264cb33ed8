package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ongkir-gateway/internal/komerce"
	"ongkir-gateway/internal/shipping"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRateLookup struct {
	result shipping.RateResult
	err    error
	last   shipping.RateRequest
	calls  int
}

func (s *stubRateLookup) Lookup(ctx context.Context, req shipping.RateRequest) (shipping.RateResult, error) {
	s.calls++
	s.last = req
	return s.result, s.err
}

func postCost(t *testing.T, h *ShippingHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/shipping/cost", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Cost(rec, req)
	return rec
}

func TestCostSuccess(t *testing.T) {
	stub := &stubRateLookup{result: shipping.RateResult{
		Services: []komerce.CostResult{{Name: "JNE", Code: "jne", Service: "REG", Cost: 12000, ETD: "2-3 day"}},
		Cached:   true,
		Key:      "607_114_1000_jne",
	}}
	h := NewShippingHandler(stub)

	rec := postCost(t, h, `{"origin":"607","destination":"114","weight":1200,"courier":"jne"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Meta meta                 `json:"meta"`
		Data []komerce.CostResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Meta.Cached)
	assert.Equal(t, "success", resp.Meta.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 12000, resp.Data[0].Cost)

	assert.Equal(t, shipping.RateRequest{
		Origin: "607", Destination: "114", WeightGrams: 1200, Courier: "jne",
	}, stub.last)
}

func TestCostRejectsBadJSON(t *testing.T) {
	stub := &stubRateLookup{}
	rec := postCost(t, NewShippingHandler(stub), `{"origin":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, stub.calls)
}

func TestCostRejectsMissingFields(t *testing.T) {
	stub := &stubRateLookup{}
	cases := []string{
		`{}`,
		`{"origin":"607","destination":"114","courier":"jne"}`,
		`{"origin":"607","destination":"114","weight":0,"courier":"jne"}`,
		`{"origin":"607","destination":"114","weight":-5,"courier":"jne"}`,
		`{"origin":"607","weight":1000,"courier":"jne"}`,
	}
	for _, body := range cases {
		rec := postCost(t, NewShippingHandler(stub), body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
	assert.Zero(t, stub.calls)
}

func TestCostUpstreamFailureMapsToBadGateway(t *testing.T) {
	stub := &stubRateLookup{err: &shipping.RateLookupError{
		Key: "607_114_1000_jne",
		Err: komerce.ErrExhausted,
	}}
	rec := postCost(t, NewShippingHandler(stub), `{"origin":"607","destination":"114","weight":1000,"courier":"jne"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Meta.Status)
	assert.Equal(t, "shipping cost unavailable", resp.Meta.Message)
}

func TestCostInvalidRequestFromService(t *testing.T) {
	stub := &stubRateLookup{err: shipping.ErrInvalidRequest}
	rec := postCost(t, NewShippingHandler(stub), `{"origin":"607","destination":"114","weight":1000,"courier":"jne"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
