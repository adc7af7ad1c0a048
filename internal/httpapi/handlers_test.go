package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstledger/internal/store"
	"gstledger/pkg/models"
)

type fakeStore struct {
	snap    models.Snapshot
	loadErr error
	saved   *models.CompanySettings
}

func (f *fakeStore) Load(context.Context) (*models.Snapshot, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	copied := f.snap
	copied.Orders = append([]models.Order(nil), f.snap.Orders...)
	return &copied, nil
}

func (f *fakeStore) SaveSettings(_ context.Context, s models.CompanySettings) error {
	f.saved = &s
	return nil
}

func day(d int) models.Date {
	return models.NewDate(time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC))
}

func newFakeStore() *fakeStore {
	return &fakeStore{snap: models.Snapshot{
		Orders: []models.Order{
			{
				ID: "S1", Date: day(4), BuyerID: "B1", BuyerName: "Asha Textiles", BuyerGSTIN: "24ABCDE1234F1Z5",
				PlaceOfSupply: "Gujarat", Subtotal: models.NewNumber(1050), PaymentStatus: "paid",
				Items:                  []models.LineItem{{Name: "Saree", HSN: "5007", Quantity: models.NewNumber(1), SellingPrice: models.NewNumber(1050), CostPrice: models.NewNumber(600)}},
				CommissionDistribution: []models.CommissionLine{{Party: "Ramesh (Vendor Agent)", Amount: models.NewNumber(50)}},
			},
			{ID: "S2", Date: day(6), BuyerID: "B2", BuyerName: "Delhi Retail", PlaceOfSupply: "Delhi", Subtotal: models.NewNumber(2100)},
		},
	}}
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	rec := serve(t, NewRouter(NewHandler(newFakeStore())), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_Propagated(t *testing.T) {
	router := NewRouter(NewHandler(newFakeStore()))
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
}

func TestGSTR1(t *testing.T) {
	rec := serve(t, NewRouter(NewHandler(newFakeStore())), http.MethodGet, "/api/v1/reports/gstr1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	for _, key := range []string{"b2b", "b2cLarge", "b2cSmall", "all"} {
		assert.Contains(t, body, key)
	}

	b2b := body["b2b"].([]any)
	require.Len(t, b2b, 1)
	entry := b2b[0].(map[string]any)
	assert.Equal(t, "S1", entry["orderId"])
	assert.Equal(t, 1000.0, entry["taxableValue"])
	assert.Equal(t, 25.0, entry["cgst"])
	assert.Len(t, body["b2cSmall"], 1)
}

func TestGSTR3B(t *testing.T) {
	rec := serve(t, NewRouter(NewHandler(newFakeStore())), http.MethodGet, "/api/v1/reports/gstr3b", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	outward := body["outwardSupplies"].(map[string]any)
	assert.Equal(t, 3000.0, outward["taxable"])
	assert.Equal(t, 100.0, outward["igst"])
	assert.Contains(t, body, "eligibleITC")
	assert.Contains(t, body, "taxPayable")
}

func TestReadEndpoints(t *testing.T) {
	router := NewRouter(NewHandler(newFakeStore()))

	tests := []struct {
		path string
		key  string
	}{
		{"/api/v1/reports/hsn", "items"},
		{"/api/v1/ledger", "entries"},
		{"/api/v1/summary", "summary"},
		{"/api/v1/parties", "items"},
		{"/api/v1/buyers", "items"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(t, router, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, decodeBody(t, rec), tt.key)
		})
	}
}

func TestExportCSV(t *testing.T) {
	router := NewRouter(NewHandler(newFakeStore()))

	rec := serve(t, router, http.MethodGet, "/api/v1/exports/tally.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Date,Voucher Type,Voucher No"))

	rec = serve(t, router, http.MethodGet, "/api/v1/exports/payroll.csv", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBadAsOf(t *testing.T) {
	rec := serve(t, NewRouter(NewHandler(newFakeStore())), http.MethodGet, "/api/v1/summary?asOf=someday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "asOf must be a date", decodeBody(t, rec)["error"])
}

func TestStoreUnavailable(t *testing.T) {
	fs := newFakeStore()
	fs.loadErr = store.NewStoreError("Load", "gstledger:", store.ErrSnapshotUnavailable, "")

	rec := serve(t, NewRouter(NewHandler(fs)), http.MethodGet, "/api/v1/ledger", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "snapshot unavailable")
}

func TestSettings(t *testing.T) {
	fs := newFakeStore()
	router := NewRouter(NewHandler(fs))

	rec := serve(t, router, http.MethodGet, "/api/v1/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Gujarat", decodeBody(t, rec)["homeState"])

	rec = serve(t, router, http.MethodPut, "/api/v1/settings", `{"tradeName": "Asha Textiles", "homeState": "Kerala", "defaultGstRate": 12}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, fs.saved)
	assert.Equal(t, "Kerala", fs.saved.HomeState)
	assert.Equal(t, "12", fs.saved.DefaultGSTRate.Decimal().String())

	rec = serve(t, router, http.MethodPut, "/api/v1/settings", `{"tradeName": "No State"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, router, http.MethodPut, "/api/v1/settings", `{"unknown": 1, "homeState": "Goa"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
