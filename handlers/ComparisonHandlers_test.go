package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/models"
)

type stubLister struct {
	snapshots []models.SupplierSnapshot
}

func (s *stubLister) ListSnapshots(materialQuery string) ([]models.SupplierSnapshot, error) {
	q := strings.ToLower(strings.TrimSpace(materialQuery))
	var out []models.SupplierSnapshot
	for _, snap := range s.snapshots {
		if strings.Contains(strings.ToLower(snap.Material.Name), q) {
			out = append(out, snap)
		}
	}
	return out, nil
}

func testSnapshot(supplierID, pincode string, unitPrice float64) models.SupplierSnapshot {
	return models.SupplierSnapshot{
		SupplierID:      supplierID,
		SupplierName:    strings.ToUpper(supplierID),
		SupplierPincode: pincode,
		Verification:    models.VerificationVerified,
		Rating:          4.4,
		DocsCount:       5,
		Material: models.Material{
			MaterialID:          supplierID + ":cement",
			Name:                "Cement PPC 50kg",
			Category:            models.CategoryCivil,
			UnitBasePrice:       unitPrice,
			TransportParams:     models.TransportParams{Base: 50, PerKm: 3},
			MonsoonPriceRisePct: 6,
			DeliverySLA:         "24–48h",
		},
	}
}

func newCompareRouter(lister snapshotLister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/compare", CompareSuppliers(lister))
	r.POST("/api/quote", QuoteSnapshot())
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCompareSuppliersHappyPath(t *testing.T) {
	lister := &stubLister{snapshots: []models.SupplierSnapshot{
		testSnapshot("supplier:a", "411004", 395),
		testSnapshot("supplier:b", "411009", 420),
	}}
	r := newCompareRouter(lister)

	w := postJSON(t, r, "/api/compare", models.ComparisonRequest{
		BuyerPincode: "411001",
		RadiusKm:     50,
		Items:        []models.LineItem{{ID: "li-1", Query: "cement", Qty: 50}},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ComparisonResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Suppliers, 2)
	assert.Equal(t, "supplier:a", resp.Suppliers[0].SupplierID)
	assert.Contains(t, resp.Summary, "Top pick is SUPPLIER:A")
	assert.Contains(t, resp.Summary, "cement")
}

func TestCompareSuppliersRejectsBadPincode(t *testing.T) {
	r := newCompareRouter(&stubLister{})

	w := postJSON(t, r, "/api/compare", models.ComparisonRequest{
		BuyerPincode: "41100",
		Items:        []models.LineItem{{Query: "cement", Qty: 10}},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "buyer_pincode")
}

func TestCompareSuppliersRejectsNegativeQty(t *testing.T) {
	r := newCompareRouter(&stubLister{})

	w := postJSON(t, r, "/api/compare", models.ComparisonRequest{
		BuyerPincode: "411001",
		Items: []models.LineItem{
			{Query: "cement", Qty: 10},
			{Query: "steel", Qty: -5},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "negative")
}

func TestCompareSuppliersEmptyMarketIsNotAnError(t *testing.T) {
	r := newCompareRouter(&stubLister{})

	w := postJSON(t, r, "/api/compare", models.ComparisonRequest{
		BuyerPincode: "411001",
		Items:        []models.LineItem{{Query: "granite", Qty: 5}},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ComparisonResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Suppliers)
	assert.Equal(t, "Run a comparison to generate a recommendation summary.", resp.Summary)
}

func TestCompareSuppliersDefaultsRadius(t *testing.T) {
	// supplier 6km away is inside the default 50km radius
	lister := &stubLister{snapshots: []models.SupplierSnapshot{
		testSnapshot("supplier:a", "411061", 395),
	}}
	r := newCompareRouter(lister)

	w := postJSON(t, r, "/api/compare", models.ComparisonRequest{
		BuyerPincode: "411001",
		Items:        []models.LineItem{{Query: "cement", Qty: 50}},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ComparisonResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Suppliers, 1)
	assert.Equal(t, 6.0, resp.Suppliers[0].Km)
}

func TestQuoteSnapshotPreview(t *testing.T) {
	r := newCompareRouter(&stubLister{})

	w := postJSON(t, r, "/api/quote", models.QuoteRequest{
		BuyerPincode: "411001",
		Qty:          50,
		Snapshot:     testSnapshot("supplier:a", "411001", 395),
	})

	require.Equal(t, http.StatusOK, w.Code)
	var quote models.SupplierQuote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.Equal(t, 0.0, quote.Km)
	assert.Equal(t, 19750.0, quote.BaseCost)
	assert.Equal(t, 50.0, quote.TransportCost)
	// self-normalized market bounds give full marks on price
	assert.Equal(t, 100.0, quote.Breakdown.PriceCompetitiveness)
}

func TestQuoteSnapshotRejectsZeroQty(t *testing.T) {
	r := newCompareRouter(&stubLister{})

	w := postJSON(t, r, "/api/quote", models.QuoteRequest{
		BuyerPincode: "411001",
		Qty:          0,
		Snapshot:     testSnapshot("supplier:a", "411001", 395),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
