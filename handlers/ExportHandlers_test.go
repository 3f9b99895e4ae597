package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/models"
)

func newExportRouter(lister snapshotLister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/export/comparison/csv", ExportComparisonCSV(lister))
	r.POST("/api/export/comparison/pdf", ExportComparisonPDF(lister))
	return r
}

func exportRequest() models.ComparisonRequest {
	return models.ComparisonRequest{
		BuyerPincode: "411001",
		RadiusKm:     50,
		Items:        []models.LineItem{{ID: "li-1", Query: "cement", Qty: 50}},
		ProjectName:  "Site A Warehouse",
	}
}

func TestExportComparisonCSVLayout(t *testing.T) {
	lister := &stubLister{snapshots: []models.SupplierSnapshot{
		testSnapshot("supplier:a", "411004", 395),
		testSnapshot("supplier:b", "411009", 420),
	}}
	r := newExportRouter(lister)

	w := postJSON(t, r, "/api/export/comparison/csv", exportRequest())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Site_A_Warehouse_procurement_411001.csv")

	body := w.Body.String()
	assert.Contains(t, body, "project,Site A Warehouse")
	assert.Contains(t, body, "delivery_pincode,411001")
	assert.Contains(t, body, "preference_price,Low")
	assert.Contains(t, body, "selected_items")
	assert.Contains(t, body, "cement,50")
	assert.Contains(t, body, "supplier_ranking")
	assert.Contains(t, body, "SUPPLIER:A")
	assert.Contains(t, body, "ai_summary")
}

func TestExportComparisonCSVRejectsInvalidRequest(t *testing.T) {
	r := newExportRouter(&stubLister{})

	req := exportRequest()
	req.BuyerPincode = "bad"
	w := postJSON(t, r, "/api/export/comparison/csv", req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportComparisonPDFProducesDocument(t *testing.T) {
	lister := &stubLister{snapshots: []models.SupplierSnapshot{
		testSnapshot("supplier:a", "411004", 395),
	}}
	r := newExportRouter(lister)

	w := postJSON(t, r, "/api/export/comparison/pdf", exportRequest())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, w.Body.Len() > 0)
	// PDF magic bytes
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}

func TestPreferenceLevelBands(t *testing.T) {
	assert.Equal(t, "Low", preferenceLevel(0))
	assert.Equal(t, "Low", preferenceLevel(0.33))
	assert.Equal(t, "Medium", preferenceLevel(0.5))
	assert.Equal(t, "Medium", preferenceLevel(0.66))
	assert.Equal(t, "High", preferenceLevel(0.67))
	assert.Equal(t, "High", preferenceLevel(1))
}

func TestExportFileStemDefaults(t *testing.T) {
	req := exportRequest()
	req.ProjectName = "  "
	assert.Equal(t, "procurement_procurement_411001", exportFileStem(req))
}
