package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/models"
)

// fakeLister serves snapshots by case-insensitive substring match, the same
// contract the marketplace repository implements.
type fakeLister struct {
	snapshots []models.SupplierSnapshot
	err       error
}

func (f *fakeLister) ListSnapshots(materialQuery string) ([]models.SupplierSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	q := strings.ToLower(strings.TrimSpace(materialQuery))
	var out []models.SupplierSnapshot
	for _, s := range f.snapshots {
		if strings.Contains(strings.ToLower(s.Material.Name), q) {
			out = append(out, s)
		}
	}
	return out, nil
}

func marketSnapshot(supplierID, pincode, materialName string, unitPrice float64, sla string) models.SupplierSnapshot {
	return models.SupplierSnapshot{
		SupplierID:      supplierID,
		SupplierName:    strings.ToUpper(supplierID),
		SupplierPincode: pincode,
		Verification:    models.VerificationVerified,
		Rating:          4.0,
		DocsCount:       3,
		Material: models.Material{
			MaterialID:          supplierID + ":" + materialName,
			Name:                materialName,
			Category:            models.CategoryCivil,
			UnitBasePrice:       unitPrice,
			TransportParams:     models.TransportParams{Base: 40, PerKm: 3},
			MonsoonPriceRisePct: 5,
			DeliverySLA:         sla,
		},
	}
}

func twoItemRequest() []models.LineItem {
	return []models.LineItem{
		{ID: "li-1", Query: "cement", Qty: 50},
		{ID: "li-2", Query: "steel", Qty: 200},
	}
}

func TestRankSuppliersCoverageRule(t *testing.T) {
	lister := &fakeLister{snapshots: []models.SupplierSnapshot{
		marketSnapshot("supplier:metro", "411004", "Cement OPC 53 50kg", 408, "24–48h"),
		marketSnapshot("supplier:metro", "411004", "TMT Steel 12mm", 62, "48–72h"),
		// budget only lists cement, so it cannot cover the basket
		marketSnapshot("supplier:budget", "411033", "Cement PPC 50kg", 382, "72–96h"),
	}}

	result, err := RankSuppliers(lister, "411001", 50, twoItemRequest(), balancedPrefs())
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "supplier:metro", result[0].SupplierID)
	assert.Len(t, result[0].Items, 2)
}

func TestRankSuppliersKeepsBestQuotePerSupplierPerItem(t *testing.T) {
	// one supplier lists two matching cements; only the better one survives
	good := marketSnapshot("supplier:gc", "411004", "Cement PPC 50kg", 392, "24–48h")
	pricey := marketSnapshot("supplier:gc", "411004", "Cement OPC 43 50kg", 450, "72–96h")

	lister := &fakeLister{snapshots: []models.SupplierSnapshot{pricey, good}}
	items := []models.LineItem{{ID: "li-1", Query: "cement", Qty: 50}}

	result, err := RankSuppliers(lister, "411001", 50, items, balancedPrefs())
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Len(t, result[0].Items, 1)
	assert.Equal(t, "supplier:gc", result[0].Items[0].SupplierID)
	assert.Equal(t, "Cement PPC 50kg", result[0].Items[0].MaterialLabel)
}

func TestRankSuppliersRadiusExcludesFarCandidates(t *testing.T) {
	near := marketSnapshot("supplier:near", "411004", "Cement PPC 50kg", 400, "24–48h")
	far := marketSnapshot("supplier:far", "419001", "Cement PPC 50kg", 380, "24–48h") // diff 8000 -> 800km, capped 500
	malformed := marketSnapshot("supplier:bad", "ABCDEF", "Cement PPC 50kg", 350, "24–48h")

	lister := &fakeLister{snapshots: []models.SupplierSnapshot{near, far, malformed}}
	items := []models.LineItem{{ID: "li-1", Query: "cement", Qty: 50}}

	result, err := RankSuppliers(lister, "411001", 50, items, balancedPrefs())
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "supplier:near", result[0].SupplierID)

	// the sentinel distance falls outside even the maximum radius
	result, err = RankSuppliers(lister, "411001", 500, items, balancedPrefs())
	require.NoError(t, err)
	ids := make([]string, 0, len(result))
	for _, a := range result {
		ids = append(ids, a.SupplierID)
	}
	assert.NotContains(t, ids, "supplier:bad")
	assert.Contains(t, ids, "supplier:far")
}

func TestRankSuppliersAggregateTotals(t *testing.T) {
	lister := &fakeLister{snapshots: []models.SupplierSnapshot{
		marketSnapshot("supplier:metro", "411004", "Cement OPC 53 50kg", 408, "24–48h"),
		marketSnapshot("supplier:metro", "411051", "TMT Steel 12mm", 62, "72–96h"),
	}}

	result, err := RankSuppliers(lister, "411001", 50, twoItemRequest(), balancedPrefs())
	require.NoError(t, err)
	require.Len(t, result, 1)

	agg := result[0]
	require.Len(t, agg.Items, 2)

	var total, riskSum, scoreSum float64
	for _, q := range agg.Items {
		total += q.TotalLandedCost
		riskSum += q.RiskScore
		scoreSum += q.Score
	}
	assert.Equal(t, total, agg.TotalLandedCost)
	assert.InDelta(t, riskSum/2, agg.RiskScore, 1e-9)
	assert.InDelta(t, scoreSum/2, agg.Score, 1e-9)
	// max distance among item quotes: cement at 0km, steel at 5km
	assert.Equal(t, 5.0, agg.Km)
	// slowest SLA wins
	assert.Equal(t, "72–96h", agg.Eta)
}

func TestRankSuppliersSortsByScoreDescending(t *testing.T) {
	strong := marketSnapshot("supplier:strong", "411002", "Cement PPC 50kg", 380, "24–48h")
	weak := marketSnapshot("supplier:weak", "411009", "Cement PPC 50kg", 420, "72–96h")
	weak.Verification = models.VerificationRejected
	weak.Rating = 2.1

	lister := &fakeLister{snapshots: []models.SupplierSnapshot{weak, strong}}
	items := []models.LineItem{{ID: "li-1", Query: "cement", Qty: 50}}

	result, err := RankSuppliers(lister, "411001", 50, items, balancedPrefs())
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "supplier:strong", result[0].SupplierID)
	assert.GreaterOrEqual(t, result[0].Score, result[1].Score)
}

func TestRankSuppliersIgnoresBlankAndZeroQtyItems(t *testing.T) {
	lister := &fakeLister{snapshots: []models.SupplierSnapshot{
		marketSnapshot("supplier:metro", "411004", "Cement OPC 53 50kg", 408, "24–48h"),
	}}
	items := []models.LineItem{
		{ID: "li-1", Query: "cement", Qty: 50},
		{ID: "li-2", Query: "   ", Qty: 10},
		{ID: "li-3", Query: "steel", Qty: 0},
	}

	result, err := RankSuppliers(lister, "411001", 50, items, balancedPrefs())
	require.NoError(t, err)
	// only the cement item is valid, so metro covers the basket with one quote
	require.Len(t, result, 1)
	assert.Len(t, result[0].Items, 1)
}

func TestRankSuppliersEmptyOutcomes(t *testing.T) {
	lister := &fakeLister{snapshots: []models.SupplierSnapshot{
		marketSnapshot("supplier:metro", "411004", "Cement OPC 53 50kg", 408, "24–48h"),
	}}

	// no valid line items
	result, err := RankSuppliers(lister, "411001", 50, nil, balancedPrefs())
	require.NoError(t, err)
	assert.Empty(t, result)

	// no matching materials: valid, empty, not an error
	result, err = RankSuppliers(lister, "411001", 50, []models.LineItem{{Query: "granite", Qty: 5}}, balancedPrefs())
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestRankSuppliersPropagatesListerErrors(t *testing.T) {
	lister := &fakeLister{err: errors.New("db down")}
	_, err := RankSuppliers(lister, "411001", 50, []models.LineItem{{Query: "cement", Qty: 5}}, balancedPrefs())
	assert.Error(t, err)
}
