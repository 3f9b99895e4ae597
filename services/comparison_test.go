package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/models"
)

func demoSnapshot() models.SupplierSnapshot {
	return models.SupplierSnapshot{
		SupplierID:      "supplier:shakti",
		SupplierName:    "Shakti Buildmart",
		SupplierPincode: "411004",
		Verification:    models.VerificationVerified,
		Rating:          4.3,
		PastClients:     28,
		DocsCount:       0,
		Material: models.Material{
			MaterialID:          "shakti-cement-1",
			Name:                "Cement PPC 50kg",
			Brand:               "Demo",
			GradeStrength:       "PPC",
			Category:            models.CategoryCivil,
			UnitBasePrice:       395,
			TransportParams:     models.TransportParams{PerKm: 3.2, Base: 0},
			MonsoonPriceRisePct: 6,
			DeliverySLA:         "24–48h",
		},
	}
}

func balancedPrefs() models.ComparisonPreferences {
	return models.ComparisonPreferences{PrioritizePrice: 1.0 / 3, PrioritizeSpeed: 1.0 / 3, PrioritizeLowRisk: 1.0 / 3}
}

func TestQuoteSupplierCostBreakdown(t *testing.T) {
	q := QuoteSupplier("411001", 50, demoSnapshot(), balancedPrefs(), 382, 408)

	// |411001-411004| = 3 -> round(3/10) = 0 km
	assert.Equal(t, 0.0, q.Km)
	assert.Equal(t, 19750.0, q.BaseCost)
	// flat rate x 0km computes to zero, so the floor fires
	assert.Equal(t, 50.0, q.TransportCost)
	assert.Equal(t, 1185.0, q.MonsoonSurcharge)
	assert.Equal(t, 20985.0, q.TotalLandedCost)
	assert.Equal(t, "24–48h", q.Eta)
	assert.Equal(t, "Cement PPC 50kg • Demo • PPC", q.MaterialLabel)
}

func TestQuoteSupplierScoresWithinRange(t *testing.T) {
	snaps := []models.SupplierSnapshot{demoSnapshot()}

	far := demoSnapshot()
	far.SupplierPincode = "999999"
	far.Verification = models.VerificationRejected
	far.Rating = 0
	far.Material.MonsoonPriceRisePct = 40
	far.Material.DeliverySLA = ""
	snaps = append(snaps, far)

	cheap := demoSnapshot()
	cheap.Material.UnitBasePrice = 1
	cheap.DocsCount = 50
	cheap.Rating = 9 // out-of-range input clamps, never overflows
	snaps = append(snaps, cheap)

	for _, snap := range snaps {
		q := QuoteSupplier("411001", 10, snap, balancedPrefs(), 1, 395)
		for name, v := range map[string]float64{
			"priceCompetitiveness": q.Breakdown.PriceCompetitiveness,
			"distanceImpact":       q.Breakdown.DistanceImpact,
			"logisticsReliability": q.Breakdown.LogisticsReliability,
			"credibilityStrength":  q.Breakdown.CredibilityStrength,
			"monsoonRisk":          q.Breakdown.MonsoonRisk,
			"riskScore":            q.RiskScore,
			"score":                q.Score,
		} {
			assert.GreaterOrEqual(t, v, 0.0, name)
			assert.LessOrEqual(t, v, 100.0, name)
		}
		assert.Greater(t, q.TransportCost, 0.0)
	}
}

func TestCheaperUnitPriceScoresHigherCompetitiveness(t *testing.T) {
	budget := demoSnapshot()
	budget.SupplierID = "supplier:budget"
	budget.Material.UnitBasePrice = 382

	metro := demoSnapshot()
	metro.SupplierID = "supplier:metro"
	metro.Material.UnitBasePrice = 408

	qBudget := QuoteSupplier("411001", 50, budget, balancedPrefs(), 382, 408)
	qMetro := QuoteSupplier("411001", 50, metro, balancedPrefs(), 382, 408)

	assert.Greater(t, qBudget.Breakdown.PriceCompetitiveness, qMetro.Breakdown.PriceCompetitiveness)
	assert.Equal(t, 100.0, qBudget.Breakdown.PriceCompetitiveness)
}

func TestBulkDiscountPicksMaxQualifyingRule(t *testing.T) {
	snap := demoSnapshot()
	// deliberately unsorted: the engine must not rely on rule order
	snap.Material.BulkDiscountRules = []models.BulkDiscountRule{
		{MinQty: 80, DiscountPct: 4},
		{MinQty: 50, DiscountPct: 2},
	}

	q := QuoteSupplier("411001", 80, snap, balancedPrefs(), 382, 408)
	// 395 * 0.96 = 379.2 -> round(379.2 * 80) = 30336
	assert.Equal(t, 30336.0, q.BaseCost)
	assert.Equal(t, 379.0, q.BaseUnitPrice)

	qSmall := QuoteSupplier("411001", 79, snap, balancedPrefs(), 382, 408)
	// only the 2% rule qualifies below 80 units
	assert.Equal(t, 30581.0, qSmall.BaseCost) // round(395*0.98*79)
}

func TestTransportSlabSelection(t *testing.T) {
	snap := demoSnapshot()
	snap.SupplierPincode = "411201" // diff 200 -> 20 km
	snap.Material.TransportParams = models.TransportParams{
		Base: 60,
		Slabs: []models.TransportSlab{
			{UpToKm: 9999, PerKm: 3.4},
			{UpToKm: 10, PerKm: 2.4},
			{UpToKm: 25, PerKm: 2.8},
		},
	}

	q := QuoteSupplier("411001", 10, snap, balancedPrefs(), 382, 408)
	// 20km falls in the 25km band: round(60 + 2.8*20) = 116
	assert.Equal(t, 116.0, q.TransportCost)
}

func TestTransportBeyondWidestSlabUsesLastRate(t *testing.T) {
	snap := demoSnapshot()
	snap.SupplierPincode = "412001" // diff 1000 -> 100 km
	snap.Material.TransportParams = models.TransportParams{
		Slabs: []models.TransportSlab{
			{UpToKm: 10, PerKm: 2.0},
			{UpToKm: 25, PerKm: 2.6},
		},
	}

	q := QuoteSupplier("411001", 10, snap, balancedPrefs(), 382, 408)
	// beyond all bands the widest band's rate applies: round(2.6*100) = 260
	assert.Equal(t, 260.0, q.TransportCost)
}

func TestMalformedSupplierPincodeDegradesToSentinel(t *testing.T) {
	snap := demoSnapshot()
	snap.SupplierPincode = "ABCDEF"

	q := QuoteSupplier("411001", 50, snap, balancedPrefs(), 382, 408)
	assert.Equal(t, float64(UnreachableKm), q.Km)
	// any radius <= 500 filters this candidate out
	assert.Greater(t, q.Km, 500.0)
}

func TestEqualMarketBoundsDoNotDivideByZero(t *testing.T) {
	snap := demoSnapshot()
	snap.Material.BulkDiscountRules = nil

	q := QuoteSupplier("411001", 50, snap, balancedPrefs(), 395, 395)
	assert.Equal(t, 100.0, q.Breakdown.PriceCompetitiveness)
}

func TestZeroPreferencesProduceDefinedScore(t *testing.T) {
	q := QuoteSupplier("411001", 50, demoSnapshot(), models.ComparisonPreferences{}, 382, 408)
	assert.False(t, q.Score != q.Score, "score must not be NaN")
	assert.GreaterOrEqual(t, q.Score, 0.0)
	assert.LessOrEqual(t, q.Score, 100.0)
}

func TestQuoteSupplierIsIdempotent(t *testing.T) {
	a := QuoteSupplier("411001", 50, demoSnapshot(), balancedPrefs(), 382, 408)
	b := QuoteSupplier("411001", 50, demoSnapshot(), balancedPrefs(), 382, 408)
	require.Equal(t, a, b)
}

func TestAllowZeroTransportKeepsFreeDelivery(t *testing.T) {
	snap := demoSnapshot() // flat 3.2/km, base 0, 0 km -> computed 0

	floored := QuoteSupplier("411001", 50, snap, balancedPrefs(), 382, 408)
	assert.Equal(t, 50.0, floored.TransportCost)

	free := QuoteSupplierWithOptions("411001", 50, snap, balancedPrefs(), 382, 408, QuoteOptions{AllowZeroTransport: true})
	assert.Equal(t, 0.0, free.TransportCost)
}

func TestDistanceApproximationIsSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"411001", "411004"},
		{"411001", "411033"},
		{"110001", "560001"},
		{"411001", "ABCDEF"},
	}
	for _, p := range pairs {
		assert.Equal(t, ApproxKmBetweenPincodes(p[0], p[1]), ApproxKmBetweenPincodes(p[1], p[0]))
	}
	assert.Equal(t, 500.0, ApproxKmBetweenPincodes("110001", "560001"), "distance is capped at 500km")
}

func TestParseEtaHours(t *testing.T) {
	cases := map[string]float64{
		"24–48h":     36,
		"24-48h":     36,
		"48h":        48,
		"72–96h":     84,
		" 24 – 48 h": 36,
		"":           72,
		"next week":  72,
		"2 days":     72,
	}
	for eta, want := range cases {
		assert.Equal(t, want, ParseEtaHours(eta), "eta %q", eta)
	}
}
