package services

import (
	"math"
	"sort"
	"strings"

	"backend/models"
)

// QuoteOptions tunes edge behavior of the quote engine.
//
// AllowZeroTransport keeps a legitimately computed zero transport cost (free
// delivery) instead of replacing it with the demo floor of 50 + 2×km.
// Non-finite or negative costs still fall back to the floor.
type QuoteOptions struct {
	AllowZeroTransport bool
}

// QuoteSupplier computes a landed cost breakdown and a 0..100 composite score
// for one supplier snapshot. It is a pure function: it never fails on
// malformed numeric input (distances degrade to a sentinel, rates to zero,
// ETAs to a default) so that ranking never breaks on partial data.
func QuoteSupplier(buyerPincode string, qty float64, snap models.SupplierSnapshot, prefs models.ComparisonPreferences, marketMinUnitPrice, marketMaxUnitPrice float64) models.SupplierQuote {
	return QuoteSupplierWithOptions(buyerPincode, qty, snap, prefs, marketMinUnitPrice, marketMaxUnitPrice, QuoteOptions{})
}

// QuoteSupplierWithOptions is QuoteSupplier with explicit edge-behavior options.
func QuoteSupplierWithOptions(buyerPincode string, qty float64, snap models.SupplierSnapshot, prefs models.ComparisonPreferences, marketMinUnitPrice, marketMaxUnitPrice float64, opts QuoteOptions) models.SupplierQuote {
	km := ApproxKmBetweenPincodes(buyerPincode, snap.SupplierPincode)

	perKm := transportPerKm(km, snap.Material.TransportParams)
	transportCost := math.Round(snap.Material.TransportParams.Base + perKm*km)
	// Never return a silent zero-transport quote unless the caller opted in.
	if !isFinite(transportCost) || transportCost < 0 || (transportCost == 0 && !opts.AllowZeroTransport) {
		transportCost = math.Max(50, math.Round(50+2*km))
	}

	discountPct := bulkDiscountPct(snap.Material.BulkDiscountRules, qty)
	discountedUnit := snap.Material.UnitBasePrice * (1 - discountPct/100)

	baseCost := math.Round(discountedUnit * qty)
	monsoonSurcharge := math.Round(baseCost * snap.Material.MonsoonPriceRisePct / 100)
	totalLandedCost := baseCost + transportCost + monsoonSurcharge

	unitSpan := math.Max(1, marketMaxUnitPrice-marketMinUnitPrice)
	priceCompetitiveness := clamp100(100 - ((discountedUnit-marketMinUnitPrice)/unitSpan)*100)

	distanceImpact := clamp100(100 - (km/200)*100)

	etaHours := ParseEtaHours(snap.Material.DeliverySLA)
	logisticsReliability := clamp100(100 - (etaHours/96)*100)

	rating01 := clamp01(snap.Rating / 5)
	docs01 := clamp01(float64(snap.DocsCount) / 6)
	verifiedBonus := 0.25
	switch snap.Verification {
	case models.VerificationVerified:
		verifiedBonus = 1
	case models.VerificationPending:
		verifiedBonus = 0.65
	}
	credibilityStrength := clamp100((rating01*0.55 + docs01*0.25 + verifiedBonus*0.2) * 100)

	monsoonRisk := clamp100(100 - (snap.Material.MonsoonPriceRisePct/20)*100)

	// Risk score (lower is safer)
	riskScore := clamp100(100 - (credibilityStrength*0.6 + logisticsReliability*0.2 + monsoonRisk*0.2))

	wPrice := clamp01(prefs.PrioritizePrice)
	wSpeed := clamp01(prefs.PrioritizeSpeed)
	wRisk := clamp01(prefs.PrioritizeLowRisk)
	wSum := math.Max(0.001, wPrice+wSpeed+wRisk)

	score := clamp100((priceCompetitiveness*wPrice + logisticsReliability*wSpeed + (100-riskScore)*wRisk) / wSum)

	eta := snap.Material.DeliverySLA
	if eta == "" {
		eta = DefaultEta
	}

	quote := models.SupplierQuote{
		SupplierID:       snap.SupplierID,
		SupplierName:     snap.SupplierName,
		Km:               km,
		Qty:              qty,
		BaseUnitPrice:    math.Round(discountedUnit),
		BaseCost:         baseCost,
		TransportCost:    transportCost,
		MonsoonSurcharge: monsoonSurcharge,
		TotalLandedCost:  totalLandedCost,
		Eta:              eta,
		RiskScore:        riskScore,
		Score:            score,
		Breakdown: models.ScoreBreakdown{
			PriceCompetitiveness: priceCompetitiveness,
			DistanceImpact:       distanceImpact,
			LogisticsReliability: logisticsReliability,
			CredibilityStrength:  credibilityStrength,
			MonsoonRisk:          monsoonRisk,
		},
		MaterialLabel: materialLabel(snap.Material),
	}
	if len(snap.Material.ImageURLs) > 0 {
		quote.ImageURL = snap.Material.ImageURLs[0]
	}
	return quote
}

// transportPerKm resolves the per-km rate for a distance. Slabs are sorted
// ascending by their upper bound and the first band covering the distance
// wins; beyond the widest band its rate applies. Without slabs the flat rate
// is used (zero when unset).
func transportPerKm(km float64, params models.TransportParams) float64 {
	slabs := make([]models.TransportSlab, 0, len(params.Slabs))
	for _, s := range params.Slabs {
		if isFinite(s.UpToKm) && isFinite(s.PerKm) {
			slabs = append(slabs, s)
		}
	}
	if len(slabs) > 0 {
		sort.Slice(slabs, func(i, j int) bool { return slabs[i].UpToKm < slabs[j].UpToKm })
		for _, s := range slabs {
			if km <= s.UpToKm {
				return s.PerKm
			}
		}
		return slabs[len(slabs)-1].PerKm
	}
	return params.PerKm
}

// bulkDiscountPct picks the maximum discount among the rules the quantity
// qualifies for. Rules are not assumed sorted.
func bulkDiscountPct(rules []models.BulkDiscountRule, qty float64) float64 {
	pct := 0.0
	for _, r := range rules {
		if r.MinQty <= qty && r.DiscountPct > pct {
			pct = r.DiscountPct
		}
	}
	return pct
}

func materialLabel(m models.Material) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{m.Name, m.Brand, m.GradeStrength} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " • ")
}

func clamp01(n float64) float64 {
	return math.Max(0, math.Min(1, n))
}

func clamp100(n float64) float64 {
	return math.Max(0, math.Min(100, n))
}

func isFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}
