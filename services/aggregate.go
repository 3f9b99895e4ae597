package services

import (
	"math"
	"sort"
	"strings"

	"backend/models"
)

// SnapshotLister supplies the candidate snapshots for one material query.
// Implementations must only return discoverable suppliers.
type SnapshotLister interface {
	ListSnapshots(materialQuery string) ([]models.SupplierSnapshot, error)
}

// RankSuppliers runs the multi-item comparison: per line item it quotes every
// candidate within the radius, keeps the best quote per supplier, then merges
// per-supplier quotes across items. Only suppliers covering every requested
// item appear in the result, sorted descending by average score (stable on
// input order for ties).
//
// Line items with an empty query or non-positive quantity are ignored. An
// empty result is a valid outcome, not an error.
func RankSuppliers(lister SnapshotLister, buyerPincode string, radiusKm float64, items []models.LineItem, prefs models.ComparisonPreferences) ([]models.SupplierAggregate, error) {
	valid := make([]models.LineItem, 0, len(items))
	for _, it := range items {
		it.Query = strings.TrimSpace(it.Query)
		if it.Query == "" || it.Qty <= 0 {
			continue
		}
		if it.ID == "" {
			it.ID = it.Query
		}
		valid = append(valid, it)
	}
	if len(valid) == 0 {
		return []models.SupplierAggregate{}, nil
	}

	bySupplier := make(map[string]*models.SupplierAggregate)
	var order []string

	for _, it := range valid {
		snaps, err := lister.ListSnapshots(it.Query)
		if err != nil {
			return nil, err
		}
		if len(snaps) == 0 {
			continue
		}

		// Price normalization is per item, across this item's candidates only.
		marketMin := math.Inf(1)
		marketMax := math.Inf(-1)
		for _, s := range snaps {
			marketMin = math.Min(marketMin, s.Material.UnitBasePrice)
			marketMax = math.Max(marketMax, s.Material.UnitBasePrice)
		}

		// A supplier may list several matching materials for one query;
		// only its highest-scoring quote is retained.
		best := make(map[string]models.ItemQuote)
		bestSnap := make(map[string]models.SupplierSnapshot)
		var supplierOrder []string
		for _, snap := range snaps {
			q := QuoteSupplier(buyerPincode, it.Qty, snap, prefs, marketMin, marketMax)
			if q.Km > radiusKm {
				continue
			}
			prev, seen := best[q.SupplierID]
			if !seen {
				supplierOrder = append(supplierOrder, q.SupplierID)
			}
			if !seen || q.Score > prev.Score {
				best[q.SupplierID] = models.ItemQuote{SupplierQuote: q, LineItemID: it.ID, LineItemQuery: it.Query}
				bestSnap[q.SupplierID] = snap
			}
		}

		for _, supplierID := range supplierOrder {
			agg, seen := bySupplier[supplierID]
			if !seen {
				snap := bestSnap[supplierID]
				agg = &models.SupplierAggregate{
					SupplierID:      snap.SupplierID,
					SupplierName:    snap.SupplierName,
					SupplierPincode: snap.SupplierPincode,
					Verification:    snap.Verification,
					Rating:          snap.Rating,
					PastClients:     snap.PastClients,
					DocsCount:       snap.DocsCount,
					Eta:             DefaultEta,
				}
				bySupplier[supplierID] = agg
				order = append(order, supplierID)
			}
			agg.Items = append(agg.Items, best[supplierID])
		}
	}

	result := make([]models.SupplierAggregate, 0, len(order))
	for _, supplierID := range order {
		agg := bySupplier[supplierID]
		// Coverage rule: one retained quote per requested line item.
		if len(agg.Items) != len(valid) {
			continue
		}
		var total, riskSum, scoreSum, maxKm float64
		for _, q := range agg.Items {
			total += q.TotalLandedCost
			riskSum += q.RiskScore
			scoreSum += q.Score
			maxKm = math.Max(maxKm, q.Km)
		}
		n := float64(len(agg.Items))
		agg.TotalLandedCost = total
		agg.RiskScore = riskSum / n
		agg.Score = scoreSum / n
		agg.Km = maxKm
		agg.Eta = worstEta(agg.Items)
		result = append(result, *agg)
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].Score > result[j].Score })
	return result, nil
}

// worstEta returns the slowest SLA string among the item quotes, using the
// same hour-parsing contract as the quote engine.
func worstEta(items []models.ItemQuote) string {
	eta := DefaultEta
	worst := math.Inf(-1)
	for _, q := range items {
		if h := ParseEtaHours(q.Eta); h > worst {
			worst = h
			eta = q.Eta
		}
	}
	return eta
}
