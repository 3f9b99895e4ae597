package repository

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarketplaceRepository lists supplier+material snapshots for comparison runs.
// It satisfies services.SnapshotLister.
type MarketplaceRepository struct {
	db *gorm.DB
}

func NewMarketplaceRepository(db *gorm.DB) *MarketplaceRepository {
	return &MarketplaceRepository{db: db}
}

// ListSnapshots returns one snapshot per (discoverable supplier, matching
// material) pair. Matching is a case-insensitive substring test on the
// material name.
func (r *MarketplaceRepository) ListSnapshots(materialQuery string) ([]models.SupplierSnapshot, error) {
	q := "%" + strings.ToLower(strings.TrimSpace(materialQuery)) + "%"

	var suppliers []models.SupplierProfileGorm
	if err := r.db.Where("discoverable = ?", true).Order("created_at").Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %v", err)
	}
	if len(suppliers) == 0 {
		return []models.SupplierSnapshot{}, nil
	}

	supplierIDs := make([]string, 0, len(suppliers))
	for _, s := range suppliers {
		supplierIDs = append(supplierIDs, s.ID)
	}

	var mats []models.MaterialGorm
	if err := r.db.Where("supplier_id IN ? AND LOWER(name) LIKE ?", supplierIDs, q).Find(&mats).Error; err != nil {
		return nil, fmt.Errorf("failed to list materials: %v", err)
	}

	docCounts, err := r.documentCounts(supplierIDs)
	if err != nil {
		return nil, err
	}

	matsBySupplier := make(map[string][]models.MaterialGorm)
	for _, m := range mats {
		matsBySupplier[m.SupplierID] = append(matsBySupplier[m.SupplierID], m)
	}

	snapshots := make([]models.SupplierSnapshot, 0, len(mats))
	for _, s := range suppliers {
		for _, m := range matsBySupplier[s.ID] {
			snapshots = append(snapshots, models.SupplierSnapshot{
				SupplierID:      s.ID,
				SupplierName:    s.BusinessName,
				SupplierPincode: s.Pincode,
				Verification:    s.Verification,
				Rating:          s.Rating,
				PastClients:     s.PastClients,
				DocsCount:       docCounts[s.ID],
				Material:        m.ToMaterial(),
			})
		}
	}
	return snapshots, nil
}

func (r *MarketplaceRepository) documentCounts(supplierIDs []string) (map[string]int, error) {
	type countRow struct {
		SupplierID string
		N          int
	}
	var rows []countRow
	err := r.db.Model(&models.SupplierDocumentGorm{}).
		Select("supplier_id, COUNT(*) AS n").
		Where("supplier_id IN ?", supplierIDs).
		Group("supplier_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %v", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.SupplierID] = row.N
	}
	return counts, nil
}

type fixtureSupplier struct {
	profile   models.SupplierProfileGorm
	docs      int
	materials []fixtureMaterial
}

type fixtureMaterial struct {
	id            string
	name          string
	category      string
	brand         string
	gradeStrength string
	unitBasePrice float64
	transport     models.TransportParams
	bulkRules     []models.BulkDiscountRule
	monsoonPct    float64
	stock         float64
	deliverySLA   string
}

// SeedDemoMarketplace inserts the fixture suppliers so comparisons always
// have multiple options. Idempotent: existing rows are left untouched.
func (r *MarketplaceRepository) SeedDemoMarketplace() error {
	for _, fx := range demoFixtures() {
		var existing models.SupplierProfileGorm
		err := r.db.Where("id = ?", fx.profile.ID).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("failed to check fixture supplier %s: %v", fx.profile.ID, err)
		}

		if err := r.db.Create(&fx.profile).Error; err != nil {
			return fmt.Errorf("failed to seed supplier %s: %v", fx.profile.ID, err)
		}
		for i := 0; i < fx.docs; i++ {
			doc := models.SupplierDocumentGorm{
				ID:         uuid.NewString(),
				SupplierID: fx.profile.ID,
				DocType:    "registration",
				FileName:   fmt.Sprintf("%s-doc-%d.pdf", fx.profile.ID, i+1),
			}
			if err := r.db.Create(&doc).Error; err != nil {
				return fmt.Errorf("failed to seed document for %s: %v", fx.profile.ID, err)
			}
		}
		for _, fm := range fx.materials {
			row, err := fm.toRow(fx.profile.ID)
			if err != nil {
				return err
			}
			if err := r.db.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to seed material %s: %v", fm.id, err)
			}
		}
		log.Printf("Seeded demo supplier %s (%s)", fx.profile.BusinessName, fx.profile.ID)
	}
	return nil
}

func (fm fixtureMaterial) toRow(supplierID string) (models.MaterialGorm, error) {
	params, err := json.Marshal(fm.transport)
	if err != nil {
		return models.MaterialGorm{}, fmt.Errorf("failed to encode transport params for %s: %v", fm.id, err)
	}
	rules, err := json.Marshal(fm.bulkRules)
	if err != nil {
		return models.MaterialGorm{}, fmt.Errorf("failed to encode discount rules for %s: %v", fm.id, err)
	}
	brand := fm.brand
	grade := fm.gradeStrength
	sla := fm.deliverySLA
	stock := fm.stock
	return models.MaterialGorm{
		ID:                  fm.id,
		SupplierID:          supplierID,
		Name:                fm.name,
		Category:            fm.category,
		Brand:               &brand,
		GradeStrength:       &grade,
		UnitBasePrice:       fm.unitBasePrice,
		TransportParams:     string(params),
		BulkDiscountRules:   string(rules),
		MonsoonPriceRisePct: fm.monsoonPct,
		AvailableStock:      &stock,
		DeliverySLA:         &sla,
		ImageURLs:           `["/placeholder.svg"]`,
	}, nil
}

func demoFixtures() []fixtureSupplier {
	cityBands := func(near, mid, far float64) models.TransportParams {
		return models.TransportParams{
			Base: 0,
			Slabs: []models.TransportSlab{
				{UpToKm: 10, PerKm: near},
				{UpToKm: 25, PerKm: mid},
				{UpToKm: 9999, PerKm: far},
			},
		}
	}
	withBase := func(base float64, p models.TransportParams) models.TransportParams {
		p.Base = base
		return p
	}

	return []fixtureSupplier{
		{
			profile: models.SupplierProfileGorm{
				ID: "supplier:shakti", BusinessName: "Shakti Buildmart", Pincode: "411001",
				ServiceRadiusKm: 50, Discoverable: true, Verification: models.VerificationPending,
				Rating: 4.3, PastClients: 28,
			},
			docs: 0,
			materials: []fixtureMaterial{
				{
					id: "shakti-cement-1", name: "Cement PPC 50kg", category: models.CategoryCivil,
					brand: "Demo", gradeStrength: "PPC", unitBasePrice: 395,
					transport: models.TransportParams{PerKm: 3.2, Base: 0},
					bulkRules: []models.BulkDiscountRule{{MinQty: 50, DiscountPct: 2}},
					monsoonPct: 6, stock: 500, deliverySLA: "24–48h",
				},
			},
		},
		{
			profile: models.SupplierProfileGorm{
				ID: "supplier:metro", BusinessName: "Metro Materials", Pincode: "411004",
				ServiceRadiusKm: 40, Discoverable: true, Verification: models.VerificationVerified,
				Rating: 4.6, PastClients: 73,
			},
			docs: 5,
			materials: []fixtureMaterial{
				{
					id: "metro-cement-1", name: "Cement OPC 53 50kg", category: models.CategoryCivil,
					brand: "MetroPro", gradeStrength: "OPC 53", unitBasePrice: 408,
					transport: withBase(60, cityBands(2.4, 2.8, 3.4)),
					bulkRules:  []models.BulkDiscountRule{{MinQty: 60, DiscountPct: 3}},
					monsoonPct: 4, stock: 1200, deliverySLA: "24–48h",
				},
				{
					id: "metro-steel-1", name: "TMT Steel 12mm", category: models.CategoryCivil,
					brand: "MetroTMT", gradeStrength: "Fe500D", unitBasePrice: 62,
					transport: withBase(80, cityBands(1.2, 1.6, 2.2)),
					bulkRules:  []models.BulkDiscountRule{{MinQty: 300, DiscountPct: 2}},
					monsoonPct: 3, stock: 2000, deliverySLA: "48–72h",
				},
				{
					id: "metro-elec-1", name: "Electrical Cable 90m", category: models.CategoryElectrical,
					brand: "MetroWire", gradeStrength: "FR", unitBasePrice: 1350,
					transport: withBase(120, cityBands(2.0, 2.6, 3.0)),
					bulkRules:  []models.BulkDiscountRule{{MinQty: 20, DiscountPct: 3}},
					monsoonPct: 2, stock: 500, deliverySLA: "24–48h",
				},
			},
		},
		{
			profile: models.SupplierProfileGorm{
				ID: "supplier:greencycle", BusinessName: "GreenCycle Aggregates", Pincode: "411021",
				ServiceRadiusKm: 65, Discoverable: true, Verification: models.VerificationVerified,
				Rating: 4.2, PastClients: 41,
			},
			docs: 4,
			materials: []fixtureMaterial{
				{
					id: "gc-sand-1", name: "M-Sand (1 ton)", category: models.CategoryCivil,
					brand: "GreenCycle", gradeStrength: "Zone II", unitBasePrice: 1420,
					transport: withBase(90, cityBands(6.6, 7.2, 8.6)),
					bulkRules:  []models.BulkDiscountRule{{MinQty: 10, DiscountPct: 4}},
					monsoonPct: 10, stock: 60, deliverySLA: "48h",
				},
				{
					id: "gc-cement-1", name: "Cement PPC 50kg", category: models.CategoryCivil,
					brand: "EcoBuild", gradeStrength: "PPC", unitBasePrice: 392,
					transport: withBase(50, cityBands(2.8, 3.1, 3.8)),
					bulkRules:  []models.BulkDiscountRule{{MinQty: 50, DiscountPct: 2}},
					monsoonPct: 8, stock: 700, deliverySLA: "48–72h",
				},
				{
					id: "gc-crane-1", name: "Crane rental (per day)", category: models.CategoryMachinery,
					brand: "GreenCycle", gradeStrength: "25T", unitBasePrice: 14500,
					transport: withBase(600, cityBands(20, 30, 38)),
					bulkRules:  []models.BulkDiscountRule{{MinQty: 3, DiscountPct: 5}},
					monsoonPct: 6, stock: 4, deliverySLA: "24–48h",
				},
			},
		},
		{
			profile: models.SupplierProfileGorm{
				ID: "supplier:budget", BusinessName: "Budget Traders", Pincode: "411033",
				ServiceRadiusKm: 30, Discoverable: true, Verification: models.VerificationPending,
				Rating: 3.7, PastClients: 14,
			},
			docs: 1,
			materials: []fixtureMaterial{
				{
					id: "bt-cement-1", name: "Cement PPC 50kg", category: models.CategoryCivil,
					brand: "ValueMix", gradeStrength: "PPC", unitBasePrice: 382,
					transport: withBase(40, cityBands(3.2, 3.9, 4.6)),
					bulkRules:  []models.BulkDiscountRule{{MinQty: 80, DiscountPct: 4}},
					monsoonPct: 12, stock: 320, deliverySLA: "72–96h",
				},
			},
		},
	}
}
