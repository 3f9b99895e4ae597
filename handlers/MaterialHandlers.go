package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type materialPayload struct {
	Name                string                    `json:"name" binding:"required"`
	Category            string                    `json:"category" binding:"required"`
	Brand               string                    `json:"brand"`
	GradeStrength       string                    `json:"grade_strength"`
	UnitBasePrice       float64                   `json:"unit_base_price" binding:"required"`
	TransportParams     models.TransportParams    `json:"transport_params"`
	BulkDiscountRules   []models.BulkDiscountRule `json:"bulk_discount_rules"`
	MonsoonPriceRisePct float64                   `json:"monsoon_price_rise_pct"`
	AvailableStock      *float64                  `json:"available_stock"`
	DeliverySLA         string                    `json:"delivery_sla"`
	ImageURLs           []string                  `json:"image_urls"`
}

func (p materialPayload) validate() string {
	switch p.Category {
	case models.CategoryCivil, models.CategoryElectrical, models.CategoryMachinery:
	default:
		return "category must be civil, electrical or machinery"
	}
	if p.UnitBasePrice < 0 {
		return "unit_base_price must be >= 0"
	}
	for _, s := range p.TransportParams.Slabs {
		if s.UpToKm <= 0 {
			return "slab up_to_km must be > 0"
		}
	}
	for _, r := range p.BulkDiscountRules {
		if r.MinQty <= 0 || r.DiscountPct < 0 || r.DiscountPct > 100 {
			return "invalid bulk discount rule"
		}
	}
	return ""
}

func (p materialPayload) toRow(id, supplierID string) (models.MaterialGorm, error) {
	params, err := json.Marshal(p.TransportParams)
	if err != nil {
		return models.MaterialGorm{}, err
	}
	rules := p.BulkDiscountRules
	if rules == nil {
		rules = []models.BulkDiscountRule{}
	}
	rulesJSON, err := json.Marshal(rules)
	if err != nil {
		return models.MaterialGorm{}, err
	}
	images := p.ImageURLs
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return models.MaterialGorm{}, err
	}

	row := models.MaterialGorm{
		ID:                  id,
		SupplierID:          supplierID,
		Name:                strings.TrimSpace(p.Name),
		Category:            p.Category,
		UnitBasePrice:       p.UnitBasePrice,
		TransportParams:     string(params),
		BulkDiscountRules:   string(rulesJSON),
		MonsoonPriceRisePct: p.MonsoonPriceRisePct,
		AvailableStock:      p.AvailableStock,
		ImageURLs:           string(imagesJSON),
	}
	if p.Brand != "" {
		row.Brand = &p.Brand
	}
	if p.GradeStrength != "" {
		row.GradeStrength = &p.GradeStrength
	}
	if p.DeliverySLA != "" {
		row.DeliverySLA = &p.DeliverySLA
	}
	return row, nil
}

// CreateMaterial godoc
// @Summary      List a material under a supplier
// @Tags         materials
// @Accept       json
// @Produce      json
// @Param        id       path  string           true  "Supplier ID"
// @Param        request  body  materialPayload  true  "Material"
// @Success      201  {object}  models.MaterialGorm
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/suppliers/{id}/materials [post]
func CreateMaterial(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req materialPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if msg := req.validate(); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		var supplier models.SupplierProfileGorm
		if err := db.Where("id = ?", c.Param("id")).First(&supplier).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}

		row, err := req.toRow(uuid.NewString(), supplier.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to encode material parameters"})
			return
		}
		if err := db.Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create material", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

// GetSupplierMaterials godoc
// @Summary      List a supplier's materials
// @Tags         materials
// @Produce      json
// @Param        id  path  string  true  "Supplier ID"
// @Success      200  {array}  models.Material
// @Router       /api/suppliers/{id}/materials [get]
func GetSupplierMaterials(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rows []models.MaterialGorm
		if err := db.Where("supplier_id = ?", c.Param("id")).Order("created_at").Find(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch materials"})
			return
		}

		materials := make([]models.Material, 0, len(rows))
		for _, row := range rows {
			materials = append(materials, row.ToMaterial())
		}
		c.JSON(http.StatusOK, materials)
	}
}

// UpdateMaterial godoc
// @Summary      Update a listed material
// @Tags         materials
// @Accept       json
// @Produce      json
// @Param        material_id  path  string           true  "Material ID"
// @Param        request      body  materialPayload  true  "Material"
// @Success      200  {object}  models.MaterialGorm
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/materials/{material_id} [put]
func UpdateMaterial(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var existing models.MaterialGorm
		if err := db.Where("id = ?", c.Param("material_id")).First(&existing).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Material not found"})
			return
		}

		var req materialPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if msg := req.validate(); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		row, err := req.toRow(existing.ID, existing.SupplierID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to encode material parameters"})
			return
		}
		row.CreatedAt = existing.CreatedAt
		if err := db.Save(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update material"})
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

// DeleteMaterial godoc
// @Summary      Remove a listed material
// @Tags         materials
// @Produce      json
// @Param        material_id  path  string  true  "Material ID"
// @Success      200  {object}  utils.Response
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/materials/{material_id} [delete]
func DeleteMaterial(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Where("id = ?", c.Param("material_id")).Delete(&models.MaterialGorm{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete material"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Material not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Material deleted"})
	}
}

// SearchMaterials godoc
// @Summary      Search discoverable materials by name
// @Tags         materials
// @Produce      json
// @Param        q  query  string  true  "Material name query"
// @Success      200  {array}  models.SupplierSnapshot
// @Router       /api/materials/search [get]
func SearchMaterials(lister snapshotLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
			return
		}
		snaps, err := lister.ListSnapshots(q)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search materials"})
			return
		}
		c.JSON(http.StatusOK, snaps)
	}
}
