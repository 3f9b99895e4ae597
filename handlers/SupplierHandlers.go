package handlers

import (
	"net/http"
	"strings"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type supplierPayload struct {
	BusinessName    string  `json:"business_name" binding:"required"`
	Pincode         string  `json:"pincode" binding:"required"`
	ServiceRadiusKm float64 `json:"service_radius_km"`
	Discoverable    *bool   `json:"discoverable"`
	Rating          float64 `json:"rating"`
	PastClients     int     `json:"past_clients"`
}

// CreateSupplier godoc
// @Summary      Register a supplier profile
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        request body supplierPayload true "Supplier profile"
// @Success      201  {object}  models.SupplierProfileGorm
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/suppliers [post]
func CreateSupplier(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req supplierPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(strings.TrimSpace(req.Pincode)) != 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pincode must be 6 digits"})
			return
		}

		discoverable := true
		if req.Discoverable != nil {
			discoverable = *req.Discoverable
		}
		radius := req.ServiceRadiusKm
		if radius <= 0 {
			radius = 50
		}

		supplier := models.SupplierProfileGorm{
			ID:              "supplier:" + uuid.NewString(),
			BusinessName:    req.BusinessName,
			Pincode:         strings.TrimSpace(req.Pincode),
			ServiceRadiusKm: radius,
			Discoverable:    discoverable,
			Verification:    models.VerificationPending,
			Rating:          req.Rating,
			PastClients:     req.PastClients,
		}
		if err := db.Create(&supplier).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create supplier", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, supplier)
	}
}

// GetSupplier godoc
// @Summary      Fetch one supplier profile
// @Tags         suppliers
// @Produce      json
// @Param        id   path      string  true  "Supplier ID"
// @Success      200  {object}  models.SupplierProfileGorm
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/suppliers/{id} [get]
func GetSupplier(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var supplier models.SupplierProfileGorm
		if err := db.Where("id = ?", c.Param("id")).First(&supplier).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch supplier"})
			return
		}

		var docsCount int64
		db.Model(&models.SupplierDocumentGorm{}).Where("supplier_id = ?", supplier.ID).Count(&docsCount)
		var materialCount int64
		db.Model(&models.MaterialGorm{}).Where("supplier_id = ?", supplier.ID).Count(&materialCount)

		c.JSON(http.StatusOK, gin.H{
			"supplier":       supplier,
			"docs_count":     docsCount,
			"material_count": materialCount,
		})
	}
}

// GetAllSuppliers godoc
// @Summary      List supplier profiles
// @Tags         suppliers
// @Produce      json
// @Param        verification  query  string  false  "Filter by verification status"
// @Success      200  {array}  models.SupplierProfileGorm
// @Router       /api/suppliers [get]
func GetAllSuppliers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Order("created_at")
		if v := c.Query("verification"); v != "" {
			query = query.Where("verification = ?", v)
		}
		var suppliers []models.SupplierProfileGorm
		if err := query.Find(&suppliers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch suppliers"})
			return
		}
		c.JSON(http.StatusOK, suppliers)
	}
}

// UpdateSupplier godoc
// @Summary      Update a supplier profile
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id       path  string           true  "Supplier ID"
// @Param        request  body  supplierPayload  true  "Updated profile"
// @Success      200  {object}  models.SupplierProfileGorm
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/suppliers/{id} [put]
func UpdateSupplier(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var supplier models.SupplierProfileGorm
		if err := db.Where("id = ?", c.Param("id")).First(&supplier).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}

		var req supplierPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		supplier.BusinessName = req.BusinessName
		supplier.Pincode = strings.TrimSpace(req.Pincode)
		if req.ServiceRadiusKm > 0 {
			supplier.ServiceRadiusKm = req.ServiceRadiusKm
		}
		if req.Discoverable != nil {
			supplier.Discoverable = *req.Discoverable
		}
		supplier.Rating = req.Rating
		supplier.PastClients = req.PastClients

		if err := db.Save(&supplier).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update supplier"})
			return
		}
		c.JSON(http.StatusOK, supplier)
	}
}

// SetSupplierVerification godoc
// @Summary      Set verification status (admin)
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Supplier ID"
// @Success      200  {object}  models.SupplierProfileGorm
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/suppliers/{id}/verification [put]
func SetSupplierVerification(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Verification string `json:"verification" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "verification is required"})
			return
		}
		switch req.Verification {
		case models.VerificationPending, models.VerificationVerified, models.VerificationRejected:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "verification must be pending, verified or rejected"})
			return
		}

		result := db.Model(&models.SupplierProfileGorm{}).
			Where("id = ?", c.Param("id")).
			Update("verification", req.Verification)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update verification"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Verification updated", "verification": req.Verification})
	}
}

// SetSupplierDiscoverability godoc
// @Summary      Toggle marketplace discoverability
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Supplier ID"
// @Success      200  {object}  object
// @Router       /api/suppliers/{id}/discoverable [patch]
func SetSupplierDiscoverability(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Discoverable *bool `json:"discoverable" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "discoverable is required"})
			return
		}

		result := db.Model(&models.SupplierProfileGorm{}).
			Where("id = ?", c.Param("id")).
			Update("discoverable", *req.Discoverable)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update discoverability"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Discoverability updated", "discoverable": *req.Discoverable})
	}
}

// AddSupplierDocument godoc
// @Summary      Register a verification document
// @Description  Documents feed the credibility sub-score (capped at 6).
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Supplier ID"
// @Success      201  {object}  models.SupplierDocumentGorm
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/suppliers/{id}/documents [post]
func AddSupplierDocument(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			DocType  string `json:"doc_type" binding:"required"`
			FileName string `json:"file_name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var supplier models.SupplierProfileGorm
		if err := db.Where("id = ?", c.Param("id")).First(&supplier).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
			return
		}

		doc := models.SupplierDocumentGorm{
			ID:         uuid.NewString(),
			SupplierID: supplier.ID,
			DocType:    req.DocType,
			FileName:   req.FileName,
		}
		if err := db.Create(&doc).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document"})
			return
		}
		c.JSON(http.StatusCreated, doc)
	}
}

// GetSupplierDocuments godoc
// @Summary      List a supplier's documents
// @Tags         suppliers
// @Produce      json
// @Param        id  path  string  true  "Supplier ID"
// @Success      200  {array}  models.SupplierDocumentGorm
// @Router       /api/suppliers/{id}/documents [get]
func GetSupplierDocuments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var docs []models.SupplierDocumentGorm
		if err := db.Where("supplier_id = ?", c.Param("id")).Order("created_at").Find(&docs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch documents"})
			return
		}
		c.JSON(http.StatusOK, docs)
	}
}
