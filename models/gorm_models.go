package models

import (
	"encoding/json"
	"time"
)

// GORM-compatible models with proper tags

// SupplierProfileGorm represents the supplier_profiles table with GORM tags
type SupplierProfileGorm struct {
	ID              string    `gorm:"primaryKey;column:id" json:"id"`
	UserID          *int      `gorm:"column:user_id" json:"user_id,omitempty"`
	BusinessName    string    `gorm:"column:business_name;not null" json:"business_name"`
	Pincode         string    `gorm:"column:pincode;type:varchar(6);not null" json:"pincode"`
	ServiceRadiusKm float64   `gorm:"column:service_radius_km;default:50" json:"service_radius_km"`
	Discoverable    bool      `gorm:"column:discoverable;default:true" json:"discoverable"`
	Verification    string    `gorm:"column:verification;not null;default:'pending'" json:"verification"`
	Rating          float64   `gorm:"column:rating;type:numeric(3,1);default:0" json:"rating"`
	PastClients     int       `gorm:"column:past_clients;default:0" json:"past_clients"`
	CreatedAt       time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for SupplierProfileGorm
func (SupplierProfileGorm) TableName() string {
	return "supplier_profiles"
}

// MaterialGorm represents the materials table with GORM tags.
// TransportParams and BulkDiscountRules are stored as JSONB documents so the
// flat-rate and slab shapes share one column.
type MaterialGorm struct {
	ID                  string    `gorm:"primaryKey;column:id" json:"id"`
	SupplierID          string    `gorm:"column:supplier_id;index;not null" json:"supplier_id"`
	Name                string    `gorm:"column:name;not null" json:"name"`
	Category            string    `gorm:"column:category;not null" json:"category"`
	Brand               *string   `gorm:"column:brand" json:"brand,omitempty"`
	GradeStrength       *string   `gorm:"column:grade_strength" json:"grade_strength,omitempty"`
	UnitBasePrice       float64   `gorm:"column:unit_base_price;type:numeric(12,2);not null" json:"unit_base_price"`
	TransportParams     string    `gorm:"column:transport_params;type:jsonb;default:'{}'" json:"transport_params"`
	BulkDiscountRules   string    `gorm:"column:bulk_discount_rules;type:jsonb;default:'[]'" json:"bulk_discount_rules"`
	MonsoonPriceRisePct float64   `gorm:"column:monsoon_price_rise_pct;type:numeric(5,2);default:0" json:"monsoon_price_rise_pct"`
	AvailableStock      *float64  `gorm:"column:available_stock" json:"available_stock,omitempty"`
	DeliverySLA         *string   `gorm:"column:delivery_sla" json:"delivery_sla,omitempty"`
	ImageURLs           string    `gorm:"column:image_urls;type:jsonb;default:'[]'" json:"image_urls"`
	CreatedAt           time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for MaterialGorm
func (MaterialGorm) TableName() string {
	return "materials"
}

// ToMaterial decodes the JSONB columns into the in-memory Material record.
// Malformed documents decode to their zero values, which the quote engine
// treats as "no cost contribution", never as an error.
func (m MaterialGorm) ToMaterial() Material {
	var params TransportParams
	_ = json.Unmarshal([]byte(m.TransportParams), &params)
	var rules []BulkDiscountRule
	_ = json.Unmarshal([]byte(m.BulkDiscountRules), &rules)
	var images []string
	_ = json.Unmarshal([]byte(m.ImageURLs), &images)

	mat := Material{
		MaterialID:          m.ID,
		Name:                m.Name,
		Category:            m.Category,
		UnitBasePrice:       m.UnitBasePrice,
		TransportParams:     params,
		BulkDiscountRules:   rules,
		MonsoonPriceRisePct: m.MonsoonPriceRisePct,
		AvailableStock:      m.AvailableStock,
		ImageURLs:           images,
	}
	if m.Brand != nil {
		mat.Brand = *m.Brand
	}
	if m.GradeStrength != nil {
		mat.GradeStrength = *m.GradeStrength
	}
	if m.DeliverySLA != nil {
		mat.DeliverySLA = *m.DeliverySLA
	}
	return mat
}

// SupplierDocumentGorm represents the supplier_documents table with GORM tags.
// The document count feeds the credibility sub-score.
type SupplierDocumentGorm struct {
	ID         string    `gorm:"primaryKey;column:id" json:"id"`
	SupplierID string    `gorm:"column:supplier_id;index;not null" json:"supplier_id"`
	DocType    string    `gorm:"column:doc_type;not null" json:"doc_type"`
	FileName   string    `gorm:"column:file_name;not null" json:"file_name"`
	CreatedAt  time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

// TableName specifies the table name for SupplierDocumentGorm
func (SupplierDocumentGorm) TableName() string {
	return "supplier_documents"
}

// UserGorm represents the users table with GORM tags
type UserGorm struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	Email     string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Role      string    `gorm:"column:role;not null;default:'client'" json:"role"`
	Suspended bool      `gorm:"column:suspended;default:false" json:"suspended"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

// TableName specifies the table name for UserGorm
func (UserGorm) TableName() string {
	return "users"
}
