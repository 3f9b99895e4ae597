package models

import "time"

// Verification states for a supplier profile
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// Material categories
const (
	CategoryCivil      = "civil"
	CategoryElectrical = "electrical"
	CategoryMachinery  = "machinery"
)

// TransportSlab is one distance band with its own per-km rate.
type TransportSlab struct {
	UpToKm float64 `json:"up_to_km"`
	PerKm  float64 `json:"per_km"`
}

// TransportParams holds either a flat per-km rate or distance-banded slabs,
// plus a fixed base fee. Missing values contribute zero cost.
type TransportParams struct {
	Base  float64         `json:"base"`
	PerKm float64         `json:"per_km"`
	Slabs []TransportSlab `json:"slabs,omitempty"`
}

// BulkDiscountRule grants a percentage discount once the ordered quantity
// reaches MinQty.
type BulkDiscountRule struct {
	MinQty      float64 `json:"min_qty"`
	DiscountPct float64 `json:"discount_pct"`
}

// Material is one listed offering of a supplier.
type Material struct {
	MaterialID          string             `json:"material_id"`
	Name                string             `json:"name"`
	Category            string             `json:"category"`
	Brand               string             `json:"brand,omitempty"`
	GradeStrength       string             `json:"grade_strength,omitempty"`
	UnitBasePrice       float64            `json:"unit_base_price"`
	TransportParams     TransportParams    `json:"transport_params"`
	BulkDiscountRules   []BulkDiscountRule `json:"bulk_discount_rules"`
	MonsoonPriceRisePct float64            `json:"monsoon_price_rise_pct"`
	AvailableStock      *float64           `json:"available_stock,omitempty"`
	DeliverySLA         string             `json:"delivery_sla,omitempty"`
	ImageURLs           []string           `json:"image_urls,omitempty"`
}

// SupplierSnapshot is one supplier+material pairing visible to the quote
// engine for a single comparison run. It is never mutated by the engine.
type SupplierSnapshot struct {
	SupplierID      string   `json:"supplier_id"`
	SupplierName    string   `json:"supplier_name"`
	SupplierPincode string   `json:"supplier_pincode"`
	Verification    string   `json:"verification"`
	Rating          float64  `json:"rating"`
	PastClients     int      `json:"past_clients"`
	DocsCount       int      `json:"docs_count"`
	Material        Material `json:"material"`
}

// ComparisonPreferences are the buyer's weights in [0,1]. They need not sum
// to 1; the engine normalizes by their sum.
type ComparisonPreferences struct {
	PrioritizePrice   float64 `json:"prioritize_price"`
	PrioritizeSpeed   float64 `json:"prioritize_speed"`
	PrioritizeLowRisk float64 `json:"prioritize_low_risk"`
}

// ScoreBreakdown holds the five 0..100 sub-scores (higher is better; the
// monsoon value reads as "higher is safer").
type ScoreBreakdown struct {
	PriceCompetitiveness float64 `json:"price_competitiveness"`
	DistanceImpact       float64 `json:"distance_impact"`
	LogisticsReliability float64 `json:"logistics_reliability"`
	CredibilityStrength  float64 `json:"credibility_strength"`
	MonsoonRisk          float64 `json:"monsoon_risk"`
}

// SupplierQuote is the quote engine output for one snapshot.
type SupplierQuote struct {
	SupplierID       string         `json:"supplier_id"`
	SupplierName     string         `json:"supplier_name"`
	Km               float64        `json:"km"`
	Qty              float64        `json:"qty"`
	BaseUnitPrice    float64        `json:"base_unit_price"`
	BaseCost         float64        `json:"base_cost"`
	TransportCost    float64        `json:"transport_cost"`
	MonsoonSurcharge float64        `json:"monsoon_surcharge"`
	TotalLandedCost  float64        `json:"total_landed_cost"`
	Eta              string         `json:"eta"`
	RiskScore        float64        `json:"risk_score"`
	Score            float64        `json:"score"`
	Breakdown        ScoreBreakdown `json:"breakdown"`
	MaterialLabel    string         `json:"material_label"`
	ImageURL         string         `json:"image_url,omitempty"`
}

// ItemQuote is the best retained quote of one supplier for one line item.
type ItemQuote struct {
	SupplierQuote
	LineItemID    string `json:"line_item_id"`
	LineItemQuery string `json:"line_item_query"`
}

// SupplierAggregate is one ranked entry covering every requested line item.
// Recomputed wholesale on each comparison run.
type SupplierAggregate struct {
	SupplierID      string      `json:"supplier_id"`
	SupplierName    string      `json:"supplier_name"`
	SupplierPincode string      `json:"supplier_pincode"`
	Verification    string      `json:"verification"`
	Rating          float64     `json:"rating"`
	PastClients     int         `json:"past_clients"`
	DocsCount       int         `json:"docs_count"`
	Km              float64     `json:"km"`
	TotalLandedCost float64     `json:"total_landed_cost"`
	RiskScore       float64     `json:"risk_score"`
	Score           float64     `json:"score"`
	Eta             string      `json:"eta"`
	Items           []ItemQuote `json:"items"`
}

// LineItem is one requested (material query, quantity) pair.
type LineItem struct {
	ID    string  `json:"id"`
	Query string  `json:"query"`
	Qty   float64 `json:"qty"`
}

// ComparisonRequest is the payload of /api/compare and the export endpoints.
type ComparisonRequest struct {
	BuyerPincode string                `json:"buyer_pincode" binding:"required"`
	RadiusKm     float64               `json:"radius_km"`
	Items        []LineItem            `json:"items" binding:"required"`
	Prefs        ComparisonPreferences `json:"prefs"`
	ProjectName  string                `json:"project_name"`
}

// ComparisonResponse wraps one ranked run.
type ComparisonResponse struct {
	Suppliers []SupplierAggregate `json:"suppliers"`
	Summary   string              `json:"summary"`
}

// QuoteRequest quotes a single inline snapshot (used by the supplier preview).
type QuoteRequest struct {
	BuyerPincode       string                `json:"buyer_pincode" binding:"required"`
	Qty                float64               `json:"qty" binding:"required"`
	Snapshot           SupplierSnapshot      `json:"snapshot" binding:"required"`
	Prefs              ComparisonPreferences `json:"prefs"`
	MarketMinUnitPrice float64               `json:"market_min_unit_price"`
	MarketMaxUnitPrice float64               `json:"market_max_unit_price"`
}

// User represents a row in the users table.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role"` // client, supplier or admin
	Suspended bool      `json:"suspended"`
	CreatedAt time.Time `json:"created_at"`
}

// Session tracks one logged-in device.
type Session struct {
	UserID                int       `json:"user_id"`
	SessionID             string    `json:"session_id"`
	HostName              string    `json:"host_name"`
	IPAddress             string    `json:"ip_address"`
	Timestamp             time.Time `json:"timestamp"`
	ExpiresAt             time.Time `json:"expires_at"`
	RefreshToken          string    `json:"-"`
	RefreshTokenExpiresAt time.Time `json:"-"`
}

// LoginRequest is the email/password login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token pair.
type LoginResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	SessionID    string `json:"session_id"`
	Role         string `json:"role"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
