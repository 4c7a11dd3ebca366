package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Provenance tags for offers.
const (
	SourceAIResearch   = "ai_research"
	SourceExternalFeed = "external_feed"
)

// State is a regulatory jurisdiction.
type State struct {
	ID           string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name         string    `gorm:"column:name;size:100" json:"name"`
	Abbreviation string    `gorm:"column:abbreviation;size:8;uniqueIndex" json:"abbreviation"`
	CreationTime time.Time `gorm:"column:creation_time" json:"creation_time"`
}

// TableName overrides the table name used by GORM.
func (State) TableName() string {
	return "states"
}

// Casino is an operator licensed (or discovered) in a single state.
type Casino struct {
	ID             string     `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name           string     `gorm:"column:name;size:255" json:"name"`
	Website        *string    `gorm:"column:website;size:512" json:"website,omitempty"`
	LicenseStatus  *string    `gorm:"column:license_status;size:64" json:"license_status,omitempty"`
	SourceURL      *string    `gorm:"column:source_url;size:512" json:"source_url,omitempty"`
	StateID        string     `gorm:"column:state_id;size:36;index" json:"state_id"`
	IsTracked      bool       `gorm:"column:is_tracked;index" json:"is_tracked"`
	LastOfferCheck *time.Time `gorm:"column:last_offer_check;index" json:"last_offer_check"`
	CreationTime   time.Time  `gorm:"column:creation_time" json:"creation_time"`
}

// TableName overrides the table name used by GORM.
func (Casino) TableName() string {
	return "casinos"
}

// OfferFields holds the mutable attributes of an offer.
// It is both the payload shape accepted from research/feeds and the update patch.
type OfferFields struct {
	OfferName           string              `gorm:"column:offer_name;size:255" json:"offer_name" validate:"required,max=255"`
	OfferType           string              `gorm:"column:offer_type;size:64" json:"offer_type,omitempty" validate:"max=64"`
	ExpectedDeposit     decimal.NullDecimal `gorm:"column:expected_deposit;type:decimal(12,2)" json:"expected_deposit"`
	ExpectedBonus       decimal.NullDecimal `gorm:"column:expected_bonus;type:decimal(12,2)" json:"expected_bonus"`
	Description         string              `gorm:"column:description;type:text" json:"description,omitempty"`
	Terms               string              `gorm:"column:terms;type:text" json:"terms,omitempty"`
	ValidUntil          string              `gorm:"column:valid_until;size:32" json:"valid_until,omitempty" validate:"omitempty,datetime=2006-01-02"`
	WageringRequirement string              `gorm:"column:wagering_requirement;size:128" json:"wagering_requirement,omitempty"`
	MinDeposit          decimal.NullDecimal `gorm:"column:min_deposit;type:decimal(12,2)" json:"min_deposit"`
	MaxBonus            decimal.NullDecimal `gorm:"column:max_bonus;type:decimal(12,2)" json:"max_bonus"`
}

// Offer is a promotional offer owned by a casino.
type Offer struct {
	ID       string `gorm:"column:id;primaryKey;size:36" json:"id"`
	CasinoID string `gorm:"column:casino_id;size:36;index:idx_offers_casino_source" json:"casino_id"`
	Source   string `gorm:"column:source;size:32;index:idx_offers_casino_source" json:"source"`

	OfferFields `gorm:"embedded"`

	IsDeprecated bool      `gorm:"column:is_deprecated" json:"is_deprecated"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at"`
	CreationTime time.Time `gorm:"column:creation_time" json:"creation_time"`
}

// TableName overrides the table name used by GORM.
func (Offer) TableName() string {
	return "offers"
}

// All returns every model, in migration order.
func All() []any {
	return []any{&State{}, &Casino{}, &Offer{}}
}
