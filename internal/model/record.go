package model

import (
	"gorm.io/gorm"

	"registry-backend/internal/normalize"
)

// ActiveRecord is one row of the active business registry (dataset
// table i2500). Column names follow the upstream dataset; the
// underscore-prefixed columns are derived projections kept in the
// table so region and name filters can run inside sqlite.
type ActiveRecord struct {
	LicenseNo      string `json:"license_no" gorm:"column:LCNS_NO;primaryKey"`
	Industry       string `json:"industry" gorm:"column:INDUTY_CD_NM"`
	BusinessName   string `json:"business_name" gorm:"column:BSSH_NM"`
	Address        string `json:"address" gorm:"column:ADDR"`
	PermitDate     string `json:"permit_date" gorm:"column:PRMS_DT"`
	NormalizedName string `json:"-" gorm:"column:_BSSH_NORM"`
	NormalizedAddr string `json:"-" gorm:"column:_ADDR_LOWER"`
}

func (ActiveRecord) TableName() string { return "i2500" }

// BeforeSave keeps the derived projections in sync with their source
// columns. The dataset is refreshed wholesale, but fixture writes go
// through gorm and must never leave a stale normalized form behind.
func (r *ActiveRecord) BeforeSave(tx *gorm.DB) error {
	r.NormalizedName = normalize.Fold(r.BusinessName)
	r.NormalizedAddr = normalize.Fold(r.Address)
	return nil
}

// ClosedRecord is one row of the closed business registry (dataset
// table i2819). Same key space as ActiveRecord plus closure columns.
type ClosedRecord struct {
	LicenseNo      string `json:"license_no" gorm:"column:LCNS_NO;primaryKey"`
	Industry       string `json:"industry" gorm:"column:INDUTY_NM"`
	BusinessName   string `json:"business_name" gorm:"column:BSSH_NM"`
	Address        string `json:"address" gorm:"column:LOCP_ADDR"`
	PermitDate     string `json:"permit_date" gorm:"column:PRMS_DT"`
	ClosureDate    string `json:"closure_date" gorm:"column:CLSBIZ_DT"`
	ClosureStatus  string `json:"closure_status" gorm:"column:CLSBIZ_DVS_CD_NM"`
	NormalizedName string `json:"-" gorm:"column:_BSSH_NORM"`
	NormalizedAddr string `json:"-" gorm:"column:_ADDR_LOWER"`
}

func (ClosedRecord) TableName() string { return "i2819" }

func (r *ClosedRecord) BeforeSave(tx *gorm.DB) error {
	r.NormalizedName = normalize.Fold(r.BusinessName)
	r.NormalizedAddr = normalize.Fold(r.Address)
	return nil
}
