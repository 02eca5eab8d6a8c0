package models

type Supplier struct {
	SupplierID        string   `gorm:"column:supplier_id;primaryKey" json:"supplier_id"`
	Region            string   `gorm:"column:region" json:"region"`
	Country           string   `gorm:"column:country" json:"country"`
	PrimaryVendor     string   `gorm:"column:primary_vendor" json:"primary_vendor"`
	OnTimePerformance *float64 `gorm:"column:on_time_performance" json:"on_time_performance"`
	ISOCertified      bool     `gorm:"column:iso_certified" json:"iso_certified"`
}

func (Supplier) TableName() string { return "suppliers" }
