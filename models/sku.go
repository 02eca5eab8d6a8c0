package models

// SKU carries the catalog attributes the resolver joins onto an order.
// NominalLeadTimeDays is the supplier-quoted lead time and may be unknown.
type SKU struct {
	SKUID               string   `gorm:"column:sku_id;primaryKey" json:"sku_id"`
	Category            string   `gorm:"column:category" json:"category"`
	Technology          string   `gorm:"column:technology" json:"technology"`
	NominalLeadTimeDays *float64 `gorm:"column:supplier_nominal_lead_time_days" json:"supplier_nominal_lead_time_days"`
}

func (SKU) TableName() string { return "skus" }
