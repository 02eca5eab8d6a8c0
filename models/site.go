package models

type Site struct {
	SiteID   string `gorm:"column:site_id;primaryKey" json:"site_id"`
	Region   string `gorm:"column:region" json:"region"`
	Country  string `gorm:"column:country" json:"country"`
	SiteType string `gorm:"column:site_type" json:"site_type"`
	Operator string `gorm:"column:operator" json:"operator"`
}

func (Site) TableName() string { return "sites" }
