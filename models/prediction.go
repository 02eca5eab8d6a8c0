package models

import "time"

// PredictionEvent is published on the live channel after every successful
// prediction. It is never stored.
type PredictionEvent struct {
	ID                    string    `json:"id"`
	TS                    time.Time `json:"ts"`
	SupplierID            string    `json:"supplier_id"`
	SKUID                 string    `json:"sku_id"`
	DestSiteID            string    `json:"dest_site_id"`
	PredictedLeadTimeDays float64   `json:"predicted_lead_time_days"`
	Model                 string    `json:"model"`
	Cached                bool      `json:"cached"`
}
