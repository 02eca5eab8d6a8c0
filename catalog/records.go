package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"leadtime-prediction-api/models"
)

const (
	suppliersDataset = "suppliers"
	sitesDataset     = "sites"
	skusDataset      = "skus"
)

var (
	supplierColumns = []string{"supplier_id", "region", "country", "primary_vendor", "on_time_performance", "iso_certified"}
	siteColumns     = []string{"site_id", "region", "country", "site_type", "operator"}
	skuColumns      = []string{"sku_id", "category", "technology", "supplier_nominal_lead_time_days"}
)

func parseSupplier(r Row) (models.Supplier, error) {
	onTime, err := parseOptionalFloat(r["on_time_performance"])
	if err != nil {
		return models.Supplier{}, fmt.Errorf("on_time_performance: %w", err)
	}
	certified, err := parseBool(r["iso_certified"])
	if err != nil {
		return models.Supplier{}, fmt.Errorf("iso_certified: %w", err)
	}
	return models.Supplier{
		SupplierID:        r["supplier_id"],
		Region:            r["region"],
		Country:           r["country"],
		PrimaryVendor:     r["primary_vendor"],
		OnTimePerformance: onTime,
		ISOCertified:      certified,
	}, nil
}

func parseSite(r Row) (models.Site, error) {
	return models.Site{
		SiteID:   r["site_id"],
		Region:   r["region"],
		Country:  r["country"],
		SiteType: r["site_type"],
		Operator: r["operator"],
	}, nil
}

func parseSKU(r Row) (models.SKU, error) {
	nominal, err := parseOptionalFloat(r["supplier_nominal_lead_time_days"])
	if err != nil {
		return models.SKU{}, fmt.Errorf("supplier_nominal_lead_time_days: %w", err)
	}
	return models.SKU{
		SKUID:               r["sku_id"],
		Category:            r["category"],
		Technology:          r["technology"],
		NominalLeadTimeDays: nominal,
	}, nil
}

func supplierRow(s models.Supplier) Row {
	return Row{
		"supplier_id":         s.SupplierID,
		"region":              s.Region,
		"country":             s.Country,
		"primary_vendor":      s.PrimaryVendor,
		"on_time_performance": formatOptionalFloat(s.OnTimePerformance),
		"iso_certified":       strconv.FormatBool(s.ISOCertified),
	}
}

func siteRow(s models.Site) Row {
	return Row{
		"site_id":   s.SiteID,
		"region":    s.Region,
		"country":   s.Country,
		"site_type": s.SiteType,
		"operator":  s.Operator,
	}
}

func skuRow(s models.SKU) Row {
	return Row{
		"sku_id":                          s.SKUID,
		"category":                        s.Category,
		"technology":                      s.Technology,
		"supplier_nominal_lead_time_days": formatOptionalFloat(s.NominalLeadTimeDays),
	}
}

// parseOptionalFloat treats an empty cell or NaN as a missing value.
func parseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(f) {
		return nil, nil
	}
	return &f, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "f", "0", "no", "n":
		return false, nil
	case "true", "t", "1", "yes", "y":
		return true, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
