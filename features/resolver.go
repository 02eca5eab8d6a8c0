package features

import (
	"time"

	"leadtime-prediction-api/models"
)

// Request is a validated prediction payload. Pointer fields are optional;
// nil means the client did not send a value.
type Request struct {
	SupplierID   string    `json:"supplier_id"`
	SKUID        string    `json:"sku_id"`
	DestSiteID   string    `json:"dest_site_id"`
	OrderQty     float64   `json:"order_qty"`
	UnitPriceUSD float64   `json:"unit_price_usd"`
	OrderDate    time.Time `json:"order_date"`
	PromisedDate time.Time `json:"promised_date"`

	Region        *string `json:"region"`
	Country       *string `json:"country"`
	StatusPO      *string `json:"status_po"`
	StatusShip    *string `json:"status_ship"`
	Mode          *string `json:"mode"`
	Incoterm      *string `json:"incoterm"`
	OriginCountry *string `json:"origin_country"`

	ShipQty              *float64 `json:"ship_qty"`
	ShipLagFromOrderDays *float64 `json:"ship_lag_from_order_days"`
	PlannedTransitDays   *float64 `json:"planned_transit_days"`
	EtaSlipDays          *float64 `json:"eta_slip_days"`
}

// Catalog is the read-only reference data the resolver joins against.
type Catalog interface {
	Supplier(id string) (models.Supplier, bool)
	Site(id string) (models.Site, bool)
	SKU(id string) (models.SKU, bool)
}

type refs struct {
	supplier models.Supplier
	site     models.Site
	sku      models.SKU
}

// numericRule derives one numeric feature. ok=false yields null.
type numericRule struct {
	name  string
	value func(Request, refs) (float64, bool)
}

// categoricalRule resolves one categorical feature. A rule with only an
// override copies the request value as sent. A rule with both uses the
// override when it is non-empty and the catalog value otherwise. A rule with
// only a fallback always reads the catalog.
type categoricalRule struct {
	name     string
	override func(Request) *string
	fallback func(refs) string
}

var numericRules = [NumNumeric]numericRule{
	{OrderQty, func(r Request, _ refs) (float64, bool) { return r.OrderQty, true }},
	{UnitPriceUSD, func(r Request, _ refs) (float64, bool) { return r.UnitPriceUSD, true }},
	{ValueUSD, func(r Request, _ refs) (float64, bool) { return r.OrderQty * r.UnitPriceUSD, true }},
	{ShipQty, func(r Request, _ refs) (float64, bool) { return optional(r.ShipQty) }},
	{PromisedLeadTimeDays, func(r Request, _ refs) (float64, bool) {
		return float64(DaysBetween(r.OrderDate, r.PromisedDate)), true
	}},
	{ShipLagFromOrderDays, func(r Request, _ refs) (float64, bool) { return optional(r.ShipLagFromOrderDays) }},
	{PlannedTransitDays, func(r Request, _ refs) (float64, bool) { return optional(r.PlannedTransitDays) }},
	{EtaSlipDays, func(r Request, _ refs) (float64, bool) { return optional(r.EtaSlipDays) }},
	{SKUNominalLeadTimeDays, func(_ Request, x refs) (float64, bool) { return optional(x.sku.NominalLeadTimeDays) }},
	{SupplierOnTimePerformance, func(_ Request, x refs) (float64, bool) { return optional(x.supplier.OnTimePerformance) }},
}

var categoricalRules = [NumCategorical]categoricalRule{
	{name: Region, override: func(r Request) *string { return r.Region }, fallback: func(x refs) string { return x.site.Region }},
	{name: Country, override: func(r Request) *string { return r.Country }, fallback: func(x refs) string { return x.site.Country }},
	{name: StatusPO, override: func(r Request) *string { return r.StatusPO }},
	{name: StatusShip, override: func(r Request) *string { return r.StatusShip }},
	{name: Mode, override: func(r Request) *string { return r.Mode }},
	{name: Incoterm, override: func(r Request) *string { return r.Incoterm }},
	{name: OriginCountry, override: func(r Request) *string { return r.OriginCountry }, fallback: func(x refs) string { return x.supplier.Country }},
	{name: DestRegion, fallback: func(x refs) string { return x.site.Region }},
	{name: DestCountry, fallback: func(x refs) string { return x.site.Country }},
	{name: DestSiteType, fallback: func(x refs) string { return x.site.SiteType }},
	{name: SupplierRegion, fallback: func(x refs) string { return x.supplier.Region }},
	{name: SupplierCountry, fallback: func(x refs) string { return x.supplier.Country }},
	{name: SupplierPrimaryVendor, fallback: func(x refs) string { return x.supplier.PrimaryVendor }},
	{name: SKUCategory, fallback: func(x refs) string { return x.sku.Category }},
	{name: SKUTechnology, fallback: func(x refs) string { return x.sku.Technology }},
}

func (rule categoricalRule) resolve(req Request, x refs) (string, bool) {
	if rule.override != nil {
		if v := rule.override(req); v != nil {
			if rule.fallback == nil || *v != "" {
				return *v, true
			}
		}
	}
	if rule.fallback == nil {
		return "", false
	}
	v := rule.fallback(x)
	return v, v != ""
}

type Resolver struct {
	catalog Catalog
}

func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve builds the feature record for req. It returns a *NotFoundError
// when the supplier, destination site or SKU is unknown, checked in that
// order.
func (r *Resolver) Resolve(req Request) (FeatureRecord, error) {
	var x refs
	var ok bool
	if x.supplier, ok = r.catalog.Supplier(req.SupplierID); !ok {
		return FeatureRecord{}, &NotFoundError{Entity: EntitySupplier, ID: req.SupplierID}
	}
	if x.site, ok = r.catalog.Site(req.DestSiteID); !ok {
		return FeatureRecord{}, &NotFoundError{Entity: EntitySite, ID: req.DestSiteID}
	}
	if x.sku, ok = r.catalog.SKU(req.SKUID); !ok {
		return FeatureRecord{}, &NotFoundError{Entity: EntitySKU, ID: req.SKUID}
	}

	var rec FeatureRecord
	for _, rule := range numericRules {
		v, valid := rule.value(req, x)
		rec.setNumeric(rule.name, v, valid)
	}
	for _, rule := range categoricalRules {
		v, valid := rule.resolve(req, x)
		rec.setCategorical(rule.name, v, valid)
	}
	return rec, nil
}

// DaysBetween returns the whole calendar days from one date to another,
// negative when to is earlier. Clock time and zone are ignored.
func DaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int((b.Unix() - a.Unix()) / 86400)
}

func optional(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}
