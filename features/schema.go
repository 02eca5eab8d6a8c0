// Package features turns a prediction request and the reference catalogs into
// the fixed, ordered feature record the lead-time model was trained on.
package features

// Feature names. The values are the column names of the training frame.
const (
	OrderQty                  = "order_qty"
	UnitPriceUSD              = "unit_price_usd"
	ValueUSD                  = "value_usd"
	ShipQty                   = "ship_qty"
	PromisedLeadTimeDays      = "promised_lead_time_days"
	ShipLagFromOrderDays      = "ship_lag_from_order_days"
	PlannedTransitDays        = "planned_transit_days"
	EtaSlipDays               = "eta_slip_days"
	SKUNominalLeadTimeDays    = "sku_nominal_lead_time_days"
	SupplierOnTimePerformance = "supplier_on_time_performance"
	Region                    = "region"
	Country                   = "country"
	StatusPO                  = "status_po"
	StatusShip                = "status_ship"
	Mode                      = "mode"
	Incoterm                  = "incoterm"
	OriginCountry             = "origin_country"
	DestRegion                = "dest_region"
	DestCountry               = "dest_country"
	DestSiteType              = "dest_site_type"
	SupplierRegion            = "supplier_region"
	SupplierCountry           = "supplier_country"
	SupplierPrimaryVendor     = "supplier_primary_vendor"
	SKUCategory               = "sku_category"
	SKUTechnology             = "sku_technology"
)

const (
	NumNumeric     = 10
	NumCategorical = 15
	NumFeatures    = NumNumeric + NumCategorical
)

// NumericFeatures is the numeric block in model column order.
var NumericFeatures = [NumNumeric]string{
	OrderQty,
	UnitPriceUSD,
	ValueUSD,
	ShipQty,
	PromisedLeadTimeDays,
	ShipLagFromOrderDays,
	PlannedTransitDays,
	EtaSlipDays,
	SKUNominalLeadTimeDays,
	SupplierOnTimePerformance,
}

// CategoricalFeatures is the categorical block in model column order. It
// follows the numeric block.
var CategoricalFeatures = [NumCategorical]string{
	Region,
	Country,
	StatusPO,
	StatusShip,
	Mode,
	Incoterm,
	OriginCountry,
	DestRegion,
	DestCountry,
	DestSiteType,
	SupplierRegion,
	SupplierCountry,
	SupplierPrimaryVendor,
	SKUCategory,
	SKUTechnology,
}

type Kind int

const (
	Numeric Kind = iota
	Categorical
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "categorical"
}

type position struct {
	kind  Kind
	index int
}

var positions = func() map[string]position {
	m := make(map[string]position, NumFeatures)
	for i, name := range NumericFeatures {
		m[name] = position{kind: Numeric, index: i}
	}
	for i, name := range CategoricalFeatures {
		m[name] = position{kind: Categorical, index: i}
	}
	return m
}()

// Schema returns every feature name, numeric block first, in the order the
// model consumes them.
func Schema() []string {
	names := make([]string, 0, NumFeatures)
	names = append(names, NumericFeatures[:]...)
	return append(names, CategoricalFeatures[:]...)
}

// Lookup reports the kind and block index of a feature name.
func Lookup(name string) (Kind, int, bool) {
	p, ok := positions[name]
	return p.kind, p.index, ok
}
