package features

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaOrder(t *testing.T) {
	want := []string{
		"order_qty", "unit_price_usd", "value_usd", "ship_qty", "promised_lead_time_days",
		"ship_lag_from_order_days", "planned_transit_days", "eta_slip_days",
		"sku_nominal_lead_time_days", "supplier_on_time_performance",
		"region", "country", "status_po", "status_ship", "mode", "incoterm", "origin_country",
		"dest_region", "dest_country", "dest_site_type", "supplier_region", "supplier_country",
		"supplier_primary_vendor", "sku_category", "sku_technology",
	}
	assert.Equal(t, want, Schema())
	assert.Len(t, Schema(), 25)
}

func TestSchemaReturnsCopy(t *testing.T) {
	s := Schema()
	s[0] = "mutated"
	assert.Equal(t, OrderQty, Schema()[0])
}

func TestLookup(t *testing.T) {
	kind, idx, ok := Lookup(ValueUSD)
	require.True(t, ok)
	assert.Equal(t, Numeric, kind)
	assert.Equal(t, 2, idx)

	kind, idx, ok = Lookup(SKUTechnology)
	require.True(t, ok)
	assert.Equal(t, Categorical, kind)
	assert.Equal(t, 14, idx)

	_, _, ok = Lookup("lead_time_days")
	assert.False(t, ok)
}

func TestZeroRecordIsAllNull(t *testing.T) {
	var rec FeatureRecord
	for _, name := range Schema() {
		v, ok := rec.Value(name)
		assert.True(t, ok, name)
		assert.Nil(t, v, name)
	}
}

func TestRecordAccessorsRejectWrongKind(t *testing.T) {
	var rec FeatureRecord
	rec.setNumeric(OrderQty, 5, true)
	rec.setCategorical(Mode, "Air", true)

	_, ok := rec.Label(OrderQty)
	assert.False(t, ok)
	_, ok = rec.Number(Mode)
	assert.False(t, ok)
	_, ok = rec.Value("unknown")
	assert.False(t, ok)

	assert.Panics(t, func() { rec.setNumeric(Mode, 1, true) })
	assert.Panics(t, func() { rec.setCategorical(OrderQty, "x", true) })
}

func TestRecordJSONKeepsSchemaOrder(t *testing.T) {
	var rec FeatureRecord
	rec.setNumeric(OrderQty, 10, true)
	rec.setCategorical(SKUTechnology, "LTE", true)

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	body := string(data)
	last := -1
	for _, name := range Schema() {
		idx := strings.Index(body, `"`+name+`":`)
		require.GreaterOrEqual(t, idx, 0, name)
		assert.Greater(t, idx, last, "%s out of order", name)
		last = idx
	}
	assert.Contains(t, body, `"order_qty":10`)
	assert.Contains(t, body, `"sku_technology":"LTE"`)
	assert.Contains(t, body, `"ship_qty":null`)
}

func TestRecordJSONRoundTrip(t *testing.T) {
	var rec FeatureRecord
	rec.setNumeric(PromisedLeadTimeDays, -5, true)
	rec.setCategorical(Region, "EMEA", true)

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var back FeatureRecord
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec, back)
}

func TestRecordUnmarshalRejectsUnknownFeature(t *testing.T) {
	var rec FeatureRecord
	err := json.Unmarshal([]byte(`{"order_qty":1,"colour":"red"}`), &rec)
	assert.ErrorContains(t, err, "colour")

	err = json.Unmarshal([]byte(`{"order_qty":"ten"}`), &rec)
	assert.Error(t, err)
}
