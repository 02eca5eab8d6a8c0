// Package catalog holds the supplier, site and SKU reference tables. Tables
// are built once at startup and are read-only afterwards, so they are safe
// for concurrent use without locking.
package catalog

import (
	"context"
	"fmt"

	"leadtime-prediction-api/models"
)

// Row is the full record of a catalog entry, column name to raw value.
type Row map[string]string

// Table is an immutable id-keyed table that remembers load order.
type Table[T any] struct {
	name    string
	records []T
	rows    []Row
	index   map[string]int
}

func newTable[T any](name string, records []T, rows []Row, id func(T) string) (*Table[T], error) {
	t := &Table[T]{
		name:    name,
		records: records,
		rows:    rows,
		index:   make(map[string]int, len(records)),
	}
	for i, rec := range records {
		key := id(rec)
		if key == "" {
			return nil, fmt.Errorf("%s: record %d has an empty id", name, i+1)
		}
		if _, dup := t.index[key]; dup {
			return nil, fmt.Errorf("%s: duplicate id %q", name, key)
		}
		t.index[key] = i
	}
	return t, nil
}

func (t *Table[T]) Name() string { return t.name }

func (t *Table[T]) Len() int { return len(t.records) }

func (t *Table[T]) Get(id string) (T, bool) {
	i, ok := t.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.records[i], true
}

// Row returns a copy of every column loaded for id.
func (t *Table[T]) Row(id string) (Row, bool) {
	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	out := make(Row, len(t.rows[i]))
	for k, v := range t.rows[i] {
		out[k] = v
	}
	return out, true
}

// All returns the records in load order. The slice is a copy.
func (t *Table[T]) All() []T {
	out := make([]T, len(t.records))
	copy(out, t.records)
	return out
}

type Catalogs struct {
	Suppliers *Table[models.Supplier]
	Sites     *Table[models.Site]
	SKUs      *Table[models.SKU]
}

// Source loads the three reference datasets.
type Source interface {
	Load(ctx context.Context) (*Catalogs, error)
}

// New builds catalogs from typed records, deriving each full row from the
// record fields.
func New(suppliers []models.Supplier, sites []models.Site, skus []models.SKU) (*Catalogs, error) {
	supplierRows := make([]Row, len(suppliers))
	for i, s := range suppliers {
		supplierRows[i] = supplierRow(s)
	}
	siteRows := make([]Row, len(sites))
	for i, s := range sites {
		siteRows[i] = siteRow(s)
	}
	skuRows := make([]Row, len(skus))
	for i, s := range skus {
		skuRows[i] = skuRow(s)
	}
	return build(suppliers, supplierRows, sites, siteRows, skus, skuRows)
}

func build(
	suppliers []models.Supplier, supplierRows []Row,
	sites []models.Site, siteRows []Row,
	skus []models.SKU, skuRows []Row,
) (*Catalogs, error) {
	supplierTable, err := newTable(suppliersDataset, suppliers, supplierRows, func(s models.Supplier) string { return s.SupplierID })
	if err != nil {
		return nil, err
	}
	siteTable, err := newTable(sitesDataset, sites, siteRows, func(s models.Site) string { return s.SiteID })
	if err != nil {
		return nil, err
	}
	skuTable, err := newTable(skusDataset, skus, skuRows, func(s models.SKU) string { return s.SKUID })
	if err != nil {
		return nil, err
	}
	return &Catalogs{Suppliers: supplierTable, Sites: siteTable, SKUs: skuTable}, nil
}

func (c *Catalogs) Supplier(id string) (models.Supplier, bool) { return c.Suppliers.Get(id) }

func (c *Catalogs) Site(id string) (models.Site, bool) { return c.Sites.Get(id) }

func (c *Catalogs) SKU(id string) (models.SKU, bool) { return c.SKUs.Get(id) }

// Counts reports the number of records per dataset.
func (c *Catalogs) Counts() map[string]int {
	return map[string]int{
		suppliersDataset: c.Suppliers.Len(),
		sitesDataset:     c.Sites.Len(),
		skusDataset:      c.SKUs.Len(),
	}
}
