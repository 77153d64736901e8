// Package catalog accumulates the ordered record set for one run.
package catalog

import "github.com/nouhlabs/price-scraper/models"

// Catalog is the append-only ordered sequence of records extracted during a
// run. Records keep page-then-in-page order across appends. All mutation
// happens on the single run goroutine, so no locking is needed.
type Catalog struct {
	records []models.Product
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Append extends the sequence with the given records in order.
func (c *Catalog) Append(records ...models.Product) {
	c.records = append(c.records, records...)
}

// All returns a read view over the accumulated records. Callers must not
// mutate the returned slice.
func (c *Catalog) All() []models.Product {
	return c.records
}

// Len reports the number of accumulated records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// IsEmpty reports whether no records were accumulated.
func (c *Catalog) IsEmpty() bool {
	return len(c.records) == 0
}
