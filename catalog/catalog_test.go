package catalog

import (
	"testing"

	"github.com/nouhlabs/price-scraper/models"
)

func TestCatalogPreservesAppendOrder(t *testing.T) {
	c := New()
	if !c.IsEmpty() {
		t.Fatal("new catalog should be empty")
	}

	page1 := []models.Product{
		{Title: "A", Price: 1, Page: 1},
		{Title: "B", Price: 2, Page: 1},
	}
	page2 := []models.Product{
		{Title: "C", Price: 3, Page: 2},
	}

	c.Append(page1...)
	c.Append(page2...)

	if c.IsEmpty() {
		t.Fatal("catalog should not be empty after appends")
	}
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}

	want := []string{"A", "B", "C"}
	for i, record := range c.All() {
		if record.Title != want[i] {
			t.Errorf("record %d title = %q, want %q", i, record.Title, want[i])
		}
	}
}

func TestCatalogKeepsDuplicates(t *testing.T) {
	c := New()
	record := models.Product{Title: "Same", Price: 9.99, Page: 1}
	c.Append(record)
	c.Append(record)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (no deduplication)", c.Len())
	}
}

func TestCatalogAppendNothing(t *testing.T) {
	c := New()
	c.Append()
	if !c.IsEmpty() {
		t.Fatal("empty append should leave catalog empty")
	}
}
