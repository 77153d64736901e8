package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nouhlabs/price-scraper/models"
)

func sampleRecords() []models.Product {
	return []models.Product{
		{
			Title:        "A Light in the Attic",
			Price:        51.77,
			Rating:       3,
			Availability: "In stock",
			Page:         1,
			ScrapedAt:    time.Date(2026, 8, 29, 13, 9, 13, 0, time.UTC),
		},
		{
			Title:        "Tipping the Velvet",
			Price:        53.74,
			Rating:       1,
			Availability: "In stock",
			Page:         2,
			ScrapedAt:    time.Date(2026, 8, 29, 13, 9, 14, 0, time.UTC),
		},
	}
}

func TestCSVWriterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")

	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("create csv writer: %v", err)
	}
	if err := writer.Write(sampleRecords()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate csv: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close csv: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2 records", len(rows))
	}

	wantHeader := []string{"title", "price", "rating", "availability", "page", "scraped_at"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}

	first := rows[1]
	if first[0] != "A Light in the Attic" {
		t.Errorf("title = %q", first[0])
	}
	if first[1] != "51.77" {
		t.Errorf("price = %q, want 51.77", first[1])
	}
	if first[2] != "3" {
		t.Errorf("rating = %q, want 3", first[2])
	}
	if first[4] != "1" {
		t.Errorf("page = %q, want 1", first[4])
	}
	if first[5] != "2026-08-29 13:09:13" {
		t.Errorf("scraped_at = %q, want second-precision timestamp", first[5])
	}
}

func TestJSONLWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.jsonl")

	writer, err := NewJSONLWriter(path)
	if err != nil {
		t.Fatalf("create jsonl writer: %v", err)
	}
	records := sampleRecords()
	if err := writer.Write(records); err != nil {
		t.Fatalf("write jsonl: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close jsonl: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open jsonl: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var decoded []models.Product
	for scanner.Scan() {
		var p models.Product
		if err := json.Unmarshal(scanner.Bytes(), &p); err != nil {
			t.Fatalf("invalid jsonl line: %v", err)
		}
		decoded = append(decoded, p)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan jsonl: %v", err)
	}

	if len(decoded) != len(records) {
		t.Fatalf("decoded %d records, want %d", len(decoded), len(records))
	}
	if decoded[0].Title != records[0].Title || decoded[0].Price != records[0].Price {
		t.Errorf("decoded[0] = %+v, want %+v", decoded[0], records[0])
	}
}

func TestDualWriterWritesBothFiles(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "products.csv")
	jsonlPath := filepath.Join(dir, "products.jsonl")

	writer, err := NewDualWriter(csvPath, jsonlPath)
	if err != nil {
		t.Fatalf("create dual writer: %v", err)
	}
	if err := writer.Write(sampleRecords()); err != nil {
		t.Fatalf("write dual: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate dual: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close dual: %v", err)
	}

	for _, path := range []string{csvPath, jsonlPath} {
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Errorf("file %q missing or empty", path)
		}
	}
}

func TestCSVWriterCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "products.csv")
	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("create csv writer in nested dir: %v", err)
	}
	writer.Close()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("csv file not created: %v", err)
	}
}

func TestDefaultCSVName(t *testing.T) {
	now := time.Date(2026, 8, 29, 13, 9, 13, 0, time.UTC)
	want := "scraped_products_20260829_130913.csv"
	if got := DefaultCSVName(now); got != want {
		t.Errorf("DefaultCSVName = %q, want %q", got, want)
	}
}
