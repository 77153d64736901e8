// Package export produces the run artifacts: tabular files, chart images,
// and the HTML summary report.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nouhlabs/price-scraper/models"
)

// TimestampLayout is the second-precision format used for scraped_at values
// in tabular output.
const TimestampLayout = "2006-01-02 15:04:05"

// Writer is the interface for tabular artifact writers.
type Writer interface {
	Write(records []models.Product) error
	Close() error
	Validate() error
}

// CSVWriter writes records to a flat CSV table.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter initialises a CSV writer and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	header := []string{"title", "price", "rating", "availability", "page", "scraped_at"}
	if err := writer.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{file: f, writer: writer}, nil
}

// Write appends records to the CSV output, one row per record in order.
func (cw *CSVWriter) Write(records []models.Product) error {
	for _, p := range records {
		row := []string{
			p.Title,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			strconv.Itoa(p.Rating),
			p.Availability,
			strconv.Itoa(p.Page),
			p.ScrapedAt.Format(TimestampLayout),
		}
		if err := cw.writer.Write(row); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures the file has content besides the header.
func (cw *CSVWriter) Validate() error {
	info, err := cw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("csv file is empty")
	}
	return nil
}

// JSONLWriter writes newline-delimited JSON records.
type JSONLWriter struct {
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
}

// NewJSONLWriter initialises the JSONL writer.
func NewJSONLWriter(filename string) (*JSONLWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create jsonl file: %w", err)
	}

	buffer := bufio.NewWriter(f)
	return &JSONLWriter{
		file:    f,
		writer:  buffer,
		encoder: json.NewEncoder(buffer),
	}, nil
}

// Write appends records in JSONL format.
func (jw *JSONLWriter) Write(records []models.Product) error {
	for _, p := range records {
		if err := jw.encoder.Encode(p); err != nil {
			return fmt.Errorf("encode jsonl record: %w", err)
		}
	}
	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush jsonl writer: %w", err)
	}
	return nil
}

// Close flushes buffers and closes the underlying file.
func (jw *JSONLWriter) Close() error {
	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush jsonl writer: %w", err)
	}
	return jw.file.Close()
}

// Validate ensures the JSONL file has data.
func (jw *JSONLWriter) Validate() error {
	info, err := jw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat jsonl file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("jsonl file is empty")
	}
	return nil
}

// DualWriter writes the same records to CSV and JSONL side by side.
type DualWriter struct {
	csvWriter   *CSVWriter
	jsonlWriter *JSONLWriter
}

// NewDualWriter creates writers for both formats.
func NewDualWriter(csvFilename, jsonlFilename string) (*DualWriter, error) {
	csvWriter, err := NewCSVWriter(csvFilename)
	if err != nil {
		return nil, fmt.Errorf("create csv writer: %w", err)
	}

	jsonlWriter, err := NewJSONLWriter(jsonlFilename)
	if err != nil {
		csvWriter.Close()
		return nil, fmt.Errorf("create jsonl writer: %w", err)
	}

	return &DualWriter{csvWriter: csvWriter, jsonlWriter: jsonlWriter}, nil
}

// Write writes records to both outputs.
func (dw *DualWriter) Write(records []models.Product) error {
	if err := dw.csvWriter.Write(records); err != nil {
		return err
	}
	return dw.jsonlWriter.Write(records)
}

// Close closes both writers, reporting the first failure.
func (dw *DualWriter) Close() error {
	csvErr := dw.csvWriter.Close()
	jsonlErr := dw.jsonlWriter.Close()
	if csvErr != nil {
		return csvErr
	}
	return jsonlErr
}

// Validate validates both output files.
func (dw *DualWriter) Validate() error {
	if err := dw.csvWriter.Validate(); err != nil {
		return err
	}
	return dw.jsonlWriter.Validate()
}

// DefaultCSVName returns the timestamped default export filename.
func DefaultCSVName(now time.Time) string {
	return fmt.Sprintf("scraped_products_%s.csv", now.Format("20060102_150405"))
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
