package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"presale-backend/models"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gorm.io/gorm"
)

const (
	DefaultExportLimit = 20000
	MaxExportLimit     = 50000

	exportSheetName = "Conversions"
)

// exportColumns is the fixed column set, in order. Dashboards and the
// snapshot archive both depend on this order staying put.
var exportColumns = []string{
	"id", "created_at", "referrer_address", "buyer_address", "tx_hash",
	"chain_id", "amount", "ref_code",
	"utm_source", "utm_medium", "utm_campaign", "utm_content", "utm_term",
}

// ExportService serializes recorded conversions for the admin dashboard.
type ExportService struct {
	DB *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{DB: db}
}

// ClampLimit bounds a row limit to [1, MaxExportLimit]. Zero or negative
// means "not specified" and falls back to DefaultExportLimit — the export
// handler rejects explicit non-positive values before calling this, so only
// an absent limit reaches the default branch.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultExportLimit
	}
	if limit > MaxExportLimit {
		return MaxExportLimit
	}
	return limit
}

// FetchRecent loads up to limit conversions, newest first.
func (s *ExportService) FetchRecent(limit int) ([]models.Conversion, error) {
	var rows []models.Conversion
	if err := s.DB.Order("created_at DESC").Limit(ClampLimit(limit)).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch conversions for export: %w", err)
	}
	return rows, nil
}

// RenderCSV writes the rows as RFC 4180 CSV: fields containing commas,
// quotes or newlines come out quoted with internal quotes doubled.
func RenderCSV(rows []models.Conversion) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportColumns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range rows {
		if err := w.Write(conversionRecord(&rows[i])); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderXLSX packs the same rows into a single "Conversions" sheet, with a
// formatted total underneath the data.
func RenderXLSX(rows []models.Conversion) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, fmt.Errorf("failed to name export sheet: %w", err)
	}

	header := make([]interface{}, len(exportColumns))
	for i, col := range exportColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write XLSX header: %w", err)
	}

	for i := range rows {
		record := conversionRecord(&rows[i])
		cells := make([]interface{}, len(record))
		for j, v := range record {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute XLSX cell: %w", err)
		}
		if err := f.SetSheetRow(exportSheetName, cell, &cells); err != nil {
			return nil, fmt.Errorf("failed to write XLSX row: %w", err)
		}
	}

	p := message.NewPrinter(language.English)
	totalCell, err := excelize.CoordinatesToCellName(1, len(rows)+3)
	if err != nil {
		return nil, fmt.Errorf("failed to compute XLSX total cell: %w", err)
	}
	if err := f.SetCellValue(exportSheetName, totalCell, p.Sprintf("Total conversions: %d", len(rows))); err != nil {
		return nil, fmt.Errorf("failed to write XLSX total: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize XLSX: %w", err)
	}
	return buf.Bytes(), nil
}

func conversionRecord(c *models.Conversion) []string {
	return []string{
		strconv.FormatUint(uint64(c.ID), 10),
		c.CreatedAt.UTC().Format(time.RFC3339),
		c.ReferrerAddress,
		c.BuyerAddress,
		c.TxHash,
		strconv.FormatInt(c.ChainID, 10),
		deref(c.Amount),
		c.RefCode,
		deref(c.UTMSource),
		deref(c.UTMMedium),
		deref(c.UTMCampaign),
		deref(c.UTMContent),
		deref(c.UTMTerm),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
