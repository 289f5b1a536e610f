package inventory

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Storage Items"

var storageExportHeader = []string{
	"ID",
	"Name",
	"Item Type",
	"Sub Type",
	"Quantity",
	"Unit",
	"Serial Numbers",
	"Remarks",
	"Updated At",
}

var storageExportWidths = []float64{8, 30, 18, 14, 10, 10, 40, 30, 20}

// ExportStorageItems renders every storage item matching filter as an XLSX workbook.
func (s *Service) ExportStorageItems(ctx context.Context, filter StorageItemFilter) ([]byte, error) {
	filter.Limit = 0
	filter.Offset = 0
	items, err := s.ListStorageItems(ctx, filter)
	if err != nil {
		return nil, err
	}

	data, err := renderStorageWorkbook(items)
	if err != nil {
		s.logger.Error("failed to render storage export", "error", err)
		return nil, err
	}

	s.logger.Info("storage items exported", "count", len(items), "bytes", len(data))
	return data, nil
}

func renderStorageWorkbook(items []*StorageItem) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range storageExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(exportSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(exportSheet, name, name, storageExportWidths[col]); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, item := range items {
		subType := ""
		if item.SubType != nil {
			subType = *item.SubType
		}
		values := []interface{}{
			item.ID,
			item.Name,
			item.ItemType,
			subType,
			item.Quantity,
			item.Unit,
			strings.Join(item.SerialNumbers, ", "),
			item.Remarks,
			item.UpdatedAt.Format("2006-01-02 15:04:05"),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
