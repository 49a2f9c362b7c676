package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/leads"
	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/utils/flags"
)

// Format selects the export encoding.
type Format string

// Supported export formats.
const (
	FormatCSV  Format = Format("csv")
	FormatXLSX Format = Format("xlsx")
)

const (
	columnID               = "id"
	columnBusinessName     = "business_name"
	columnCategory         = "category"
	columnAddress          = "address"
	columnPhone            = "phone"
	columnEmail            = "email"
	columnWebsite          = "website"
	columnSource           = "source"
	columnOutreachStatus   = "outreach_status"
	columnOutreachTime     = "outreach_time"
	columnCreatedAt        = "created_at"
	defaultSheetName       = "Sheet1"
	leadsSheetName         = "Leads"
	headerRowIndex         = 1
	firstColumnIndex       = 1
	unsupportedFormatError = "unsupported export format %q (expected csv or xlsx)"
	formatSettingName      = "export format"
	sheetErrorTemplate     = "build workbook: %w"
)

// Columns returns the exported column names in table order.
func Columns() []string {
	return []string{
		columnID,
		columnBusinessName,
		columnCategory,
		columnAddress,
		columnPhone,
		columnEmail,
		columnWebsite,
		columnSource,
		columnOutreachStatus,
		columnOutreachTime,
		columnCreatedAt,
	}
}

// ParseFormat normalizes a format name.
func ParseFormat(value string) (Format, error) {
	matched, matchError := flags.MatchChoice(formatSettingName, value, SupportedFormats())
	if matchError != nil {
		return "", matchError
	}
	return Format(matched), nil
}

// SupportedFormats lists the accepted --format values.
func SupportedFormats() []string {
	return []string{string(FormatCSV), string(FormatXLSX)}
}

// Row renders a lead in column order. Timestamps use RFC 3339; an unset outreach time is empty.
func Row(lead leads.Lead) []string {
	outreachTime := ""
	if lead.OutreachTime != nil {
		outreachTime = lead.OutreachTime.UTC().Format(time.RFC3339)
	}
	return []string{
		strconv.FormatInt(lead.ID, 10),
		lead.BusinessName,
		lead.Category,
		lead.Address,
		lead.Phone,
		lead.Email,
		lead.Website,
		string(lead.Source),
		string(lead.OutreachStatus),
		outreachTime,
		lead.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Write encodes the leads in the requested format.
func Write(writer io.Writer, format Format, records []leads.Lead) error {
	switch format {
	case FormatCSV:
		return WriteCSV(writer, records)
	case FormatXLSX:
		return WriteXLSX(writer, records)
	default:
		return fmt.Errorf(unsupportedFormatError, string(format))
	}
}

// WriteCSV writes a header row followed by one row per lead.
func WriteCSV(writer io.Writer, records []leads.Lead) error {
	csvWriter := csv.NewWriter(writer)
	if writeError := csvWriter.Write(Columns()); writeError != nil {
		return writeError
	}
	for recordIndex := range records {
		if writeError := csvWriter.Write(Row(records[recordIndex])); writeError != nil {
			return writeError
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteXLSX writes a single "Leads" sheet. The id column is stored as a number.
func WriteXLSX(writer io.Writer, records []leads.Lead) error {
	workbook := excelize.NewFile()
	defer workbook.Close()

	if renameError := workbook.SetSheetName(defaultSheetName, leadsSheetName); renameError != nil {
		return fmt.Errorf(sheetErrorTemplate, renameError)
	}
	if rowError := setRow(workbook, headerRowIndex, toCells(Columns())); rowError != nil {
		return rowError
	}
	for recordIndex := range records {
		cells := toCells(Row(records[recordIndex]))
		cells[0] = records[recordIndex].ID
		if rowError := setRow(workbook, headerRowIndex+recordIndex+1, cells); rowError != nil {
			return rowError
		}
	}
	if _, writeError := workbook.WriteTo(writer); writeError != nil {
		return fmt.Errorf(sheetErrorTemplate, writeError)
	}
	return nil
}

func setRow(workbook *excelize.File, rowIndex int, cells []interface{}) error {
	cellName, cellError := excelize.CoordinatesToCellName(firstColumnIndex, rowIndex)
	if cellError != nil {
		return fmt.Errorf(sheetErrorTemplate, cellError)
	}
	if rowError := workbook.SetSheetRow(leadsSheetName, cellName, &cells); rowError != nil {
		return fmt.Errorf(sheetErrorTemplate, rowError)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for valueIndex, value := range values {
		cells[valueIndex] = value
	}
	return cells
}
