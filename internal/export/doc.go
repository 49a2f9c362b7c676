// Package export writes every persisted lead as CSV or an XLSX workbook, using the column
// order of the leads table.
package export
