package planner

import (
	"strings"
	"time"
)

// ExportColumns is the CSV header of an item export, in column order.
var ExportColumns = []string{"title", "platform", "status", "notes", "tags", "yt_link", "created_at", "updated_at"}

// ExportMimeType is the content type of an item export.
const ExportMimeType = "text/csv"

// EncodeCSV renders items as CSV. Every field is double-quoted with embedded
// quotes doubled, missing values are empty, and rows are separated by a
// single '\n' without a trailing newline.
func EncodeCSV(items []*ContentItem) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(ExportColumns, ","))
	for _, item := range items {
		b.WriteByte('\n')
		for i, col := range ExportColumns {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(exportValue(item, col), `"`, `""`))
			b.WriteByte('"')
		}
	}
	return []byte(b.String())
}

func exportValue(item *ContentItem, column string) string {
	switch column {
	case "title":
		return item.Title
	case "platform":
		return string(item.Platform)
	case "status":
		return string(item.Status)
	case "notes":
		return StringValue(item.Notes)
	case "tags":
		return StringValue(item.Tags)
	case "yt_link":
		return StringValue(item.YTLink)
	case "created_at":
		return formatTimestamp(item.CreatedAt)
	case "updated_at":
		return formatTimestamp(item.UpdatedAt)
	default:
		return ""
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ExportFileName returns the download file name for an export taken at t.
func ExportFileName(t time.Time) string {
	return "content-export-" + t.UTC().Format("2006-01-02") + ".csv"
}
