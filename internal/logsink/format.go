package logsink

import (
	"fmt"
	"time"
)

// DateFolderFormat lays logs out by day in the container: YYYY/MM/DD.
const DateFolderFormat = "%d/%02d/%02d"

// FormatDateFolder returns the date folder for a given year, month, day.
func FormatDateFolder(year int, month int, day int) string {
	return fmt.Sprintf(DateFolderFormat, year, month, day)
}

// BlobPath is where an instance started at t appends its log lines.
func BlobPath(t time.Time, name string) string {
	t = t.UTC()
	return FormatDateFolder(t.Year(), int(t.Month()), t.Day()) + "/" + name + ".jsonl"
}
