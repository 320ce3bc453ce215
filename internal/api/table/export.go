package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// ExportLimit caps a single CSV export.
const ExportLimit = 50000

// WriteCSV streams header and rows as an attachment named file.
func WriteCSV(c *gin.Context, file string, header []string, rows [][]string) error {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file))
	// Excel needs the BOM to read UTF-8
	if _, err := c.Writer.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	return Encode(c.Writer, header, rows)
}

func Encode(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func FileName(entity string, now time.Time) string {
	return fmt.Sprintf("%s-%s.csv", entity, now.UTC().Format("20060102-150405"))
}

func FmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

func FmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func FmtFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func FmtInt(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func FmtBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func FmtStrPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// JoinNames renders an artist list for a single CSV cell.
func JoinNames(names []string) string {
	return strings.Join(names, ", ")
}
