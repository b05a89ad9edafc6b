// Package export renders analysis reports for downstream consumers.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"linkscout/internal/analysis"
)

// DefaultCSVName is the conventional file name for a CSV export.
const DefaultCSVName = "related_pages_with_links.csv"

// CSVHeader is the header row consumers expect.
var CSVHeader = []string{"URL", "Related URL", "Active Link"}

// WriteCSV writes one row per result under CSVHeader. Booleans are rendered
// as true/false; fields are quoted when they need to be.
func WriteCSV(w io.Writer, results []analysis.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write([]string{r.SourceURL, r.RelatedURL, strconv.FormatBool(r.IsActiveLink)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the whole report as indented JSON.
func WriteJSON(w io.Writer, report *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
