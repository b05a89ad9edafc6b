package cmd

import (
	"fmt"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"linkscout/internal/analysis"
	"linkscout/internal/db"
	"linkscout/internal/export"
	"linkscout/internal/graph"
	"linkscout/internal/session"
)

var (
	analyzeEmbeddings string
	analyzeLinks      string
	analyzeTopN       int
	analyzeWorkers    int
	analyzeJSON       bool
	analyzeCSV        string
	analyzeSQLite     string
	analyzeGraph      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank related pages and flag which pairs are already linked",
	Long: "Reads an embeddings CSV (headers URL, Embeddings) and an internal links CSV (headers Type, Source,\n" +
		"Destination), finds the top-N most similar pages for every page and marks each pair that already has\n" +
		"a Hyperlink from source to related page.",
	RunE: func(cmd *cobra.Command, args []string) error {
		embeddings, err := readInput(analyzeEmbeddings)
		if err != nil {
			return err
		}
		links, err := readInput(analyzeLinks)
		if err != nil {
			return err
		}

		opts := analysis.Options{
			TopN:     analyzeTopN,
			Workers:  analyzeWorkers,
			Topology: analyzeGraph,
		}
		s := session.New(log, opts)
		s.SetEmbeddings(embeddings)
		s.SetLinks(links)

		report, err := s.Start(cmd.Context())
		if err != nil {
			return err
		}
		runID := s.State().RunID

		if analyzeCSV != "" {
			if err := writeCSV(analyzeCSV, report.Results); err != nil {
				return err
			}
		}

		if analyzeSQLite != "" {
			d, err := db.OpenDB(analyzeSQLite)
			if err != nil {
				return err
			}
			defer d.Close()
			if err := d.SaveReport(cmd.Context(), runID, report); err != nil {
				return fmt.Errorf("exporting to %s: %w", analyzeSQLite, err)
			}
			log.Info("report exported", "path", analyzeSQLite, "run_id", runID)
		}

		if analyzeJSON {
			return export.WriteJSON(os.Stdout, report)
		}
		if analyzeCSV == "-" {
			return nil
		}

		printHumanReadable(report)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeEmbeddings, "embeddings", "e", "", "Embeddings CSV file (\"-\" for stdin)")
	analyzeCmd.Flags().StringVarP(&analyzeLinks, "links", "l", "", "Internal links CSV file")
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top-n", cfg.Analysis.TopN, "Related pages to keep per page (env LINKSCOUT_TOP_N)")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", cfg.Analysis.Workers, "Goroutines ranking pages in parallel (env LINKSCOUT_WORKERS)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output the full report as JSON")
	analyzeCmd.Flags().StringVar(&analyzeCSV, "csv", "", "Write results as CSV to this file (\"-\" for stdout, e.g. "+export.DefaultCSVName+")")
	analyzeCmd.Flags().StringVar(&analyzeSQLite, "sqlite", "", "Also export the report into this SQLite database")
	analyzeCmd.Flags().BoolVar(&analyzeGraph, "graph", false, "Describe the hyperlink graph between analysed pages")
	_ = analyzeCmd.MarkFlagRequired("embeddings")
	_ = analyzeCmd.MarkFlagRequired("links")
	rootCmd.AddCommand(analyzeCmd)
}

func writeCSV(path string, results []analysis.Result) error {
	if path == "-" {
		return export.WriteCSV(os.Stdout, results)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.WriteCSV(f, results); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	log.Info("results written", "path", path, "rows", len(results))
	return nil
}

func printHumanReadable(report *analysis.Report) {
	st := report.Stats
	ratio := 0.0
	if st.TotalPairs > 0 {
		ratio = float64(st.ActiveLinks) / float64(st.TotalPairs)
	}
	barLen := int(math.Round(ratio * 20))
	bar := strings.Repeat("█", barLen) + strings.Repeat("░", 20-barLen)
	fmt.Printf("\n  Linked: %s  [%s]\n", st.Percentage, bar)
	fmt.Printf("  %d of %d related pairs already have a hyperlink\n", st.ActiveLinks, st.TotalPairs)
	fmt.Printf("  pages=%d skipped=%d hyperlinks=%d top-n=%d\n\n",
		report.ValidEmbeddings, report.SkippedEmbeddings, report.LinkEdges, report.TopN)

	// Missing links, grouped by source page
	fmt.Println("  LINK OPPORTUNITIES")
	fmt.Println("  ────────────────────────────────────────")
	current := ""
	shown := 0
	for _, r := range report.Results {
		if r.IsActiveLink {
			continue
		}
		if r.SourceURL != current {
			if shown >= 20 {
				break
			}
			current = r.SourceURL
			shown++
			fmt.Printf("  %s\n", truncURL(r.SourceURL, 70))
		}
		fmt.Printf("    -> %s (%.3f)\n", truncURL(r.RelatedURL, 60), r.Similarity)
	}
	if shown == 0 {
		fmt.Println("  none: every related pair is already linked")
	}

	if report.Topology != nil {
		printTopology(report.Topology)
	}
	fmt.Println()
}

func printTopology(t *graph.TopologyReport) {
	fmt.Println("\n  LINK GRAPH")
	fmt.Println("  ────────────────────────────────────────")
	fmt.Printf("  Pages: %d  Hyperlinks: %d  Components: %d\n", t.TotalPages, t.TotalEdges, t.NumComponents)
	fmt.Printf("  Largest component: %d  Smallest: %d\n", t.LargestComponent, t.SmallestComponent)

	if t.OrphanCount > 0 {
		fmt.Printf("  Orphans: %d pages with no inbound link\n", t.OrphanCount)
		limit := 5
		if len(t.OrphanURLs) < limit {
			limit = len(t.OrphanURLs)
		}
		for _, u := range t.OrphanURLs[:limit] {
			fmt.Printf("    - %s\n", truncURL(u, 70))
		}
		if t.OrphanCount > limit {
			fmt.Printf("    ... and %d more\n", t.OrphanCount-limit)
		}
	}

	fmt.Println("\n  Inbound link distribution:")
	for _, b := range t.InDegreeHistogram {
		if b.Count > 0 {
			barWidth := int(math.Log2(float64(b.Count))) + 2
			fmt.Printf("    %5s: %4d  %s\n", b.Label, b.Count, strings.Repeat("=", barWidth))
		}
	}

	if len(t.Hubs) > 0 {
		fmt.Println("\n  Most linked-to pages:")
		for _, hub := range t.Hubs {
			fmt.Printf("    in=%d out=%d  %s\n", hub.InDegree, hub.OutDegree, truncURL(hub.URL, 60))
		}
	}
}

func truncURL(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Find a safe UTF-8 boundary
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
