package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"linkscout/internal/analysis"
)

var (
	relatedEmbeddings string
	relatedLinks      string
	relatedTopN       int
	relatedJSON       bool
)

var relatedCmd = &cobra.Command{
	Use:   "related <url>",
	Short: "Show the most similar pages for one URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		embeddings, err := readInput(relatedEmbeddings)
		if err != nil {
			return err
		}
		var links []byte
		if relatedLinks != "" {
			if links, err = readInput(relatedLinks); err != nil {
				return err
			}
		}

		opts := analysis.DefaultOptions()
		opts.TopN = relatedTopN
		report, err := analysis.Run(cmd.Context(), bytes.NewReader(embeddings), bytes.NewReader(links), opts)
		if err != nil {
			return err
		}

		if report.ValidEmbeddings < 2 {
			return fmt.Errorf("only one valid embedding in %s, nothing to compare against", relatedEmbeddings)
		}
		matches := RelatedFor(report.Results, args[0])
		if len(matches) == 0 {
			return fmt.Errorf("no valid embedding for %s", args[0])
		}

		if relatedJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(matches)
		}

		fmt.Printf("\n  %s\n", args[0])
		for _, m := range matches {
			linked := " "
			if m.IsActiveLink {
				linked = "✓"
			}
			fmt.Printf("  %d. [%s] %.4f  %s\n", m.Rank+1, linked, m.Similarity, m.RelatedURL)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	relatedCmd.Flags().StringVarP(&relatedEmbeddings, "embeddings", "e", "", "Embeddings CSV file (\"-\" for stdin)")
	relatedCmd.Flags().StringVarP(&relatedLinks, "links", "l", "", "Internal links CSV file (optional)")
	relatedCmd.Flags().IntVar(&relatedTopN, "top-n", cfg.Analysis.TopN, "Related pages to show")
	relatedCmd.Flags().BoolVar(&relatedJSON, "json", false, "Output as JSON")
	_ = relatedCmd.MarkFlagRequired("embeddings")
	rootCmd.AddCommand(relatedCmd)
}

// RelatedFor returns the results whose source is url, in rank order.
func RelatedFor(results []analysis.Result, url string) []analysis.Result {
	var out []analysis.Result
	for _, r := range results {
		if r.SourceURL == url {
			out = append(out, r)
		}
	}
	return out
}
