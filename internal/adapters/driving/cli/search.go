package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gistgrep/internal/core/domain"
)

var (
	searchCaseSensitive bool
	searchLiteral       bool
	searchConcurrency   int
	searchTimeout       time.Duration
	searchJSON          bool
)

var searchCmd = &cobra.Command{
	Use:   "search [username] [pattern]",
	Short: "Search a user's public gists for a pattern",
	Long: `Searches every public gist of a GitHub user for a pattern.
The pattern is a regular expression unless --literal is given.`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchCaseSensitive, "case-sensitive", false, "match case sensitively")
	searchCmd.Flags().BoolVar(&searchLiteral, "literal", false, "treat the pattern as a plain substring")
	searchCmd.Flags().IntVar(&searchConcurrency, "concurrency", 0, "max concurrent file fetches (0 = config default)")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 5*time.Minute, "overall search deadline")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	username, pattern := args[0], args[1]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), searchTimeout)
	defer cancel()

	results, err := searchService.Search(ctx, username, pattern, domain.SearchOptions{
		CaseSensitive: searchCaseSensitive,
		Literal:       searchLiteral,
		Concurrency:   searchConcurrency,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No matches found.")
		return nil
	}

	for _, result := range results {
		cmd.Printf("%s\n", result.HTMLURL)
		for _, name := range result.MatchedFiles {
			cmd.Printf("  match: %s\n", name)
		}
		for _, fe := range result.FetchErrors {
			cmd.Printf("  error: %s (%s)\n", fe.FileName, fe.Kind)
		}
	}
	return nil
}
