// File: cmd/inspect.go
package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hfadhel/tawseel-cli/internal/classify"
	"github.com/hfadhel/tawseel-cli/internal/dom"
)

// newInspectCmd creates and configures the `inspect` command.
func newInspectCmd() *cobra.Command {
	var (
		origin  string
		fillRun bool
		rf      recordFlags
	)

	inspectCmd := &cobra.Command{
		Use:   "inspect <url-or-file>",
		Short: "Shows how the heuristic engine reads an order form",
		Long: `Parses the page, discovers every fillable field and prints the category
the keyword heuristics assign to each one, with the keywords that drove
the decision. Useful for checking a courier's form before writing a
profile for it.

With --fill and a record, the in-process engine also runs and the
resulting summary is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, pageOrigin, err := openPage(args[0])
			if err != nil {
				return err
			}
			defer source.Close()
			if origin != "" {
				pageOrigin = origin
			}

			doc, err := dom.Parse(source, pageOrigin)
			if err != nil {
				return fmt.Errorf("parsing page: %w", err)
			}

			out := cmd.OutOrStdout()
			fields := dom.Discover(doc)
			for _, f := range fields {
				category := classify.ClassifyField(f)
				fmt.Fprintf(out, "%-12s %-8s %s\n", category, f.Kind, f.XPath())
				if hits := matchedKeywords(f); hits != "" {
					fmt.Fprintf(out, "             matched: %s\n", hits)
				}
			}
			fmt.Fprintf(out, "%d fillable fields\n", len(fields))

			if !fillRun {
				return nil
			}
			record, err := rf.load()
			if err != nil {
				return err
			}
			svc, err := newAutofillService()
			if err != nil {
				return err
			}
			defer svc.Close()

			// Re-open: the first read consumed the stream.
			rerun, _, err := openPage(args[0])
			if err != nil {
				return err
			}
			defer rerun.Close()
			summary, err := svc.FillDocument(rerun, pageOrigin, record, "")
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "dry run filled %d of %d fields\n", summary.FilledCount, summary.FoundCount)
			return nil
		},
	}

	inspectCmd.Flags().StringVar(&origin, "origin", "", "origin to evaluate frame access against (defaults to the page URL)")
	inspectCmd.Flags().BoolVar(&fillRun, "fill", false, "also dry-run the in-process fill engine")
	addRecordFlags(inspectCmd, &rf)

	return inspectCmd
}

// openPage reads the target from an HTTP URL or the local filesystem and
// reports the origin the document should be scoped to.
func openPage(target string) (io.ReadCloser, string, error) {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		resp, err := http.Get(target)
		if err != nil {
			return nil, "", fmt.Errorf("fetching %s: %w", target, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, "", fmt.Errorf("fetching %s: unexpected status %s", target, resp.Status)
		}
		pageOrigin, err := dom.OriginOf(target)
		if err != nil {
			resp.Body.Close()
			return nil, "", err
		}
		return resp.Body, pageOrigin, nil
	}

	f, err := os.Open(target)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", target, err)
	}
	return f, "", nil
}

// matchedKeywords formats the keywords that hit in a field's signal corpus.
func matchedKeywords(f *dom.Field) string {
	hits := classify.Matched(dom.Signals(f))
	if len(hits) == 0 {
		return ""
	}
	categories := make([]string, 0, len(hits))
	for category := range hits {
		categories = append(categories, string(category))
	}
	sort.Strings(categories)

	parts := make([]string, 0, len(categories))
	for _, category := range categories {
		parts = append(parts, fmt.Sprintf("%s(%s)", category, strings.Join(hits[classify.Category(category)], " ")))
	}
	return strings.Join(parts, " ")
}
