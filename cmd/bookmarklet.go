// File: cmd/bookmarklet.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hfadhel/tawseel-cli/internal/script"
)

// newBookmarkletCmd creates and configures the `bookmarklet` command.
func newBookmarkletCmd() *cobra.Command {
	var (
		rf        recordFlags
		profileID string
		raw       bool
		watch     bool
		noOverlay bool
		output    string
	)

	bookmarkletCmd := &cobra.Command{
		Use:   "bookmarklet",
		Short: "Packages the fill script as a javascript: bookmark URI",
		Long: `Packages the fill engine with the record baked in and prints it as a
javascript: URI. Saved as a browser bookmark, clicking it on an open
order form fills the form without any browser session from this tool.

With --raw the unencoded script source is printed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := rf.load()
			if err != nil {
				return err
			}

			svc, err := newAutofillService()
			if err != nil {
				return err
			}
			defer svc.Close()

			opts := script.Options{ShowOverlay: !noOverlay, Watch: watch}

			var out string
			if raw {
				build, err := svc.BuildScript(profileID, record, opts)
				if err != nil {
					return err
				}
				out = build.Source
			} else {
				out, err = svc.Bookmarklet(profileID, record, opts)
				if err != nil {
					return err
				}
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(out+"\n"), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", output, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(out)+1, output)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	addRecordFlags(bookmarkletCmd, &rf)
	bookmarkletCmd.Flags().StringVarP(&profileID, "profile", "p", "", "company profile id")
	bookmarkletCmd.Flags().BoolVar(&raw, "raw", false, "print the script source instead of the javascript: URI")
	bookmarkletCmd.Flags().BoolVar(&watch, "watch", false, "embed the dynamic-field watcher")
	bookmarkletCmd.Flags().BoolVar(&noOverlay, "no-overlay", false, "suppress the in-page result overlay")
	bookmarkletCmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")

	return bookmarkletCmd
}
