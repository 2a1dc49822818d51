// File: cmd/fill.go
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hfadhel/tawseel-cli/internal/autofill"
	"github.com/hfadhel/tawseel-cli/internal/browser"
	"github.com/hfadhel/tawseel-cli/internal/observability"
	"github.com/hfadhel/tawseel-cli/internal/profile"
	"github.com/hfadhel/tawseel-cli/internal/script"
)

// newFillCmd creates and configures the `fill` command.
func newFillCmd() *cobra.Command {
	var (
		rf          recordFlags
		profileID   string
		recordsFile string
		concurrency int
		watch       bool
		noOverlay   bool
	)

	fillCmd := &cobra.Command{
		Use:   "fill [url]",
		Short: "Opens the order form in a browser and fills it from the record",
		Long: `Opens the target order form in a managed browser window, injects the
fill engine and waits for its completion report. The target URL may be
omitted when --profile names a company whose profile carries a form URL.

With --records, every record in the JSON array gets its own window;
--concurrency bounds how many run at once.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			targetURL := ""
			if len(args) == 1 {
				targetURL = args[0]
			}
			if targetURL == "" && profileID == "" {
				return fmt.Errorf("pass a target URL or --profile")
			}

			svc, err := newAutofillService()
			if err != nil {
				return err
			}
			defer svc.Close()

			opts := script.Options{ShowOverlay: !noOverlay, Watch: watch}

			if recordsFile != "" {
				records, err := loadRecordList(recordsFile)
				if err != nil {
					return err
				}
				jobs := make([]autofill.Job, len(records))
				for i, record := range records {
					jobs[i] = autofill.Job{
						TargetURL: targetURL,
						ProfileID: profileID,
						Record:    record,
						Options:   opts,
					}
				}
				results, err := svc.DeployAll(ctx, jobs, concurrency)
				for _, res := range results {
					if res != nil {
						printDeployResult(cmd, res)
					}
				}
				return err
			}

			record, err := rf.load()
			if err != nil {
				return err
			}
			logger.Info("Deploying fill script",
				zap.String("target", targetURL),
				zap.String("profile", profileID))

			res, err := svc.Deploy(ctx, autofill.Job{
				TargetURL: targetURL,
				ProfileID: profileID,
				Record:    record,
				Options:   opts,
			})
			if err != nil {
				return err
			}
			printDeployResult(cmd, res)

			if watch {
				// The injected watcher keeps refilling inside the page;
				// hold the browser open until the user interrupts.
				logger.Info("Watching for new fields; press Ctrl-C to stop.")
				<-ctx.Done()
			}
			return nil
		},
	}

	addRecordFlags(fillCmd, &rf)
	fillCmd.Flags().StringVarP(&profileID, "profile", "p", "", "company profile id")
	fillCmd.Flags().StringVar(&recordsFile, "records", "", "JSON file with an array of records for batch filling")
	fillCmd.Flags().IntVar(&concurrency, "concurrency", 2, "how many windows fill at once in batch mode")
	fillCmd.Flags().BoolVar(&watch, "watch", false, "keep watching the page and re-fill fields added later")
	fillCmd.Flags().BoolVar(&noOverlay, "no-overlay", false, "suppress the in-page result overlay")

	return fillCmd
}

func printDeployResult(cmd *cobra.Command, res *browser.DeployResult) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: filled %d of %d fields (%s)\n",
		res.WindowName, res.FilledCount, res.FoundCount, strings.Join(res.Fields, ", "))
}

// newAutofillService wires the resolved config into a service. The profile
// store is optional: a missing profiles file only matters once a command
// actually asks for a profile.
func newAutofillService() (*autofill.Service, error) {
	logger := observability.GetLogger()

	var store *profile.Store
	if path := appCfg.Profiles.Path; path != "" {
		switch _, err := os.Stat(path); {
		case err == nil:
			loaded, err := profile.Load(path, logger)
			if err != nil {
				return nil, err
			}
			store = loaded
		case os.IsNotExist(err):
			logger.Debug("No profiles file found, continuing without profiles.", zap.String("path", path))
		default:
			return nil, fmt.Errorf("checking profiles file: %w", err)
		}
	}

	return autofill.NewService(appCfg, store, logger), nil
}
