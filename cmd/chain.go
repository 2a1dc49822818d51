// File: cmd/chain.go
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hfadhel/tawseel-cli/internal/browser"
	"github.com/hfadhel/tawseel-cli/internal/chain"
	"github.com/hfadhel/tawseel-cli/internal/observability"
)

// newChainCmd creates and configures the `chain` command.
func newChainCmd() *cobra.Command {
	chainCmd := &cobra.Command{
		Use:   "chain <url> <program.json>",
		Short: "Replays a scripted action chain against a live page",
		Long: `Opens the URL in a managed browser window and replays the steps of a
JSON program file against it: waits, typing, option selection, clicks.
Steps run strictly in file order and the first failure aborts the rest.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetURL, programPath := args[0], args[1]
			logger := observability.GetLogger()

			program, err := chain.LoadProgram(programPath)
			if err != nil {
				return err
			}

			sess, err := browser.NewSession(context.Background(), appCfg.Browser, logger)
			if err != nil {
				return fmt.Errorf("starting browser: %w", err)
			}
			defer sess.Close()

			ctx := cmd.Context()
			page, closePage := sess.NewPage()
			defer closePage()

			if err := browser.Navigate(ctx, page, targetURL, appCfg.Browser.NavigationTimeout); err != nil {
				return err
			}

			controller := chain.NewController(
				browser.NewPageDriver(page, logger),
				logger,
				chain.WithKeyDelay(appCfg.Chain.KeyDelay),
			)
			controller.SetDebugMode(appCfg.Chain.Debug)
			if err := program.Apply(controller, appCfg.Chain.ElementTimeout); err != nil {
				return err
			}

			logger.Info("Executing action chain",
				zap.String("target", targetURL),
				zap.Int("steps", len(program)))
			if err := controller.Execute(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "chain completed: %d steps\n", len(program))
			return nil
		},
	}
	return chainCmd
}
