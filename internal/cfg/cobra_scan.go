package cfg

import (
	"fmt"
	"os"
	"ytdl/internal/app"
	"ytdl/internal/scraper"
	logging "ytdl/internal/utils/logging"
	"ytdl/internal/utils/prompt"

	"github.com/spf13/cobra"
)

const queueFlag = "queue"

// initScanCmd collects media links from a web page and optionally downloads them.
func initScanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan <page-url>",
		Short: "List video and playlist links found on a web page.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			urls, err := scraper.New().ScanPage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(urls) == 0 {
				logging.I("No media links found on %s", args[0])
				return nil
			}

			queue, err := cmd.Flags().GetBool(queueFlag)
			if err != nil {
				return err
			}
			if !queue {
				for _, u := range urls {
					fmt.Fprintln(cmd.OutOrStdout(), u)
				}
				return nil
			}

			c := BuildConfig()
			env, err := openEnvironment(cmd.Context(), c, true)
			if err != nil {
				return err
			}
			defer env.Close()

			return app.NewSession(app.SessionOptions{
				Config:   c,
				Store:    env.store,
				Engine:   env.engine(),
				Prompter: prompt.New(os.Stdin, os.Stdout),
			}).RunBatch(cmd.Context(), urls)
		},
	}

	scanCmd.Flags().Bool(queueFlag, false, "Resolve and download the links instead of printing them")
	return scanCmd
}
