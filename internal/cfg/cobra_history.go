package cfg

import (
	"errors"
	"fmt"
	"io"
	"time"
	"ytdl/internal/domain/consts"
	"ytdl/internal/domain/keys"
	"ytdl/internal/models"

	"github.com/spf13/cobra"
)

// initHistoryCmd lists recorded attempts from the history database.
func initHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history [item-id]",
		Short: "List recent download attempts.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := BuildConfig()
			if c.HistoryDB == "" {
				return errors.New("history is disabled (history-db is empty)")
			}
			limit, err := cmd.Flags().GetInt(keys.HistoryLimit)
			if err != nil {
				return err
			}

			env, err := openEnvironment(cmd.Context(), c, false)
			if err != nil {
				return err
			}
			defer env.Close()

			var attempts []*models.Attempt
			if len(args) == 1 {
				attempts, err = env.history.ListAttemptsByItem(cmd.Context(), args[0])
			} else {
				attempts, err = env.history.ListAttempts(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			printAttempts(cmd.OutOrStdout(), attempts)
			return nil
		},
	}

	historyCmd.Flags().IntP(keys.HistoryLimit, "n", consts.DefaultHistoryLimit, "Number of attempts to list")
	return historyCmd
}

func printAttempts(w io.Writer, attempts []*models.Attempt) {
	if len(attempts) == 0 {
		fmt.Fprintln(w, "No attempts recorded.")
		return
	}
	for _, a := range attempts {
		color := consts.ColorGreen
		if a.Outcome == models.OutcomeFailed {
			color = consts.ColorRed
		}
		fmt.Fprintf(w, "%s  %s%-7s%s  %s  %s\n",
			a.FinishedAt.Local().Format(time.DateTime),
			color, a.Outcome, consts.ColorReset,
			a.ItemID, a.Title)
		if a.Summary != "" {
			fmt.Fprintf(w, "    [%s] %s\n", a.ErrorKind, a.Summary)
		}
	}
}
