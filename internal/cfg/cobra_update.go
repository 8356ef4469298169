package cfg

import (
	"github.com/spf13/cobra"
)

// initUpdateCmd updates ytdl and pins yt-dlp to the version the release was tested with.
func initUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update ytdl and yt-dlp to the latest release.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment(cmd.Context(), BuildConfig(), false)
			if err != nil {
				return err
			}
			defer env.Close()

			return env.updater().Update(cmd.Context())
		},
	}
}
