package cfg

import (
	"ytdl/internal/domain/keys"
	"ytdl/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initServeCmd runs the read-only status server.
func initServeCmd() (*cobra.Command, error) {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pending items and attempt history over HTTP.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := BuildConfig()

			// Reading does not take the store lock, so a running session can be watched
			env, err := openEnvironment(cmd.Context(), c, false)
			if err != nil {
				return err
			}
			defer env.Close()

			return server.StartServer(cmd.Context(), c.ServeAddr, env.store, env.history)
		},
	}

	serveCmd.Flags().String(keys.ServeAddr, server.DefaultAddr, "Address the status server listens on")
	if err := viper.BindPFlag(keys.ServeAddr, serveCmd.Flags().Lookup(keys.ServeAddr)); err != nil {
		return nil, err
	}
	return serveCmd, nil
}
