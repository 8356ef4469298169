// Package cfg provides configuration and command-line interface setup for ytdl.
package cfg

import (
	"context"
	"fmt"
	"os"
	"strings"
	"ytdl/internal/app"
	"ytdl/internal/domain/consts"
	"ytdl/internal/domain/keys"
	"ytdl/internal/parsing"
	logging "ytdl/internal/utils/logging"
	"ytdl/internal/utils/print"
	"ytdl/internal/utils/prompt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   consts.ProgramName + " [URL...]",
	Short: "ytdl resolves video links into a resumable queue and downloads them with yt-dlp.",
	Long: "Without arguments ytdl starts an interactive session: it offers to resume pending items,\n" +
		"then reads URLs (or any text containing them) at the prompt. Type \"exit\" to quit or\n" +
		"\"update\" to update ytdl and yt-dlp. With URL arguments or --urls-file it runs once and exits.",
	Version:       consts.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup flags from config file
		if f := viper.GetString(keys.ConfigFile); f != "" {
			if err := loadConfigFile(f); err != nil {
				return fmt.Errorf("failed loading config file: %w", err)
			}
		}
		if err := validateSettings(); err != nil {
			return err
		}
		logging.Level = viper.GetInt(keys.DebugLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		urls, err := batchURLs(args)
		if err != nil {
			return err
		}
		batch := len(args) > 0 || viper.GetString(keys.URLsFile) != ""

		c := BuildConfig()
		if logging.Level >= 2 {
			print.CreateModelPrintout(c, "resolved configuration")
		}

		env, err := openEnvironment(cmd.Context(), c, true)
		if err != nil {
			return err
		}
		defer env.Close()

		sess := app.NewSession(app.SessionOptions{
			Config:   c,
			Store:    env.store,
			Engine:   env.engine(),
			Updater:  env.updater(),
			Prompter: prompt.New(os.Stdin, os.Stdout),
		})

		if batch {
			return sess.RunBatch(cmd.Context(), urls)
		}
		return sess.Run(cmd.Context())
	},
}

// InitCommands initializes all commands and their flags.
func InitCommands() error {
	viper.SetEnvPrefix(consts.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_")) // "store-dir" reads YTDL_STORE_DIR
	viper.AutomaticEnv()

	if err := initProgramFlags(rootCmd); err != nil {
		return err
	}

	serveCmd, err := initServeCmd()
	if err != nil {
		return err
	}

	rootCmd.AddCommand(initHistoryCmd())
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initScanCmd())
	rootCmd.AddCommand(initUpdateCmd())
	return nil
}

// Execute runs the command line with ctx as every command's context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// batchURLs collects URLs from arguments and the configured URL file, de-duplicated in order.
func batchURLs(args []string) ([]string, error) {
	var urls []string
	for _, a := range args {
		urls = append(urls, parsing.ParseInputLine(a)...)
	}

	if f := viper.GetString(keys.URLsFile); f != "" {
		fromFile, err := parsing.NewURLFileParser(f).ParseURLs()
		if err != nil {
			return nil, err
		}
		urls = append(urls, fromFile...)
	}

	seen := make(map[string]struct{}, len(urls))
	out := urls[:0]
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out, nil
}
