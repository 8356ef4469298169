package cfg

import (
	"ytdl/internal/domain/consts"
	"ytdl/internal/domain/keys"
	"ytdl/internal/domain/paths"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// initProgramFlags sets the persistent flags shared by every command.
func initProgramFlags(rootCmd *cobra.Command) error {
	pf := rootCmd.PersistentFlags()

	// Config file
	pf.String(keys.ConfigFile, "", "Load settings from a config file (any format Viper reads: yaml, toml, json...)")

	// Directories
	pf.String(keys.StoreDir, paths.DefaultStoreDir, "Directory holding pending metadata snapshots")
	pf.StringP(keys.OutputDir, "o", ".", "Directory downloaded videos are written to")
	pf.String(keys.HistoryDB, paths.DBFilePath, "Attempt history database (empty disables history)")

	// External fetcher
	pf.String(keys.YTDLPPath, consts.DefaultYTDLPPath, "Path to the yt-dlp executable")
	pf.String(keys.YTDLPArgs, "", "Extra arguments appended to every yt-dlp call (space separated)")
	pf.Int(keys.ConcurrentFragments, consts.DefaultConcurrentFragments, "Fragments yt-dlp downloads concurrently")
	pf.Bool(keys.SkipExisting, false, "Skip items whose output file already exists")

	// Cookies
	pf.String(keys.CookieFile, "", "Netscape cookie file passed to yt-dlp")
	pf.String(keys.CookieBrowser, "", "Export cookies from this browser (chrome, firefox, all...) for yt-dlp")

	// Concurrency
	pf.IntP(keys.Concurrency, "l", consts.DefaultConcurrency, "Maximum concurrent metadata lookups")

	// Notification
	pf.String(keys.NotifyURL, "", "Webhook URL notified when an item fails")

	// Self update
	pf.String(keys.ReleaseURL, consts.DefaultReleaseURL, "Release manifest used by the update command")

	// Logging
	pf.IntP(keys.DebugLevel, "d", 0, "Debug level (0-5)")

	// Root only
	rootCmd.Flags().StringP(keys.URLsFile, "u", "", "File of URLs to process non-interactively (one per line, # comments)")

	if err := bindFlags(pf); err != nil {
		return err
	}
	return bindFlags(rootCmd.Flags())
}

// bindFlags binds every flag in fs to the Viper key of the same name.
func bindFlags(fs *pflag.FlagSet) (err error) {
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		err = viper.BindPFlag(f.Name, f)
	})
	return err
}
