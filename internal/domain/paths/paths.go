// Package paths initializes ytdl's filepaths, directories, etc.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"ytdl/internal/domain/consts"
)

const (
	yDir          = ".ytdl"
	yDBFile       = "history.db"
	yLogFile      = "ytdl.log"
	yCookieDir    = "cookies"
	yStoreDirName = "temp"
)

// File and directory path strings.
var (
	HomeYtdlDir     string
	DBFilePath      string
	LogFilePath     string
	CookieDir       string
	DefaultStoreDir string
)

// InitProgFilesDirs initializes necessary program directories and filepaths.
func InitProgFilesDirs() error {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		return errors.New("failed to get home directory")
	}

	// Home ytdl dir ~/.ytdl
	HomeYtdlDir = filepath.Join(userHomeDir, yDir)
	if _, err := os.Stat(HomeYtdlDir); os.IsNotExist(err) {
		if err := os.MkdirAll(HomeYtdlDir, consts.PermsHomeProgDir); err != nil {
			return fmt.Errorf("failed to make directories: %w", err)
		}
	}

	// Main files
	DBFilePath = filepath.Join(HomeYtdlDir, yDBFile)
	LogFilePath = filepath.Join(HomeYtdlDir, yLogFile)
	CookieDir = filepath.Join(HomeYtdlDir, yCookieDir)

	// The store lives in the working directory, like the download destination.
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	DefaultStoreDir = filepath.Join(wd, yStoreDirName)
	return nil
}
