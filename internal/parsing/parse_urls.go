package parsing

import (
	"bufio"
	"net/url"
	"os"
	"strings"
	"sync"
	logging "ytdl/internal/utils/logging"
)

// URLFileParser reads batch URL lists.
type URLFileParser struct {
	Filepath string
	mu       sync.RWMutex
}

// NewURLFileParser returns an instance of a URLFileParser.
//
// This is used to parse URLs from a file.
func NewURLFileParser(fpath string) *URLFileParser {
	return &URLFileParser{
		Filepath: fpath,
	}
}

// ParseURLs returns the URLs listed in the file, in file order and de-duplicated.
//
// Each line may hold a URL or pasted text containing links. Lines starting
// with '#' are comments.
func (up *URLFileParser) ParseURLs() ([]string, error) {
	up.mu.RLock()
	defer up.mu.RUnlock()

	f, err := os.Open(up.Filepath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.E("Failed to close file %q: %v", up.Filepath, err)
		}
	}()

	seen := make(map[string]struct{})
	var result []string
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		for _, u := range ParseInputLine(line) {
			parsedURL, err := url.Parse(u)
			if err != nil {
				logging.E("URL %q is invalid: %v", u, err)
				continue
			}
			key := parsedURL.String()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			result = append(result, key)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
