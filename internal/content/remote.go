// internal/content/remote.go
package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ben3683914/maskhot-sub000/internal/common/errors"
	httpclient "github.com/ben3683914/maskhot-sub000/internal/common/http"
	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
)

// packFiles are the file names FetchPack mirrors from a remote base URL.
var packFiles = []string{"traits.json", "candidates.json", "posts.json", "quests.yaml"}

// FetchPack downloads a remote content pack into dir so the file loader
// can pick it up; live-ops pushes content this way. quests.yaml is
// optional remotely like it is locally.
func FetchPack(ctx context.Context, client *httpclient.Client, baseURL, dir string, log logger.Logger) error {
	log = log.WithFields(map[string]interface{}{"component": "content-remote"})

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewContentLoadFailedError(dir, err)
	}

	base := strings.TrimRight(baseURL, "/")
	for _, name := range packFiles {
		url := fmt.Sprintf("%s/%s", base, name)
		data, err := client.GetBytes(ctx, url)
		if err != nil {
			if name == "quests.yaml" {
				log.Debug("remote pack has no quest line", map[string]interface{}{"url": url})
				continue
			}
			return errors.NewContentLoadFailedError(url, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return errors.NewContentLoadFailedError(name, err)
		}
		log.Info("pack file fetched", map[string]interface{}{
			"url":   url,
			"bytes": len(data),
		})
	}
	return nil
}
