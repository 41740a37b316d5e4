// Package sync reconciles configured topic sources into the catalog.
package sync

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/afreitas/revisio/internal/catalog"
	"github.com/afreitas/revisio/internal/gitsource"
	"github.com/afreitas/revisio/internal/storage"
)

// SourceType classifies a path the user adds as a source.
// Git URLs sync through a local checkout under the repos directory;
// everything else is treated as a local directory.
func SourceType(path string) string {
	if strings.HasSuffix(path, ".git") || strings.HasPrefix(path, "git@") ||
		strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://") {
		return "git"
	}
	return "local"
}

// RunAll iterates over all sources and reconciles each into the topic
// catalog. Per-source failures are logged and skipped so one broken source
// cannot block the rest.
func RunAll(ctx context.Context, db *storage.DB, reposDir string) error {
	slog.Info("starting topic sync for all sources")
	sources, err := db.GetAllSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to get sources: %w", err)
	}

	if len(sources) == 0 {
		slog.Info("no topic sources configured")
		return nil
	}

	if err := os.MkdirAll(reposDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create repos directory: %w", err)
	}

	for _, source := range sources {
		slog.Info("syncing source", "id", source.ID, "type", source.Type, "path", source.Path)

		scanPath := source.Path
		if source.Type == "git" {
			localRepoPath, err := gitURLToLocalPath(reposDir, source.Path)
			if err != nil {
				slog.Error("cannot determine local path for git source", "url", source.Path, "error", err)
				continue
			}
			if err := gitsource.Sync(ctx, source.Path, localRepoPath); err != nil {
				slog.Error("failed to sync git source", "url", source.Path, "error", err)
				continue
			}
			scanPath = localRepoPath
		}

		if err := reconcileSource(ctx, db, source.ID, scanPath); err != nil {
			slog.Error("failed to reconcile source", "id", source.ID, "error", err)
		}
	}
	slog.Info("topic sync complete")
	return nil
}

// reconcileSource walks the source directory, upserts every topic found in
// its plan files, and deletes catalog topics the files no longer mention.
func reconcileSource(ctx context.Context, db *storage.DB, sourceID int64, root string) error {
	foundTopics := make(map[string]bool)
	var parseErrors []error

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		topics, parseErr := catalog.ParseFile(path)
		if parseErr != nil {
			parseErrors = append(parseErrors, fmt.Errorf("parsing %s: %w", path, parseErr))
			return nil
		}
		for _, t := range topics {
			t.SourceID = sourceID
			foundTopics[t.Name] = true
			if upsertErr := db.UpsertTopic(ctx, t); upsertErr != nil {
				parseErrors = append(parseErrors, fmt.Errorf("db upsert for %s: %w", t.Name, upsertErr))
			}
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("failed to walk %s: %w", root, walkErr)
	}

	existing, err := db.ListTopicsBySource(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("failed to list topics for source %d: %w", sourceID, err)
	}

	var orphaned int
	for _, t := range existing {
		if foundTopics[t.Name] {
			continue
		}
		orphaned++
		if err := db.DeleteTopic(ctx, sourceID, t.Name); err != nil {
			slog.Warn("failed to delete orphaned topic", "topic", t.Name, "error", err)
		}
	}

	if err := db.UpdateSourceLastScanned(ctx, sourceID); err != nil {
		slog.Warn("failed to update last scanned", "source_id", sourceID, "error", err)
	}

	slog.Info("reconciliation complete",
		"path", root,
		"topics", len(foundTopics),
		"orphaned_deleted", orphaned,
		"errors", len(parseErrors),
	)
	return nil
}

func gitURLToLocalPath(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
		// scp-like syntax: git@host:user/repo.git
		if strings.Contains(repoURL, "@") {
			parts := strings.Split(repoURL, ":")
			if len(parts) == 2 {
				hostAndUser := strings.Split(parts[0], "@")
				if len(hostAndUser) == 2 {
					host := hostAndUser[1]
					repoPath := strings.TrimSuffix(parts[1], ".git")
					return filepath.Join(baseDir, host, repoPath), nil
				}
			}
		}
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}

	sanitizedPath := strings.TrimSuffix(parsedURL.Path, ".git")
	return filepath.Join(baseDir, parsedURL.Host, sanitizedPath), nil
}
