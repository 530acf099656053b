// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish writes the digest artifacts: a latest pointer that is
// always overwritten, an immutable-by-date archive file, and an index of
// all published dates.
package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdiddy/curation-engine/pkg/types"
)

const (
	defaultLatestPath = "output/latest.json"
	archiveIndexFile  = "archive.json"
)

// Publisher writes digest artifacts under the directory holding LatestPath.
type Publisher struct {
	latestPath string
}

// NewPublisher builds a publisher from the output configuration.
func NewPublisher(cfg types.OutputConfig) *Publisher {
	path := cfg.LatestPath
	if path == "" {
		path = defaultLatestPath
	}
	return &Publisher{latestPath: path}
}

// Publish writes the latest pointer, a dated artifact with identical
// content, and the updated archive index. Publishing the same date twice
// overwrites the dated artifact and leaves exactly one index entry for
// that date.
func (p *Publisher) Publish(digest types.Digest) error {
	dir := filepath.Dir(p.latestPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	payload, err := marshalIndented(digest)
	if err != nil {
		return fmt.Errorf("encoding digest: %w", err)
	}

	if err := os.WriteFile(p.latestPath, payload, 0o644); err != nil {
		return fmt.Errorf("writing latest digest: %w", err)
	}

	datedFile := digest.Date + ".json"
	if err := os.WriteFile(filepath.Join(dir, datedFile), payload, 0o644); err != nil {
		return fmt.Errorf("writing dated digest: %w", err)
	}

	if err := p.updateIndex(dir, digest.Date, datedFile, len(digest.Stories)); err != nil {
		return fmt.Errorf("updating archive index: %w", err)
	}
	return nil
}

func (p *Publisher) updateIndex(dir, date, file string, storyCount int) error {
	indexPath := filepath.Join(dir, archiveIndexFile)

	var index types.ArchiveIndex
	data, err := os.ReadFile(indexPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &index); err != nil {
			return fmt.Errorf("parsing existing index: %w", err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("reading existing index: %w", err)
	}

	entries := index.Digests[:0]
	for _, e := range index.Digests {
		if e.Date != date {
			entries = append(entries, e)
		}
	}
	entries = append(entries, types.ArchiveEntry{Date: date, File: file, StoryCount: storyCount})
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })
	index.Digests = entries

	payload, err := marshalIndented(index)
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := os.WriteFile(indexPath, payload, 0o644); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}

func marshalIndented(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
