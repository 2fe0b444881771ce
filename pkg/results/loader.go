package results

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"benchviz.io/pkg/extract"
)

// Load scans dir for benchmark result files and returns one record per
// document that yields at least one metric. Scan order is lexicographic by
// filename, which fixes the last-write-wins rule for duplicate (test, server)
// pairs downstream. An existing but empty directory returns an empty
// ResultSet with no error.
func Load(dir string) (ResultSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("reading results directory: %w", err)
	}

	type document struct {
		path   string
		server string
		test   string
	}
	var documents []document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, FileSuffix) || name == SummaryFile {
			continue
		}
		stem := strings.TrimSuffix(name, FileSuffix)
		parts := strings.Split(stem, NameSep)
		if len(parts) < 2 {
			log.Debug().Msgf("Skipping %s: filename does not name a server and a test", name)
			continue
		}
		documents = append(documents, document{
			path:   filepath.Join(dir, name),
			server: parts[0],
			test:   strings.Join(parts[1:], NameSep),
		})
	}

	// Documents are independent, so extraction fans out. Each goroutine
	// writes to its own slot, keeping scan order intact.
	records := make([]*Record, len(documents))
	errGroup := errgroup.Group{}
	for i, doc := range documents {
		i, doc := i, doc
		errGroup.Go(func() error {
			text, err := os.ReadFile(doc.path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", doc.path, err)
			}
			metrics := extract.Extract(string(text))
			if len(metrics) == 0 {
				log.Debug().Msgf("Dropping %s: no recognized metrics", doc.path)
				return nil
			}
			records[i] = &Record{Server: doc.server, Test: doc.test, Metrics: metrics}
			return nil
		})
	}
	if err := errGroup.Wait(); err != nil {
		return nil, err
	}

	resultSet := make(ResultSet, 0, len(records))
	for _, r := range records {
		if r != nil {
			resultSet = append(resultSet, *r)
		}
	}
	return resultSet, nil
}
