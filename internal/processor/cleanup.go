package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// writeArtifact persists one output file, creating the output folder
// on first use.
func (p *implProcessor) writeArtifact(ctx context.Context, path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	p.logger.Debug(ctx, "Wrote artifact: %s", path)
	return nil
}

// uniqueStem suffixes the slug until neither file of the pair exists,
// so a new capture never overwrites an earlier one and both files
// always share a stem.
func (p *implProcessor) uniqueStem(slug string) (string, error) {
	stem := slug
	for i := 2; ; i++ {
		mdExists, err := fileExists(filepath.Join(p.cfg.Paths.Output, stem+".md"))
		if err != nil {
			return "", err
		}
		jsonExists, err := fileExists(filepath.Join(p.cfg.Paths.Output, stem+".json"))
		if err != nil {
			return "", err
		}
		if !mdExists && !jsonExists {
			return stem, nil
		}
		stem = fmt.Sprintf("%s_%d", slug, i)
	}
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// moveToArchived moves the consumed audio out of the input folder so
// it is not picked up again.
func (p *implProcessor) moveToArchived(ctx context.Context, audioPath string) error {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}

	destPath := filepath.Join(p.cfg.Paths.Archived, filepath.Base(audioPath))
	p.logger.Info(ctx, "Archiving audio: %s -> %s", audioPath, destPath)

	if err := os.Rename(audioPath, destPath); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}
	return nil
}
