package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/contextcruncher/crunch/internal/artifact"
	"github.com/contextcruncher/crunch/internal/export"
	"github.com/contextcruncher/crunch/internal/extractor"
)

// Process runs the full pipeline for one audio file: extract context
// data, write the Markdown/JSON pair, optionally export a docx copy,
// then archive the consumed recording.
func (p *implProcessor) Process(ctx context.Context, audioPath string) error {
	startTime := time.Now()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting audio processing: %s", audioPath)
	p.logger.Info(ctx, "========================================")

	res, err := p.extractor.Extract(ctx, extractor.Request{
		AudioPath: audioPath,
		APIKey:    p.apiKey,
		UserName:  p.cfg.Extraction.UserName,
	})
	if err != nil {
		return fmt.Errorf("extract context data: %w", err)
	}

	// Earlier captures with the same slug keep their files; this pair
	// gets a suffixed stem instead, inside and out.
	stem, err := p.uniqueStem(res.FilenameSlug)
	if err != nil {
		return fmt.Errorf("resolve output stem: %w", err)
	}
	if stem != res.FilenameSlug {
		p.logger.Info(ctx, "Output name taken, using: %s", stem)
		res.FilenameSlug = stem
	}

	md, js := artifact.MakeBoth(res, time.Now())

	mdPath := filepath.Join(p.cfg.Paths.Output, md.Filename)
	if err := p.writeArtifact(ctx, mdPath, md.Content); err != nil {
		return fmt.Errorf("write markdown artifact: %w", err)
	}

	jsPath := filepath.Join(p.cfg.Paths.Output, js.Filename)
	if err := p.writeArtifact(ctx, jsPath, js.Content); err != nil {
		return fmt.Errorf("write json artifact: %w", err)
	}

	if p.cfg.Export.Docx {
		docxPath := filepath.Join(p.cfg.Paths.Output, stem+".docx")
		if err := export.WriteDocx(res.HumanReadableName, res.ContextMarkdown, docxPath); err != nil {
			p.logger.Warn(ctx, "Failed to export docx: %v", err)
		} else {
			p.logger.Info(ctx, "Exported docx: %s", docxPath)
		}
	}

	if err := p.moveToArchived(ctx, audioPath); err != nil {
		p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
	}

	duration := time.Since(startTime)
	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	p.logger.Info(ctx, "Context: %s", res.HumanReadableName)
	p.logger.Info(ctx, "Output markdown: %s", mdPath)
	p.logger.Info(ctx, "Output json: %s", jsPath)
	p.logger.Info(ctx, "Processing time: %s", duration)
	p.logger.Info(ctx, "========================================")

	return nil
}
