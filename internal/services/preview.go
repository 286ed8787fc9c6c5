package services

import (
	"context"
	"fmt"
)

// Previewer describes a link destination for the confirmation view.
type Previewer struct {
	fetcher   *Fetcher
	extractor *Extractor
}

func NewPreviewer(fetcher *Fetcher, extractor *Extractor) *Previewer {
	return &Previewer{fetcher: fetcher, extractor: extractor}
}

func (p *Previewer) Preview(ctx context.Context, url string) (Preview, error) {
	html, err := p.fetcher.FetchPage(ctx, url)
	if err != nil {
		return Preview{}, fmt.Errorf("preview %s: %w", url, err)
	}
	return p.extractor.ExtractPreview(html)
}
