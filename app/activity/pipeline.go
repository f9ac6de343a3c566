package activity

import (
	"context"
	"time"
)

// Fetcher is the capability the pipeline needs from the HTTP collaborator:
// fetch the raw activity stream for a username, optionally limited to a
// time window. Transport, TLS and timeout concerns live behind it.
type Fetcher interface {
	Fetch(ctx context.Context, username string, start, end *time.Time) ([]byte, error)
}

// Pipeline is the synchronous fetch -> parse -> aggregate sequence.
// Each Run owns its input bytes and output mapping; there is no shared
// state between invocations.
type Pipeline struct {
	fetcher Fetcher
	parser  *Parser
}

func NewPipeline(fetcher Fetcher, parser *Parser) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		parser:  parser,
	}
}

// Run fetches and aggregates one user's activity stream, returning
// per-date summaries. Errors from the fetch or parse step pass through
// unchanged; no partial result is produced.
func (p *Pipeline) Run(ctx context.Context, username string, start, end *time.Time) (map[string]Summary, error) {
	data, err := p.fetcher.Fetch(ctx, username, start, end)
	if err != nil {
		return nil, err
	}

	byDate, err := p.parser.Run(data)
	if err != nil {
		return nil, err
	}

	return Summarize(byDate), nil
}
