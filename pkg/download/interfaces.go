package download

import (
	"context"
	"net/url"
)

// Fetcher is the verified file fetcher consumed by the installation
// orchestrator. Implementations guarantee that a destination path never
// holds a truncated or mid-write file, on any exit path.
type Fetcher interface {
	// Fetch performs one fetch-or-skip operation for a single request.
	Fetch(ctx context.Context, req Request) (Outcome, error)

	// FetchAll executes requests through a bounded worker pool, aborting on
	// the first failure. Options.OnComplete observes per-item completions.
	FetchAll(ctx context.Context, reqs []Request, opts Options) error
}

// URLRewriter applies the mirror policy before a request goes on the wire.
// layout.Resolver implements it.
type URLRewriter interface {
	Rewrite(u *url.URL) *url.URL
}

// ExpectedHash is an optional integrity requirement for a request.
type ExpectedHash struct {
	Algorithm string // e.g. "sha1"
	Hex       string // lowercase hex digest
}

// Request describes one fetch-or-skip operation. Immutable per call.
type Request struct {
	// Name identifies the item in progress and log output.
	Name string
	// URL is the source; the fetcher applies the mirror policy to it.
	URL *url.URL
	// Dest is the absolute final destination path.
	Dest string
	// Hash, when non-nil, is verified both for skip decisions and for
	// downloaded bytes before they are installed. Without a hash an existing
	// destination is trusted as-is; that is a documented weaker guarantee
	// for un-hashed resources.
	Hash *ExpectedHash
}

// Outcome reports the result of a successful Fetch. Path always refers to a
// complete file.
type Outcome struct {
	Path             string
	Skipped          bool
	BytesTransferred int64
}

// Options control FetchAll execution.
type Options struct {
	// Concurrency bounds the worker pool; <=0 selects a sane default.
	Concurrency int
	// OnComplete, when set, is invoked after every successfully fetched or
	// skipped item. It may be called from multiple workers concurrently.
	OnComplete func(req Request, out Outcome)
	// OnError, when set, is invoked for every failed item so observers can
	// keep counting; the failure itself is still reported by FetchAll.
	OnError func(req Request, err error)
}
