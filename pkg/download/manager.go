// Package download implements the verified file fetcher: HTTP streaming into
// a private temporary file, optional digest verification and atomic
// installation at the destination path.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	pkgerrors "github.com/glacier-launcher/glacier/pkg/errors"
	"github.com/glacier-launcher/glacier/pkg/fsutil"
	"github.com/glacier-launcher/glacier/pkg/hashing"
)

const defaultUserAgent = "glacier/1.0"

// ManagerImpl is the HTTP-based fetcher. It is safe for concurrent use.
type ManagerImpl struct {
	client    *http.Client
	userAgent string
	rewriter  URLRewriter
}

var _ Fetcher = (*ManagerImpl)(nil)

// NewManager creates a fetcher with the given per-request timeout, user agent
// and mirror policy. rewriter may be nil, in which case URLs are used as-is.
func NewManager(timeout time.Duration, userAgent string, rewriter URLRewriter) *ManagerImpl {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &ManagerImpl{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		rewriter:  rewriter,
	}
}

// Fetch performs one fetch-or-skip operation:
//
//  1. apply the mirror policy to the source URL,
//  2. ensure the destination's parent directory exists,
//  3. skip when the destination already satisfies the request,
//  4. otherwise stream the body to a private temp file, verify it, and
//     atomically install it at the destination.
//
// The temporary file is removed on every exit path. On failure the original
// destination, if any, is left untouched.
func (m *ManagerImpl) Fetch(ctx context.Context, req Request) (Outcome, error) {
	if req.URL == nil {
		return Outcome{}, fmt.Errorf("nil URL for %q: %w", req.Name, pkgerrors.ErrInvalidPath)
	}
	if req.Dest == "" || !filepath.IsAbs(req.Dest) {
		return Outcome{}, fmt.Errorf("destination must be absolute: %q: %w", req.Dest, pkgerrors.ErrInvalidPath)
	}

	if err := fsutil.EnsureFileDir(req.Dest); err != nil {
		return Outcome{}, pkgerrors.Wrapf(pkgerrors.ErrDirectoryCreate, "%s: %v", filepath.Dir(req.Dest), err)
	}

	if skip := m.tryReuseExisting(req); skip {
		return Outcome{Path: req.Dest, Skipped: true}, nil
	}

	resp, err := m.doRequest(ctx, req)
	if err != nil {
		return Outcome{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	tmpPath, written, err := writeBodyToTemp(resp.Body, req.Dest)
	if tmpPath != "" {
		// Scoped cleanup: after a successful install the rename has already
		// consumed the temp file and this remove is a no-op.
		defer func() { _ = os.Remove(tmpPath) }()
	}
	if err != nil {
		return Outcome{}, classifyTransferError(ctx, err)
	}

	if req.Hash != nil {
		ok, err := hashing.VerifyFile(tmpPath, req.Hash.Algorithm, req.Hash.Hex)
		if err != nil {
			return Outcome{}, pkgerrors.Wrapf(err, "verifying %s", req.Name)
		}
		if !ok {
			return Outcome{}, fmt.Errorf("%s from %s: %w", req.Name, req.URL, pkgerrors.ErrHashMismatch)
		}
	}

	// Permissions are fixed up on the temp file so the install step is the
	// last operation; once the rename succeeds the fetch cannot fail anymore.
	if err := os.Chmod(tmpPath, fsutil.FileModeDefault); err != nil {
		return Outcome{}, pkgerrors.Wrap(err, "could not set permissions")
	}
	if err := fsutil.ReplaceFile(tmpPath, req.Dest); err != nil {
		return Outcome{}, pkgerrors.Wrapf(pkgerrors.ErrReplaceFailed, "%s: %v", req.Dest, err)
	}

	return Outcome{Path: req.Dest, BytesTransferred: written}, nil
}

// tryReuseExisting reports whether the destination already satisfies the
// request. Without a requested hash an existing file is trusted. With one,
// a mismatch or read error just means re-download; the existing file is not
// deleted here because the install step replaces it atomically.
func (m *ManagerImpl) tryReuseExisting(req Request) bool {
	st, err := os.Stat(req.Dest)
	if err != nil || !st.Mode().IsRegular() {
		return false
	}
	if req.Hash == nil {
		return true
	}
	ok, err := hashing.VerifyFile(req.Dest, req.Hash.Algorithm, req.Hash.Hex)
	return err == nil && ok
}

func (m *ManagerImpl) doRequest(ctx context.Context, req Request) (*http.Response, error) {
	u := req.URL
	if m.rewriter != nil {
		u = m.rewriter.Rewrite(u)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create request")
	}
	httpReq.Header.Set("User-Agent", m.userAgent)
	resp, err := m.client.Do(httpReq)
	if err != nil {
		return nil, classifyTransferError(ctx, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%d fetching %s: %w", resp.StatusCode, u, pkgerrors.ErrHTTPStatus)
	}
	return resp, nil
}

// writeBodyToTemp streams body into a fresh temp file next to dest so that
// the final rename stays on one filesystem. It returns the temp path even on
// error so the caller can guarantee cleanup.
func writeBodyToTemp(body io.Reader, dest string) (string, int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".glacier-*.tmp")
	if err != nil {
		return "", 0, pkgerrors.Wrap(err, "could not create temp file")
	}
	tmpPath := tmp.Name()

	written, err := io.Copy(tmp, body)
	if err != nil {
		_ = tmp.Close()
		return tmpPath, written, pkgerrors.Wrap(err, "could not write file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return tmpPath, written, pkgerrors.Wrap(err, "could not sync file")
	}
	if err := tmp.Close(); err != nil {
		return tmpPath, written, pkgerrors.Wrap(err, "could not close file")
	}
	return tmpPath, written, nil
}

// classifyTransferError maps transport failures onto the error taxonomy:
// deadline expiry is a retryable timeout, context cancellation is
// cancellation, anything else passes through.
func classifyTransferError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("%v: %w", err, pkgerrors.ErrCancelled)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%v: %w", err, pkgerrors.ErrTimeout)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%v: %w", err, pkgerrors.ErrTimeout)
	}
	return pkgerrors.Wrap(err, "download failed")
}

// FetchAll downloads requests through a bounded worker pool. The first
// failure stops new work from being scheduled and is returned; in-flight
// fetches finish (or abort via ctx) and still clean up their temp files.
func (m *ManagerImpl) FetchAll(ctx context.Context, reqs []Request, opts Options) error {
	if opts.Concurrency <= 0 {
		opts.Concurrency = max(2, runtime.NumCPU()/2)
	}

	var (
		mu       sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	tasks := make(chan Request)
	var wg sync.WaitGroup
	for w := 0; w < opts.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range tasks {
				if failed() || ctx.Err() != nil {
					continue
				}
				out, err := m.Fetch(ctx, req)
				if err != nil {
					setErr(pkgerrors.Wrapf(err, "fetching %s", req.Name))
					if opts.OnError != nil {
						opts.OnError(req, err)
					}
					continue
				}
				if opts.OnComplete != nil {
					opts.OnComplete(req, out)
				}
			}
		}()
	}

	for _, req := range reqs {
		tasks <- req
	}
	close(tasks)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	if err := ctx.Err(); err != nil {
		return classifyTransferError(ctx, err)
	}
	return nil
}
