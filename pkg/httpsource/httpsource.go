// Package httpsource adapts an HTTP(S) response body into a
// bytesource.Source, implementing the "download and save" capability
// (spec.md §4.5 / §9): the record's name is extracted from the
// Content-Disposition header when present, falling back to the last
// path segment of the request URI; the GET itself is retried on
// transient failure.
//
// Content-Disposition handling resolves spec.md §9's open question: only
// the quoted `filename="NAME"` form is accepted. Unquoted values and
// RFC 5987 `filename*=` forms are not guessed at — an ambiguous header
// fails with InvalidArgument rather than silently picking a name.
package httpsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/iamNilotpal/cargo/pkg/errors"
)

// HTTPSource implements bytesource.Source over an HTTP response body.
type HTTPSource struct {
	body   io.ReadCloser
	name   string
	length int64
	known  bool
}

// New issues a GET request against uri, retrying transient failures, and
// returns an HTTPSource wrapping the response body. It fails with
// InvalidArgument on a non-200 status or an unresolvable filename, and
// with IoFailure if every retry attempt fails.
func New(ctx context.Context, client *http.Client, uri string) (*HTTPSource, error) {
	if client == nil {
		client = http.DefaultClient
	}

	var resp *http.Response
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			r, err := client.Do(req)
			if err != nil {
				return err
			}
			resp = r
			return nil
		},
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to download source").
			WithDetail("uri", uri)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.NewMalformedURIError(uri, fmt.Sprintf("non-200 status: %d", resp.StatusCode))
	}

	name, err := resolveName(resp.Header.Get("Content-Disposition"), uri)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}

	source := &HTTPSource{body: resp.Body, name: name}
	if resp.ContentLength >= 0 {
		source.length = resp.ContentLength
		source.known = true
	}

	return source, nil
}

// resolveName extracts a filename from a Content-Disposition header
// value of the form `...; filename="NAME"`, falling back to the URI's
// last path segment when the header is absent entirely. Any other
// malformed or ambiguous form of the header fails rather than guessing.
func resolveName(contentDisposition, uri string) (string, error) {
	if contentDisposition == "" {
		base := path.Base(uri)
		if base == "" || base == "." || base == "/" {
			return "", errors.NewMalformedURIError(uri, "no Content-Disposition and no usable path segment")
		}
		return base, nil
	}

	const marker = "filename="
	idx := strings.Index(contentDisposition, marker)
	if idx < 0 {
		return "", errors.NewMalformedURIError(uri, "Content-Disposition present but has no filename= field")
	}

	value := contentDisposition[idx+len(marker):]
	if semi := strings.IndexByte(value, ';'); semi >= 0 {
		value = value[:semi]
	}
	value = strings.TrimSpace(value)

	if len(value) < 2 || value[0] != '"' || value[len(value)-1] != '"' {
		return "", errors.NewMalformedURIError(
			uri, "filename= value is not in the quoted filename=\"NAME\" form",
		)
	}

	name := value[1 : len(value)-1]
	if name == "" {
		return "", errors.NewMalformedURIError(uri, "quoted filename value is empty")
	}

	return name, nil
}

// NameHint returns the resolved record name.
func (hs *HTTPSource) NameHint() string {
	return hs.name
}

// LengthHint returns the response's Content-Length when the server sent
// one, or (0, false) for a chunked/unknown-length response.
func (hs *HTTPSource) LengthHint() (int64, bool) {
	return hs.length, hs.known
}

// Read streams the HTTP response body.
func (hs *HTTPSource) Read(buf []byte) (int, error) {
	return hs.body.Read(buf)
}

// Close releases the underlying response body.
func (hs *HTTPSource) Close() error {
	return hs.body.Close()
}
