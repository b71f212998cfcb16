package ipfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	shell "github.com/ipfs/go-ipfs-api"

	"github.com/superpiccell/spen-minter/service/logger"
	"github.com/superpiccell/spen-minter/util"
)

// PublicGateway is tried last when every configured node fails
const PublicGateway = "https://ipfs.io"

// Reader fetches the content at an IPFS path
type Reader interface {
	Do(ctx context.Context, path string) (io.ReadCloser, error)
}

// HTTPReader is a reader that uses a HTTP gateway to read from
type HTTPReader struct {
	Host   string
	Client *http.Client
}

func (r HTTPReader) Do(ctx context.Context, path string) (io.ReadCloser, error) {
	path = pathURL(r.Host, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, util.ErrHTTP{Status: resp.StatusCode, URL: path}
	}
	return resp.Body, nil
}

// IPFSReader is a reader that uses an IPFS shell to read from IPFS
type IPFSReader struct {
	Client *shell.Shell
}

func (r IPFSReader) Do(ctx context.Context, path string) (io.ReadCloser, error) {
	return r.Client.Cat(path)
}

// Fallback tries each reader in order and returns the first successful response
type Fallback []Reader

func (f Fallback) Do(ctx context.Context, path string) (io.ReadCloser, error) {
	var errs []error
	for _, r := range f {
		body, err := r.Do(ctx, path)
		if err == nil {
			return body, nil
		}
		logger.For(ctx).Debugf("ipfs read of %s via %T failed: %s", path, r, err)
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("no ipfs readers configured for %s", path)
	}
	return nil, errors.Join(errs...)
}

// NewShell returns an IPFS shell talking to the node API at apiURL
func NewShell(apiURL string) *shell.Shell {
	sh := shell.NewShellWithClient(apiURL, defaultHTTPClient())
	sh.SetTimeout(15 * time.Second)
	return sh
}

// NewReader returns a reader that prefers the node at apiURL, if any, and falls back to the public gateway
func NewReader(apiURL string) Reader {
	httpClient := defaultHTTPClient()
	var readers Fallback
	if apiURL != "" {
		readers = append(readers, IPFSReader{Client: NewShell(apiURL)})
	}
	return append(readers, HTTPReader{Host: PublicGateway, Client: httpClient})
}

// PathFrom strips the scheme and any leading /ipfs/ segment from an IPFS URI
func PathFrom(uri string) string {
	path := strings.TrimPrefix(strings.TrimSpace(uri), "ipfs://")
	return strings.TrimPrefix(path, "ipfs/")
}

// defaultHTTPClient returns an http.Client configured with default settings intended for IPFS calls.
func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// pathURL returns the gateway URL in path resolution style
func pathURL(host, path string) string {
	return fmt.Sprintf("%s/ipfs/%s", strings.TrimSuffix(host, "/"), path)
}
