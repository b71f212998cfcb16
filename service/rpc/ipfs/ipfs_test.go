package ipfs

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	body  string
	err   error
	calls int
}

func (f *fakeReader) Do(ctx context.Context, path string) (io.ReadCloser, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

func TestFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the first successful reader", func(t *testing.T) {
		failing := &fakeReader{err: errors.New("node down")}
		working := &fakeReader{body: "hello"}
		unused := &fakeReader{body: "unused"}

		body, err := Fallback{failing, working, unused}.Do(ctx, "QmHash")
		require.NoError(t, err)
		defer body.Close()

		bs, _ := io.ReadAll(body)
		assert.Equal(t, "hello", string(bs))
		assert.Equal(t, 1, failing.calls)
		assert.Equal(t, 0, unused.calls)
	})

	t.Run("joins every error when all readers fail", func(t *testing.T) {
		_, err := Fallback{&fakeReader{err: errors.New("a")}, &fakeReader{err: errors.New("b")}}.Do(ctx, "QmHash")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "a")
		assert.Contains(t, err.Error(), "b")
	})

	t.Run("no readers", func(t *testing.T) {
		_, err := Fallback{}.Do(ctx, "QmHash")
		assert.Error(t, err)
	})
}

func TestHTTPReader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ipfs/QmHash" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("content"))
	}))
	defer srv.Close()

	r := HTTPReader{Host: srv.URL + "/", Client: srv.Client()}

	body, err := r.Do(context.Background(), "QmHash")
	require.NoError(t, err)
	bs, _ := io.ReadAll(body)
	body.Close()
	assert.Equal(t, "content", string(bs))

	_, err = r.Do(context.Background(), "QmMissing")
	assert.Error(t, err)
}

func TestPathFrom(t *testing.T) {
	assert.Equal(t, "QmHash/1.json", PathFrom("ipfs://QmHash/1.json"))
	assert.Equal(t, "QmHash/1.json", PathFrom("ipfs://ipfs/QmHash/1.json"))
	assert.Equal(t, "QmHash", PathFrom("QmHash"))
}
