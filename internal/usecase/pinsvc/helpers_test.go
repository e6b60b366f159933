package pinsvc

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yourname/pin_relay/pkg/pinataclient"
	"github.com/yourname/pin_relay/pkg/pinataproto"
)

type receivedPart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// fakePinata записывает полученные формы и отвечает через respond.
type fakePinata struct {
	mu       sync.Mutex
	requests [][]receivedPart
	unpinned []string
	headers  []http.Header
	respond  func(w http.ResponseWriter, parts []receivedPart)
}

func newFakePinata(t *testing.T) (*fakePinata, pinataclient.Client) {
	t.Helper()
	f := &fakePinata{
		respond: func(w http.ResponseWriter, parts []receivedPart) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"IpfsHash":%q,"PinSize":%d,"Timestamp":"2024-01-01T00:00:00Z"}`, contentCID(parts), len(parts))
		},
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	return f, pinataclient.New(srv.URL, pinataclient.Credentials{APIKey: "k", APISecret: "s"})
}

func (f *fakePinata) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.headers = append(f.headers, r.Header.Clone())
	f.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && r.URL.Path == pinataproto.PinFilePath:
		parts, err := readParts(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.requests = append(f.requests, parts)
		respond := f.respond
		f.mu.Unlock()
		respond(w, parts)
	case r.Method == http.MethodDelete:
		f.mu.Lock()
		f.unpinned = append(f.unpinned, r.URL.EscapedPath())
		f.mu.Unlock()
		_, _ = io.WriteString(w, "OK")
	case r.Method == http.MethodGet && r.URL.Path == pinataproto.TestAuthPath:
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakePinata) setRespond(fn func(w http.ResponseWriter, parts []receivedPart)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.respond = fn
}

func (f *fakePinata) received() [][]receivedPart {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]receivedPart(nil), f.requests...)
}

func (f *fakePinata) receivedHeaders() []http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]http.Header(nil), f.headers...)
}

func (f *fakePinata) unpinnedPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.unpinned...)
}

func readParts(r *http.Request) ([]receivedPart, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}

	var parts []receivedPart
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			return parts, nil
		}
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(p)
		if err != nil {
			return nil, err
		}
		_, params, _ := mime.ParseMediaType(p.Header.Get("Content-Disposition"))
		parts = append(parts, receivedPart{
			Field:       p.FormName(),
			Filename:    params["filename"],
			ContentType: p.Header.Get("Content-Type"),
			Data:        data,
		})
	}
}

// contentCID: детерминированный «CID» по содержимому файловых частей.
func contentCID(parts []receivedPart) string {
	h := sha256.New()
	for _, p := range parts {
		if p.Field != pinataproto.FieldFile {
			continue
		}
		h.Write([]byte(p.Filename))
		h.Write(p.Data)
	}
	return "bafy" + hex.EncodeToString(h.Sum(nil))[:16]
}

type upload struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func buildBody(t *testing.T, parts []upload) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, p := range parts {
		if p.filename == "" {
			require.NoError(t, mw.WriteField(p.field, string(p.data)))
			continue
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, p.field, p.filename))
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	return buf.Bytes(), mw.Boundary()
}

func buildForm(t *testing.T, parts []upload) *multipart.Reader {
	t.Helper()
	body, boundary := buildBody(t, parts)
	return multipart.NewReader(bytes.NewReader(body), boundary)
}

func newService(cli pinataclient.Client, opts Options) *Pins {
	if opts.Fields == nil {
		opts.Fields = []string{"file", "files"}
	}
	return New(Deps{Client: cli, Options: opts})
}
