package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golperbox/internal/models"
)

type capturedRequest struct {
	method      string
	contentType string
	fields      map[string][]string
}

type formBackend struct {
	mu       sync.Mutex
	requests []capturedRequest
	status   int
}

func (b *formBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	b.requests = append(b.requests, capturedRequest{
		method:      r.Method,
		contentType: r.Header.Get("Content-Type"),
		fields:      r.MultipartForm.Value,
	})
	status := b.status
	b.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte("<html>form response page</html>"))
}

func (b *formBackend) captured() []capturedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]capturedRequest(nil), b.requests...)
}

func TestSubmitPostsBothEntryFields(t *testing.T) {
	backend := &formBackend{}
	server := httptest.NewServer(backend)
	defer server.Close()

	r := NewGoogleFormRelay(GoogleFormConfig{URL: server.URL})
	err := r.Submit(context.Background(), models.NewSubmission(models.Lead{Email: "a@b.com", Phone: "12345"}))
	require.NoError(t, err)

	requests := backend.captured()
	require.Len(t, requests, 1)
	req := requests[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Contains(t, req.contentType, "multipart/form-data")
	assert.Equal(t, []string{"a@b.com"}, req.fields[DefaultEmailField])
	assert.Equal(t, []string{"12345"}, req.fields[DefaultPhoneField])
	assert.Len(t, req.fields, 2)
}

func TestSubmitIgnoresResponseStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusNotFound} {
		backend := &formBackend{status: status}
		server := httptest.NewServer(backend)

		r := NewGoogleFormRelay(GoogleFormConfig{URL: server.URL})
		err := r.Submit(context.Background(), models.NewSubmission(models.Lead{Email: "a@b.com", Phone: "12345"}))
		assert.NoError(t, err, "status %d must not surface", status)

		server.Close()
	}
}

func TestSubmitCustomFieldNames(t *testing.T) {
	backend := &formBackend{}
	server := httptest.NewServer(backend)
	defer server.Close()

	r := NewGoogleFormRelay(GoogleFormConfig{URL: server.URL, EmailField: "entry.1", PhoneField: "entry.2"})
	require.NoError(t, r.Submit(context.Background(), models.NewSubmission(models.Lead{Email: "x@y", Phone: "9"})))

	fields := backend.captured()[0].fields
	assert.Equal(t, []string{"x@y"}, fields["entry.1"])
	assert.Equal(t, []string{"9"}, fields["entry.2"])
}

func TestSubmitTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	r := NewGoogleFormRelay(GoogleFormConfig{URL: url, Timeout: time.Second})
	err := r.Submit(context.Background(), models.NewSubmission(models.Lead{Email: "a@b.com", Phone: "12345"}))

	require.Error(t, err)
	assert.True(t, models.IsTransportError(err))
}

func TestSubmitCancelledContext(t *testing.T) {
	backend := &formBackend{}
	server := httptest.NewServer(backend)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewGoogleFormRelay(GoogleFormConfig{URL: server.URL})
	err := r.Submit(ctx, models.NewSubmission(models.Lead{Email: "a@b.com", Phone: "12345"}))

	assert.True(t, models.IsTransportError(err))
	assert.Empty(t, backend.captured())
}

func TestNewGoogleFormRelayDefaults(t *testing.T) {
	r := NewGoogleFormRelay(GoogleFormConfig{})
	assert.Equal(t, DefaultFormURL, r.config.URL)
	assert.Equal(t, DefaultEmailField, r.config.EmailField)
	assert.Equal(t, DefaultPhoneField, r.config.PhoneField)
	assert.Equal(t, DefaultTimeout, r.client.Timeout)
}
