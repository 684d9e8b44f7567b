package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	body := []byte(`{"event":"bill.created"}`)
	sig := Sign("secret", body)

	assert.Len(t, sig, 64)
	assert.True(t, VerifySignature("secret", body, sig))
	assert.False(t, VerifySignature("wrong-secret", body, sig))
	assert.False(t, VerifySignature("secret", []byte(`tampered`), sig))
}

func TestDeliverSuccess(t *testing.T) {
	var gotBody []byte
	var gotSig, gotEvent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSig = r.Header.Get(SignatureHeader)
		gotEvent = r.Header.Get(EventHeader)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := NewDispatcher(5*time.Second, 3)
	err := d.Deliver(context.Background(), server.URL, "secret", "bill.created", map[string]string{"bill_no": "BILL-000001"})
	require.NoError(t, err)

	assert.Equal(t, "bill.created", gotEvent)
	assert.True(t, VerifySignature("secret", gotBody, gotSig))

	var env Envelope
	require.NoError(t, json.Unmarshal(gotBody, &env))
	assert.Equal(t, "bill.created", env.Event)
	assert.False(t, env.Timestamp.IsZero())
}

func TestDeliverRetriesServerErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := NewDispatcher(5*time.Second, 3)
	err := d.Deliver(context.Background(), server.URL, "secret", "bill.updated", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&attempts))
}

func TestDeliverClientErrorIsPermanent(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusGone)
	}))
	defer server.Close()

	d := NewDispatcher(5*time.Second, 3)
	err := d.Deliver(context.Background(), server.URL, "secret", "bill.cancelled", nil)
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&attempts))
}

func TestDeliverRespectsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDispatcher(5*time.Second, 3)
	err := d.Deliver(ctx, server.URL, "secret", "bill.created", nil)
	require.Error(t, err)
}
