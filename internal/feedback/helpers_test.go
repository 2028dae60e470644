package feedback_test

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailout/internal/feedback"
)

const testCertURL = "https://sns.us-east-1.amazonaws.com/SimpleNotificationService-test.pem"

// signingAuthority is a throwaway key pair with a self-signed certificate,
// standing in for the notification service's signing identity.
type signingAuthority struct {
	key     *rsa.PrivateKey
	certPEM []byte
}

func newSigningAuthority(t *testing.T) *signingAuthority {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "sns.amazonaws.com"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	return &signingAuthority{
		key:     key,
		certPEM: pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
	}
}

// sign fills in Signature for the envelope using the canonical field order.
func (a *signingAuthority) sign(t *testing.T, env *feedback.Envelope) {
	t.Helper()

	var fields []string
	switch env.Type {
	case feedback.TypeNotification:
		fields = append(fields, "Message", env.Message, "MessageId", env.MessageID)
		if env.Subject != "" {
			fields = append(fields, "Subject", env.Subject)
		}
		fields = append(fields, "Timestamp", env.Timestamp, "TopicArn", env.TopicArn, "Type", env.Type)
	default:
		fields = append(fields,
			"Message", env.Message,
			"MessageId", env.MessageID,
			"SubscribeURL", env.SubscribeURL,
			"Timestamp", env.Timestamp,
			"Token", env.Token,
			"TopicArn", env.TopicArn,
			"Type", env.Type,
		)
	}

	var sb strings.Builder
	for i := 0; i < len(fields); i += 2 {
		sb.WriteString(fields[i])
		sb.WriteByte('\n')
		sb.WriteString(fields[i+1])
		sb.WriteByte('\n')
	}
	payload := []byte(sb.String())

	var (
		sig []byte
		err error
	)
	if env.SignatureVersion == "2" {
		digest := sha256.Sum256(payload)
		sig, err = rsa.SignPKCS1v15(rand.Reader, a.key, crypto.SHA256, digest[:])
	} else {
		digest := sha1.Sum(payload)
		sig, err = rsa.SignPKCS1v15(rand.Reader, a.key, crypto.SHA1, digest[:])
	}
	require.NoError(t, err)

	env.Signature = base64.StdEncoding.EncodeToString(sig)
}

// fakeTransport serves canned responses by URL and records every request, so
// tests can assert that untrusted URLs are never fetched.
type fakeTransport struct {
	mu        sync.Mutex
	responses map[string][]byte
	requested []string
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{responses: make(map[string][]byte)}
}

func (f *fakeTransport) serve(url string, body []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[url] = body
}

func (f *fakeTransport) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requested...)
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	f.requested = append(f.requested, req.URL.String())
	body, ok := f.responses[req.URL.String()]
	f.mu.Unlock()

	status := http.StatusOK
	if !ok {
		status = http.StatusNotFound
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func newClient(transport *fakeTransport) *http.Client {
	return &http.Client{Transport: transport}
}

func newVerifier(authority *signingAuthority, transport *fakeTransport) *feedback.Verifier {
	transport.serve(testCertURL, authority.certPEM)
	return feedback.NewVerifier(feedback.WithHTTPClient(&http.Client{Transport: transport}))
}

func notificationEnvelope(t *testing.T, authority *signingAuthority, message string) *feedback.Envelope {
	t.Helper()

	env := &feedback.Envelope{
		Type:             feedback.TypeNotification,
		MessageID:        "msg-1",
		TopicArn:         "arn:aws:sns:us-east-1:123456789012:mailout-events",
		Message:          message,
		Timestamp:        "2026-03-01T10:00:00.000Z",
		SignatureVersion: "1",
		SigningCertURL:   testCertURL,
	}
	authority.sign(t, env)
	return env
}
