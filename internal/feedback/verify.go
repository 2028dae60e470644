package feedback

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrymomot/mailout/pkg/cache"
)

const (
	certCacheTTL = time.Hour
	maxCertSize  = 64 << 10

	serviceNameToken = "SimpleNotificationService"
)

// snsHostPattern matches the provider's regional notification-service
// hostnames, e.g. sns.us-east-1.amazonaws.com.
var snsHostPattern = regexp.MustCompile(`^sns\.[a-z0-9-]+\.amazonaws\.com$`)

// trustedServiceURL reports whether the URL points at the notification
// service over secure transport.
func trustedServiceURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "https" && snsHostPattern.MatchString(u.Hostname())
}

// trustedCertURL additionally requires the certificate file shape: a .pem
// path carrying the service name token.
func trustedCertURL(raw string) bool {
	if !trustedServiceURL(raw) {
		return false
	}
	u, _ := url.Parse(raw)
	return strings.HasSuffix(u.Path, ".pem") && strings.Contains(u.Path, serviceNameToken)
}

// buildStringToSign assembles the canonical signed payload for the envelope
// type. Field order and the trailing newlines are part of the protocol.
func buildStringToSign(env *Envelope) ([]byte, error) {
	var fields []string

	switch env.Type {
	case TypeNotification:
		fields = append(fields, "Message", env.Message, "MessageId", env.MessageID)
		if env.Subject != "" {
			fields = append(fields, "Subject", env.Subject)
		}
		fields = append(fields,
			"Timestamp", env.Timestamp,
			"TopicArn", env.TopicArn,
			"Type", env.Type,
		)
	case TypeSubscriptionConfirmation, TypeUnsubscribeConfirmation:
		fields = append(fields,
			"Message", env.Message,
			"MessageId", env.MessageID,
			"SubscribeURL", env.SubscribeURL,
			"Timestamp", env.Timestamp,
			"Token", env.Token,
			"TopicArn", env.TopicArn,
			"Type", env.Type,
		)
	default:
		return nil, ErrUnsupportedType
	}

	var sb strings.Builder
	for i := 0; i < len(fields); i += 2 {
		sb.WriteString(fields[i])
		sb.WriteByte('\n')
		sb.WriteString(fields[i+1])
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}

// Verifier checks envelope signatures, caching parsed signing certificates
// per URL.
type Verifier struct {
	httpClient *http.Client
	certs      *cache.Memory[*x509.Certificate]
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithHTTPClient overrides the transport used for certificate fetches and
// subscription confirmation.
func WithHTTPClient(hc *http.Client) VerifierOption {
	return func(v *Verifier) {
		if hc != nil {
			v.httpClient = hc
		}
	}
}

// NewVerifier creates a Verifier.
func NewVerifier(opts ...VerifierOption) *Verifier {
	v := &Verifier{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		certs:      cache.New[*x509.Certificate](cache.WithDefaultTTL(certCacheTTL)),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify validates the envelope signature. The signing certificate URL is
// checked against the trusted origin before any fetch.
func (v *Verifier) Verify(ctx context.Context, env *Envelope) error {
	if env == nil || env.SigningCertURL == "" || env.Signature == "" {
		return ErrInvalidSignature
	}
	if !trustedCertURL(env.SigningCertURL) {
		return ErrUntrustedURL
	}

	payload, err := buildStringToSign(env)
	if err != nil {
		return err
	}

	signature, err := base64.StdEncoding.DecodeString(env.Signature)
	if err != nil {
		return errors.Join(ErrInvalidSignature, err)
	}

	cert, err := v.signingCert(ctx, env.SigningCertURL)
	if err != nil {
		return err
	}

	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: certificate key is not RSA", ErrInvalidSignature)
	}

	// Signature version 1 signs with SHA-1, version 2 with SHA-256. Verified
	// via rsa directly since x509.CheckSignature refuses SHA-1 outright.
	if env.SignatureVersion == "2" {
		digest := sha256.Sum256(payload)
		err = rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], signature)
	} else {
		digest := sha1.Sum(payload)
		err = rsa.VerifyPKCS1v15(pub, crypto.SHA1, digest[:], signature)
	}
	if err != nil {
		return errors.Join(ErrInvalidSignature, err)
	}
	return nil
}

// ConfirmSubscription follows the envelope's confirmation URL after the
// trusted-origin check.
func (v *Verifier) ConfirmSubscription(ctx context.Context, env *Envelope) error {
	if env == nil || env.SubscribeURL == "" {
		return ErrConfirmFailed
	}
	if !trustedServiceURL(env.SubscribeURL) {
		return ErrUntrustedURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, env.SubscribeURL, nil)
	if err != nil {
		return errors.Join(ErrConfirmFailed, err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrConfirmFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxCertSize))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrConfirmFailed, resp.StatusCode)
	}
	return nil
}

func (v *Verifier) signingCert(ctx context.Context, certURL string) (*x509.Certificate, error) {
	return v.certs.GetOrSet(ctx, certURL, func(ctx context.Context) (*x509.Certificate, time.Duration, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, certURL, nil)
		if err != nil {
			return nil, 0, errors.Join(ErrCertFetchFailed, err)
		}

		resp, err := v.httpClient.Do(req)
		if err != nil {
			return nil, 0, errors.Join(ErrCertFetchFailed, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, 0, fmt.Errorf("%w: status %d", ErrCertFetchFailed, resp.StatusCode)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxCertSize))
		if err != nil {
			return nil, 0, errors.Join(ErrCertFetchFailed, err)
		}

		block, _ := pem.Decode(data)
		if block == nil {
			return nil, 0, fmt.Errorf("%w: no PEM block", ErrCertFetchFailed)
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, 0, errors.Join(ErrCertFetchFailed, err)
		}

		return cert, certCacheTTL, nil
	})
}
