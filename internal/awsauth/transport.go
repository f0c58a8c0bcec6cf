package awsauth

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
)

// SHA-256 of an empty body, per the SigV4 spec.
const emptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// signingTransport signs each request before delegating to the base
// round tripper.
type signingTransport struct {
	base   http.RoundTripper
	signer RequestSigner
}

// Transport wraps base with SigV4 signing when the decision enables auth;
// otherwise base is returned unchanged. A nil base means
// http.DefaultTransport.
func Transport(decision Decision, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	if !decision.AuthEnabled {
		return base
	}

	return &signingTransport{base: base, signer: decision.Signer}
}

func (t *signingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Round trippers must not mutate the caller's request
	req = req.Clone(req.Context())

	payloadHash := emptyPayloadHash

	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}

		sum := sha256.Sum256(body)
		payloadHash = hex.EncodeToString(sum[:])

		req.Body = io.NopCloser(bytes.NewReader(body))
		req.ContentLength = int64(len(body))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}

	if err := t.signer.Sign(req.Context(), req, payloadHash); err != nil {
		return nil, err
	}

	return t.base.RoundTrip(req)
}
