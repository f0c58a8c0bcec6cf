package awsauth

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/mutker/pgscout/internal/errors"
	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// RequestSigner signs one outbound HTTP request.
type RequestSigner interface {
	Sign(ctx context.Context, req *http.Request, payloadHash string) error
}

// sigV4Signer signs requests for one region/service pair. Credentials are
// retrieved per request so provider-side rotation is picked up without
// re-running selection.
type sigV4Signer struct {
	signer   *v4.Signer
	provider aws.CredentialsProvider
	region   string
	service  string
}

func newSigV4Signer(provider aws.CredentialsProvider, region, service string) RequestSigner {
	return &sigV4Signer{
		signer:   v4.NewSigner(),
		provider: provider,
		region:   region,
		service:  service,
	}
}

func (s *sigV4Signer) Sign(ctx context.Context, req *http.Request, payloadHash string) error {
	errFactory := errors.New()

	creds, err := s.provider.Retrieve(ctx)
	if err != nil {
		return errFactory.Wrap(errors.ErrCredentialRetrieval, err)
	}

	if err := s.signer.SignHTTP(ctx, creds, req, payloadHash, s.service, s.region, time.Now().UTC()); err != nil {
		return errFactory.Wrap(errors.ErrRequestSigning, err)
	}

	return nil
}
