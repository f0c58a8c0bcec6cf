// Package awsauth decides whether outbound requests to a managed
// Prometheus endpoint are signed, and builds the SigV4 signing material
// when they are. Credential problems degrade to unsigned requests rather
// than failing collection.
package awsauth

import (
	"context"

	"codeberg.org/mutker/pgscout/internal/errors"
	"codeberg.org/mutker/pgscout/internal/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
)

const (
	// DefaultRegion applies when no region is configured.
	DefaultRegion = "us-east-1"

	// ServiceName is the SigV4 service identifier for Amazon Managed
	// Service for Prometheus.
	ServiceName = "aps"
)

// Decision reasons surfaced to operators.
const (
	ReasonFeatureDisabled = "feature disabled"
	ReasonNoCredentials   = "no credentials available"
	ReasonSigningEnabled  = "sigv4 signing enabled"
)

type Config struct {
	Enabled bool
	Region  string

	// Strict turns credential retrieval failures into errors instead of
	// degrading to unsigned requests.
	Strict bool
}

func (c Config) region() string {
	if c.Region == "" {
		return DefaultRegion
	}

	return c.Region
}

// Decision is the outcome of credential selection. AuthEnabled is true only
// when the feature is on and credentials were actually obtained; every
// other combination degrades to unsigned requests.
type Decision struct {
	AuthEnabled bool
	Signer      RequestSigner
	Region      string
	Reason      string
}

// Selector chooses between unsigned and SigV4-signed requests. The signer
// constructor is injectable so tests can observe construction.
type Selector struct {
	newSigner func(provider aws.CredentialsProvider, region, service string) RequestSigner
}

func NewSelector() *Selector {
	return &Selector{newSigner: newSigV4Signer}
}

// Select resolves the signing decision for the given configuration. The
// provider is never invoked while the feature is disabled. A provider that
// errors or returns empty credentials yields a disabled decision, not an
// error, unless strict mode is on.
func (s *Selector) Select(ctx context.Context, cfg Config, provider aws.CredentialsProvider) (Decision, error) {
	errFactory := errors.New()
	region := cfg.region()

	if !cfg.Enabled {
		return Decision{Region: region, Reason: ReasonFeatureDisabled}, nil
	}

	if provider == nil {
		return Decision{Region: region, Reason: ReasonNoCredentials}, nil
	}

	creds, err := provider.Retrieve(ctx)
	if err != nil {
		if cfg.Strict {
			return Decision{}, errFactory.Wrap(errors.ErrCredentialRetrieval, err)
		}

		logger.Debug().Err(err).Msg("Credential retrieval failed, proceeding unsigned")

		return Decision{Region: region, Reason: ReasonNoCredentials}, nil
	}

	if !creds.HasKeys() {
		return Decision{Region: region, Reason: ReasonNoCredentials}, nil
	}

	logger.Info().
		Str("region", region).
		Str("service", ServiceName).
		Msg("Request signing enabled")

	return Decision{
		AuthEnabled: true,
		Signer:      s.newSigner(provider, region, ServiceName),
		Region:      region,
		Reason:      ReasonSigningEnabled,
	}, nil
}
