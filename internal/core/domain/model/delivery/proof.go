package delivery

import (
	"errors"
	"time"

	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

// ErrProofIsNotConstructed is returned when attempting to use an improperly
// initialized ProofOfDelivery. Proofs must be created using the
// NewProofOfDelivery constructor to ensure validity.
var ErrProofIsNotConstructed = errs.NewValueIsRequiredError(
	"proof of delivery must be created via NewProofOfDelivery constructor")

// ProofOfDelivery is the evidence attached once a delivery reaches its
// recipient: a photo reference, the recipient's signature and the time the
// evidence was captured. It is an immutable value object; once attached to
// a delivery it is never replaced or cleared.
type ProofOfDelivery struct { //nolint:recvcheck //using for validation
	photo     string
	signature string
	timestamp time.Time
	guard     guard.ConstructorGuard
}

// NewProofOfDelivery creates a new ProofOfDelivery with the specified evidence.
//
// The photo and signature references must be non-empty and the timestamp
// must be non-zero.
func NewProofOfDelivery(photo string, signature string, timestamp time.Time) (ProofOfDelivery, error) {
	proof := ProofOfDelivery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		proof.setPhoto(photo),
		proof.setSignature(signature),
		proof.setTimestamp(timestamp),
	); err != nil {
		return ProofOfDelivery{}, err
	}

	return proof, nil
}

// Validate checks if the ProofOfDelivery was properly constructed using the
// constructor. The zero value is invalid and will fail this validation.
func (p ProofOfDelivery) Validate() error {
	return p.guard.Validate(ErrProofIsNotConstructed)
}

// Photo returns the reference to the photo evidence.
func (p ProofOfDelivery) Photo() string {
	return p.photo
}

// Signature returns the recipient's signature data.
func (p ProofOfDelivery) Signature() string {
	return p.signature
}

// Timestamp returns the moment the evidence was captured.
func (p ProofOfDelivery) Timestamp() time.Time {
	return p.timestamp
}

func (p *ProofOfDelivery) setPhoto(photo string) error {
	if photo == "" {
		return errs.NewValueIsRequiredError("proof photo")
	}
	p.photo = photo
	return nil
}

func (p *ProofOfDelivery) setSignature(signature string) error {
	if signature == "" {
		return errs.NewValueIsRequiredError("proof signature")
	}
	p.signature = signature
	return nil
}

func (p *ProofOfDelivery) setTimestamp(timestamp time.Time) error {
	if timestamp.IsZero() {
		return errs.NewValueIsRequiredError("proof timestamp")
	}
	p.timestamp = timestamp
	return nil
}
