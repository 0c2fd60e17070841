package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/TNSHR/teacher-rating-backend/core"
)

// Passcodes are always 6 decimal digits, leading zeros included. The
// companion UI depends on this shape.
const codeDigits = 6

var (
	codeMax = big.NewInt(1_000_000)

	nowFunc = time.Now // mockable

	// errors
	ErrNotFound       = errors.New("no passcode requested for this email")
	ErrCodeExpired    = errors.New("passcode expired")
	ErrInvalidCode    = errors.New("invalid passcode")
	ErrDeliveryFailed = errors.New("passcode delivery failed")
)

type (
	Repository interface {
		CreateCode(ctx context.Context, code Code) (Code, error)
		GetCodeByEmail(ctx context.Context, email string) (Code, error)
		DeleteCodesByEmail(ctx context.Context, email string) error
		DeleteCode(ctx context.Context, id string) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf}
}

// Request issues a fresh passcode for email, superseding any prior
// unconsumed one, and hands the plaintext to the notifier. A delivery
// failure is returned as ErrDeliveryFailed but the stored record is kept;
// the passcode stays verifiable until it expires.
func (svc *Service) Request(ctx context.Context, email string) error {
	email = core.CleanString(email, true /* lower */)

	code, err := generateCode()
	if err != nil {
		return pkgerrors.Wrap(err, "generating passcode")
	}

	now := nowFunc().UTC()
	rec := Code{
		ID:        uuid.New().String(),
		Email:     email,
		CodeHash:  HashCode(code),
		ExpiresAt: now.Add(svc.conf.OTPExpirationDelta),
		CreatedAt: now,
	}

	if err := svc.repo.DeleteCodesByEmail(ctx, email); err != nil {
		return pkgerrors.Wrap(err, "purging prior passcodes")
	}
	if _, err := svc.repo.CreateCode(ctx, rec); err != nil {
		return pkgerrors.Wrap(err, "storing passcode")
	}

	msg := &core.EmailMessage{
		To:      []mail.Address{{Address: email}},
		Subject: "Your one-time passcode",
		BodyStr: fmt.Sprintf(
			"Your passcode is %s. It will expire in %d minutes.",
			code, int(svc.conf.OTPExpirationDelta.Minutes()),
		),
	}
	if err := svc.mailSvc.SendMessage(msg); err != nil {
		return ErrDeliveryFailed
	}
	return nil
}

// Verify consumes the outstanding passcode for email. A mismatch keeps the
// record so the caller may retry until expiry; a match or a detected expiry
// deletes it.
func (svc *Service) Verify(ctx context.Context, email, supplied string) error {
	email = core.CleanString(email, true /* lower */)

	rec, err := svc.repo.GetCodeByEmail(ctx, email)
	if err != nil {
		return err
	}

	if nowFunc().UTC().After(rec.ExpiresAt) {
		if err := svc.repo.DeleteCode(ctx, rec.ID); err != nil {
			return pkgerrors.Wrap(err, "deleting expired passcode")
		}
		return ErrCodeExpired
	}

	suppliedHash := HashCode(core.CleanString(supplied))
	if subtle.ConstantTimeCompare([]byte(suppliedHash), []byte(rec.CodeHash)) == 0 {
		return ErrInvalidCode
	}

	if err := svc.repo.DeleteCode(ctx, rec.ID); err != nil {
		return pkgerrors.Wrap(err, "consuming passcode")
	}
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}
