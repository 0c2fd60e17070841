package otp_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TNSHR/teacher-rating-backend/core"
	"github.com/TNSHR/teacher-rating-backend/core/otp"
	emailsvc "github.com/TNSHR/teacher-rating-backend/services/email"
	"github.com/TNSHR/teacher-rating-backend/storage/database/dummy"
)

var codeRegex = regexp.MustCompile(`\d{6}`)

func newService(t *testing.T, conf *core.Config) (*otp.Service, otp.Repository) {
	db, err := dummydb.Open()
	require.NoError(t, err)
	repo := dummydb.NewOTPRepository(db)
	return otp.NewService(repo, emailsvc.NewConsoleServiceMock(conf), conf), repo
}

// lastSentCode extracts the plaintext passcode from the captured outbox.
func lastSentCode(t *testing.T) string {
	require.NotEmpty(t, emailsvc.SentMessages)
	msg := emailsvc.SentMessages[len(emailsvc.SentMessages)-1]
	code := codeRegex.FindString(msg.TextContent)
	require.Len(t, code, 6)
	return code
}

func Test_RequestVerify_roundTrip(t *testing.T) {
	emailsvc.ClearSentMessages()
	ctx := context.Background()
	svc, _ := newService(t, core.NewConfig())

	require.NoError(t, svc.Request(ctx, "Admin@School.CD"))
	code := lastSentCode(t)

	// consumed on success; a second verify finds nothing
	require.NoError(t, svc.Verify(ctx, "admin@school.cd", code))
	assert.Equal(t, otp.ErrNotFound, errors.Cause(svc.Verify(ctx, "admin@school.cd", code)))
}

func Test_Request_supersedesPrior(t *testing.T) {
	emailsvc.ClearSentMessages()
	ctx := context.Background()
	svc, _ := newService(t, core.NewConfig())

	require.NoError(t, svc.Request(ctx, "admin@school.cd"))
	first := lastSentCode(t)
	require.NoError(t, svc.Request(ctx, "admin@school.cd"))
	second := lastSentCode(t)

	if first == second {
		t.Skip("codes collided; cannot distinguish supersession")
	}
	assert.Equal(t, otp.ErrInvalidCode, errors.Cause(svc.Verify(ctx, "admin@school.cd", first)))
	assert.NoError(t, svc.Verify(ctx, "admin@school.cd", second))
}

func Test_Verify_mismatchKeepsRecord(t *testing.T) {
	emailsvc.ClearSentMessages()
	ctx := context.Background()
	svc, _ := newService(t, core.NewConfig())

	require.NoError(t, svc.Request(ctx, "admin@school.cd"))
	code := lastSentCode(t)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	// retries stay possible until expiry
	assert.Equal(t, otp.ErrInvalidCode, errors.Cause(svc.Verify(ctx, "admin@school.cd", wrong)))
	assert.Equal(t, otp.ErrInvalidCode, errors.Cause(svc.Verify(ctx, "admin@school.cd", wrong)))
	assert.NoError(t, svc.Verify(ctx, "admin@school.cd", code))
}

func Test_Verify_expiredDeletesRecord(t *testing.T) {
	emailsvc.ClearSentMessages()
	ctx := context.Background()
	conf := core.NewConfig()
	conf.OTPExpirationDelta = -time.Minute // already expired on arrival
	svc, _ := newService(t, conf)

	require.NoError(t, svc.Request(ctx, "admin@school.cd"))
	code := lastSentCode(t)

	assert.Equal(t, otp.ErrCodeExpired, errors.Cause(svc.Verify(ctx, "admin@school.cd", code)))
	// record was deleted on expiry detection
	assert.Equal(t, otp.ErrNotFound, errors.Cause(svc.Verify(ctx, "admin@school.cd", code)))
}

func Test_Request_storesHashOnly(t *testing.T) {
	emailsvc.ClearSentMessages()
	ctx := context.Background()
	svc, repo := newService(t, core.NewConfig())

	require.NoError(t, svc.Request(ctx, "admin@school.cd"))
	code := lastSentCode(t)

	rec, err := repo.GetCodeByEmail(ctx, "admin@school.cd")
	require.NoError(t, err)
	assert.Equal(t, otp.HashCode(code), rec.CodeHash)
	assert.NotEqual(t, code, rec.CodeHash)
}

func Test_Verify_unknownEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, core.NewConfig())

	assert.Equal(t, otp.ErrNotFound, errors.Cause(svc.Verify(ctx, "ghost@school.cd", "123456")))
}

type failingEmailService struct{}

func (failingEmailService) SendMessage(msg *core.EmailMessage) error {
	return errors.New("smtp unreachable")
}
func (failingEmailService) SendMessages(messages ...*core.EmailMessage) {}

func Test_Request_deliveryFailureKeepsRecord(t *testing.T) {
	ctx := context.Background()
	conf := core.NewConfig()
	db, err := dummydb.Open()
	require.NoError(t, err)
	repo := dummydb.NewOTPRepository(db)
	svc := otp.NewService(repo, failingEmailService{}, conf)

	// the failure is caller-visible but the stored code is NOT rolled back
	assert.Equal(t, otp.ErrDeliveryFailed, errors.Cause(svc.Request(ctx, "admin@school.cd")))

	rec, err := repo.GetCodeByEmail(ctx, "admin@school.cd")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.CodeHash)
	assert.True(t, rec.ExpiresAt.After(rec.CreatedAt))
}
