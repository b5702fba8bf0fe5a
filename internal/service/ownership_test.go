package service

import (
	"context"
	"testing"
	"time"

	"finatlas/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestIsOwner(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	assert.True(t, isOwner(owner, owner))
	assert.False(t, isOwner(owner, other))

	// A structurally similar but distinct identifier is still foreign.
	similar := owner
	similar[15] ^= 0x01
	assert.False(t, isOwner(owner, similar))
}

func TestOwnershipTwoTierOutcome(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	repo := &fakeAccountRepo{}
	svc := NewAccountService(repo, zap.NewNop())

	account := &models.Account{
		ID:        uuid.New(),
		UserID:    owner,
		IBAN:      "SI56192001234567892",
		Currency:  models.CurrencyEUR,
		Balance:   decimal.Zero,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	assert.NoError(t, repo.Create(context.Background(), account))

	// Entirely absent resource: not found, no ownership leak.
	_, err := svc.Get(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	// Present but owned by someone else: forbidden.
	_, err = svc.Get(context.Background(), stranger, account.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// Owner sees it.
	got, err := svc.Get(context.Background(), owner, account.ID)
	assert.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
}
