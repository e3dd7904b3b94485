package services

import (
	"context"
	"testing"

	"github.com/HSouheill/academy_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type referralFixture struct {
	svc        *ReferralService
	users      *fakeUsers
	affiliates *fakeAffiliates
	notifier   *recordingNotifier
	referrer   *models.User
	buyer      *models.User
}

func newReferralFixture() *referralFixture {
	users := newFakeUsers()
	affiliates := newFakeAffiliates()
	notifier := &recordingNotifier{}
	f := &referralFixture{
		svc:        NewReferralService(users, affiliates, DefaultCommissionPolicy(), notifier, "https://academy.test"),
		users:      users,
		affiliates: affiliates,
		notifier:   notifier,
	}
	f.referrer = users.add(&models.User{Email: "ref@example.com", FullName: "Referrer", ReferralCode: "USR-ABC234"})
	f.buyer = users.add(&models.User{Email: "buyer@example.com", FullName: "Buyer", ReferralCode: "USR-XYZ567"})
	return f
}

func TestResolveReferrer(t *testing.T) {
	f := newReferralFixture()
	ctx := context.Background()

	got, err := f.svc.ResolveReferrer(ctx, "  usr-abc234 ", f.buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, f.referrer.ID, got.ID)

	_, err = f.svc.ResolveReferrer(ctx, "USR-XYZ567", f.buyer.ID)
	assert.ErrorIs(t, err, ErrSelfReferral)

	_, err = f.svc.ResolveReferrer(ctx, "USR-NOPE00", f.buyer.ID)
	assert.ErrorIs(t, err, ErrInvalidReferralCode)

	_, err = f.svc.ResolveReferrer(ctx, "   ", f.buyer.ID)
	assert.ErrorIs(t, err, ErrInvalidReferralCode)

	for _, malformed := range []string{"ABC234", "USR-ABC", "USR-ABC2345", "USR_ABC234", "{\"$ne\": \"\"}"} {
		_, err = f.svc.ResolveReferrer(ctx, malformed, f.buyer.ID)
		assert.ErrorIs(t, err, ErrInvalidReferralCode, malformed)
	}
}

func TestCredit_SelfReferralCreditsNothing(t *testing.T) {
	f := newReferralFixture()

	_, err := f.svc.Credit(context.Background(), CreditInput{
		Code:        f.buyer.ReferralCode,
		SaleAmount:  100,
		PurchaserID: f.buyer.ID,
		Reference:   "ref-self",
		ItemType:    models.ItemCourse,
		ItemID:      primitive.NewObjectID(),
	})
	assert.ErrorIs(t, err, ErrSelfReferral)
	assert.Equal(t, 0.0, f.users.get(f.buyer.ID).ReferralEarnings)
	assert.Empty(t, f.notifier.referralsCredited)
}

func TestCredit_OncePerReference(t *testing.T) {
	f := newReferralFixture()
	ctx := context.Background()
	in := CreditInput{
		Code:        f.referrer.ReferralCode,
		SaleAmount:  150,
		PurchaserID: f.buyer.ID,
		Reference:   "pay-001",
		ItemType:    models.ItemCourse,
		ItemID:      primitive.NewObjectID(),
	}

	entry, err := f.svc.Credit(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 15.0, entry.Amount)

	_, err = f.svc.Credit(ctx, in)
	require.NoError(t, err)

	u := f.users.get(f.referrer.ID)
	assert.Equal(t, 15.0, u.ReferralEarnings)
	require.Len(t, u.ReferralHistory, 1)
	assert.Equal(t, "pay-001", u.ReferralHistory[0].Reference)
	assert.Equal(t, f.buyer.ID, u.ReferralHistory[0].ReferredUser)
	assert.Len(t, f.notifier.referralsCredited, 1)

	in.Reference = "pay-002"
	_, err = f.svc.Credit(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 30.0, f.users.get(f.referrer.ID).ReferralEarnings)
}

func TestCreditPayment_AffiliateTierPromotion(t *testing.T) {
	f := newReferralFixture()
	ctx := context.Background()
	require.NoError(t, f.affiliates.Create(ctx, &models.Affiliate{
		UserID:        f.referrer.ID,
		Code:          f.referrer.ReferralCode,
		Status:        models.AffiliateActive,
		Tier:          TierBronze,
		TotalEarnings: 490,
	}))

	quote, err := f.svc.Quote(ctx, f.referrer.ID, 200)
	require.NoError(t, err)
	assert.Equal(t, TierBronze, quote.Tier)
	assert.Equal(t, 16.0, quote.Amount)

	referrerID := f.referrer.ID
	p := &models.Payment{
		Reference:        "pay-aff",
		UserID:           f.buyer.ID,
		ItemType:         models.ItemBook,
		ItemID:           primitive.NewObjectID(),
		OriginalAmount:   200,
		ChargedAmount:    200,
		CommissionAmount: quote.Amount,
		CommissionRate:   quote.Rate,
		CommissionTier:   quote.Tier,
		ReferringUserID:  &referrerID,
	}
	require.NoError(t, f.svc.CreditPayment(ctx, p))
	require.NoError(t, f.svc.CreditPayment(ctx, p))

	a, err := f.affiliates.FindByUserID(ctx, f.referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, 506.0, a.TotalEarnings)
	assert.Equal(t, TierSilver, a.Tier)
	require.Len(t, a.Referrals, 1)
	assert.Equal(t, 200.0, a.Referrals[0].SaleAmount)
	assert.Equal(t, 16.0, f.users.get(f.referrer.ID).ReferralEarnings)
}

func TestCreditPayment_WithoutReferrer(t *testing.T) {
	f := newReferralFixture()

	err := f.svc.CreditPayment(context.Background(), &models.Payment{Reference: "plain", ChargedAmount: 100})
	require.NoError(t, err)
	assert.Empty(t, f.notifier.referralsCredited)
}

func TestReferralData(t *testing.T) {
	f := newReferralFixture()
	ctx := context.Background()
	_, err := f.users.CreditReferral(ctx, f.referrer.ID, models.ReferralEntry{Reference: "r1", Amount: 12.5})
	require.NoError(t, err)

	data, err := f.svc.Data(ctx, f.referrer.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, "USR-ABC234", data.ReferralCode)
	assert.Equal(t, "https://academy.test/register?ref=USR-ABC234", data.ReferralLink)
	assert.Equal(t, 12.5, data.ReferralEarnings)
	assert.Equal(t, 1, data.ReferralCount)
	assert.Equal(t, 20.0, data.MinWithdrawal)

	png, err := f.svc.QRCode(ctx, f.referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}
