package services

import "errors"

// Business errors returned by the services. Controllers map them onto HTTP
// status codes.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrForbidden          = errors.New("insufficient privileges")

	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrBookNotFound       = errors.New("book not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrWithdrawalNotFound = errors.New("withdrawal request not found")
	ErrAffiliateNotFound  = errors.New("affiliate profile not found")
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponExists       = errors.New("coupon code already exists")
	ErrNotFound           = errors.New("resource not found")

	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrSelfReferral        = errors.New("cannot use your own referral code")
	ErrAffiliateExists     = errors.New("affiliate profile already exists")

	ErrPendingWithdrawal      = errors.New("you already have a pending withdrawal request")
	ErrNoPayoutDestination    = errors.New("add your mobile money details before withdrawing")
	ErrBelowMinimumWithdrawal = errors.New("balance is below the minimum withdrawal amount")
	ErrWithdrawalNotPending   = errors.New("withdrawal request is not pending")
	ErrConcurrentUpdate       = errors.New("balance changed concurrently, please retry")

	ErrAlreadyPurchased     = errors.New("course already purchased")
	ErrBookAlreadyOwned     = errors.New("book already purchased")
	ErrItemUnavailable      = errors.New("item is not available for purchase")
	ErrInvalidCoupon        = errors.New("coupon is invalid or expired")
	ErrPaymentNotSuccessful = errors.New("payment was not successful")
	ErrAmountMismatch       = errors.New("paid amount does not match the charge")
	ErrPaymentFailed        = errors.New("payment has failed")
	ErrProviderUnavailable  = errors.New("payment provider unavailable")
	ErrInvalidSignature     = errors.New("invalid webhook signature")

	ErrInvalidID    = errors.New("invalid id")
	ErrInvalidInput = errors.New("invalid input")
	ErrLockTimeout  = errors.New("could not acquire lock")

	ErrInvalidResetCode = errors.New("reset code is invalid or expired")
	ErrTooManyAttempts  = errors.New("too many attempts, try again later")
	ErrMailUnavailable  = errors.New("email delivery is unavailable")
)
