package controllers

import (
	"context"
	"net/http"

	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/services"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WithdrawalController struct {
	withdrawals *services.WithdrawalService
}

func NewWithdrawalController(withdrawals *services.WithdrawalService) *WithdrawalController {
	return &WithdrawalController{withdrawals: withdrawals}
}

// RequestWithdrawal moves the whole referral balance into a pending request
func (wc *WithdrawalController) RequestWithdrawal(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	req, err := wc.withdrawals.Request(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Withdrawal request submitted successfully", req)
}

func (wc *WithdrawalController) ListMyWithdrawals(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	list, err := wc.withdrawals.List(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Withdrawal requests retrieved successfully", list)
}

// AdminListWithdrawals lists requests across users, filtered by ?status=
func (wc *WithdrawalController) AdminListWithdrawals(c echo.Context) error {
	list, err := wc.withdrawals.ListAll(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Withdrawal requests retrieved successfully", list)
}

type processFunc func(ctx context.Context, adminID, userID, withdrawalID primitive.ObjectID, note string) (*models.WithdrawalRequest, error)

func (wc *WithdrawalController) ApproveWithdrawal(c echo.Context) error {
	return wc.process(c, wc.withdrawals.Approve, "Withdrawal approved")
}

// RejectWithdrawal returns the amount to the user's balance
func (wc *WithdrawalController) RejectWithdrawal(c echo.Context) error {
	return wc.process(c, wc.withdrawals.Reject, "Withdrawal rejected")
}

// FailWithdrawal marks a payout that did not go through; the amount goes back
// to the balance
func (wc *WithdrawalController) FailWithdrawal(c echo.Context) error {
	return wc.process(c, wc.withdrawals.Fail, "Withdrawal marked as failed")
}

func (wc *WithdrawalController) process(c echo.Context, fn processFunc, message string) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	withdrawalID, err := pathID(c, "withdrawalId")
	if err != nil {
		return respondError(c, err)
	}
	var req models.ProcessWithdrawalRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	w, err := fn(c.Request().Context(), adminID, userID, withdrawalID, req.Note)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, message, w)
}
