package handlers

import (
	"HillsideClinic/middlewares"
	"HillsideClinic/models"
	"errors"

	"github.com/gin-gonic/gin"
)

// statusFor maps business-rule violations to HTTP statuses. Anything not in
// the taxonomy is an infrastructure failure and comes back as 500; those are
// the only errors a client may retry blindly.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidPaymentMethodData):
		return 400
	case errors.Is(err, models.ErrBillingNotSettled),
		errors.Is(err, models.ErrBillingAlreadySettled),
		errors.Is(err, models.ErrVisitTerminal),
		errors.Is(err, models.ErrIllegalTransition),
		errors.Is(err, models.ErrOrdersOutstanding),
		errors.Is(err, models.ErrCardInactiveOrExpired),
		errors.Is(err, models.ErrDuplicatePending),
		errors.Is(err, models.ErrAlreadyAcknowledged),
		errors.Is(err, models.ErrConcurrentModification):
		return 409
	}
	return 500
}

// respondError surfaces the specific blocking reason so staff know which
// precondition to resolve, rather than a generic failure.
func respondError(c *gin.Context, err error) {
	middlewares.HttpError(c, err.Error(), statusFor(err), err)
}

// actor returns the authenticated user performing the request, for audit
// fields. Identity itself is the auth collaborator's concern.
func actor(c *gin.Context) string {
	userID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		return ""
	}
	return userID
}
