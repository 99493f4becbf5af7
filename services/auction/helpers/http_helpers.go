package helpers

import (
	"errors"
	"net/http"

	"heartbids/internal/biddingerrors"
	"heartbids/utils"

	"github.com/gin-gonic/gin"
)

// UserKey is the gin context key holding the authenticated profile name.
const UserKey = "auction.user"

// CurrentUser returns the profile name set by the bearer middleware.
func CurrentUser(c *gin.Context) string {
	return c.GetString(UserKey)
}

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps store errors to an HTTP status and the message shown to clients
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, biddingerrors.ErrListingNotFound):
		return http.StatusNotFound, "No listing with such ID"
	case errors.Is(err, biddingerrors.ErrProfileNotFound):
		return http.StatusNotFound, "No profile with this name"
	case errors.Is(err, biddingerrors.ErrProfileExists):
		return http.StatusBadRequest, "Profile already exists"
	case errors.Is(err, biddingerrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, biddingerrors.ErrUnauthorized):
		return http.StatusUnauthorized, "Invalid or expired access token"
	case errors.Is(err, biddingerrors.ErrInvalidAPIKey):
		return http.StatusUnauthorized, "Missing or invalid API key"
	case errors.Is(err, biddingerrors.ErrNotListingOwner):
		return http.StatusForbidden, "You do not have permission to change this listing"
	case errors.Is(err, biddingerrors.ErrOwnListing):
		return http.StatusForbidden, "You cannot bid on your own listing"
	case errors.Is(err, biddingerrors.ErrAuctionEnded):
		return http.StatusBadRequest, "This listing has ended"
	case errors.Is(err, biddingerrors.ErrBidTooLow):
		return http.StatusBadRequest, "Your bid must be higher than the current bid"
	case errors.Is(err, biddingerrors.ErrInsufficientCredits):
		return http.StatusBadRequest, "You do not have enough balance to make this bid"
	case errors.Is(err, biddingerrors.ErrInvalidBid):
		return http.StatusBadRequest, "Bid amount must be a positive whole number"
	case errors.Is(err, biddingerrors.ErrInvalidListing):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// RespondError writes the mapped error and logs it under handlerName
func RespondError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["status"] = status
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
