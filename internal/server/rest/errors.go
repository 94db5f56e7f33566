package rest

import (
	"errors"
	"net/http"

	"github.com/bulkassi/webProg2/internal/common"
	"github.com/gin-gonic/gin"
)

const (
	MsgUserExists         = "User already exists"
	MsgInvalidCredentials = "Username or password is incorrect"
	MsgUserNotFound       = "User not found"
	MsgStorage            = "Storage error"
	MsgAuthRequired       = "Authorization required"
	MsgInvalidToken       = "Invalid token"
	MsgRoleNotApplicable  = "Role is not applicable for endpoint"
	MsgInternal           = "Internal server error"
)

type errorBody struct {
	Message string `json:"message"`
}

// statusFor maps a service or gate error onto the HTTP status and message
// sent to the client.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusBadRequest, MsgUserExists
	case errors.Is(err, common.ErrorInvalidCredentials):
		return http.StatusBadRequest, MsgInvalidCredentials
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorStore):
		return http.StatusBadRequest, MsgStorage
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, MsgUserNotFound
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, MsgInvalidToken
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, MsgAuthRequired
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, MsgRoleNotApplicable
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}

func writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	c.JSON(status, errorBody{Message: msg})
}

func abortWithError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	c.AbortWithStatusJSON(status, errorBody{Message: msg})
}
