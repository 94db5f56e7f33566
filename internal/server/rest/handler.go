package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bulkassi/webProg2/internal/common"
	"github.com/bulkassi/webProg2/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) signUp(c *gin.Context) {
	var req signUpRequest
	if !bind(c, &req) {
		return
	}

	res, err := s.auth.SignUp(c.Request.Context(), services.NewAccountInput(req))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, signUpResponse{User: res.Account, Token: res.Token, Message: "Sign-up successful"})
}

func (s *HTTPServer) signIn(c *gin.Context) {
	var req signInRequest
	if !bind(c, &req) {
		return
	}

	res, err := s.auth.SignIn(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, signInResponse{User: res.Account.Identity(), Token: res.Token, Message: "Sign-in successful"})
}

// listUsers answers 201, the status existing clients of this endpoint expect.
func (s *HTTPServer) listUsers(c *gin.Context) {
	list, err := s.users.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

func (s *HTTPServer) createUser(c *gin.Context) {
	var req createUserRequest
	if !bind(c, &req) {
		return
	}

	account, err := s.users.Create(c.Request.Context(), services.NewAccountInput(req))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (s *HTTPServer) updateUser(c *gin.Context) {
	var req updateUserRequest
	if !bind(c, &req) {
		return
	}

	account, err := s.users.Update(c.Request.Context(), req.UserID, services.UpdateInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (s *HTTPServer) deleteUser(c *gin.Context) {
	var req deleteUserRequest
	if !bind(c, &req) {
		return
	}

	account, err := s.users.Delete(c.Request.Context(), req.UserID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// bind decodes the JSON body into dst, answering 400 on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, fmt.Errorf("%w: invalid request body", common.ErrorValidation))
		return false
	}
	return true
}

// fail logs server-side failures and writes the mapped error response.
func (s *HTTPServer) fail(c *gin.Context, err error) {
	status, _ := statusFor(err)
	if status >= http.StatusInternalServerError || errors.Is(err, common.ErrorStore) {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
	}
	writeError(c, err)
}
