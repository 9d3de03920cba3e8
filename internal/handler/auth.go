package handler

import (
	"errors"
	"net/http"

	"github.com/solucionesrptech/pasteleria-api/internal/apierror"
	"github.com/solucionesrptech/pasteleria-api/internal/domain"
	"github.com/solucionesrptech/pasteleria-api/internal/dto"
	"github.com/solucionesrptech/pasteleria-api/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		// Rejected credentials are a 401 here, not the generic 400.
		var v *domain.ValidationError
		if errors.As(err, &v) {
			c.JSON(http.StatusUnauthorized, apierror.New(v.Error()))
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
