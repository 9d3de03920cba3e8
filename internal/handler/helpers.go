package handler

import (
	"errors"
	"net/http"

	"github.com/solucionesrptech/pasteleria-api/internal/apierror"
	"github.com/solucionesrptech/pasteleria-api/internal/domain"
	"github.com/solucionesrptech/pasteleria-api/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// bindQuery binds and validates query-string DTOs.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeError maps domain errors to transport status codes. Kinds are never
// downgraded: the boundary only translates.
func writeError(c *gin.Context, err error) {
	var (
		notFound     *domain.NotFoundError
		inactive     *domain.InactiveProductError
		insufficient *domain.InsufficientStockError
		zero         *domain.ZeroAdjustmentError
		validation   *domain.ValidationError
		transient    *domain.TransientConflictError
		storage      *domain.StorageFaultError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, apierror.New(validation.Error()))
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, apierror.New(notFound.Error()))
	case errors.As(err, &inactive):
		c.JSON(http.StatusConflict, apierror.New(inactive.Error()))
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, apierror.New(insufficient.Error()))
	case errors.As(err, &zero):
		c.JSON(http.StatusConflict, apierror.New(zero.Error()))
	case errors.As(err, &transient):
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, apierror.New(transient.Error()))
	case errors.As(err, &storage):
		log.Error().
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Err(errors.Unwrap(storage)).
			Msg("storage fault")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	default:
		log.Error().
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Err(err).
			Msg("unclassified error")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
