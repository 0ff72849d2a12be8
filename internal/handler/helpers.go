package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/Cabral2104/backend-asesorias/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

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

// respondError traduce los errores de dominio tipados a su código HTTP;
// cualquier otro error se registra y se responde como 500 genérico sin
// detalle interno. No se adjunta a c.Errors: ErrorHandler escribiría un
// segundo cuerpo sobre el ya emitido.
func respondError(c *gin.Context, err error) {
	var de *apierror.Error
	if errors.As(err, &de) {
		c.JSON(de.Status(), apierror.New(de.Detail))
		return
	}
	log.Error().
		Err(err).
		Str("path", c.FullPath()).
		Str("method", c.Request.Method).
		Msg("unhandled service error")
	c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
}
