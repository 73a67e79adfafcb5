package handler

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// RegisterValidation registers custom validators with the Gin binding engine. It has to be called
// once before serving requests.
func RegisterValidation() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return v.RegisterValidation("notblank", notBlank)
	}
	return fmt.Errorf("error getting validation engine")
}
