package handler

import (
	"sync"

	"Socio/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators 注册自定义校验 tag: privacy, visibility
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		_ = v.RegisterValidation("privacy", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == models.PrivacyPublic || s == models.PrivacyPrivate
		})
		_ = v.RegisterValidation("visibility", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == models.VisibilityPublic || s == models.VisibilityPrivate
		})
	})
}
