package rest

import (
	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("modality", validModality)
		_ = v.RegisterValidation("weekday", validWeekday)
	}
}

func validModality(fl validator.FieldLevel) bool {
	return model.Modality(fl.Field().String()).Valid()
}

// validWeekday принимает день в любом регистре, с диакритикой или по-английски
func validWeekday(fl validator.FieldLevel) bool {
	_, err := model.ParseWeekday(fl.Field().String())
	return err == nil
}
