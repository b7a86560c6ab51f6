package services

import (
	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/pkg/validate"
)

func init() {
	validate.Register("role", func(s string) bool {
		_, err := models.ParseRole(s)
		return err == nil
	})
	validate.Register("product_type", func(s string) bool {
		_, err := models.ParseProductType(s)
		return err == nil
	})
	validate.Register("order_status", func(s string) bool {
		_, err := models.ParseOrderStatus(s)
		return err == nil
	})
	validate.Register("request_status", func(s string) bool {
		_, err := models.ParseRequestStatus(s)
		return err == nil
	})
}
