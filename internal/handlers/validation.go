package handlers

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// registerValidation makes validator report fields by their JSON names.
func registerValidation() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// orderBindingMessage turns an order binding failure into the client
// message. A missing billing object wins over missing line items, which
// win over individual billing fields.
func orderBindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return msgInvalidBody
	}

	var lineItems, billingField, lineItemField string
	for _, fe := range verrs {
		ns := fe.Namespace()
		switch {
		case fe.Field() == "billing" && !strings.Contains(ns, ".billing."):
			return "Missing required field: billing"
		case fe.Field() == "line_items":
			lineItems = "Missing required field: line_items"
		case strings.Contains(ns, ".billing."):
			if billingField == "" {
				billingField = "Missing required billing field: " + fe.Field()
			}
		case strings.Contains(ns, ".line_items["):
			if lineItemField == "" {
				lineItemField = "Invalid line item: " + fe.Field() + " must be a positive integer"
			}
		}
	}

	for _, msg := range []string{lineItems, billingField, lineItemField} {
		if msg != "" {
			return msg
		}
	}
	return msgInvalidBody
}
