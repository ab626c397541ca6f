package service

import (
	"context"

	"github.com/tm-acme-shop/acme-shop-storefront/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/commerce"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/events"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

// GenericPaymentInstructions is shown for payment methods without their own
// instructions.
const GenericPaymentInstructions = "Please complete your payment to finalize the order."

var paymentInstructions = map[string]string{
	models.PaymentMethodPayPal:       "You will be redirected to PayPal to complete your payment securely.",
	models.PaymentMethodCreditCard:   "You will be redirected to our secure payment page to complete your credit card payment.",
	models.PaymentMethodStripe:       "You will be redirected to our secure payment page to complete your credit card payment.",
	models.PaymentMethodBACS:         "Please follow the bank transfer instructions in your order confirmation email.",
	models.PaymentMethodBankTransfer: "Please follow the bank transfer instructions in your order confirmation email.",
	models.PaymentMethodCOD:          "You have selected Cash on Delivery. Payment will be collected upon delivery.",
}

// PaymentInstructions returns the customer-facing text for method.
func PaymentInstructions(method string) string {
	if text, ok := paymentInstructions[method]; ok {
		return text
	}
	return GenericPaymentInstructions
}

// PaymentService packages payment handoff data for placed orders. It never
// contacts a payment processor.
type PaymentService struct {
	gateway        commerce.Gateway
	eventPublisher events.Publisher
	logger         *logging.LoggerV2
}

// NewPaymentService creates a new payment service.
func NewPaymentService(gateway commerce.Gateway, eventPublisher events.Publisher) *PaymentService {
	return &PaymentService{
		gateway:        gateway,
		eventPublisher: eventPublisher,
		logger:         logging.NewLoggerV2("payment-service"),
	}
}

// ListGateways returns the payment methods enabled on the platform.
func (s *PaymentService) ListGateways(ctx context.Context) ([]models.PaymentGateway, error) {
	gateways, err := s.gateway.ListPaymentGateways(ctx)
	if err != nil {
		s.logger.Error("Failed to list payment gateways", logging.Fields{"error": err.Error()})
		return nil, err
	}
	return gateways, nil
}

// ProcessPayment looks up the order and returns its payment URL, if the
// platform supplied one, with instructions for the chosen method.
func (s *PaymentService) ProcessPayment(ctx context.Context, req *models.ProcessPaymentRequest) (*models.ProcessPaymentResponse, error) {
	if req.OrderID == 0 {
		return nil, apperrors.NewValidationError("orderId", "Order ID is required")
	}

	order, err := s.gateway.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	resp := &models.ProcessPaymentResponse{
		Success:       true,
		OrderID:       req.OrderID,
		PaymentMethod: req.PaymentMethod,
		Instructions:  PaymentInstructions(req.PaymentMethod),
		OrderStatus:   order.Status,
		OrderTotal:    order.Total,
	}
	if order.PaymentURL != "" {
		url := order.PaymentURL
		resp.PaymentURL = &url
	}

	s.logger.Info("Payment initiated", logging.Fields{
		"order_id":       order.ID,
		"payment_method": req.PaymentMethod,
		"redirect":       resp.PaymentURL != nil,
	})

	if err := s.eventPublisher.PublishPaymentInitiated(ctx, resp); err != nil {
		// Log but don't fail
		s.logger.Error("Failed to publish payment initiated event", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
	}

	return resp, nil
}

// HandleWebhook records a payment provider callback. The payload is not
// authenticated and no order state changes.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload *models.PaymentWebhook) *models.WebhookAck {
	// TODO(TEAM-PAYMENTS): Verify the provider signature once a payment provider is chosen
	s.logger.Info("Payment webhook received", logging.Fields{
		"order_id":       payload.OrderID,
		"status":         payload.Status,
		"payment_method": payload.PaymentMethod,
		"transaction_id": payload.TransactionID,
	})

	return &models.WebhookAck{Success: true, Message: "Webhook processed"}
}
