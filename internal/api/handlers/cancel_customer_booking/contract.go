package cancel_customer_booking

import (
	"context"

	"github.com/appointa/booking-service/internal/service/bookings/models"
)

type BookingService interface {
	CustomerCancel(ctx context.Context, req *models.CustomerCancelRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
