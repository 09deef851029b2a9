package modify_customer_booking

import (
	"context"

	customerModify "github.com/appointa/booking-service/internal/usecase/customer_modify"
)

type CustomerModifyUseCase interface {
	Execute(ctx context.Context, req *customerModify.Request) (*customerModify.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
