package get_business_bookings

import (
	"net/url"
	"strconv"
	"time"

	"github.com/appointa/booking-service/internal/domain"
	"github.com/appointa/booking-service/internal/service/bookings/models"
)

// ToServiceRequest собирает запрос сервиса из query параметров.
// Поддерживаются фильтры: teamMemberId, startDate, endDate, status,
// includeCancelled
func ToServiceRequest(businessID int64, query url.Values) (*models.GetBusinessBookingsRequest, error) {
	req := &models.GetBusinessBookingsRequest{
		BusinessID: businessID,
	}

	if raw := query.Get("teamMemberId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		req.TeamMemberID = &id
	}

	if raw := query.Get("startDate"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.StartDate = &date
	}

	if raw := query.Get("endDate"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.EndDate = &date
	}

	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}

	if raw := query.Get("includeCancelled"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		req.IncludeCancelled = include
	}

	return req, nil
}
