package routes

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/DreamGlimmer/movinin-sub000/models"
	"github.com/DreamGlimmer/movinin-sub000/services"
	"github.com/DreamGlimmer/movinin-sub000/storage"
	"github.com/DreamGlimmer/movinin-sub000/utils"

	"github.com/kataras/iris/v12"
)

type BookingRequest struct {
	AgencyID     uint      `json:"agencyId" validate:"required"`
	PropertyID   uint      `json:"propertyId" validate:"required"`
	LocationID   uint      `json:"locationId" validate:"required"`
	RenterID     uint      `json:"renterId"`
	From         time.Time `json:"from" validate:"required"`
	To           time.Time `json:"to" validate:"required"`
	Status       string    `json:"status"`
	Cancellation bool      `json:"cancellation"`
	Price        float64   `json:"price"`
}

func (r *BookingRequest) toModel() models.Booking {
	return models.Booking{
		AgencyID:     r.AgencyID,
		PropertyID:   r.PropertyID,
		LocationID:   r.LocationID,
		RenterID:     r.RenterID,
		From:         r.From,
		To:           r.To,
		Status:       r.Status,
		Cancellation: r.Cancellation,
		Price:        r.Price,
	}
}

// CreateBooking inserts a booking exactly as posted; cross-field checks
// are the caller's job (admin backend).
func CreateBooking(ctx iris.Context) {
	var req BookingRequest
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	booking := req.toModel()
	if err := storage.DB.Create(&booking).Error; err != nil {
		utils.BadRequest(ctx, "failed to create booking", err)
		return
	}

	ctx.JSON(booking)
}

type CheckoutRenter struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Language string `json:"language"`
}

type CheckoutRequest struct {
	Renter          *CheckoutRenter `json:"renter"`
	Booking         *BookingRequest `json:"booking"`
	PayLater        bool            `json:"payLater"`
	PaymentIntentID string          `json:"paymentIntentId"`
	SessionID       string          `json:"sessionId"`
	CustomerID      string          `json:"customerId"`
}

// Checkout is the frontend booking flow: pay now (verified payment
// intent), pay through a hosted session (temporary void booking with an
// expiry), or pay later at the property (pending booking, agency
// notified). A brand-new renter profile may ride along; it is created
// unverified with an activation token and email.
//
// The flow is best-effort: a renter created before a failing booking
// save is not rolled back.
func Checkout(ctx iris.Context) {
	var req CheckoutRequest
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if req.Booking == nil {
		utils.BadRequest(ctx, "missing booking", nil)
		return
	}

	booking := req.Booking.toModel()

	if !req.PayLater {
		switch {
		case req.PaymentIntentID != "":
			status, err := services.Payments.IntentStatus(req.PaymentIntentID)
			if err != nil {
				utils.BadRequest(ctx, "failed to verify payment", err)
				return
			}
			if status != services.PaymentSucceeded {
				utils.BadRequest(ctx, fmt.Sprintf("payment not succeeded (status: %s)", status), nil)
				return
			}
			booking.Status = models.BookingStatusPaid
			booking.PaymentIntentID = req.PaymentIntentID
		case req.SessionID != "":
			// Hosted checkout session: keep the booking void with an
			// expiry so abandoned sessions get swept away.
			expireAt := time.Now().Add(storage.BookingExpireAfter())
			booking.Status = models.BookingStatusVoid
			booking.SessionID = req.SessionID
			booking.ExpireAt = &expireAt
		default:
			utils.BadRequest(ctx, "missing payment identifiers", nil)
			return
		}
	} else {
		booking.Status = models.BookingStatusPending
	}

	var renter models.User
	if req.Renter != nil {
		active := true
		verified := false
		renter = models.User{
			Type:     models.UserTypeUser,
			FullName: req.Renter.FullName,
			Email:    req.Renter.Email,
			Phone:    req.Renter.Phone,
			Language: language(req.Renter.Language),
			Active:   &active,
			Verified: &verified,
			AgencyID: &booking.AgencyID,
		}
		if err := storage.DB.Create(&renter).Error; err != nil {
			utils.BadRequest(ctx, "failed to create renter", err)
			return
		}

		token := models.Token{
			UserID:   renter.ID,
			Value:    utils.GenerateShortToken(16),
			ExpireAt: time.Now().Add(storage.TokenExpireAfter()),
		}
		if err := storage.DB.Create(&token).Error; err != nil {
			utils.BadRequest(ctx, "failed to create activation token", err)
			return
		}

		activationLink := fmt.Sprintf("%s/activate/%d/%s", os.Getenv("FRONTEND_HOST"), renter.ID, token.Value)
		body := utils.T(renter.Language, utils.MsgAccountActivation, activationLink)
		if err := services.SendMail(renter.Email, "Account activation", body, ""); err != nil {
			log.Printf("checkout: activation email to %s failed: %v", renter.Email, err)
		}

		booking.RenterID = renter.ID
	} else {
		if err := storage.DB.First(&renter, booking.RenterID).Error; err != nil {
			utils.NoContent(ctx)
			return
		}
	}
	if req.CustomerID != "" && renter.CustomerID == "" {
		renter.CustomerID = req.CustomerID
		if err := storage.DB.Model(&renter).Update("customer_id", req.CustomerID).Error; err != nil {
			log.Printf("checkout: saving customer id for renter %d failed: %v", renter.ID, err)
		}
	}

	if err := storage.DB.Create(&booking).Error; err != nil {
		utils.BadRequest(ctx, "failed to create booking", err)
		return
	}

	if req.PayLater {
		body := utils.T(renter.Language, utils.MsgBookingConfirmed, booking.ID)
		if err := services.SendMail(renter.Email, "Booking received", body, ""); err != nil {
			log.Printf("checkout: confirmation email to %s failed: %v", renter.Email, err)
		}

		var agency models.User
		if err := storage.DB.First(&agency, booking.AgencyID).Error; err == nil {
			message := utils.T(agency.Language, utils.MsgBookingCreated, booking.ID)
			if err := services.Notify(&agency, &booking.ID, message); err != nil {
				log.Printf("checkout: agency notification failed: %v", err)
			}
		}

		if adminEmail := os.Getenv("ADMIN_EMAIL"); adminEmail != "" {
			var admin models.User
			if err := storage.DB.Where("email = ?", adminEmail).First(&admin).Error; err == nil {
				message := utils.T(admin.Language, utils.MsgBookingCreated, booking.ID)
				if err := services.Notify(&admin, &booking.ID, message); err != nil {
					log.Printf("checkout: admin notification failed: %v", err)
				}
			}
		}
	}

	ctx.JSON(iris.Map{"bookingId": booking.ID})
}

type UpdateBookingRequest struct {
	ID uint `json:"id" validate:"required"`
	BookingRequest
	CancelRequest bool `json:"cancelRequest"`
}

// UpdateBooking overwrites the mutable fields of a booking; a status
// change notifies the renter in-app, by push, and by email when opted
// in.
func UpdateBooking(ctx iris.Context) {
	var req UpdateBookingRequest
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var booking models.Booking
	if err := storage.DB.First(&booking, req.ID).Error; err != nil {
		utils.NoContent(ctx)
		return
	}

	previousStatus := booking.Status

	booking.AgencyID = req.AgencyID
	booking.PropertyID = req.PropertyID
	booking.LocationID = req.LocationID
	booking.RenterID = req.RenterID
	booking.From = req.From
	booking.To = req.To
	booking.Status = req.Status
	booking.Cancellation = req.Cancellation
	booking.CancelRequest = req.CancelRequest
	booking.Price = req.Price
	if booking.Status != models.BookingStatusVoid {
		booking.ExpireAt = nil
	}

	if err := storage.DB.Save(&booking).Error; err != nil {
		utils.BadRequest(ctx, "failed to update booking", err)
		return
	}

	if booking.Status != previousStatus {
		notifyStatusChange(booking, booking.Status)
	}

	ctx.JSON(booking)
}

// notifyStatusChange tells the renter their booking moved to a new
// status: in-app record + counter, push to their devices, email when
// opted in (inside Notify). Failures are logged, never surfaced.
func notifyStatusChange(booking models.Booking, status string) {
	var renter models.User
	if err := storage.DB.First(&renter, booking.RenterID).Error; err != nil {
		log.Printf("status change: renter %d not found: %v", booking.RenterID, err)
		return
	}

	message := utils.T(renter.Language, utils.MsgBookingStatusChanged, booking.ID, status)
	if err := services.Notify(&renter, &booking.ID, message); err != nil {
		log.Printf("status change: notification for booking %d failed: %v", booking.ID, err)
		return
	}

	services.SendPushToUser(&renter, "Movin' In", message, map[string]string{
		"type":      "booking_status",
		"bookingId": strconv.FormatUint(uint64(booking.ID), 10),
	})
}

type UpdateStatusRequest struct {
	IDs    []uint `json:"ids" validate:"required,min=1"`
	Status string `json:"status" validate:"required"`
}

// UpdateBookingStatus bulk-sets a status, then notifies every renter
// whose booking actually changed. The comparison uses the pre-update
// snapshots; fan-out runs concurrently and is awaited before answering,
// each failure logged independently.
func UpdateBookingStatus(ctx iris.Context) {
	var req UpdateStatusRequest
	if err := ctx.ReadJSON(&req); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var bookings []models.Booking
	if err := storage.DB.Where("id IN ?", req.IDs).Find(&bookings).Error; err != nil {
		utils.BadRequest(ctx, "failed to load bookings", err)
		return
	}

	// Leaving the void state also drops the checkout-session expiry, so
	// a confirmed booking can never be hidden or swept as abandoned.
	updates := map[string]interface{}{"status": req.Status}
	if req.Status != models.BookingStatusVoid {
		updates["expire_at"] = nil
	}
	if err := storage.DB.Model(&models.Booking{}).
		Where("id IN ?", req.IDs).
		Updates(updates).Error; err != nil {
		utils.BadRequest(ctx, "failed to update booking status", err)
		return
	}

	var wg sync.WaitGroup
	for _, b := range bookings {
		if b.Status == req.Status {
			continue
		}
		wg.Add(1)
		go func(b models.Booking) {
			defer wg.Done()
			notifyStatusChange(b, req.Status)
		}(b)
	}
	wg.Wait()

	ctx.JSON(iris.Map{"updated": len(req.IDs)})
}

// DeleteBookings hard-deletes by id list.
func DeleteBookings(ctx iris.Context) {
	var ids []uint
	if err := ctx.ReadJSON(&ids); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if err := storage.DB.Unscoped().Where("id IN ?", ids).Delete(&models.Booking{}).Error; err != nil {
		utils.BadRequest(ctx, "failed to delete bookings", err)
		return
	}

	ctx.JSON(iris.Map{"deleted": len(ids)})
}

// DeleteTempBooking removes an abandoned checkout booking, but only when
// the id, session and void-with-expiry state all match; anything else is
// a no-op so the frontend cannot delete a confirmed booking by accident.
func DeleteTempBooking(ctx iris.Context) {
	bookingID, err := ctx.Params().GetUint("bookingId")
	if err != nil {
		utils.BadRequest(ctx, "invalid booking id", err)
		return
	}
	sessionID := ctx.Params().Get("sessionId")

	res := storage.DB.Unscoped().
		Where("id = ? AND session_id = ? AND status = ? AND expire_at IS NOT NULL",
			bookingID, sessionID, models.BookingStatusVoid).
		Delete(&models.Booking{})
	if res.Error != nil {
		utils.BadRequest(ctx, "failed to delete temp booking", res.Error)
		return
	}

	ctx.JSON(iris.Map{"deleted": res.RowsAffected})
}

// GetBooking returns one booking enriched with its agency, renter,
// property and the location value for the requested language.
func GetBooking(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.BadRequest(ctx, "invalid booking id", err)
		return
	}
	lang := language(ctx.Params().Get("language"))

	var booking models.Booking
	err = storage.DB.
		Preload("Agency").
		Preload("Renter").
		Preload("Property").
		Preload("Location.Values", "language = ?", lang).
		First(&booking, id).Error
	if err != nil {
		utils.NoContent(ctx)
		return
	}

	ctx.JSON(booking)
}

type BookingFilter struct {
	Agencies []uint     `json:"agencies"`
	Statuses []string   `json:"statuses"`
	User     *uint      `json:"user"`
	Property *uint      `json:"property"`
	Location *uint      `json:"location"`
	From     *time.Time `json:"from"`
	To       *time.Time `json:"to"`
	Keyword  string     `json:"keyword"`
}

// GetBookings is the filtered, paginated booking search used by both
// backends: agency set, status set, never-expired rows only, optional
// renter/property/location/date-range, and a keyword that matches either
// a booking id or a renter name pattern.
func GetBookings(ctx iris.Context) {
	page := ctx.Params().GetIntDefault("page", 1)
	size := ctx.Params().GetIntDefault("size", 10)
	lang := language(ctx.Params().Get("language"))

	var filter BookingFilter
	if err := ctx.ReadJSON(&filter); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	query := storage.DB.Model(&models.Booking{}).
		Where("bookings.expire_at IS NULL OR bookings.expire_at > ?", time.Now())

	if len(filter.Agencies) > 0 {
		query = query.Where("bookings.agency_id IN ?", filter.Agencies)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("bookings.status IN ?", filter.Statuses)
	}
	if filter.User != nil {
		query = query.Where("bookings.renter_id = ?", *filter.User)
	}
	if filter.Property != nil {
		query = query.Where("bookings.property_id = ?", *filter.Property)
	}
	if filter.Location != nil {
		query = query.Where("bookings.location_id = ?", *filter.Location)
	}
	if filter.From != nil {
		query = query.Where("bookings.from_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("bookings.to_date <= ?", *filter.To)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		if id, err := strconv.ParseUint(keyword, 10, 32); err == nil {
			query = query.Where("bookings.id = ?", uint(id))
		} else {
			query = query.
				Joins("JOIN users ON users.id = bookings.renter_id").
				Where("LOWER(users.full_name) LIKE ?", "%"+strings.ToLower(keyword)+"%")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.BadRequest(ctx, "failed to count bookings", err)
		return
	}

	var bookings []models.Booking
	err := query.
		Preload("Agency").
		Preload("Renter").
		Preload("Property").
		Preload("Location.Values", "language = ?", lang).
		Order("bookings.created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&bookings).Error
	if err != nil {
		utils.BadRequest(ctx, "failed to load bookings", err)
		return
	}

	utils.JSONFacet(ctx, bookings, total)
}

// HasBookings answers 200 when the renter has at least one booking.
func HasBookings(ctx iris.Context) {
	renterID, err := ctx.Params().GetUint("renter")
	if err != nil {
		utils.BadRequest(ctx, "invalid renter id", err)
		return
	}

	var count int64
	if err := storage.DB.Model(&models.Booking{}).
		Where("renter_id = ?", renterID).Count(&count).Error; err != nil {
		utils.BadRequest(ctx, "failed to count bookings", err)
		return
	}

	if count == 0 {
		utils.NoContent(ctx)
		return
	}
	ctx.JSON(iris.Map{"count": count})
}

// CancelBooking records a renter's cancellation request and tells the
// agency. It is idempotent: bookings without the cancellation option or
// with a request already pending answer 204 and change nothing.
func CancelBooking(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.BadRequest(ctx, "invalid booking id", err)
		return
	}

	var booking models.Booking
	if err := storage.DB.First(&booking, id).Error; err != nil {
		utils.NoContent(ctx)
		return
	}

	if !booking.Cancellation || booking.CancelRequest {
		utils.NoContent(ctx)
		return
	}

	booking.CancelRequest = true
	if err := storage.DB.Save(&booking).Error; err != nil {
		utils.BadRequest(ctx, "failed to save cancellation request", err)
		return
	}

	var agency models.User
	if err := storage.DB.First(&agency, booking.AgencyID).Error; err == nil {
		message := utils.T(agency.Language, utils.MsgBookingCancelRequest, booking.ID)
		if err := services.Notify(&agency, &booking.ID, message); err != nil {
			log.Printf("cancel booking %d: agency notification failed: %v", booking.ID, err)
		}
	}

	ctx.JSON(iris.Map{"cancelRequest": true})
}

func language(lang string) string {
	if lang == "" {
		return "en"
	}
	return lang
}
