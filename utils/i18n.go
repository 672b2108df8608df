package utils

import "fmt"

// Message keys for notification and email texts.
const (
	MsgBookingCreated       = "booking_created"
	MsgBookingStatusChanged = "booking_status_changed"
	MsgBookingCancelRequest = "booking_cancel_request"
	MsgAccountActivation    = "account_activation"
	MsgBookingConfirmed     = "booking_confirmed"
)

var messages = map[string]map[string]string{
	"en": {
		MsgBookingCreated:       "A new booking (#%d) is waiting for your review.",
		MsgBookingStatusChanged: "The status of your booking #%d was updated to %q.",
		MsgBookingCancelRequest: "The renter asked to cancel booking #%d.",
		MsgAccountActivation:    "Welcome! Activate your account with this link: %s",
		MsgBookingConfirmed:     "Your booking #%d is confirmed. You can pay at the property.",
	},
	"fr": {
		MsgBookingCreated:       "Une nouvelle réservation (n°%d) attend votre validation.",
		MsgBookingStatusChanged: "Le statut de votre réservation n°%d est passé à %q.",
		MsgBookingCancelRequest: "Le locataire demande l'annulation de la réservation n°%d.",
		MsgAccountActivation:    "Bienvenue ! Activez votre compte via ce lien : %s",
		MsgBookingConfirmed:     "Votre réservation n°%d est confirmée. Paiement possible sur place.",
	},
}

// T renders a message for the given locale. The locale travels as an
// explicit parameter end to end; there is no process-wide current
// language. Unknown locales fall back to English.
func T(locale, key string, args ...interface{}) string {
	table, ok := messages[locale]
	if !ok {
		table = messages["en"]
	}
	format, ok := table[key]
	if !ok {
		format = messages["en"][key]
	}
	if format == "" {
		return key
	}
	return fmt.Sprintf(format, args...)
}
