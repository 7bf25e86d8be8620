package notification

import (
	"encoding/json"
	"fmt"

	"github.com/olahol/melody"
)

type Service interface {
	SendMessage(message string) error
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.Broadcast([]byte(message))
}

// BookingEvent is pushed to connected clients whenever a booking changes
// state, so guest dashboards refresh without polling.
type BookingEvent struct {
	Type      string `json:"type"`
	BookingID uint   `json:"bookingId"`
	ListingID uint   `json:"listingId"`
	GuestID   string `json:"guestId"`
	Status    string `json:"status"`
}

func NewBookingEvent(bookingID, listingID uint, guestID, status string) BookingEvent {
	return BookingEvent{
		Type:      "booking.status",
		BookingID: bookingID,
		ListingID: listingID,
		GuestID:   guestID,
		Status:    status,
	}
}

func (e BookingEvent) Build() string {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf(`{"type":"booking.status","bookingId":%d}`, e.BookingID)
	}
	return string(payload)
}
