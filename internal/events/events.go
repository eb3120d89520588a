package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	BookingCreated    = "booking_created"
	BookingCheckedIn  = "booking_checked_in"
	BookingCheckedOut = "booking_checked_out"
	BookingCancelled  = "booking_cancelled"
	BookingNoShow     = "booking_no_show"
	BookingDeleted    = "booking_deleted"
)

// BookingTypes lista todos los eventos de reserva (para suscribirse a todos).
var BookingTypes = []string{
	BookingCreated,
	BookingCheckedIn,
	BookingCheckedOut,
	BookingCancelled,
	BookingNoShow,
	BookingDeleted,
}

// BookingPayload es la foto mínima de una reserva para los consumidores.
type BookingPayload struct {
	BookingID string `json:"booking_id"`
	DogID     string `json:"dog_id"`
	DogName   string `json:"dog_name"`
	BookedBy  string `json:"booked_by"`
	Date      string `json:"date"`
	Status    string `json:"status"`
}

type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

type Handler func(event *Event) error

// Bus es un pub/sub en proceso.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

func (b *Bus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], h)
}

// Publish notifica a los suscriptores en el goroutine del caller.
func (b *Bus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, h := range handlers {
		_ = h(event)
	}
}

// PublishJSON serializa el payload y publica. Un bus nil no hace nada.
func (b *Bus) PublishJSON(eventType string, payload any) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}

// Decode deserializa el payload de un evento.
func Decode[T any](e *Event) (T, error) {
	var out T
	err := json.Unmarshal(e.Payload, &out)
	return out, err
}
