package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Booking links an attendee to an event. Neither reference is checked against
// its collection.
type Booking struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	EventID    string             `bson:"event_id" json:"event_id" validate:"required"`
	AttendeeID string             `bson:"attendee_id" json:"attendee_id" validate:"required"`
	TicketType string             `bson:"ticket_type" json:"ticket_type" validate:"required"`
	Quantity   *int               `bson:"quantity" json:"quantity" validate:"required,gte=0"`
}

func (b Booking) Fields() map[string]any {
	return map[string]any{
		"event_id":    b.EventID,
		"attendee_id": b.AttendeeID,
		"ticket_type": b.TicketType,
		"quantity":    b.Quantity,
	}
}
