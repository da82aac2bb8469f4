package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Event struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name" validate:"required"`
	Description  string             `bson:"description" json:"description" validate:"required"`
	Date         string             `bson:"date" json:"date" validate:"required"` // kept verbatim, e.g. "2025-10-01"
	VenueID      string             `bson:"venue_id" json:"venue_id" validate:"required"`
	MaxAttendees *int               `bson:"max_attendees" json:"max_attendees" validate:"required,gte=0"`
}

func (e Event) Fields() map[string]any {
	return map[string]any{
		"name":          e.Name,
		"description":   e.Description,
		"date":          e.Date,
		"venue_id":      e.VenueID,
		"max_attendees": e.MaxAttendees,
	}
}
