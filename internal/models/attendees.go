package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Attendee struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name  string             `bson:"name" json:"name" validate:"required"`
	Email string             `bson:"email" json:"email" validate:"required"`
	Phone *string            `bson:"phone" json:"phone"`
}

func (a Attendee) Fields() map[string]any {
	return map[string]any{
		"name":  a.Name,
		"email": a.Email,
		"phone": a.Phone,
	}
}
