package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Venue struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name" validate:"required"`
	Address  string             `bson:"address" json:"address" validate:"required"`
	Capacity *int               `bson:"capacity" json:"capacity" validate:"required,gte=0"`
}

func (v Venue) Fields() map[string]any {
	return map[string]any{
		"name":     v.Name,
		"address":  v.Address,
		"capacity": v.Capacity,
	}
}
