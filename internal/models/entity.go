package models

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/joshua-takyi/eventhub/internal/helpers"
)

// Record is a typed entity that can expose its persisted fields as a flat map
// for sanitization.
type Record interface {
	Fields() map[string]any
}

type FieldType int

const (
	StringField FieldType = iota
	NullableStringField
	IntField
)

// Schema maps every mutable field of an entity to its type. Its key set is the
// entity's update allowlist.
type Schema map[string]FieldType

// Entity describes one of the CRUD resources exposed by the API.
type Entity struct {
	Name       string
	Collection string
	Schema     Schema
}

func (s Schema) Allowed() helpers.FieldSet {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	return helpers.NewFieldSet(names...)
}

// Coerce checks the values of a filtered update against the schema and
// normalizes JSON numbers for integer fields.
func (s Schema) Coerce(fields map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		ft, ok := s[k]
		if !ok {
			continue
		}
		switch ft {
		case StringField:
			str, ok := v.(string)
			if !ok {
				return nil, helpers.RejectedInput(k, fmt.Sprintf("%s must be a string", k))
			}
			out[k] = str
		case NullableStringField:
			if v == nil {
				out[k] = nil
				continue
			}
			str, ok := v.(string)
			if !ok {
				return nil, helpers.RejectedInput(k, fmt.Sprintf("%s must be a string or null", k))
			}
			out[k] = str
		case IntField:
			n, ok := toInt(v)
			if !ok {
				return nil, helpers.RejectedInput(k, fmt.Sprintf("%s must be an integer", k))
			}
			out[k] = n
		}
	}
	return out, nil
}

// Integers beyond 2^53 cannot arrive intact through a JSON float.
const maxExactFloatInt = 1 << 53

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > maxExactFloatInt {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

var (
	EventEntity = Entity{
		Name:       "Event",
		Collection: "events",
		Schema: Schema{
			"name":          StringField,
			"description":   StringField,
			"date":          StringField,
			"venue_id":      StringField,
			"max_attendees": IntField,
		},
	}

	AttendeeEntity = Entity{
		Name:       "Attendee",
		Collection: "attendees",
		Schema: Schema{
			"name":  StringField,
			"email": StringField,
			"phone": NullableStringField,
		},
	}

	VenueEntity = Entity{
		Name:       "Venue",
		Collection: "venues",
		Schema: Schema{
			"name":     StringField,
			"address":  StringField,
			"capacity": IntField,
		},
	}

	BookingEntity = Entity{
		Name:       "Booking",
		Collection: "bookings",
		Schema: Schema{
			"event_id":    StringField,
			"attendee_id": StringField,
			"ticket_type": StringField,
			"quantity":    IntField,
		},
	}
)
