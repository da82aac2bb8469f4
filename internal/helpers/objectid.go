package helpers

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StringTrim strips surrounding whitespace and the quotes clients sometimes
// leave around path values.
func StringTrim(s string) string {
	s = strings.TrimSpace(s)
	return strings.Trim(s, "\"'")
}

// ParseObjectID converts an identifier taken from a URL into an ObjectID. The
// value must be exactly 24 hex characters; nothing is trimmed.
func ParseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &InvalidIDError{Value: id}
	}
	return oid, nil
}

func EncodeObjectID(id primitive.ObjectID) string {
	return id.Hex()
}
