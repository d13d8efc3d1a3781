// Package idcodec converts MongoDB ObjectIDs to and from the string form
// used on the wire. Every id and every reference that crosses the HTTP
// boundary goes through Encode or Decode.
package idcodec

import (
	"fmt"
	"strings"

	"github.com/dalemusser/fittrack/internal/app/system/apierr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Encode returns the canonical (lowercase hex) form of id.
func Encode(id primitive.ObjectID) string {
	return id.Hex()
}

// Decode parses s into an ObjectID. Surrounding whitespace is ignored.
// A malformed string, and the all-zero id, yield apierr.ErrInvalidIdentifier.
func Decode(s string) (primitive.ObjectID, error) {
	s = strings.TrimSpace(s)
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil || oid.IsZero() {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", apierr.ErrInvalidIdentifier, s)
	}
	return oid, nil
}
