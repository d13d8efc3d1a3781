package restapi

import (
	"time"

	"github.com/dalemusser/fittrack/internal/app/system/apierr"
	"github.com/dalemusser/fittrack/internal/app/system/idcodec"
	"github.com/dalemusser/fittrack/internal/app/system/inputval"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	msgRequired   = "This field is required."
	msgDateFormat = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
)

// Fields applies decoded input fields onto a record for a Serializer.
// Input values are pointers so an absent field is distinguishable from a
// zero one. On a full write an absent required field is an error and an
// absent optional field is cleared; on a partial write absent fields are
// left alone.
type Fields struct {
	partial bool
	ve      apierr.ValidationError
	ref     error
}

// NewFields starts a decode. partial is true for PATCH.
func NewFields(partial bool) *Fields {
	return &Fields{partial: partial}
}

func (f *Fields) missing(name string, required bool) bool {
	if f.partial {
		return false
	}
	if required {
		f.ve.Add(name, msgRequired)
		return false
	}
	return true
}

// String sets *dst from in. Optional strings are cleared on a full write.
func (f *Fields) String(name string, in *string, dst *string, required bool) {
	if in != nil {
		*dst = *in
		return
	}
	if f.missing(name, required) {
		*dst = ""
	}
}

// Int sets *dst from in. Integers are always required on a full write.
func (f *Fields) Int(name string, in *int, dst *int) {
	if in != nil {
		*dst = *in
		return
	}
	f.missing(name, true)
}

// Ref decodes a reference id. A malformed id is a reference that cannot
// resolve, so it reports ReferenceNotFound rather than a field error.
// Whether a well-formed id exists is checked by the store.
func (f *Fields) Ref(name string, in *string, dst *primitive.ObjectID) {
	if in == nil {
		f.missing(name, true)
		return
	}
	id, err := idcodec.Decode(*in)
	if err != nil {
		if f.ref == nil {
			f.ref = apierr.MissingReference(name, *in)
		}
		return
	}
	*dst = id
}

// Date parses a YYYY-MM-DD calendar date.
func (f *Fields) Date(name string, in *string, dst *time.Time) {
	if in == nil {
		f.missing(name, true)
		return
	}
	d, ok := inputval.ParseDate(*in)
	if !ok {
		f.ve.Add(name, msgDateFormat)
		return
	}
	*dst = d
}

// Err reports field errors first, then an unresolvable reference.
func (f *Fields) Err() error {
	if !f.ve.Empty() {
		return &f.ve
	}
	return f.ref
}
