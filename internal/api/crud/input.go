package crud

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"contracts-app/internal/importer"
)

// Date is a JSON date that accepts "2006-01-02", RFC 3339 or any format the
// CSV importer understands. An empty string clears the field.
type Date struct {
	T *time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		d.T = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string")
	}
	t, err := importer.ParseDate(s)
	if err != nil {
		return err
	}
	d.T = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.T == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.T.Format("2006-01-02"))
}

// Set copies *src into *dst when the client sent the field.
func Set[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}

// SetPtr is Set for nullable columns.
func SetPtr[V any](dst **V, src *V) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func SetDate(dst **time.Time, src *Date) {
	if src != nil {
		*dst = src.T
	}
}

// Required rejects a missing value on create and a blank one on any write.
func Required(field string, v *string, create bool) error {
	if v == nil {
		if create {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
	if strings.TrimSpace(*v) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func OneOf[V ~string](field string, v *V, allowed ...V) error {
	if v == nil || slices.Contains(allowed, *v) {
		return nil
	}
	return fmt.Errorf("%s must be one of %v", field, allowed)
}

func Range(field string, v *float64, lo, hi float64) error {
	if v == nil || (*v >= lo && *v <= hi) {
		return nil
	}
	return fmt.Errorf("%s must be between %g and %g", field, lo, hi)
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// CSV readers: nil means the column is absent from the file.

func CSVString(r *importer.Row, field string) *string {
	if !r.Has(field) {
		return nil
	}
	v := r.String(field)
	return &v
}

func CSVDate(r *importer.Row, field string) *Date {
	if !r.Has(field) {
		return nil
	}
	return &Date{T: r.Date(field)}
}

func CSVFloat(r *importer.Row, field string) *float64 {
	if !r.Has(field) {
		return nil
	}
	return r.Float(field)
}

func CSVInt(r *importer.Row, field string) *int64 {
	if !r.Has(field) {
		return nil
	}
	return r.Int(field)
}

func CSVBool(r *importer.Row, field string) *bool {
	if !r.Has(field) {
		return nil
	}
	b := r.Bool(field)
	return &b
}

func CSVEnum[V ~string](r *importer.Row, field string, e importer.Enum) *V {
	if !r.Has(field) {
		return nil
	}
	v := V(r.Enum(field, e))
	return &v
}

// CSVArtists reads the artist credit column as a name list.
func CSVArtists(r *importer.Row, field string) ArtistFields {
	if !r.Has(field) {
		return ArtistFields{}
	}
	names := r.List(field)
	return ArtistFields{Artists: &names}
}
