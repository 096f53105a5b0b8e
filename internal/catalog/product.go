package catalog

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Draft is a product candidate. The store assigns the id.
//
// Every field is required and must be truthy: a non-empty string or a
// non-zero number.
type Draft struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Price       Number `json:"price" validate:"required"`
	Thumbnail   string `json:"thumbnail" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Stock       Number `json:"stock" validate:"required"`
}

// Patch holds the fields of a partial update. Nil fields are left unchanged.
// There is no id field: an update never changes a product's identity.
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *Number `json:"price,omitempty"`
	Thumbnail   *string `json:"thumbnail,omitempty"`
	Code        *string `json:"code,omitempty"`
	Stock       *Number `json:"stock,omitempty"`
}

var draftValidator = newDraftValidator()

func newDraftValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// required on a Number means non-zero.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if n, ok := field.Interface().(Number); ok {
			return n.Sign()
		}
		return nil
	}, Number{})

	return v
}

func (d Draft) Validate() error {
	err := draftValidator.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields}
}

func (d Draft) product(id int64) Product {
	return Product{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Thumbnail:   d.Thumbnail,
		Code:        d.Code,
		Stock:       d.Stock,
	}
}

// IsEmpty reports whether the patch names no field.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Apply returns dst with the named fields overwritten.
func (p Patch) Apply(dst Product) Product {
	if p.Title != nil {
		dst.Title = *p.Title
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.Thumbnail != nil {
		dst.Thumbnail = *p.Thumbnail
	}
	if p.Code != nil {
		dst.Code = *p.Code
	}
	if p.Stock != nil {
		dst.Stock = *p.Stock
	}
	return dst
}

// DecodeDraft reads one JSON object into a Draft. Unknown fields, including
// "id", are rejected with ErrValidation.
func DecodeDraft(r io.Reader) (Draft, error) {
	var d Draft
	if err := decodeStrict(r, &d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// DecodePatch reads one JSON object into a Patch. Unknown fields, including
// "id", are rejected with ErrValidation.
func DecodePatch(r io.Reader) (Patch, error) {
	var p Patch
	if err := decodeStrict(r, &p); err != nil {
		return Patch{}, err
	}
	return p, nil
}

const unknownFieldPrefix = "json: unknown field "

func decodeStrict(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if msg := err.Error(); strings.HasPrefix(msg, unknownFieldPrefix) {
			field, _ := strconv.Unquote(strings.TrimPrefix(msg, unknownFieldPrefix))
			return &ValidationError{Unknown: []string{field}}
		}
		return errors.Join(ErrValidation, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.Join(ErrValidation, errors.New("extra data after json object"))
	}
	return nil
}

// ParseID converts a textual id. Anything that is not a base-10 integer
// yields ok == false, which callers report as not found.
func ParseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
