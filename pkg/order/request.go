package order

import (
	"bytes"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Field is a single request body member captured during decoding. Type
// keeps the JSON kind so integer and float literals stay distinguishable.
type Field struct {
	Set  bool
	Type jx.Type
	Str  string
	Num  jx.Num
}

func (f *Field) decode(d *jx.Decoder) error {
	f.Set = true
	f.Type = d.Next()
	switch f.Type {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return err
		}
		f.Str = s
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return err
		}
		f.Num = append(jx.Num(nil), n...)
	default:
		return d.Skip()
	}
	return nil
}

// isInt reports whether the number was written as an integer literal.
func (f Field) isInt() bool {
	return f.Type == jx.Number && !bytes.ContainsAny(f.Num, ".eE")
}

// CreateRequest is the body of POST /orders.
type CreateRequest struct {
	CustomerName Field
	ProductName  Field
	Quantity     Field
	Price        Field
}

// CreateParams are the validated values an order is built from.
type CreateParams struct {
	CustomerName string
	ProductName  string
	Quantity     int64
	Price        float64
}

// DecodeCreateRequest parses a create body. Unknown members are ignored.
func DecodeCreateRequest(body []byte) (CreateRequest, error) {
	var req CreateRequest
	err := decodeObject(body, func(d *jx.Decoder, key string) error {
		switch key {
		case "customer_name":
			return req.CustomerName.decode(d)
		case "product_name":
			return req.ProductName.decode(d)
		case "quantity":
			return req.Quantity.decode(d)
		case "price":
			return req.Price.decode(d)
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return CreateRequest{}, errors.Wrap(err, "decode order")
	}
	return req, nil
}

// Validate checks required fields in the order customer_name, product_name,
// quantity, price and reports the first failure.
func (r CreateRequest) Validate() (CreateParams, error) {
	for _, f := range []struct {
		name  string
		field Field
	}{
		{"customer_name", r.CustomerName},
		{"product_name", r.ProductName},
		{"quantity", r.Quantity},
		{"price", r.Price},
	} {
		if !f.field.Set || f.field.Type == jx.Null || (f.field.Type == jx.String && f.field.Str == "") {
			return CreateParams{}, missingField(f.name)
		}
	}
	if r.CustomerName.Type != jx.String {
		return CreateParams{}, &ValidationError{Field: "customer_name", Reason: "customer_name must be a string"}
	}
	if r.ProductName.Type != jx.String {
		return CreateParams{}, &ValidationError{Field: "product_name", Reason: "product_name must be a string"}
	}

	badQuantity := &ValidationError{Field: "quantity", Reason: "quantity must be a positive integer"}
	if !r.Quantity.isInt() {
		return CreateParams{}, badQuantity
	}
	qty, err := r.Quantity.Num.Int64()
	if err != nil || qty <= 0 {
		return CreateParams{}, badQuantity
	}

	badPrice := &ValidationError{Field: "price", Reason: "price must be a positive number"}
	if r.Price.Type != jx.Number {
		return CreateParams{}, badPrice
	}
	price, err := r.Price.Num.Float64()
	if err != nil || price <= 0 {
		return CreateParams{}, badPrice
	}

	return CreateParams{
		CustomerName: r.CustomerName.Str,
		ProductName:  r.ProductName.Str,
		Quantity:     qty,
		Price:        price,
	}, nil
}

// StatusRequest is the body of PUT /orders/{id}/status.
type StatusRequest struct {
	Status Field
}

// DecodeStatusRequest parses a status update body. A malformed body is a
// ValidationError.
func DecodeStatusRequest(body []byte) (StatusRequest, error) {
	var req StatusRequest
	err := decodeObject(body, func(d *jx.Decoder, key string) error {
		if key == "status" {
			return req.Status.decode(d)
		}
		return d.Skip()
	})
	if err != nil {
		return StatusRequest{}, &ValidationError{Field: "status", Reason: "decode status: " + err.Error()}
	}
	return req, nil
}

// Validate returns the requested status.
func (r StatusRequest) Validate() (Status, error) {
	if !r.Status.Set {
		return "", &ValidationError{Field: "status", Reason: "missing status field"}
	}
	switch r.Status.Type {
	case jx.String:
		return ParseStatus(r.Status.Str)
	case jx.Number:
		return ParseStatus(string(r.Status.Num))
	default:
		return ParseStatus(r.Status.Type.String())
	}
}

func decodeObject(body []byte, fn func(d *jx.Decoder, key string) error) error {
	if !jx.Valid(body) {
		return errors.New("invalid JSON")
	}
	d := jx.DecodeBytes(body)
	if tt := d.Next(); tt != jx.Object {
		return errors.Errorf("request body must be a JSON object, got %s", tt)
	}
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		return fn(d, string(key))
	})
}
