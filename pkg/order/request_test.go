package order

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validate(t *testing.T, body string) (CreateParams, error) {
	t.Helper()
	req, err := DecodeCreateRequest([]byte(body))
	require.NoError(t, err)
	return req.Validate()
}

func TestCreateRequest_Valid(t *testing.T) {
	p, err := validate(t, `{"customer_name":"John Doe","product_name":"Laptop","quantity":2,"price":500.0,"extra":[1,2]}`)
	require.NoError(t, err)
	assert.Equal(t, CreateParams{CustomerName: "John Doe", ProductName: "Laptop", Quantity: 2, Price: 500}, p)
}

func TestCreateRequest_IntegerPrice(t *testing.T) {
	p, err := validate(t, `{"customer_name":"a","product_name":"b","quantity":3,"price":7}`)
	require.NoError(t, err)
	assert.Equal(t, 7.0, p.Price)
}

func TestCreateRequest_MissingField(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"empty object", `{}`, "customer_name"},
		{"customer_name", `{"product_name":"b","quantity":1,"price":1}`, "customer_name"},
		{"product_name", `{"customer_name":"a","quantity":1,"price":1}`, "product_name"},
		{"quantity", `{"customer_name":"a","product_name":"b","price":1}`, "quantity"},
		{"price", `{"customer_name":"a","product_name":"b","quantity":1}`, "price"},
		{"null counts as missing", `{"customer_name":null,"product_name":"b","quantity":1,"price":1}`, "customer_name"},
		{"empty string counts as missing", `{"customer_name":"a","product_name":"","quantity":1,"price":1}`, "product_name"},
		{"first missing wins", `{"customer_name":"a","quantity":-1}`, "product_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validate(t, tt.body)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
			assert.Equal(t, "missing required field: "+tt.field, vErr.Error())
		})
	}
}

func TestCreateRequest_InvalidQuantity(t *testing.T) {
	for _, q := range []string{`0`, `-1`, `1.5`, `2.0`, `1e2`, `"2"`, `true`, `99999999999999999999`} {
		t.Run(q, func(t *testing.T) {
			_, err := validate(t, `{"customer_name":"a","product_name":"b","quantity":`+q+`,"price":1}`)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "quantity", vErr.Field)
			assert.Equal(t, "quantity must be a positive integer", vErr.Error())
		})
	}
}

func TestCreateRequest_InvalidPrice(t *testing.T) {
	for _, p := range []string{`0`, `-100.0`, `"10"`, `false`, `[1]`, `{}`} {
		t.Run(p, func(t *testing.T) {
			_, err := validate(t, `{"customer_name":"a","product_name":"b","quantity":1,"price":`+p+`}`)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "price", vErr.Field)
			assert.Equal(t, "price must be a positive number", vErr.Error())
		})
	}
}

func TestCreateRequest_NonStringName(t *testing.T) {
	_, err := validate(t, `{"customer_name":5,"product_name":"b","quantity":1,"price":1}`)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "customer_name", vErr.Field)
}

func TestDecodeCreateRequest_Malformed(t *testing.T) {
	for _, body := range []string{``, `{`, `[]`, `null`, `"order"`, `{"quantity":}`} {
		t.Run(body, func(t *testing.T) {
			_, err := DecodeCreateRequest([]byte(body))
			require.Error(t, err)
			var vErr *ValidationError
			assert.False(t, errors.As(err, &vErr))
		})
	}
}

func TestDecodeCreateRequest_ErrorMessage(t *testing.T) {
	_, err := DecodeCreateRequest([]byte(`not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
	assert.NotContains(t, err.Error(), "null")

	_, err = DecodeCreateRequest([]byte(`[1]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a JSON object, got array")
}

func TestDecodeStatusRequest_Malformed(t *testing.T) {
	for _, body := range []string{``, `not json`, `{"status":`, `[]`, `"shipped"`} {
		t.Run(body, func(t *testing.T) {
			_, err := DecodeStatusRequest([]byte(body))
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "status", vErr.Field)
		})
	}
}

func TestStatusRequest(t *testing.T) {
	req, err := DecodeStatusRequest([]byte(`{"status":"shipped"}`))
	require.NoError(t, err)
	st, err := req.Validate()
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, st)

	req, err = DecodeStatusRequest([]byte(`{"state":"shipped"}`))
	require.NoError(t, err)
	_, err = req.Validate()
	require.Error(t, err)
	assert.Equal(t, "missing status field", err.Error())

	for _, body := range []string{`{"status":"invalid_status"}`, `{"status":"Pending"}`, `{"status":3}`, `{"status":null}`} {
		req, err = DecodeStatusRequest([]byte(body))
		require.NoError(t, err)
		_, err = req.Validate()
		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr), body)
		assert.Contains(t, vErr.Error(), "invalid status")
		assert.Contains(t, vErr.Error(), "pending, processing, shipped, delivered, cancelled")
	}
}

func TestParseStatus(t *testing.T) {
	for _, st := range Statuses {
		got, err := ParseStatus(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}
	_, err := ParseStatus("lost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"lost"`)
}
