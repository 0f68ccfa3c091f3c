package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = Schema{
	Name: "test",
	Rules: map[string]Rule{
		"name":    {Required: true, Type: String, Tag: "required"},
		"website": {Required: true, Type: String, Tag: "required,url"},
		"count":   {Required: true, Type: Integer, Tag: "gt=0"},
		"year":    {Required: true, Type: Integer},
		"note":    {Type: String},
	},
}

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var out map[string]any
	require.NoError(t, dec.Decode(&out))
	return out
}

func TestValidate_ValidInput(t *testing.T) {
	payload := decode(t, `{"name":"a","website":"https://example.com","count":3,"year":1999}`)

	res := Validate(payload, testSchema)

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.NoError(t, res.Err())
}

func TestValidate_RequiredFields(t *testing.T) {
	res := Validate(map[string]any{}, testSchema)

	assert.False(t, res.Valid)
	assert.Equal(t, []string{
		"count is required",
		"name is required",
		"website is required",
		"year is required",
	}, res.Errors)
}

func TestValidate_TypeChecks(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"string given for integer", `{"count":"3"}`, "count must be an integer"},
		{"fraction given for integer", `{"count":2.5}`, "count must be an integer"},
		{"number given for string", `{"name":7}`, "name must be a string"},
		{"null given for string", `{"name":null}`, "name must be a string"},
		{"empty string", `{"name":""}`, "name is required"},
		{"non-positive count", `{"count":0}`, "count must be greater than 0"},
		{"malformed url", `{"website":"not a url"}`, "website must be a valid URL"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate(decode(t, tc.payload), testSchema)
			assert.False(t, res.Valid)
			assert.Contains(t, res.Errors, tc.want)
		})
	}
}

func TestValidate_IntegerAcceptsWholeFloat(t *testing.T) {
	payload := map[string]any{"name": "a", "website": "https://x.io", "count": float64(4), "year": 2001}

	res := Validate(payload, testSchema)

	assert.True(t, res.Valid, res.Errors)
}

func TestValidate_IntegerAcceptsWholeNumberLiterals(t *testing.T) {
	for _, lit := range []string{"100", "100.0", "1e2", "1.0E2"} {
		t.Run(lit, func(t *testing.T) {
			payload := decode(t, `{"name":"a","website":"https://example.com","count":`+lit+`,"year":1999}`)

			res := Validate(payload, testSchema)

			require.True(t, res.Valid, res.Errors)
			assert.Equal(t, int64(100), res.Values["count"])
		})
	}
}

func TestValidate_IntegerRejectsFractionAndOverflow(t *testing.T) {
	for _, lit := range []string{"100.5", "1e-2", "1e30", "9223372036854775808"} {
		t.Run(lit, func(t *testing.T) {
			payload := decode(t, `{"name":"a","website":"https://example.com","count":3,"year":`+lit+`}`)

			res := Validate(payload, testSchema)

			assert.False(t, res.Valid)
			assert.Equal(t, []string{"year must be an integer"}, res.Errors)
		})
	}
}

func TestValidate_ValuesHoldTypedSchemaFields(t *testing.T) {
	open := testSchema
	open.AllowAdditional = true
	payload := decode(t, `{"name":"a","website":"https://example.com","count":3,"year":1999,"extra":1}`)

	res := Validate(payload, open)

	require.True(t, res.Valid)
	assert.Equal(t, map[string]any{
		"name":    "a",
		"website": "https://example.com",
		"count":   int64(3),
		"year":    int64(1999),
	}, res.Values)
}

func TestValidate_RejectsUnknownKeys(t *testing.T) {
	payload := decode(t, `{"name":"a","website":"https://example.com","count":3,"year":1999,"zeta":1,"alpha":true}`)

	res := Validate(payload, testSchema)

	assert.False(t, res.Valid)
	assert.Equal(t, []string{"alpha is not allowed", "zeta is not allowed"}, res.Errors)
}

func TestValidate_AllowAdditional(t *testing.T) {
	open := testSchema
	open.AllowAdditional = true
	payload := decode(t, `{"name":"a","website":"https://example.com","count":3,"year":1999,"extra":1}`)

	assert.True(t, Validate(payload, open).Valid)
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	payload := decode(t, `{"count":"x","extra":1}`)
	before := len(payload)

	Validate(payload, testSchema)

	assert.Len(t, payload, before)
	assert.Equal(t, "x", payload["count"])
}

func TestResult_Err(t *testing.T) {
	res := Validate(map[string]any{}, testSchema)

	err := res.Err()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, res.Errors, verr.Messages)
	assert.Contains(t, err.Error(), "name is required")
}
