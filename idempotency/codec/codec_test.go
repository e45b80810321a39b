package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"encore.app/idempotency/model"
)

func TestJSON_RoundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		entry model.Entry
	}{
		{
			name:  "in_flight_marker",
			entry: model.NewInFlightEntry("6f1c2a8e-1f0b-4a7e-9d52-0b8f6c0f3a11"),
		},
		{
			name: "completed_plain_body",
			entry: model.Entry{
				RequestMethod:       "POST",
				RequestPath:         "/v6/TestingIdempotentAPI/test",
				RequestDataHash:     "4f53cda18c2baa0c0354bb5f9a3ecbe5ed12ab4d8e11ba873c2f11161202b945",
				ResponseStatusCode:  200,
				ResponseContentType: "application/json",
				ResponseHeaders: map[string][]string{
					"Content-Type":   {"application/json"},
					"Content-Length": {"27"},
				},
				ResponseBody: model.PlainBody([]byte(`{"id":1,"name":"first"}`)),
			},
		},
		{
			name: "completed_created_at_route_with_multi_value_headers",
			entry: model.Entry{
				RequestMethod:       "PATCH",
				RequestPath:         "/v6/TestingIdempotentAPI/createdAtRoute",
				RequestQueryString:  "?delaySeconds=1",
				RequestDataHash:     "abc",
				ResponseStatusCode:  201,
				ResponseContentType: "application/json",
				ResponseHeaders: map[string][]string{
					"Set-Cookie": {"a=1", "b=2"},
					"Vary":       {"Accept", "Accept-Encoding"},
				},
				ResponseBody: model.CreatedAtRouteBody(
					"GetItem",
					map[string]string{"id": "42", "version": "6"},
					[]byte(`{"id":42}`),
				),
			},
		},
		{
			name: "completed_without_body",
			entry: model.Entry{
				RequestMethod:      "POST",
				RequestPath:        "/empty",
				RequestDataHash:    "abc",
				ResponseStatusCode: 204,
			},
		},
	}

	var c JSON
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := c.Encode(tc.entry)
			require.NoError(t, err)

			decoded, err := c.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tc.entry, decoded)
		})
	}
}

func TestJSON_EncodeIsDeterministic(t *testing.T) {
	entry := model.Entry{
		RequestMethod:      "POST",
		RequestPath:        "/x",
		RequestDataHash:    "h",
		ResponseStatusCode: 200,
		ResponseHeaders: map[string][]string{
			"B": {"2"}, "A": {"1"}, "C": {"3"},
		},
	}

	var c JSON
	first, err := c.Encode(entry)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := c.Encode(entry)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestJSON_DecodeRejectsMalformedInput(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "whitespace", input: "   "},
		{name: "not_json", input: "not json"},
		{name: "truncated", input: `{"Request.Inflight":"6f1c`},
		{name: "empty_object", input: `{}`},
		{name: "unknown_field", input: `{"Request.Inflight":"6f1c2a8e-1f0b-4a7e-9d52-0b8f6c0f3a11","Other":1}`},
		{name: "invalid_uuid", input: `{"Request.Inflight":"not-a-uuid"}`},
		{name: "mixed_shapes", input: `{"Request.Inflight":"6f1c2a8e-1f0b-4a7e-9d52-0b8f6c0f3a11","Response.StatusCode":200}`},
		{name: "completed_without_status", input: `{"Request.Method":"POST","Request.DataHash":"x"}`},
		{name: "unknown_result_type", input: `{"Request.Method":"POST","Response.StatusCode":200,"Context.Result":{"ResultType":"Microsoft.AspNetCore.Mvc.OkObjectResult"}}`},
		{name: "trailing_data", input: `{"Request.Inflight":"6f1c2a8e-1f0b-4a7e-9d52-0b8f6c0f3a11"}{}`},
	}

	var c JSON
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Decode([]byte(tc.input))
			assert.ErrorIs(t, err, ErrSerialization)
		})
	}
}

func TestJSON_EncodeRejectsInvalidShapes(t *testing.T) {
	var c JSON

	_, err := c.Encode(model.Entry{})
	assert.ErrorIs(t, err, ErrSerialization)

	_, err = c.Encode(model.Entry{
		RequestInFlightID:  "6f1c2a8e-1f0b-4a7e-9d52-0b8f6c0f3a11",
		ResponseStatusCode: 200,
	})
	assert.ErrorIs(t, err, ErrSerialization)
}
