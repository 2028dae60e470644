package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTriggerPayloadMailoutID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "flat mailout_id", body: `{"mailout_id":"m-1"}`, want: "m-1"},
		{name: "flat page_id", body: `{"page_id":"p-1"}`, want: "p-1"},
		{name: "data id", body: `{"data":{"id":"d-1"}}`, want: "d-1"},
		{name: "data page_id", body: `{"data":{"page_id":"dp-1"}}`, want: "dp-1"},
		{name: "data entity id", body: `{"data":{"entity":{"id":"e-1"}}}`, want: "e-1"},
		{name: "mailout_id wins over nested", body: `{"mailout_id":"m-1","data":{"id":"d-1"}}`, want: "m-1"},
		{name: "empty body", body: `{}`, want: ""},
		{name: "unrecognized nesting ignored", body: `{"payload":{"deep":{"id":"1234567890abcdef"}}}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			payload, err := parseTriggerPayload([]byte(tt.body))
			require.NoError(t, err)
			require.Equal(t, tt.want, payload.mailoutID())
		})
	}
}

func TestParseTriggerPayloadRejectsBadJSON(t *testing.T) {
	t.Parallel()

	_, err := parseTriggerPayload([]byte("{not json"))
	require.Error(t, err)
}
