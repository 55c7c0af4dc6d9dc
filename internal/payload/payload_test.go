package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		ticketID string
		event    string
	}{
		{"AB12CD34", "Conf"},
		{"ZZZZ9999", "GopherCon Europe 2026"},
		{"A1B2C3D4", "meetup #42 (evening)"},
	}

	for _, tc := range cases {
		raw, err := Encode(tc.ticketID, tc.event)
		require.NoError(t, err)

		id, event, err := Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, tc.ticketID, id)
		assert.Equal(t, tc.event, event)
	}
}

func TestEncodeRejectsDelimiter(t *testing.T) {
	t.Parallel()

	_, err := Encode("AB12CD34", "Conf: Day 2")
	assert.ErrorIs(t, err, ErrUnencodableField)

	_, err = Encode("AB:12", "Conf")
	assert.ErrorIs(t, err, ErrUnencodableField)

	_, err = Encode("", "Conf")
	assert.ErrorIs(t, err, ErrUnencodableField)

	_, err = Encode("AB12CD34", "")
	assert.ErrorIs(t, err, ErrUnencodableField)
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"missing prefix", "AB12CD34:Conf"},
		{"wrong prefix", "PASS:AB12CD34:Conf"},
		{"prefix only", "TICKET:"},
		{"two fields", "TICKET:AB12CD34"},
		{"four fields", "TICKET:AB12CD34:Conf:extra"},
		{"empty id", "TICKET::Conf"},
		{"empty event", "TICKET:AB12CD34:"},
		{"garbage", "garbage-not-a-ticket"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := Decode(tc.raw)
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}
