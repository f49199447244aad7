package kafka

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	t.Parallel()

	ev, err := decodeEvent([]byte(`{
		"user_id": "tg-1",
		"weight": 50,
		"volume": 0.2,
		"category": "clothing",
		"origin": "Guangzhou",
		"destination": "Almaty",
		"description": "cotton t-shirts"
	}`))
	require.NoError(t, err)
	require.Equal(t, "tg-1", ev.UserID)
	require.Equal(t, 50.0, ev.Weight)
	require.Equal(t, "cotton t-shirts", ev.Description)
}

func TestDecodeEventMalformed(t *testing.T) {
	t.Parallel()

	_, err := decodeEvent([]byte(`{not json`))
	require.Error(t, err)
}
