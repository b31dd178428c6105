package qrgen

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rail-ticketing/internal/models"
)

func testTicket() models.Ticket {
	return models.Ticket{
		ID:           1,
		TicketNumber: "TKT-1731225600000-042",
		UserID:       2,
		RouteID:      1,
		From:         "Kyiv",
		To:           "Lviv",
		Status:       models.StatusPaid,
	}
}

func TestEncodePNG(t *testing.T) {
	gen := NewGenerator("test-secret")

	png, err := gen.EncodePNG(testTicket())
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "expected a PNG header")
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	gen := NewGenerator("test-secret")
	ticket := testTicket()

	data, err := encryptAES([]byte(`{"id":1,"ticketNumber":"TKT-1731225600000-042","status":"paid"}`), gen.secret)
	require.NoError(t, err)

	decoded, err := gen.Decrypt(data)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, decoded.ID)
	assert.Equal(t, ticket.TicketNumber, decoded.TicketNumber)
	assert.Equal(t, models.StatusPaid, decoded.Status)
}

func TestDecryptWithWrongSecret(t *testing.T) {
	gen := NewGenerator("test-secret")
	other := NewGenerator("another-secret")

	data, err := encryptAES([]byte(`{"id":1}`), gen.secret)
	require.NoError(t, err)

	// Wrong key yields garbage that fails to decode as a ticket.
	_, err = other.Decrypt(data)
	assert.Error(t, err)
}
