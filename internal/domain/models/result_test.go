package models_test

import (
	"testing"

	"github.com/linemk/shop-admin/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOrderResult_Envelope(t *testing.T) {
	body := []byte(`{"order":{"id":5,"status":"shipped","created_at":"2024-01-01T00:00:00Z"},"user_whatsapp_link":"https://wa.me/201000?text=hi"}`)

	res, err := models.DecodeOrderResult(body)
	require.NoError(t, err)
	assert.True(t, res.Enveloped)
	assert.True(t, res.Notified())
	assert.Equal(t, int64(5), res.Order.ID)
	assert.Equal(t, models.StatusShipped, res.Order.Status)
	assert.Equal(t, "https://wa.me/201000?text=hi", res.NotifyLink)
}

func TestDecodeOrderResult_EnvelopeWithoutLink(t *testing.T) {
	res, err := models.DecodeOrderResult([]byte(`{"order":{"id":5,"status":"cancelled"},"user_whatsapp_link":null}`))
	require.NoError(t, err)
	assert.True(t, res.Enveloped)
	assert.False(t, res.Notified())
	assert.Equal(t, models.StatusCancelled, res.Order.Status)
}

func TestDecodeOrderResult_BareOrder(t *testing.T) {
	res, err := models.DecodeOrderResult([]byte(`{"id":9,"customer_name":"Omar","status":"shipped"}`))
	require.NoError(t, err)
	assert.False(t, res.Enveloped)
	assert.False(t, res.Notified())
	assert.Equal(t, int64(9), res.Order.ID)
	assert.Equal(t, "Omar", res.Order.CustomerName)
}

func TestDecodeOrderResult_NullOrderFallsBack(t *testing.T) {
	res, err := models.DecodeOrderResult([]byte(`{"order":null,"id":3,"status":"shipped"}`))
	require.NoError(t, err)
	assert.False(t, res.Enveloped)
	assert.Equal(t, int64(3), res.Order.ID)
}

func TestDecodeOrderResult_Invalid(t *testing.T) {
	_, err := models.DecodeOrderResult([]byte(`not json`))
	assert.Error(t, err)

	_, err = models.DecodeOrderResult([]byte(`{"order":"oops"}`))
	assert.Error(t, err)
}

func TestProduct_DisplayGallery(t *testing.T) {
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, models.Product{ImageURL: "main.jpg", Gallery: []string{"a.jpg", "b.jpg"}}.DisplayGallery())
	assert.Equal(t, []string{"main.jpg"}, models.Product{ImageURL: "main.jpg"}.DisplayGallery())
	assert.Empty(t, models.Product{}.DisplayGallery())
}
