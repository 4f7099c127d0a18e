package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTransport(t *testing.T) {
	tr := NewTransport()

	assert.NotNil(t, tr.Proxy)
	assert.NotNil(t, tr.DialContext)
	assert.Equal(t, 100, tr.MaxIdleConns)
	assert.Equal(t, 32, tr.MaxIdleConnsPerHost)
	assert.Equal(t, 5*time.Second, tr.TLSHandshakeTimeout)
	assert.Equal(t, 30*time.Second, tr.ResponseHeaderTimeout)
}
