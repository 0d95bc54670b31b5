package httpserver

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stocktrail/internal/platform/config"
)

func TestWriteTimeoutFollowsRequestTimeout(t *testing.T) {
	srv := New(config.Server{Addr: ":0", RequestTimeout: 10 * time.Second}, http.NotFoundHandler())
	assert.Equal(t, 15*time.Second, srv.WriteTimeout)
	assert.Equal(t, ":0", srv.Addr)

	srv = New(config.Server{}, http.NotFoundHandler())
	assert.Equal(t, 30*time.Second, srv.WriteTimeout)
}
