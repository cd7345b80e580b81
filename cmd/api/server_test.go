package main

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"storefront-backend/internal/config"
)

func TestNewHTTPServer_WriteTimeoutCoversPublish(t *testing.T) {
	cfg := &config.Config{
		App:     config.AppConfig{Port: "9090"},
		Publish: config.PublishConfig{StepTimeout: 15 * time.Second},
	}

	srv := newHTTPServer(cfg, gin.New())

	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, 70*time.Second, srv.WriteTimeout)
	assert.Greater(t, srv.WriteTimeout, publishNetworkSteps*cfg.Publish.StepTimeout)
	assert.Equal(t, 10*time.Second, srv.ReadHeaderTimeout)
}
