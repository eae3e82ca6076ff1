package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8900, cfg.Server.Port)
	assert.Equal(t, "foxread-worker", cfg.Worker.Bin)
	assert.Equal(t, "browser", cfg.Worker.Engine)
	assert.Equal(t, 30*time.Second, cfg.Worker.DefaultTimeout)
	assert.Zero(t, cfg.Worker.MaxWorkers)
	assert.Equal(t, DefaultSocialDomains, cfg.Policy.SocialDomains)
	assert.Equal(t, DefaultComplexDomains, cfg.Policy.ComplexDomains)
	assert.False(t, cfg.Auth.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FOXREAD_PORT", "9000")
	t.Setenv("FOXREAD_WORKER_BIN", "/opt/foxread/worker")
	t.Setenv("FOXREAD_DEFAULT_TIMEOUT", "45s")
	t.Setenv("FOXREAD_COMPLEX_DOMAINS", " zhihu.com, , medium.com ")
	t.Setenv("FOXREAD_MAX_WORKERS", "not-a-number")

	cfg := Load()

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/opt/foxread/worker", cfg.Worker.Bin)
	assert.Equal(t, 45*time.Second, cfg.Worker.DefaultTimeout)
	assert.Equal(t, []string{"zhihu.com", "medium.com"}, cfg.Policy.ComplexDomains)
	assert.Zero(t, cfg.Worker.MaxWorkers, "unparseable values fall back to the default")
}
