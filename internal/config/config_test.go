package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 配置键大量使用下划线命名，必须经由 viper 的 mapstructure 标签解析；
// 这里用仓库自带的 configs/config.yaml 验证各下划线键都能映射到字段
func TestLoadConfigMapsUnderscoredKeys(t *testing.T) {
	// 避免 local 存储分支在测试目录下创建 uploads
	t.Setenv("STORAGE_TYPE", "minio")

	cfg, err := LoadConfig("../../configs")
	require.NoError(t, err)

	assert.Equal(t, "uploads", cfg.Storage.LocalPath)
	assert.Equal(t, "Learnova", cfg.Certificate.BrandName)
	assert.Equal(t, "https://learnova.io/verify", cfg.Certificate.VerifyURL)
	assert.Equal(t, "noreply@learnova.io", cfg.Email.FromEmail)
	assert.Equal(t, "Learnova", cfg.Email.FromName)
	assert.Equal(t, 72*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 100000, cfg.RateLimit.MaxRequests)
}
