package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateRandomString 生成 n 位十六进制随机串，用于文件名去重
func GenerateRandomString(n int) string {
	b := make([]byte, (n+1)/2)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%0*d", n, time.Now().UnixNano()%1e9)
	}
	return hex.EncodeToString(b)[:n]
}
