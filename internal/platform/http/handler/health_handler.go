// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fiction_backend/internal/api"
)

// SystemHandler はヘルスチェックとルートエンドポイントを処理します。
type SystemHandler struct {
	appName   string
	version   string
	apiPrefix string
	now       func() time.Time
}

// NewSystemHandler はSystemHandlerを生成します。apiPrefixはルートレスポンスのdocsに使われます。
func NewSystemHandler(appName, version, apiPrefix string) *SystemHandler {
	return &SystemHandler{appName: appName, version: version, apiPrefix: apiPrefix, now: time.Now}
}

// Health はサービスヘルスチェック用の /health エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func (h *SystemHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, api.HealthResponse{
			Status:    "ok",
			App:       h.appName,
			Version:   h.version,
			Timestamp: h.now().UTC(),
		})
	}
}

// Root は / エンドポイントを処理し、APIの案内を返します。
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, api.RootResponse{
		Message: "Welcome to " + h.appName,
		Version: h.version,
		Docs:    h.apiPrefix,
		Health:  "/health",
	})
}
