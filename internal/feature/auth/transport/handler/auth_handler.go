// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"fiction_backend/internal/api"
	"fiction_backend/internal/feature/auth/domain/entity"
	"fiction_backend/internal/feature/auth/transport/http/dto"
	"fiction_backend/internal/feature/auth/usecase"
	"fiction_backend/internal/platform/http/apierror"
)

const tokenTypeBearer = "bearer"

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録し、トークンとユーザーを返します。
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error)
	// Login はユーザーを認証し、成功時にトークンとユーザーを返します。
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// AuthUsecaseインターフェースに依存し、JSONリクエスト/レスポンスを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONをRegisterReqにバインド
// - バリデーションエラー時は400を返却
// - メールアドレス・ユーザー名の重複時は400を返却
// - 成功時はトークンとユーザー情報付きで201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		apierror.AbortWithDetail(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	result, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmailAlreadyRegistered):
			slog.Warn("register conflict", "reason", "email", "remote_addr", c.ClientIP())
			apierror.Abort(c, http.StatusBadRequest, "Email already registered")
		case errors.Is(err, usecase.ErrUsernameTaken):
			slog.Warn("register conflict", "reason", "username", "remote_addr", c.ClientIP())
			apierror.Abort(c, http.StatusBadRequest, "Username already taken")
		default:
			_ = c.Error(err)
		}
		return
	}

	slog.Info("user registered", "user_id", result.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, toTokenResponse(result))
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - リクエストJSONをLoginReqにバインド
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却（メールアドレスの存在有無は明かさない）
// - 認証成功時はJWTトークン付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		apierror.AbortWithDetail(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			slog.Warn("login failed", "remote_addr", c.ClientIP())
			apierror.Abort(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		_ = c.Error(err)
		return
	}

	slog.Info("user login successful", "user_id", result.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, toTokenResponse(result))
}

func toTokenResponse(result *usecase.AuthResult) api.TokenResponse {
	return api.TokenResponse{
		Token:     result.Token,
		TokenType: tokenTypeBearer,
		User:      toUserResponse(result.User),
	}
}

// toUserResponse はパスワードハッシュを含まない公開用のユーザー表現に変換します。
func toUserResponse(u *entity.User) api.UserResponse {
	return api.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     openapi_types.Email(u.Email),
		CreatedAt: u.CreatedAt,
	}
}
