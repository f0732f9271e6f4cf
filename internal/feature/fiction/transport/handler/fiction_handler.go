// Package handler はfictionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"fiction_backend/internal/api"
	"fiction_backend/internal/feature/fiction/domain/entity"
	"fiction_backend/internal/feature/fiction/transport/http/dto"
	"fiction_backend/internal/feature/fiction/usecase"
	"fiction_backend/internal/platform/http/apierror"
	jwtmw "fiction_backend/internal/platform/jwt"
)

const (
	msgNotFound          = "Fiction not found"
	msgNotFoundForUpdate = "Fiction not found or you don't have permission to update it"
	msgNotFoundForDelete = "Fiction not found or you don't have permission to delete it"
	msgNoFieldsToUpdate  = "No fields to update"
	msgDeleted           = "Fiction deleted successfully"
	msgValidationFailed  = "Validation failed"
)

// FictionUsecase はフィクション操作のユースケースを定義します。
type FictionUsecase interface {
	List(ctx context.Context) ([]*entity.Fiction, error)
	Get(ctx context.Context, id string) (*entity.Fiction, error)
	Create(ctx context.Context, in usecase.CreateInput) (*entity.Fiction, error)
	Update(ctx context.Context, id, owner string, upd usecase.FictionUpdate) (*entity.Fiction, error)
	Delete(ctx context.Context, id, owner string) error
}

// FictionHandler はフィクションのCRUDエンドポイントを処理します。
type FictionHandler struct {
	fictions FictionUsecase
}

// NewFictionHandler はFictionHandlerを生成します。
func NewFictionHandler(fictions FictionUsecase) *FictionHandler {
	return &FictionHandler{fictions: fictions}
}

// List は GET /fictions を処理します。認証は不要です。
func (h *FictionHandler) List(c *gin.Context) {
	fictions, err := h.fictions.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	out := make([]api.FictionResponse, 0, len(fictions))
	for _, f := range fictions {
		out = append(out, toFictionResponse(f))
	}
	c.JSON(http.StatusOK, out)
}

// Get は GET /fictions/:id を処理します。認証は不要です。
func (h *FictionHandler) Get(c *gin.Context) {
	f, err := h.fictions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrFictionNotFound) {
			apierror.Abort(c, http.StatusNotFound, msgNotFound)
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toFictionResponse(f))
}

// Create は POST /fictions を処理します。
// created_byはリクエストボディではなく認証済みのIDから設定します。
func (h *FictionHandler) Create(c *gin.Context) {
	identity, ok := jwtmw.IdentityFrom(c)
	if !ok {
		apierror.Abort(c, http.StatusUnauthorized, jwtmw.MsgInvalidCredentials)
		return
	}

	var req dto.CreateFictionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.AbortWithDetail(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	f, err := h.fictions.Create(c.Request.Context(), usecase.CreateInput{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Description: *req.Description,
		Content:     req.Content,
		CreatedBy:   identity.UserID,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidGenre) {
			apierror.AbortWithDetail(c, http.StatusBadRequest, msgValidationFailed, err.Error())
			return
		}
		_ = c.Error(err)
		return
	}

	slog.Info("fiction created", "fiction_id", f.ID, "user_id", identity.UserID)
	c.JSON(http.StatusCreated, toFictionResponse(f))
}

// Update は PUT /fictions/:id を処理します。
// 指定されたフィールドのみを更新し、nullと未指定はどちらも変更なしとして扱います。
func (h *FictionHandler) Update(c *gin.Context) {
	identity, ok := jwtmw.IdentityFrom(c)
	if !ok {
		apierror.Abort(c, http.StatusUnauthorized, jwtmw.MsgInvalidCredentials)
		return
	}

	var req dto.UpdateFictionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.AbortWithDetail(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	id := c.Param("id")
	f, err := h.fictions.Update(c.Request.Context(), id, identity.UserID, usecase.FictionUpdate{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Description: req.Description,
		Content:     req.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrFictionNotFoundOrForbidden):
			apierror.Abort(c, http.StatusNotFound, msgNotFoundForUpdate)
		case errors.Is(err, usecase.ErrFictionNotFound):
			apierror.Abort(c, http.StatusNotFound, msgNotFound)
		case errors.Is(err, usecase.ErrNoFieldsToUpdate):
			apierror.Abort(c, http.StatusBadRequest, msgNoFieldsToUpdate)
		case errors.Is(err, usecase.ErrInvalidGenre):
			apierror.AbortWithDetail(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		default:
			_ = c.Error(err)
		}
		return
	}

	slog.Info("fiction updated", "fiction_id", id, "user_id", identity.UserID)
	c.JSON(http.StatusOK, toFictionResponse(f))
}

// Delete は DELETE /fictions/:id を処理します。
func (h *FictionHandler) Delete(c *gin.Context) {
	identity, ok := jwtmw.IdentityFrom(c)
	if !ok {
		apierror.Abort(c, http.StatusUnauthorized, jwtmw.MsgInvalidCredentials)
		return
	}

	id := c.Param("id")
	if err := h.fictions.Delete(c.Request.Context(), id, identity.UserID); err != nil {
		if errors.Is(err, usecase.ErrFictionNotFoundOrForbidden) {
			apierror.Abort(c, http.StatusNotFound, msgNotFoundForDelete)
			return
		}
		_ = c.Error(err)
		return
	}

	slog.Info("fiction deleted", "fiction_id", id, "user_id", identity.UserID)
	c.JSON(http.StatusOK, api.MessageResponse{Message: msgDeleted})
}

func toFictionResponse(f *entity.Fiction) api.FictionResponse {
	return api.FictionResponse{
		ID:          f.ID,
		Title:       f.Title,
		Author:      f.Author,
		Genre:       f.Genre,
		Description: f.Description,
		Content:     f.Content,
		CreatedBy:   f.CreatedBy,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}
