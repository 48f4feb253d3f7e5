package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"yt-insights/domain/dto"
	"yt-insights/usecase"
)

// maxImportBody bounds the import request body.
const maxImportBody = 64 << 10

type IChannelHandler interface {
	Import(ctx *gin.Context)
	ListChannels(ctx *gin.Context)
	GetChannel(ctx *gin.Context)
	ListVideos(ctx *gin.Context)
}

type ChannelHandler struct {
	importUseCase  usecase.IImportUseCase
	channelUseCase usecase.IChannelUseCase
	log            *logrus.Logger
}

func NewChannelHandler(importUseCase usecase.IImportUseCase, channelUseCase usecase.IChannelUseCase, log *logrus.Logger) IChannelHandler {
	return &ChannelHandler{importUseCase: importUseCase, channelUseCase: channelUseCase, log: log}
}

// Import handles POST /channels/import
func (h *ChannelHandler) Import(ctx *gin.Context) {
	req, ok := h.decodeImportRequest(ctx)
	if !ok {
		return
	}
	res, err := h.importUseCase.Import(ctx.Request.Context(), req.ChannelURLOrID)
	if err != nil {
		respondError(ctx, h.log, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

// decodeImportRequest accepts a JSON body or base64-encoded JSON.
func (h *ChannelHandler) decodeImportRequest(ctx *gin.Context) (dto.ChannelImportRequest, bool) {
	var req dto.ChannelImportRequest
	raw, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxImportBody))
	if err != nil {
		abortWithError(ctx, http.StatusBadRequest, dto.CodeInvalidRequest, "failed to read request body")
		return req, false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return req, true
	}
	if err := json.Unmarshal(raw, &req); err == nil {
		return req, true
	}
	if decoded, err := base64.StdEncoding.DecodeString(string(raw)); err == nil {
		if err := json.Unmarshal(decoded, &req); err == nil {
			return req, true
		}
	}
	h.log.WithField("requestId", ctx.GetString("request_id")).Warn("Undecodable import body")
	abortWithError(ctx, http.StatusBadRequest, dto.CodeInvalidRequest, "request body must be valid JSON")
	return req, false
}

// ListChannels handles GET /channels
func (h *ChannelHandler) ListChannels(ctx *gin.Context) {
	var query dto.ChannelListQuery
	_ = ctx.ShouldBindQuery(&query)

	res, err := h.channelUseCase.ListChannels(ctx.Request.Context(), query)
	if err != nil {
		respondError(ctx, h.log, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

// GetChannel handles GET /channels/:id
func (h *ChannelHandler) GetChannel(ctx *gin.Context) {
	id, ok := channelIDParam(ctx)
	if !ok {
		return
	}
	res, err := h.channelUseCase.GetChannelDetail(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, h.log, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

// ListVideos handles GET /channels/:id/videos
func (h *ChannelHandler) ListVideos(ctx *gin.Context) {
	id, ok := channelIDParam(ctx)
	if !ok {
		return
	}
	var query dto.VideoListQuery
	_ = ctx.ShouldBindQuery(&query)

	res, err := h.channelUseCase.ListChannelVideos(ctx.Request.Context(), id, query)
	if err != nil {
		respondError(ctx, h.log, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

func channelIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(ctx, http.StatusBadRequest, dto.CodeInvalidParameter, "channel id must be a positive integer")
		return 0, false
	}
	return id, true
}
