package handler

import (
	"Inkstone/internal/api/config"
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/minio"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/pkg/response"
	"Inkstone/internal/pkg/util"
	"Inkstone/internal/service"
	"bytes"
	"image"
	"io"
	log "log/slog"
	"path"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type MediaHandler struct{}

func NewMediaHandler() *MediaHandler {
	return &MediaHandler{}
}

// Upload 上传图片：原图和缩略图都进 MinIO，
// 对象名登记到临时媒体清单，等待被帖子或头像引用
func (s *MediaHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	maxSize := config.Cfg.Media.MaxUploadSize * 1024 * 1024
	if maxSize > 0 && file.Size > maxSize {
		response.Error(c, service.ErrFileTooLarge)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	contentType, err := util.GetSafeContentType(reader)
	if err != nil || !strings.HasPrefix(contentType, consts.MimePrefixImage) {
		response.Error(c, service.ErrFileNotSupported)
		return
	}

	img, err := imaging.Decode(reader, imaging.AutoOrientation(true))
	if err != nil {
		response.Error(c, service.ErrFileNotSupported)
		return
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	ext := path.Ext(file.Filename)
	objectName := time.Now().Format("2006/01/02/") + uuid.NewString() + ext

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		response.Error(c, service.UnExpectedError)
		return
	}
	fileKey, err := minio.UploadFile(c.Request.Context(), objectName, reader, file.Size, contentType)
	if err != nil {
		log.ErrorContext(c.Request.Context(), "MinIO upload failed", "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}

	thumbnailURL := ""
	maxEdge := config.Cfg.Media.ThumbnailMaxEdge
	if maxEdge > 0 && (width > maxEdge || height > maxEdge) {
		thumbKey, err := s.uploadThumbnail(c, img, objectName, ext, maxEdge)
		if err != nil {
			log.WarnContext(c.Request.Context(), "thumbnail upload failed", "fileKey", fileKey, "err", err)
		} else {
			thumbnailURL = minio.GetPublicURL(thumbKey)
		}
	}

	meta := dto.MediaTempMetadata{
		MimeType:  contentType,
		CreatedAt: time.Now().Unix(),
	}
	metaBytes, _ := json.Marshal(meta)
	_ = redis.HSetField(c.Request.Context(), consts.MediaTempKey, fileKey, string(metaBytes))

	log.InfoContext(c.Request.Context(), "media upload success", "fileKey", fileKey, "type", contentType)
	response.Success(c, dto.MediaUploadDTO{
		ObjectName:   fileKey,
		URL:          minio.GetPublicURL(fileKey),
		ThumbnailURL: thumbnailURL,
		Width:        width,
		Height:       height,
	})
}

func (s *MediaHandler) uploadThumbnail(c *gin.Context, img image.Image, objectName, ext string, maxEdge int) (string, error) {
	thumb := imaging.Fit(img, maxEdge, maxEdge, imaging.Lanczos)

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		format = imaging.JPEG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, format); err != nil {
		return "", err
	}

	thumbKey := "thumb_" + objectName
	contentType := "image/jpeg"
	if format == imaging.PNG {
		contentType = "image/png"
	}
	return minio.UploadFile(c.Request.Context(), thumbKey, &buf, int64(buf.Len()), contentType)
}
