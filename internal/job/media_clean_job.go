package job

import (
	"Inkstone/internal/api/config"
	"Inkstone/internal/api/dto"
	"Inkstone/internal/pkg/consts"
	"Inkstone/internal/pkg/minio"
	"Inkstone/internal/pkg/redis"
	"Inkstone/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
)

// MediaCleanupJob 清理过期且未被任何帖子引用的临时媒体文件
type MediaCleanupJob struct {
	postRepo repository.PostRepo
}

func NewMediaCleanupJob(postRepo repository.PostRepo) *MediaCleanupJob {
	return &MediaCleanupJob{postRepo: postRepo}
}

func (s *MediaCleanupJob) Run() {
	ctx := context.Background()
	log.Info("start media cleanup job")

	allMedia, err := redis.HGetAll(ctx, consts.MediaTempKey)
	if err != nil {
		log.Error("failed to get media temp hash", "err", err)
		return
	}

	now := time.Now().Unix()
	expiration := int64(config.Cfg.Media.TempTTLMinutes) * 60
	count := 0

	for fileKey, val := range allMedia {
		var meta dto.MediaTempMetadata
		if err := json.Unmarshal([]byte(val), &meta); err != nil {
			log.Warn("invalid media meta format", "fileKey", fileKey)
			continue
		}

		if now-meta.CreatedAt <= expiration {
			continue
		}

		// 兜底：确认没有帖子引用后才真正删除
		refCount, err := s.postRepo.CountPostsByImage(ctx, minio.GetPublicURL(fileKey))
		if err != nil || refCount > 0 {
			if refCount > 0 {
				_ = redis.HDelField(ctx, consts.MediaTempKey, fileKey)
			}
			continue
		}

		if err = minio.DeleteFile(ctx, fileKey); err != nil {
			log.Error("failed to delete expired file from minio", "fileKey", fileKey, "err", err)
			continue
		}
		_ = minio.DeleteFile(ctx, "thumb_"+fileKey)

		if err = redis.HDelField(ctx, consts.MediaTempKey, fileKey); err != nil {
			log.Error("failed to remove media token from redis", "fileKey", fileKey, "err", err)
		}

		count++
		log.Info("cleanup expired media resource", "fileKey", fileKey, "mime", meta.MimeType)
	}

	if count > 0 {
		log.Info("media cleanup job finished", "cleaned_count", count)
	}
}
