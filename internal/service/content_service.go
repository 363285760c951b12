package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"learnova_backend/internal/config"
	"learnova_backend/internal/util"
	"learnova_backend/pkg/logger"

	"go.uber.org/zap"
)

// ContentService 处理课程封面、知识点视频、证书模板素材等文件上传
type ContentService struct {
	StorageService *StorageService
	Cfg            *config.Config
}

func NewContentService(storageService *StorageService, cfg *config.Config) *ContentService {
	return &ContentService{
		StorageService: storageService,
		Cfg:            cfg,
	}
}

// UploadImage 上传图片（课程封面、头像、模板背景/签名图），返回可访问的 URL
func (s *ContentService) UploadImage(ctx context.Context, file *multipart.FileHeader, prefix string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	valid := false
	for _, e := range util.AllowedImageExtensions {
		if ext == e {
			valid = true
			break
		}
	}
	if !valid {
		return "", fmt.Errorf("不支持的图片格式: %s", ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// 深度验证 MIME 类型
	if _, err := util.ValidateMimeType(src, []string{util.MimeImage}); err != nil {
		return "", fmt.Errorf("非法的文件内容: %v", err)
	}
	// 重置读取指针
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	filename := prefix + "/" + time.Now().Format("20060102150405") + "_" + util.GenerateRandomString(6) + ext
	return s.StorageService.Upload(ctx, filename, src, file.Size, file.Header.Get("Content-Type"))
}

// VideoUploadResult 视频上传结果
type VideoUploadResult struct {
	URL       string  `json:"url"`
	Thumbnail string  `json:"thumbnail"`
	Duration  float64 `json:"duration"`
	Size      int64   `json:"size"`
}

// UploadTopicVideo 上传知识点视频：先落盘探测时长并截取封面，再推到对象存储
func (s *ContentService) UploadTopicVideo(ctx context.Context, file *multipart.FileHeader) (*VideoUploadResult, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	valid := false
	for _, e := range util.AllowedVideoExtensions {
		if ext == e {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("不支持的视频格式: %s", ext)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// 深度验证 MIME 类型
	if _, err := util.ValidateMimeType(src, []string{util.MimeVideo}); err != nil {
		return nil, fmt.Errorf("非法的文件内容，仅允许视频格式: %v", err)
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	// 临时保存到本地进行处理
	tempDir := filepath.Join(s.Cfg.Storage.LocalPath, "temp")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, err
	}
	videoPath := filepath.Join(tempDir, fmt.Sprintf("topic_video_%d%s", time.Now().UnixNano(), ext))
	defer os.Remove(videoPath)

	dst, err := os.Create(videoPath)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return nil, err
	}
	dst.Close()

	videoFilename := "videos/" + time.Now().Format("20060102150405") + "_" + util.GenerateRandomString(6) + ext
	videoURL, err := s.StorageService.UploadFile(ctx, videoFilename, videoPath, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	// 截取第 3 秒作为封面，失败不阻断上传
	thumbnailFilename := "thumbnails/" + time.Now().Format("20060102150405") + "_" + util.GenerateRandomString(6) + ".jpg"
	thumbnailPath := filepath.Join(tempDir, filepath.Base(thumbnailFilename))
	defer os.Remove(thumbnailPath)

	var thumbnailURL string
	if err := util.GenerateThumbnail(videoPath, thumbnailPath, "3"); err != nil {
		logger.Log.Error("生成视频封面失败", zap.Error(err))
	} else {
		thumbnailURL, err = s.StorageService.UploadFile(ctx, thumbnailFilename, thumbnailPath, "image/jpeg")
		if err != nil {
			logger.Log.Error("上传视频封面失败", zap.Error(err))
			thumbnailURL = ""
		}
	}

	var duration float64
	if info, err := util.GetVideoInfo(videoPath); err == nil {
		duration = info.Duration
	} else {
		logger.Log.Warn("探测视频时长失败", zap.Error(err))
	}

	return &VideoUploadResult{
		URL:       videoURL,
		Thumbnail: thumbnailURL,
		Duration:  duration,
		Size:      file.Size,
	}, nil
}
