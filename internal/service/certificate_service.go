package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"learnova_backend/internal/config"
	"learnova_backend/internal/model"
	"learnova_backend/internal/repository"
	"learnova_backend/internal/util"
	"learnova_backend/pkg/logger"
	"learnova_backend/pkg/monitoring"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 验证结果缓存时长
const verifyCacheTTL = 10 * time.Minute

type CertificateService struct {
	CertRepo         *repository.CertificateRepository
	TemplateRepo     *repository.CertificateTemplateRepository
	EnrollmentRepo   *repository.EnrollmentRepository
	CourseRepo       *repository.CourseRepository
	UserRepo         *repository.UserRepository
	NotificationRepo *repository.NotificationRepository
	Storage          *StorageService
	Email            EmailSender
	Renderer         *CertificateRenderer
	Redis            *redis.Client
	Cfg              *config.Config
}

func NewCertificateService(
	certRepo *repository.CertificateRepository,
	templateRepo *repository.CertificateTemplateRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
	notificationRepo *repository.NotificationRepository,
	storage *StorageService,
	email EmailSender,
	renderer *CertificateRenderer,
	rdb *redis.Client,
	cfg *config.Config,
) *CertificateService {
	return &CertificateService{
		CertRepo:         certRepo,
		TemplateRepo:     templateRepo,
		EnrollmentRepo:   enrollmentRepo,
		CourseRepo:       courseRepo,
		UserRepo:         userRepo,
		NotificationRepo: notificationRepo,
		Storage:          storage,
		Email:            email,
		Renderer:         renderer,
		Redis:            rdb,
		Cfg:              cfg,
	}
}

// GenerateCertificateNumber 生成证书编号：
// CERT-{userID}-{courseID}-{毫秒时间戳}-{8位大写十六进制}
func GenerateCertificateNumber(userID, courseID uint) string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// 极端情况下退化为时间派生，组合中的毫秒时间戳仍保证实际唯一性
		binaryFallback(buf)
	}
	return fmt.Sprintf("%s-%d-%d-%d-%s",
		util.CertificateNumberPrefix,
		userID,
		courseID,
		time.Now().UnixMilli(),
		strings.ToUpper(hex.EncodeToString(buf)),
	)
}

func binaryFallback(buf []byte) {
	nano := time.Now().UnixNano()
	for i := range buf {
		buf[i] = byte(nano >> (8 * i))
	}
}

// ResolveTemplate 模板解析顺序：课程级激活 > 全局默认 > nil（渲染器内置默认样式）
func (s *CertificateService) ResolveTemplate(courseID uint) (*model.CertificateTemplate, error) {
	template, err := s.TemplateRepo.FindActiveForCourse(courseID)
	if err == nil {
		return template, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	template, err = s.TemplateRepo.FindGlobalActive()
	if err == nil {
		return template, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return nil, nil
}

// fetchImage 拉取模板引用的图片：http(s) 地址直接下载，否则按对象存储 key 读取
func (s *CertificateService) fetchImage(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, nil
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch image %s: status %d", ref, resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	return s.Storage.Fetch(ctx, ref)
}

// IssueCertificate 为完成课程的学生签发证书。
// 应用层的存在性检查只是快路径，(user_id, course_id) 唯一约束才是
// 防止并发重复签发的最终保障；撞约束按"已签发"处理并返回已有记录。
func (s *CertificateService) IssueCertificate(ctx context.Context, userID, courseID uint) (*model.Certificate, error) {
	if existing, err := s.CertRepo.FindByUserAndCourse(userID, courseID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}

	template, err := s.ResolveTemplate(courseID)
	if err != nil {
		return nil, err
	}

	var background, signature []byte
	if template != nil {
		if background, err = s.fetchImage(ctx, template.BackgroundURL); err != nil {
			// 背景图拉取失败时降级为无背景渲染
			logger.Log.Warn("fetch template background failed",
				zap.Uint("templateId", template.ID), zap.Error(err))
			background = nil
		}
		if signature, err = s.fetchImage(ctx, template.SignatureURL); err != nil {
			logger.Log.Warn("fetch template signature failed",
				zap.Uint("templateId", template.ID), zap.Error(err))
			signature = nil
		}
	}

	number := GenerateCertificateNumber(userID, courseID)
	verifyURL := ""
	if s.Cfg.Certificate.VerifyURL != "" {
		verifyURL = strings.TrimRight(s.Cfg.Certificate.VerifyURL, "/") + "/" + number
	}
	issuedAt := time.Now()
	grade := "Pass"

	pdf, err := s.Renderer.Render(RenderData{
		StudentName:       user.Name,
		CourseName:        course.Title,
		CertificateNumber: number,
		IssueDate:         issuedAt,
		Grade:             grade,
		VerifyURL:         verifyURL,
		Template:          template,
		Background:        background,
		Signature:         signature,
	})
	if err != nil {
		monitoring.CertificateFailures.WithLabelValues("render").Inc()
		return nil, err
	}

	objectKey := CertificateObjectKey(number)
	certURL, err := s.Storage.Upload(ctx, objectKey, strings.NewReader(string(pdf)), int64(len(pdf)), util.MimePDF)
	if err != nil {
		monitoring.CertificateFailures.WithLabelValues("upload").Inc()
		return nil, fmt.Errorf("%w: %v", util.ErrExternalServiceFailure, err)
	}

	cert := &model.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: number,
		IssuedDate:        issuedAt,
		VerificationURL:   verifyURL,
		Grade:             grade,
		CertificateURL:    certURL,
	}
	if err := s.CertRepo.Create(cert); err != nil {
		if isDuplicateKeyError(err) {
			// 并发双写时约束兜底，另一侧已经签发
			return s.CertRepo.FindByUserAndCourse(userID, courseID)
		}
		monitoring.CertificateFailures.WithLabelValues("persist").Inc()
		return nil, err
	}

	monitoring.CertificatesIssued.Inc()

	// 通知均为尽力而为：失败只记日志，不影响已落库的证书
	s.notifyIssued(user, course, cert, pdf)

	return cert, nil
}

func (s *CertificateService) notifyIssued(user *model.User, course *model.Course, cert *model.Certificate, pdf []byte) {
	notification := &model.Notification{
		UserID:  user.ID,
		Type:    model.NotifyCertificate,
		Title:   "结课证书已签发",
		Message: fmt.Sprintf("恭喜完成课程《%s》，证书编号 %s", course.Title, cert.CertificateNumber),
		Link:    cert.VerificationURL,
	}
	if err := s.NotificationRepo.Create(notification); err != nil {
		logger.Log.Error("create certificate notification failed",
			zap.Uint("userId", user.ID), zap.Error(err))
	}

	if s.Email == nil {
		return
	}
	if err := s.Email.SendCertificateEmail(user.Email, user.Name, course.Title, cert.CertificateNumber, pdf); err != nil {
		monitoring.CertificateFailures.WithLabelValues("email").Inc()
		logger.Log.Error("send certificate email failed",
			zap.Uint("userId", user.ID),
			zap.String("certificateNumber", cert.CertificateNumber),
			zap.Error(err))
	}
}

// GenerateForEnrollment 管理端手动补发入口，要求报名已处于结课状态。
// 这是自动签发因外部故障漏发后的实际恢复路径。
func (s *CertificateService) GenerateForEnrollment(ctx context.Context, userID, courseID uint) (*model.Certificate, error) {
	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}
	if enrollment.Status != model.Completed {
		return nil, util.ErrCourseNotCompleted
	}
	// 自动签发静默容忍重复，手动补发则把"已有证书"当作错误反馈给操作者
	if _, err := s.CertRepo.FindByUserAndCourse(userID, courseID); err == nil {
		return nil, util.ErrCertificateExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.IssueCertificate(ctx, userID, courseID)
}

// VerificationResult 公开验证接口的返回体
type VerificationResult struct {
	Valid       bool      `json:"valid"`
	StudentName string    `json:"studentName"`
	CourseName  string    `json:"courseName"`
	IssuedDate  time.Time `json:"issuedDate"`
	Grade       string    `json:"grade"`
}

// Verify 按证书编号查验证书，结果短暂缓存
func (s *CertificateService) Verify(ctx context.Context, number string) (*VerificationResult, error) {
	cacheKey := "cert:verify:" + number

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var result VerificationResult
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				return &result, nil
			}
		}
	}

	cert, err := s.CertRepo.FindByNumber(number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCertificateNotFound
		}
		return nil, err
	}

	result := &VerificationResult{
		Valid:      true,
		IssuedDate: cert.IssuedDate,
		Grade:      cert.Grade,
	}
	if cert.User != nil {
		result.StudentName = cert.User.Name
	}
	if cert.Course != nil {
		result.CourseName = cert.Course.Title
	}

	if s.Redis != nil {
		if data, err := json.Marshal(result); err == nil {
			s.Redis.Set(ctx, cacheKey, data, verifyCacheTTL)
		}
	}
	return result, nil
}

func (s *CertificateService) MyCertificates(userID uint) ([]model.Certificate, error) {
	return s.CertRepo.FindByUser(userID)
}

func (s *CertificateService) List(page, limit int, courseID uint) ([]model.Certificate, int64, error) {
	return s.CertRepo.List(page, limit, courseID)
}

// Download 读取证书 PDF 内容，对象 key 由证书编号推导
func (s *CertificateService) Download(ctx context.Context, userID uint, certificateID uint) (*model.Certificate, []byte, error) {
	certs, err := s.CertRepo.FindByUser(userID)
	if err != nil {
		return nil, nil, err
	}
	for i := range certs {
		if certs[i].ID == certificateID {
			data, err := s.Storage.Fetch(ctx, CertificateObjectKey(certs[i].CertificateNumber))
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %v", util.ErrExternalServiceFailure, err)
			}
			return &certs[i], data, nil
		}
	}
	return nil, nil, util.ErrCertificateNotFound
}

// CertificateObjectKey 证书 PDF 在对象存储中的 key
func CertificateObjectKey(number string) string {
	return "certificates/" + number + ".pdf"
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
