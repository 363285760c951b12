package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"learnova_backend/internal/config"
	"learnova_backend/internal/model"
	"learnova_backend/internal/repository"
	"learnova_backend/pkg/database"
	"learnova_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.InitLogger(&config.Config{Server: config.ServerConfig{Mode: "test"}})
}

// memoryStorage 测试用的内存对象存储
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	failing bool
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (m *memoryStorage) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if m.failing {
		return "", errors.New("storage offline")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[filename] = data
	return "memory://" + filename, nil
}

func (m *memoryStorage) Fetch(ctx context.Context, filename string) ([]byte, error) {
	if m.failing {
		return nil, errors.New("storage offline")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[filename]
	if !ok {
		return nil, errors.New("object not found: " + filename)
	}
	return data, nil
}

func (m *memoryStorage) Delete(ctx context.Context, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, filename)
	return nil
}

func (m *memoryStorage) GetURL(filename string) string {
	return "memory://" + filename
}

// recordingEmail 记录发送调用的假邮件服务
type recordingEmail struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingEmail) SendCertificateEmail(toEmail, studentName, courseName, certificateNumber string, pdf []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, certificateNumber)
	return nil
}

type testEnv struct {
	db         *gorm.DB
	storage    *memoryStorage
	email      *recordingEmail
	users      *repository.UserRepository
	courses    *repository.CourseRepository
	topics     *repository.TopicRepository
	enrolls    *repository.EnrollmentRepository
	progresses *repository.ProgressRepository
	quizzes    *repository.QuizRepository
	certs      *repository.CertificateRepository
	templates  *repository.CertificateTemplateRepository
	notifs     *repository.NotificationRepository
	certSvc    *CertificateService
	progSvc    *ProgressService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	storage := newMemoryStorage()
	email := &recordingEmail{}

	env := &testEnv{
		db:         db,
		storage:    storage,
		email:      email,
		users:      repository.NewUserRepository(db),
		courses:    repository.NewCourseRepository(db),
		topics:     repository.NewTopicRepository(db),
		enrolls:    repository.NewEnrollmentRepository(db),
		progresses: repository.NewProgressRepository(db),
		quizzes:    repository.NewQuizRepository(db),
		certs:      repository.NewCertificateRepository(db),
		templates:  repository.NewCertificateTemplateRepository(db),
		notifs:     repository.NewNotificationRepository(db),
	}

	cfg := &config.Config{
		Certificate: config.CertificateConfig{
			BrandName: "Learnova",
			VerifyURL: "https://learnova.io/verify",
		},
	}

	renderer := NewCertificateRenderer(&cfg.Certificate)
	env.certSvc = NewCertificateService(
		env.certs, env.templates, env.enrolls, env.courses, env.users, env.notifs,
		&StorageService{Provider: storage}, email, renderer, nil, cfg,
	)
	env.progSvc = NewProgressService(env.progresses, env.enrolls, env.topics, env.certSvc, db)

	return env
}

// seedCourse 创建一个学生、一门带 topicCount 个知识点的课程和报名记录
func (env *testEnv) seedCourse(t *testing.T, topicCount int) (*model.User, *model.Course, []model.Topic) {
	t.Helper()

	user := &model.User{Name: "测试学生", Email: fmt.Sprintf("student-%s@test.io", t.Name()), Password: "x", Role: model.Student}
	require.NoError(t, env.users.Create(user))

	course := &model.Course{Title: "Go 工程实践", Published: true}
	require.NoError(t, env.courses.Create(course))

	topics := make([]model.Topic, 0, topicCount)
	for i := 0; i < topicCount; i++ {
		topic := model.Topic{CourseID: course.ID, Title: fmt.Sprintf("第 %d 节", i+1), Order: i + 1}
		require.NoError(t, env.topics.Create(&topic))
		topics = append(topics, topic)
	}

	require.NoError(t, env.enrolls.Create(&model.Enrollment{
		UserID:     user.ID,
		CourseID:   course.ID,
		Status:     model.Enrolled,
		EnrolledAt: time.Now(),
	}))

	return user, course, topics
}

func (env *testEnv) completeTopic(t *testing.T, userID, courseID, topicID uint) *model.Progress {
	t.Helper()
	progress, err := env.progSvc.UpdateTopicProgress(context.Background(), userID, ProgressUpdateRequest{
		CourseID:  courseID,
		TopicID:   topicID,
		Completed: true,
		TimeSpent: 60,
	})
	require.NoError(t, err)
	return progress
}
