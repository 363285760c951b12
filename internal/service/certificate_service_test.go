package service

import (
	"context"
	"testing"

	"learnova_backend/internal/model"
	"learnova_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCertificateNumber(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		number := GenerateCertificateNumber(42, 7)
		assert.Regexp(t, `^CERT-42-7-\d{13}-[0-9A-F]{8}$`, number)
		assert.False(t, seen[number], "证书编号重复: %s", number)
		seen[number] = true
	}
}

func TestResolveTemplatePrecedence(t *testing.T) {
	env := newTestEnv(t)
	_, course, _ := env.seedCourse(t, 1)

	// 没有任何模板时返回 nil，渲染器用内置默认样式
	template, err := env.certSvc.ResolveTemplate(course.ID)
	require.NoError(t, err)
	assert.Nil(t, template)

	global := &model.CertificateTemplate{Name: "全局模板", PrimaryColor: "#4F46E5", SecondaryColor: "#06B6D4"}
	require.NoError(t, env.templates.Create(global))
	require.NoError(t, env.templates.ActivateGlobal(global.ID))

	template, err = env.certSvc.ResolveTemplate(course.ID)
	require.NoError(t, err)
	require.NotNil(t, template)
	assert.Equal(t, global.ID, template.ID)

	// 课程级激活优先于全局默认
	courseLevel := &model.CertificateTemplate{Name: "课程专属", PrimaryColor: "#111827", SecondaryColor: "#F59E0B"}
	require.NoError(t, env.templates.Create(courseLevel))
	require.NoError(t, env.templates.ActivateForCourses(courseLevel.ID, []uint{course.ID}))

	template, err = env.certSvc.ResolveTemplate(course.ID)
	require.NoError(t, err)
	require.NotNil(t, template)
	assert.Equal(t, courseLevel.ID, template.ID)
}

func TestIssueCertificateDuplicateGuard(t *testing.T) {
	env := newTestEnv(t)
	user, course, _ := env.seedCourse(t, 1)

	first, err := env.certSvc.IssueCertificate(context.Background(), user.ID, course.ID)
	require.NoError(t, err)

	second, err := env.certSvc.IssueCertificate(context.Background(), user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CertificateNumber, second.CertificateNumber)

	var count int64
	require.NoError(t, env.db.Model(&model.Certificate{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGenerateForEnrollmentRequiresCompletion(t *testing.T) {
	env := newTestEnv(t)
	user, course, topics := env.seedCourse(t, 1)

	_, err := env.certSvc.GenerateForEnrollment(context.Background(), user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotCompleted)

	_, err = env.certSvc.GenerateForEnrollment(context.Background(), user.ID+100, course.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	// 存储故障让自动签发落空，留下一条已结课但没有证书的报名
	env.storage.failing = true
	env.completeTopic(t, user.ID, course.ID, topics[0].ID)
	env.storage.failing = false

	cert, err := env.certSvc.GenerateForEnrollment(context.Background(), user.ID, course.ID)
	require.NoError(t, err)
	assert.Regexp(t, certNumberPattern, cert.CertificateNumber)

	// 已持有证书时补发报错，而不是静默返回旧证书
	_, err = env.certSvc.GenerateForEnrollment(context.Background(), user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrCertificateExists)
}

func TestVerifyCertificate(t *testing.T) {
	env := newTestEnv(t)
	user, course, topics := env.seedCourse(t, 1)
	env.completeTopic(t, user.ID, course.ID, topics[0].ID)

	cert, err := env.certs.FindByUserAndCourse(user.ID, course.ID)
	require.NoError(t, err)

	result, err := env.certSvc.Verify(context.Background(), cert.CertificateNumber)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, user.Name, result.StudentName)
	assert.Equal(t, course.Title, result.CourseName)
	assert.Equal(t, "Pass", result.Grade)

	_, err = env.certSvc.Verify(context.Background(), "CERT-0-0-0-DEADBEEF")
	assert.ErrorIs(t, err, util.ErrCertificateNotFound)
}

func TestDownloadCertificate(t *testing.T) {
	env := newTestEnv(t)
	user, course, topics := env.seedCourse(t, 1)
	env.completeTopic(t, user.ID, course.ID, topics[0].ID)

	cert, err := env.certs.FindByUserAndCourse(user.ID, course.ID)
	require.NoError(t, err)

	got, data, err := env.certSvc.Download(context.Background(), user.ID, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, cert.CertificateNumber, got.CertificateNumber)
	assert.True(t, len(data) > 4 && string(data[:4]) == "%PDF")

	// 别人的证书 ID 对当前用户不可见
	other := &model.User{Name: "其他学生", Email: "other@test.io", Password: "x", Role: model.Student}
	require.NoError(t, env.users.Create(other))
	_, _, err = env.certSvc.Download(context.Background(), other.ID, cert.ID)
	assert.ErrorIs(t, err, util.ErrCertificateNotFound)
}

func TestMyCertificatesAndList(t *testing.T) {
	env := newTestEnv(t)
	user, course, topics := env.seedCourse(t, 1)
	env.completeTopic(t, user.ID, course.ID, topics[0].ID)

	mine, err := env.certSvc.MyCertificates(user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	all, total, err := env.certSvc.List(1, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, all, 1)
	assert.Equal(t, mine[0].CertificateNumber, all[0].CertificateNumber)

	filtered, total, err := env.certSvc.List(1, 10, course.ID+99)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, filtered)
}
