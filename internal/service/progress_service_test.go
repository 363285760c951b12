package service

import (
	"context"
	"regexp"
	"testing"

	"learnova_backend/internal/model"
	"learnova_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var certNumberPattern = regexp.MustCompile(`^CERT-\d+-\d+-\d{13}-[0-9A-F]{8}$`)

func TestUpdateTopicProgressPartialCompletion(t *testing.T) {
	env := newTestEnv(t)
	user, course, topics := env.seedCourse(t, 3)

	env.completeTopic(t, user.ID, course.ID, topics[0].ID)
	env.completeTopic(t, user.ID, course.ID, topics[1].ID)

	enrollment, err := env.enrolls.FindByUserAndCourse(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InProgress, enrollment.Status)
	assert.InDelta(t, 200.0/3, enrollment.ProgressPercentage, 0.01)
	assert.Nil(t, enrollment.CompletedAt)

	_, err = env.certs.FindByUserAndCourse(user.ID, course.ID)
	assert.Error(t, err, "未结课不应签发证书")
}

func TestUpdateTopicProgressIssuesCertificateOnCompletion(t *testing.T) {
	env := newTestEnv(t)
	user, course, topics := env.seedCourse(t, 3)

	for _, topic := range topics {
		env.completeTopic(t, user.ID, course.ID, topic.ID)
	}

	enrollment, err := env.enrolls.FindByUserAndCourse(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Completed, enrollment.Status)
	assert.Equal(t, 100.0, enrollment.ProgressPercentage)
	require.NotNil(t, enrollment.CompletedAt)

	cert, err := env.certs.FindByUserAndCourse(user.ID, course.ID)
	require.NoError(t, err)
	assert.Regexp(t, certNumberPattern, cert.CertificateNumber)
	assert.Equal(t, "https://learnova.io/verify/"+cert.CertificateNumber, cert.VerificationURL)
	assert.Equal(t, "Pass", cert.Grade)

	pdf, err := env.storage.Fetch(context.Background(), CertificateObjectKey(cert.CertificateNumber))
	require.NoError(t, err)
	assert.True(t, len(pdf) > 4 && string(pdf[:4]) == "%PDF")

	notifications, _, err := env.notifs.FindByUser(user.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotifyCertificate, notifications[0].Type)

	require.Len(t, env.email.sent, 1)
	assert.Equal(t, cert.CertificateNumber, env.email.sent[0])
}

func TestUpdateTopicProgressIdempotentCompletion(t *testing.T) {
	env := newTestEnv(t)
	user, course, topics := env.seedCourse(t, 2)

	for _, topic := range topics {
		env.completeTopic(t, user.ID, course.ID, topic.ID)
	}
	// 重复上报最后一个知识点不产生第二张证书
	env.completeTopic(t, user.ID, course.ID, topics[1].ID)

	var count int64
	require.NoError(t, env.db.Model(&model.Certificate{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Len(t, env.email.sent, 1)
}

func TestUncompleteAfterCourseCompletionKeepsStatus(t *testing.T) {
	env := newTestEnv(t)
	user, course, topics := env.seedCourse(t, 2)

	for _, topic := range topics {
		env.completeTopic(t, user.ID, course.ID, topic.ID)
	}

	// 某个知识点被标回未完成：百分比实时回落，但结课状态与结课时间不回退
	progress, err := env.progSvc.UpdateTopicProgress(context.Background(), user.ID, ProgressUpdateRequest{
		CourseID:  course.ID,
		TopicID:   topics[0].ID,
		Completed: false,
	})
	require.NoError(t, err)
	assert.False(t, progress.Completed)
	assert.NotNil(t, progress.CompletedAt, "历史完成时间应保留")

	enrollment, err := env.enrolls.FindByUserAndCourse(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Completed, enrollment.Status)
	assert.NotNil(t, enrollment.CompletedAt)
	assert.Equal(t, 50.0, enrollment.ProgressPercentage)
}

func TestUpdateTopicProgressNotEnrolled(t *testing.T) {
	env := newTestEnv(t)
	_, course, topics := env.seedCourse(t, 1)

	outsider := &model.User{Name: "路人", Email: "outsider@test.io", Password: "x", Role: model.Student}
	require.NoError(t, env.users.Create(outsider))

	_, err := env.progSvc.UpdateTopicProgress(context.Background(), outsider.ID, ProgressUpdateRequest{
		CourseID:  course.ID,
		TopicID:   topics[0].ID,
		Completed: true,
	})
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestUpdateTopicProgressTopicFromAnotherCourse(t *testing.T) {
	env := newTestEnv(t)
	user, course, _ := env.seedCourse(t, 1)

	other := &model.Course{Title: "另一门课", Published: true}
	require.NoError(t, env.courses.Create(other))
	foreign := model.Topic{CourseID: other.ID, Title: "外部知识点", Order: 1}
	require.NoError(t, env.topics.Create(&foreign))

	_, err := env.progSvc.UpdateTopicProgress(context.Background(), user.ID, ProgressUpdateRequest{
		CourseID:  course.ID,
		TopicID:   foreign.ID,
		Completed: true,
	})
	assert.ErrorIs(t, err, util.ErrTopicNotFound)
}

func TestIssuanceFailureDoesNotFailProgressUpdate(t *testing.T) {
	env := newTestEnv(t)
	user, course, topics := env.seedCourse(t, 1)

	env.storage.failing = true
	progress, err := env.progSvc.UpdateTopicProgress(context.Background(), user.ID, ProgressUpdateRequest{
		CourseID:  course.ID,
		TopicID:   topics[0].ID,
		Completed: true,
	})
	require.NoError(t, err, "签发失败不应影响进度更新")
	assert.True(t, progress.Completed)

	enrollment, err := env.enrolls.FindByUserAndCourse(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Completed, enrollment.Status)

	_, err = env.certs.FindByUserAndCourse(user.ID, course.ID)
	assert.Error(t, err)

	// 存储恢复后，管理端补发能够补齐证书
	env.storage.failing = false
	cert, err := env.certSvc.GenerateForEnrollment(context.Background(), user.ID, course.ID)
	require.NoError(t, err)
	assert.Regexp(t, certNumberPattern, cert.CertificateNumber)
}

func TestGetCourseProgress(t *testing.T) {
	env := newTestEnv(t)
	user, course, topics := env.seedCourse(t, 3)

	env.completeTopic(t, user.ID, course.ID, topics[0].ID)

	overview, err := env.progSvc.GetCourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InProgress, overview.Enrollment.Status)
	require.Len(t, overview.Topics, 1)
	assert.Equal(t, topics[0].ID, overview.Topics[0].TopicID)

	_, err = env.progSvc.GetCourseProgress(user.ID+100, course.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestCourseWithoutTopicsNeverCompletes(t *testing.T) {
	env := newTestEnv(t)
	user, course, _ := env.seedCourse(t, 0)

	enrollment, err := env.enrolls.FindByUserAndCourse(user.ID, course.ID)
	require.NoError(t, err)

	justCompleted, err := env.progSvc.recomputeEnrollment(enrollment.ID)
	require.NoError(t, err)
	assert.False(t, justCompleted)

	enrollment, err = env.enrolls.FindByUserAndCourse(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Enrolled, enrollment.Status)
	assert.Equal(t, 0.0, enrollment.ProgressPercentage)
}
