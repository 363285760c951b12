package service

import (
	"testing"

	"learnova_backend/internal/model"
	"learnova_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnrollmentService(env *testEnv) *EnrollmentService {
	return NewEnrollmentService(env.enrolls, env.courses, env.notifs)
}

func TestEnrollCreatesEnrollmentAndNotification(t *testing.T) {
	env := newTestEnv(t)
	svc := newEnrollmentService(env)

	user := &model.User{Name: "新学生", Email: "new@test.io", Password: "x", Role: model.Student}
	require.NoError(t, env.users.Create(user))
	course := &model.Course{Title: "微服务入门", Published: true}
	require.NoError(t, env.courses.Create(course))

	enrollment, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Enrolled, enrollment.Status)

	_, err = svc.Enroll(user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)

	notifications, _, err := env.notifs.FindByUser(user.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotifyEnrollment, notifications[0].Type)
}

func TestEnrollUnpublishedCourseRejected(t *testing.T) {
	env := newTestEnv(t)
	svc := newEnrollmentService(env)

	user := &model.User{Name: "学生", Email: "draft@test.io", Password: "x", Role: model.Student}
	require.NoError(t, env.users.Create(user))
	course := &model.Course{Title: "草稿课程", Published: false}
	require.NoError(t, env.courses.Create(course))

	_, err := svc.Enroll(user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestDropAndReenroll(t *testing.T) {
	env := newTestEnv(t)
	svc := newEnrollmentService(env)
	user, course, _ := env.seedCourse(t, 1)

	require.NoError(t, svc.Drop(user.ID, course.ID))

	enrollment, err := env.enrolls.FindByUserAndCourse(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Dropped, enrollment.Status)

	// 重新报名激活原记录而非新建
	reactivated, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.ID, reactivated.ID)
	assert.Equal(t, model.Enrolled, reactivated.Status)
}

func TestDropCompletedCourseRejected(t *testing.T) {
	env := newTestEnv(t)
	svc := newEnrollmentService(env)
	user, course, topics := env.seedCourse(t, 1)

	env.completeTopic(t, user.ID, course.ID, topics[0].ID)

	err := svc.Drop(user.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}
