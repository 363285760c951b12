package service

import (
	"encoding/json"
	"testing"

	"learnova_backend/internal/model"
	"learnova_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedQuiz(t *testing.T, env *testEnv, topicID uint, passingScore int) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{
		TopicID:      topicID,
		Title:        "章节测验",
		PassingScore: passingScore,
		Questions: []model.QuizQuestion{
			{Question: "1+1=?", Options: []string{"1", "2", "3"}, Answer: 1, Order: 1},
			{Question: "2+2=?", Options: []string{"3", "4", "5"}, Answer: 1, Order: 2},
			{Question: "3+3=?", Options: []string{"5", "6", "7"}, Answer: 1, Order: 3},
		},
	}
	require.NoError(t, env.db.Create(quiz).Error)
	return quiz
}

func TestSubmitQuizScoring(t *testing.T) {
	env := newTestEnv(t)
	svc := NewQuizService(env.quizzes, env.topics, env.courses)
	user, _, topics := env.seedCourse(t, 1)
	quiz := seedQuiz(t, env, topics[0].ID, 60)

	answers := map[uint]int{
		quiz.Questions[0].ID: 1,
		quiz.Questions[1].ID: 1,
		quiz.Questions[2].ID: 0, // 答错
	}
	result, err := svc.SubmitQuiz(user.ID, quiz.ID, answers)
	require.NoError(t, err)
	assert.Equal(t, 66, result.Score)
	assert.Equal(t, 2, result.Correct)
	assert.Equal(t, 3, result.Total)
	assert.True(t, result.Passed)

	attempts, err := svc.GetAttempts(user.ID, quiz.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, 66, attempts[0].Score)
	assert.True(t, attempts[0].Passed)
	assert.NotZero(t, attempts[0].ID)
	assert.False(t, attempts[0].CreatedAt.IsZero())

	// 作答记录沿用统一的基础模型，JSON 输出为 camelCase 字段
	data, err := json.Marshal(attempts[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"userId"`)
	assert.NotContains(t, string(data), `"DeletedAt"`)
}

func TestSubmitQuizBelowPassingScore(t *testing.T) {
	env := newTestEnv(t)
	svc := NewQuizService(env.quizzes, env.topics, env.courses)
	user, _, topics := env.seedCourse(t, 1)
	quiz := seedQuiz(t, env, topics[0].ID, 80)

	// 只答对一题，未作答的题按错误计
	result, err := svc.SubmitQuiz(user.ID, quiz.ID, map[uint]int{quiz.Questions[0].ID: 1})
	require.NoError(t, err)
	assert.Equal(t, 33, result.Score)
	assert.False(t, result.Passed)
}

func TestSubmitQuizUnknownQuiz(t *testing.T) {
	env := newTestEnv(t)
	svc := NewQuizService(env.quizzes, env.topics, env.courses)
	user, _, _ := env.seedCourse(t, 1)

	_, err := svc.SubmitQuiz(user.ID, 9999, map[uint]int{})
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}
