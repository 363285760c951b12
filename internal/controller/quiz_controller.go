package controller

import (
	"errors"

	"learnova_backend/internal/model"
	"learnova_backend/internal/service"
	"learnova_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{
		QuizService: quizService,
	}
}

// GetTopicQuizzes godoc
// @Summary 获取知识点下的测验列表
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "知识点ID"
// @Success 200 {object} util.Response{data=[]model.Quiz} "成功"
// @Router /api/topics/{id}/quizzes [get]
func (c *QuizController) GetTopicQuizzes(ctx *gin.Context) {
	quizzes, err := c.QuizService.GetTopicQuizzes(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, quizzes)
}

// GetQuiz godoc
// @Summary 获取测验详情
// @Description 题目不包含正确答案
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz} "成功"
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	quiz, err := c.QuizService.GetQuiz(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, quiz)
}

// swagger:model QuizSubmitRequest
type QuizSubmitRequest struct {
	Answers map[uint]int `json:"answers" binding:"required"`
}

// SubmitQuiz godoc
// @Summary 提交测验答案
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Param   body body QuizSubmitRequest true "答案，键为题目ID，值为选项下标"
// @Success 200 {object} util.Response{data=service.QuizResult} "判分结果"
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req QuizSubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitQuiz(claims.UserID, util.MustParseUint(ctx.Param("id")), req.Answers)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// GetAttempts godoc
// @Summary 查看自己的测验记录
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt} "成功"
// @Router /api/quizzes/{id}/attempts [get]
func (c *QuizController) GetAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempts, err := c.QuizService.GetAttempts(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// swagger:model QuizRequest
type QuizRequest struct {
	TopicID      uint                `json:"topicId" binding:"required"`
	Title        string              `json:"title" binding:"required"`
	PassingScore int                 `json:"passingScore"`
	Questions    []QuizQuestionInput `json:"questions"`
}

// swagger:model QuizQuestionInput
type QuizQuestionInput struct {
	Question string   `json:"question" binding:"required"`
	Options  []string `json:"options" binding:"required,min=2"`
	Answer   int      `json:"answer"`
	Order    int      `json:"order"`
}

// CreateQuiz godoc
// @Summary 创建测验
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body QuizRequest true "测验"
// @Success 201 {object} util.Response{data=model.Quiz} "创建成功"
// @Router /api/instructor/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz := &model.Quiz{
		TopicID:      req.TopicID,
		Title:        req.Title,
		PassingScore: req.PassingScore,
	}
	if quiz.PassingScore == 0 {
		quiz.PassingScore = 60
	}
	for _, q := range req.Questions {
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			util.BadRequest(ctx, "正确答案下标超出选项范围")
			return
		}
		quiz.Questions = append(quiz.Questions, model.QuizQuestion{
			Question: q.Question,
			Options:  q.Options,
			Answer:   q.Answer,
			Order:    q.Order,
		})
	}

	if err := c.QuizService.CreateQuiz(quiz, claims.UserID, claims.Role); err != nil {
		respondCourseError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除测验
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/instructor/quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.QuizService.DeleteQuiz(util.MustParseUint(ctx.Param("id")), claims.UserID, claims.Role); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			respondCourseError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
