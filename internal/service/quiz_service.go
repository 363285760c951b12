package service

import (
	"time"

	"learnova_backend/internal/model"
	"learnova_backend/internal/repository"
	"learnova_backend/internal/util"
)

type QuizService struct {
	QuizRepo   *repository.QuizRepository
	TopicRepo  *repository.TopicRepository
	CourseRepo *repository.CourseRepository
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	topicRepo *repository.TopicRepository,
	courseRepo *repository.CourseRepository,
) *QuizService {
	return &QuizService{
		QuizRepo:   quizRepo,
		TopicRepo:  topicRepo,
		CourseRepo: courseRepo,
	}
}

func (s *QuizService) GetQuiz(id uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *QuizService) GetTopicQuizzes(topicID uint) ([]model.Quiz, error) {
	if _, err := s.TopicRepo.FindByID(topicID); err != nil {
		return nil, util.ErrTopicNotFound
	}
	return s.QuizRepo.FindByTopic(topicID)
}

// QuizResult 一次测验提交的判分结果
type QuizResult struct {
	Score   int  `json:"score"` // 百分制
	Correct int  `json:"correct"`
	Total   int  `json:"total"`
	Passed  bool `json:"passed"`
}

// SubmitQuiz 判分并保存作答记录。answers 的键是题目 ID，值是选项下标
func (s *QuizService) SubmitQuiz(userID, quizID uint, answers map[uint]int) (*QuizResult, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}

	total := len(quiz.Questions)
	if total == 0 {
		return nil, util.ErrQuizNotFound
	}

	correct := 0
	for _, q := range quiz.Questions {
		if choice, ok := answers[q.ID]; ok && choice == q.Answer {
			correct++
		}
	}

	score := correct * 100 / total
	passed := score >= quiz.PassingScore

	attempt := &model.QuizAttempt{
		UserID:      userID,
		QuizID:      quizID,
		Score:       score,
		Total:       total,
		Answers:     answers,
		Passed:      passed,
		CompletedAt: time.Now(),
	}
	if err := s.QuizRepo.SaveAttempt(attempt); err != nil {
		return nil, err
	}

	return &QuizResult{
		Score:   score,
		Correct: correct,
		Total:   total,
		Passed:  passed,
	}, nil
}

func (s *QuizService) GetAttempts(userID, quizID uint) ([]model.QuizAttempt, error) {
	return s.QuizRepo.FindAttempts(userID, quizID)
}

// ---- 讲师/管理端 ----

func (s *QuizService) CreateQuiz(quiz *model.Quiz, operatorID uint, operatorRole model.UserRole) error {
	topic, err := s.TopicRepo.FindByID(quiz.TopicID)
	if err != nil {
		return util.ErrTopicNotFound
	}
	course, err := s.CourseRepo.FindByID(topic.CourseID)
	if err != nil {
		return util.ErrCourseNotFound
	}
	if operatorRole != model.Admin && course.InstructorID != operatorID {
		return util.ErrPermissionDenied
	}
	return s.QuizRepo.Create(quiz)
}

func (s *QuizService) UpdateQuiz(quiz *model.Quiz, operatorID uint, operatorRole model.UserRole) error {
	existing, err := s.QuizRepo.FindByID(quiz.ID)
	if err != nil {
		return util.ErrQuizNotFound
	}
	if err := s.checkOwnership(existing.TopicID, operatorID, operatorRole); err != nil {
		return err
	}

	existing.Title = quiz.Title
	existing.PassingScore = quiz.PassingScore
	return s.QuizRepo.Update(existing)
}

func (s *QuizService) DeleteQuiz(id uint, operatorID uint, operatorRole model.UserRole) error {
	existing, err := s.QuizRepo.FindByID(id)
	if err != nil {
		return util.ErrQuizNotFound
	}
	if err := s.checkOwnership(existing.TopicID, operatorID, operatorRole); err != nil {
		return err
	}
	return s.QuizRepo.Delete(id)
}

func (s *QuizService) checkOwnership(topicID, operatorID uint, operatorRole model.UserRole) error {
	topic, err := s.TopicRepo.FindByID(topicID)
	if err != nil {
		return util.ErrTopicNotFound
	}
	course, err := s.CourseRepo.FindByID(topic.CourseID)
	if err != nil {
		return util.ErrCourseNotFound
	}
	if operatorRole != model.Admin && course.InstructorID != operatorID {
		return util.ErrPermissionDenied
	}
	return nil
}
