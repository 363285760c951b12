package service

import (
	"errors"
	"learnova_backend/internal/model"
	"learnova_backend/internal/repository"
	"learnova_backend/internal/util"

	"gorm.io/gorm"
)

// CourseService 维护分类、课程和知识点三级内容结构
type CourseService struct {
	CourseRepo   *repository.CourseRepository
	TopicRepo    *repository.TopicRepository
	CategoryRepo *repository.CategoryRepository
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	topicRepo *repository.TopicRepository,
	categoryRepo *repository.CategoryRepository,
) *CourseService {
	return &CourseService{
		CourseRepo:   courseRepo,
		TopicRepo:    topicRepo,
		CategoryRepo: categoryRepo,
	}
}

// ---- 分类 ----

func (s *CourseService) GetCategories() ([]model.Category, error) {
	return s.CategoryRepo.FindAll()
}

func (s *CourseService) CreateCategory(category *model.Category) error {
	return s.CategoryRepo.Create(category)
}

func (s *CourseService) UpdateCategory(category *model.Category) error {
	existing, err := s.CategoryRepo.FindByID(category.ID)
	if err != nil {
		return errors.New("分类不存在")
	}
	existing.Name = category.Name
	existing.Description = category.Description
	existing.Icon = category.Icon
	existing.Order = category.Order
	return s.CategoryRepo.Update(existing)
}

func (s *CourseService) DeleteCategory(id uint) error {
	return s.CategoryRepo.Delete(id)
}

// ---- 课程 ----

// GetCourses 课程列表。publishedOnly 对学生端恒为 true，管理端可看全部
func (s *CourseService) GetCourses(page, limit int, categoryID uint, publishedOnly bool) ([]model.Course, int64, error) {
	return s.CourseRepo.List(page, limit, categoryID, publishedOnly)
}

func (s *CourseService) GetCourseByID(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	return course, nil
}

func (s *CourseService) CreateCourse(course *model.Course) error {
	if course.CategoryID != 0 {
		if _, err := s.CategoryRepo.FindByID(course.CategoryID); err != nil {
			return errors.New("分类不存在")
		}
	}
	return s.CourseRepo.Create(course)
}

func (s *CourseService) UpdateCourse(course *model.Course, operatorID uint, operatorRole model.UserRole) error {
	existing, err := s.CourseRepo.FindByID(course.ID)
	if err != nil {
		return util.ErrCourseNotFound
	}

	// 讲师只能改自己的课程
	if operatorRole != model.Admin && existing.InstructorID != operatorID {
		return util.ErrPermissionDenied
	}

	existing.Title = course.Title
	existing.Description = course.Description
	existing.CategoryID = course.CategoryID
	existing.Level = course.Level
	existing.Duration = course.Duration
	existing.Price = course.Price
	existing.Published = course.Published
	if course.Thumbnail != "" {
		existing.Thumbnail = course.Thumbnail
	}
	return s.CourseRepo.Update(existing)
}

func (s *CourseService) DeleteCourse(id uint, operatorID uint, operatorRole model.UserRole) error {
	existing, err := s.CourseRepo.FindByID(id)
	if err != nil {
		return util.ErrCourseNotFound
	}
	if operatorRole != model.Admin && existing.InstructorID != operatorID {
		return util.ErrPermissionDenied
	}
	return s.CourseRepo.Delete(id)
}

func (s *CourseService) GetInstructorCourses(instructorID uint) ([]model.Course, error) {
	return s.CourseRepo.FindByInstructor(instructorID)
}

// ---- 知识点 ----

func (s *CourseService) GetTopics(courseID uint) ([]model.Topic, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, util.ErrCourseNotFound
	}
	return s.TopicRepo.FindByCourse(courseID)
}

func (s *CourseService) GetTopicByID(id uint) (*model.Topic, error) {
	topic, err := s.TopicRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}
	return topic, nil
}

func (s *CourseService) CreateTopic(topic *model.Topic, operatorID uint, operatorRole model.UserRole) error {
	course, err := s.CourseRepo.FindByID(topic.CourseID)
	if err != nil {
		return util.ErrCourseNotFound
	}
	if operatorRole != model.Admin && course.InstructorID != operatorID {
		return util.ErrPermissionDenied
	}
	return s.TopicRepo.Create(topic)
}

func (s *CourseService) UpdateTopic(topic *model.Topic, operatorID uint, operatorRole model.UserRole) error {
	existing, err := s.TopicRepo.FindByID(topic.ID)
	if err != nil {
		return util.ErrTopicNotFound
	}
	course, err := s.CourseRepo.FindByID(existing.CourseID)
	if err != nil {
		return util.ErrCourseNotFound
	}
	if operatorRole != model.Admin && course.InstructorID != operatorID {
		return util.ErrPermissionDenied
	}

	existing.Title = topic.Title
	existing.Description = topic.Description
	existing.Content = topic.Content
	existing.Order = topic.Order
	if topic.VideoURL != "" {
		existing.VideoURL = topic.VideoURL
		existing.VideoDuration = topic.VideoDuration
	}
	return s.TopicRepo.Update(existing)
}

func (s *CourseService) DeleteTopic(id uint, operatorID uint, operatorRole model.UserRole) error {
	existing, err := s.TopicRepo.FindByID(id)
	if err != nil {
		return util.ErrTopicNotFound
	}
	course, err := s.CourseRepo.FindByID(existing.CourseID)
	if err != nil {
		return util.ErrCourseNotFound
	}
	if operatorRole != model.Admin && course.InstructorID != operatorID {
		return util.ErrPermissionDenied
	}
	return s.TopicRepo.Delete(id)
}
