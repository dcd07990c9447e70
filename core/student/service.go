package student

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("student not found")

type (
	Repository interface {
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id int64) (Student, error)
		CreateStudent(ctx context.Context, s Student) (Student, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		DeleteStudent(ctx context.Context, id int64) error
	}

	Service struct {
		r Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{r: repo}
}

func (s *Service) QueryAll(ctx context.Context) ([]Student, error) {
	students, err := s.r.QueryAllStudents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	for i := range students {
		students[i].Normalize()
	}
	return students, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Student, error) {
	stu, err := s.r.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	stu.Normalize()
	return stu, nil
}

func (s *Service) Add(ctx context.Context, stu Student) (Student, error) {
	stu.Normalize()
	return s.r.CreateStudent(ctx, stu)
}

func (s *Service) Update(ctx context.Context, stu Student) (Student, error) {
	stu.Normalize()
	return s.r.UpdateStudent(ctx, stu)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.r.DeleteStudent(ctx, id)
}
