// Package inmemdb is an in-memory student repository used in dev and tests.
package inmemdb

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/LithiumValproate/Freshman-3rd/core/student"
)

type studentRepository struct {
	mutex  sync.RWMutex
	t      map[int64]student.Student
	lastID int64
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository() student.Repository {
	return &studentRepository{t: make(map[int64]student.Student)}
}

func (repo *studentRepository) QueryAllStudents(_ context.Context) ([]student.Student, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	students := make([]student.Student, 0, len(repo.t))
	for _, stu := range repo.t {
		students = append(students, stu)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id int64) (student.Student, error) {
	repo.mutex.RLock()
	defer repo.mutex.RUnlock()

	stu, ok := repo.t[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	return stu, nil
}

func (repo *studentRepository) CreateStudent(_ context.Context, stu student.Student) (student.Student, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	repo.lastID++
	stu.ID = repo.lastID
	stu.UpdatedAt = time.Now().UTC()
	repo.t[stu.ID] = stu
	return stu, nil
}

func (repo *studentRepository) UpdateStudent(_ context.Context, stu student.Student) (student.Student, error) {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if _, ok := repo.t[stu.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	stu.UpdatedAt = time.Now().UTC()
	repo.t[stu.ID] = stu
	return stu, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id int64) error {
	repo.mutex.Lock()
	defer repo.mutex.Unlock()

	if _, ok := repo.t[id]; !ok {
		return student.ErrNotFound
	}
	delete(repo.t, id)
	return nil
}
