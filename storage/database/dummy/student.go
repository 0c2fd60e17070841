package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/TNSHR/teacher-rating-backend/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	stds := make([]student.Student, 0, len(repo.db.table))
	for _, std := range repo.db.table {
		stds = append(stds, *std)
	}
	sort.Slice(stds, func(i, j int) bool {
		if stds[i].Grade != stds[j].Grade {
			return stds[i].Grade < stds[j].Grade
		}
		return stds[i].Name < stds[j].Name
	})
	return stds
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, s := range repo.db.table {
		if strings.EqualFold(s.Code, std.Code) {
			return student.ErrCodeExists
		}
	}
	repo.db.table[std.ID] = &std
	return nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.table[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByCode(ctx context.Context, code string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.table {
		if strings.EqualFold(std.Code, code) {
			return *std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[std.ID]; !ok {
		return student.ErrNotFound
	}
	for _, s := range repo.db.table {
		if strings.EqualFold(s.Code, std.Code) && s.ID != std.ID {
			return student.ErrCodeExists
		}
	}
	repo.db.table[std.ID] = &std
	return nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *studentRepository) ReplaceStudents(ctx context.Context, stds []student.Student) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	table := make(map[string]*student.Student, len(stds))
	for i := range stds {
		std := stds[i]
		for _, s := range table {
			if strings.EqualFold(s.Code, std.Code) {
				return student.ErrCodeExists
			}
		}
		table[std.ID] = &std
	}
	repo.db.table = table
	return nil
}
