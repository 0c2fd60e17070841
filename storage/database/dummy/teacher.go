package dummydb

import (
	"context"
	"sort"

	"github.com/TNSHR/teacher-rating-backend/core/teacher"
)

type teacherRepository struct {
	db *teacherTable
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) teacher.Repository {
	return &teacherRepository{db: db.teacher}
}

func (repo *teacherRepository) query() []teacher.Teacher {
	tchs := make([]teacher.Teacher, 0, len(repo.db.table))
	for _, tch := range repo.db.table {
		tchs = append(tchs, *tch)
	}
	sort.Slice(tchs, func(i, j int) bool {
		if tchs[i].Grade != tchs[j].Grade {
			return tchs[i].Grade < tchs[j].Grade
		}
		return tchs[i].Name < tchs[j].Name
	})
	return tchs
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, tch teacher.Teacher) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[tch.ID] = &tch
	return nil
}

func (repo *teacherRepository) QueryAllTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *teacherRepository) GetTeacherByID(ctx context.Context, id string) (teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tch, ok := repo.db.table[id]; ok {
		return *tch, nil
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, tch teacher.Teacher) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[tch.ID]; !ok {
		return teacher.ErrNotFound
	}
	repo.db.table[tch.ID] = &tch
	return nil
}

func (repo *teacherRepository) DeleteTeachersByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *teacherRepository) ReplaceTeachers(ctx context.Context, tchs []teacher.Teacher) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	table := make(map[string]*teacher.Teacher, len(tchs))
	for i := range tchs {
		tch := tchs[i]
		table[tch.ID] = &tch
	}
	repo.db.table = table
	return nil
}
