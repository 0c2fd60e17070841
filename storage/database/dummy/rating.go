package dummydb

import (
	"context"
	"sort"

	"github.com/TNSHR/teacher-rating-backend/core/rating"
)

type ratingRepository struct {
	db *ratingTable
}

var _ rating.Repository = (*ratingRepository)(nil) // interface compliance check

func NewRatingRepository(db *DB) rating.Repository {
	return &ratingRepository{db: db.rating}
}

func (repo *ratingRepository) query() []rating.Rating {
	rats := make([]rating.Rating, 0, len(repo.db.table))
	for _, rat := range repo.db.table {
		rats = append(rats, *rat)
	}
	sort.Slice(rats, func(i, j int) bool { return rats[i].CreatedAt.Before(rats[j].CreatedAt) })
	return rats
}

// CreateRating enforces the (student, teacher, day) uniqueness under
// the table lock, mirroring the database constraint.
func (repo *ratingRepository) CreateRating(ctx context.Context, rat rating.Rating) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, r := range repo.db.table {
		if r.StudentID == rat.StudentID && r.TeacherID == rat.TeacherID && r.Day.Equal(rat.Day) {
			return rating.ErrAlreadyRated
		}
	}
	repo.db.table[rat.ID] = &rat
	return nil
}

func (repo *ratingRepository) FilterRatings(ctx context.Context, filter rating.Filter) ([]rating.Rating, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var filtered []rating.Rating
	for _, rat := range repo.query() {
		if filter.StudentID != "" && rat.StudentID != filter.StudentID {
			continue
		}
		if filter.TeacherID != "" && rat.TeacherID != filter.TeacherID {
			continue
		}
		if filter.Day != nil && !rat.Day.Equal(*filter.Day) {
			continue
		}
		filtered = append(filtered, rat)
	}
	return filtered, nil
}

func (repo *ratingRepository) DeleteAllRatings(ctx context.Context) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table = make(map[string]*rating.Rating)
	return nil
}

func (repo *ratingRepository) ReplaceRatings(ctx context.Context, rats []rating.Rating) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	table := make(map[string]*rating.Rating, len(rats))
	for i := range rats {
		rat := rats[i]
		for _, r := range table {
			if r.StudentID == rat.StudentID && r.TeacherID == rat.TeacherID && r.Day.Equal(rat.Day) {
				return rating.ErrAlreadyRated
			}
		}
		table[rat.ID] = &rat
	}
	repo.db.table = table
	return nil
}
