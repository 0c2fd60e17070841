package dummydb

import (
	"sync"

	"github.com/TNSHR/teacher-rating-backend/core/otp"
	"github.com/TNSHR/teacher-rating-backend/core/rating"
	"github.com/TNSHR/teacher-rating-backend/core/student"
	"github.com/TNSHR/teacher-rating-backend/core/teacher"
	"github.com/TNSHR/teacher-rating-backend/core/user"
)

type (
	DB struct {
		user    *userTable
		otp     *otpTable
		student *studentTable
		teacher *teacherTable
		rating  *ratingTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	otpTable struct {
		sync.RWMutex
		table map[string]*otp.Code
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	teacherTable struct {
		sync.RWMutex
		table map[string]*teacher.Teacher
	}

	ratingTable struct {
		sync.RWMutex
		table map[string]*rating.Rating
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:    &userTable{table: make(map[string]*user.User)},
		otp:     &otpTable{table: make(map[string]*otp.Code)},
		student: &studentTable{table: make(map[string]*student.Student)},
		teacher: &teacherTable{table: make(map[string]*teacher.Teacher)},
		rating:  &ratingTable{table: make(map[string]*rating.Rating)},
	}
	return db, nil
}
