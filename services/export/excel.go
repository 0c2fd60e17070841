package exportsvc

import (
	"bytes"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/TNSHR/teacher-rating-backend/core/rating"
	"github.com/TNSHR/teacher-rating-backend/core/student"
	"github.com/TNSHR/teacher-rating-backend/core/teacher"
)

const timeLayout = "2006-01-02 15:04:05"

// ExcelService renders the full data set as a downloadable xlsx
// workbook, one sheet per entity.
type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// Backup renders Ratings, Teachers and Students sheets and returns the
// workbook bytes with a date-stamped filename.
func (svc *ExcelService) Backup(rats []rating.Detail, tchs []teacher.Teacher, stds []student.Student) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()

	if err := svc.writeRatings(f, "Ratings", rats); err != nil {
		return nil, "", err
	}
	if err := svc.writeTeachers(f, "Teachers", tchs); err != nil {
		return nil, "", err
	}
	if err := svc.writeStudents(f, "Students", stds); err != nil {
		return nil, "", err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", errors.Wrap(err, "writing workbook")
	}
	return buf, svc.filename("teacher_ratings_backup"), nil
}

// RatingsBackup renders a ratings-only workbook, used before a
// destructive clear.
func (svc *ExcelService) RatingsBackup(rats []rating.Detail) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()

	if err := svc.writeRatings(f, "Ratings", rats); err != nil {
		return nil, "", err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", errors.Wrap(err, "writing workbook")
	}
	return buf, svc.filename("ratings_export"), nil
}

func (svc *ExcelService) filename(prefix string) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().UTC().Format("2006-01-02"))
}

func (svc *ExcelService) writeRatings(f *excelize.File, sheet string, rats []rating.Detail) error {
	f.NewSheet(sheet)
	if err := svc.writeHeader(f, sheet, []string{"ID", "Student", "Grade", "Teacher", "Subject", "Score", "Created At"}); err != nil {
		return err
	}
	for i, rat := range rats {
		row := i + 2
		cells := []interface{}{rat.ID, rat.StudentName, rat.StudentGrade, rat.TeacherName, rat.Subject, rat.Score, rat.CreatedAt.Format(timeLayout)}
		if err := svc.writeRow(f, sheet, row, cells); err != nil {
			return err
		}
	}
	return nil
}

func (svc *ExcelService) writeTeachers(f *excelize.File, sheet string, tchs []teacher.Teacher) error {
	f.NewSheet(sheet)
	if err := svc.writeHeader(f, sheet, []string{"ID", "Name", "Subject", "Grade"}); err != nil {
		return err
	}
	for i, tch := range tchs {
		row := i + 2
		cells := []interface{}{tch.ID, tch.Name, tch.Subject, tch.Grade}
		if err := svc.writeRow(f, sheet, row, cells); err != nil {
			return err
		}
	}
	return nil
}

func (svc *ExcelService) writeStudents(f *excelize.File, sheet string, stds []student.Student) error {
	f.NewSheet(sheet)
	if err := svc.writeHeader(f, sheet, []string{"ID", "Name", "Grade", "Code"}); err != nil {
		return err
	}
	for i, std := range stds {
		row := i + 2
		cells := []interface{}{std.ID, std.Name, std.Grade, std.Code}
		if err := svc.writeRow(f, sheet, row, cells); err != nil {
			return err
		}
	}
	return nil
}

func (svc *ExcelService) writeHeader(f *excelize.File, sheet string, headers []string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return errors.Wrap(err, "resolving header cell")
		}
		if err = f.SetCellValue(sheet, cell, h); err != nil {
			return errors.Wrap(err, "writing header cell")
		}
		if err = f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return errors.Wrap(err, "styling header cell")
		}
	}
	return nil
}

func (svc *ExcelService) writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	for i, val := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return errors.Wrap(err, "resolving cell")
		}
		if err = f.SetCellValue(sheet, cell, val); err != nil {
			return errors.Wrap(err, "writing cell")
		}
	}
	return nil
}
