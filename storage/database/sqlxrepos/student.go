package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/LithiumValproate/Freshman-3rd/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

// studentRow mirrors the students table; the optional sub-records are stored
// as JSON columns.
type studentRow struct {
	ID            int64          `db:"student_id"`
	Name          string         `db:"name"`
	Sex           string         `db:"sex"`
	Birthdate     []byte         `db:"birthdate"`
	AdmissionYear int            `db:"admission_year"`
	Major         string         `db:"major"`
	ClassID       int            `db:"class_id"`
	Status        string         `db:"status"`
	Address       []byte         `db:"address"`
	Contact       []byte         `db:"contact"`
	Family        []byte         `db:"family"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r studentRow) toStudent() (student.Student, error) {
	stu := student.Student{
		ID:            r.ID,
		Name:          r.Name,
		Sex:           r.Sex,
		AdmissionYear: r.AdmissionYear,
		Major:         r.Major,
		ClassID:       r.ClassID,
		Status:        r.Status,
		UpdatedAt:     r.UpdatedAt,
	}
	for _, col := range []struct {
		data []byte
		dst  interface{}
	}{
		{r.Birthdate, &stu.Birthdate},
		{r.Address, &stu.Address},
		{r.Contact, &stu.Contact},
		{r.Family, &stu.Family},
	} {
		if len(col.data) == 0 {
			continue
		}
		if err := json.Unmarshal(col.data, col.dst); err != nil {
			return student.Student{}, errors.Wrap(err, "unmarshalling student column")
		}
	}
	return stu, nil
}

func newStudentRow(stu student.Student) (studentRow, error) {
	row := studentRow{
		ID:            stu.ID,
		Name:          stu.Name,
		Sex:           stu.Sex,
		AdmissionYear: stu.AdmissionYear,
		Major:         stu.Major,
		ClassID:       stu.ClassID,
		Status:        stu.Status,
		UpdatedAt:     time.Now().UTC(),
	}
	for _, col := range []struct {
		src interface{}
		dst *[]byte
	}{
		{stu.Birthdate, &row.Birthdate},
		{stu.Address, &row.Address},
		{stu.Contact, &row.Contact},
		{stu.Family, &row.Family},
	} {
		data, err := json.Marshal(col.src)
		if err != nil {
			return studentRow{}, errors.Wrap(err, "marshalling student column")
		}
		*col.dst = data
	}
	return row, nil
}

func (repo studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var rows []studentRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM students ORDER BY student_id`)
	if err != nil {
		return nil, err
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		stu, err := row.toStudent()
		if err != nil {
			return nil, err
		}
		students = append(students, stu)
	}
	return students, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id int64) (student.Student, error) {
	var row studentRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM students WHERE student_id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, err
	}
	return row.toStudent()
}

func (repo studentRepository) CreateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	row, err := newStudentRow(stu)
	if err != nil {
		return student.Student{}, err
	}
	err = repo.db.QueryRowxContext(ctx, `
		INSERT INTO students (name, sex, birthdate, admission_year, major, class_id, status, address, contact, family, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING student_id`,
		row.Name, row.Sex, row.Birthdate, row.AdmissionYear, row.Major, row.ClassID,
		row.Status, row.Address, row.Contact, row.Family, row.UpdatedAt,
	).Scan(&stu.ID)
	if err != nil {
		return student.Student{}, err
	}
	stu.UpdatedAt = row.UpdatedAt
	return stu, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	row, err := newStudentRow(stu)
	if err != nil {
		return student.Student{}, err
	}
	res, err := repo.db.ExecContext(ctx, `
		UPDATE students
		SET name = $2, sex = $3, birthdate = $4, admission_year = $5, major = $6,
		    class_id = $7, status = $8, address = $9, contact = $10, family = $11, updated_at = $12
		WHERE student_id = $1`,
		row.ID, row.Name, row.Sex, row.Birthdate, row.AdmissionYear, row.Major,
		row.ClassID, row.Status, row.Address, row.Contact, row.Family, row.UpdatedAt,
	)
	if err != nil {
		return student.Student{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	stu.UpdatedAt = row.UpdatedAt
	return stu, nil
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM students WHERE student_id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.ErrNotFound
	}
	return nil
}
