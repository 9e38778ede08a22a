package employees_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/employees"
)

var subjectColumns = []string{"employee_number", "full_name", "payroll_number"}

func TestStoreFindByNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(`WHERE employee_number = \$1`).
		WithArgs("556677").
		WillReturnRows(sqlmock.NewRows(subjectColumns).AddRow("556677", "Jordan Lee", "P-556677"))

	got, err := employees.NewStore(db).FindByNumber(context.Background(), "556677")
	if err != nil {
		t.Fatalf("FindByNumber() error = %v", err)
	}
	if got.ID != "556677" || got.DisplayName != "Jordan Lee" || got.SecondaryID != "P-556677" {
		t.Errorf("got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestStoreFindByNumberMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(`WHERE employee_number = \$1`).
		WithArgs("000001").
		WillReturnRows(sqlmock.NewRows(subjectColumns))

	_, err = employees.NewStore(db).FindByNumber(context.Background(), "000001")
	if !errors.Is(err, employees.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStoreSearchByName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		pattern string
	}{
		{"plain", "Alex Martin", "%Alex Martin%"},
		{"wildcards escaped", "50%_off", `%50\%\_off%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatal(err)
			}
			defer db.Close()

			mock.ExpectQuery(`ILIKE \$1`).
				WithArgs(tt.pattern).
				WillReturnRows(sqlmock.NewRows(subjectColumns).
					AddRow("102938", "Alex Martin", "").
					AddRow("445566", "Alex Martin", ""))

			got, err := employees.NewStore(db).SearchByName(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("SearchByName() error = %v", err)
			}
			if len(got) != 2 || got[0].ID != "102938" {
				t.Errorf("got %+v", got)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestStoreSearchFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(`ILIKE`).WillReturnError(errors.New("server closed the connection"))

	if _, err := employees.NewStore(db).SearchByName(context.Background(), "Alex"); err == nil {
		t.Error("expected error")
	}
}
