// internals/features/members/member/service/import_service.go
package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"gerejaku_backend/internals/features/members/member/model"
)

/* =========================================================
   Bulk import member dari spreadsheet (.xlsx)

   Format kolom (baris pertama = header, dilewati):
   A nama depan | B nama belakang | C gender (male/female)
   D kelompok usia (child/adolescent/adult) | E phone | F email
========================================================= */

type ImportRow struct {
	RowNumber int
	FirstName string
	LastName  string
	Gender    model.Gender
	AgeGroup  model.AgeGroup
	Phone     *string
	Email     *string
}

type ImportRowError struct {
	RowNumber int    `json:"row_number"`
	Message   string `json:"message"`
}

// ParseMemberWorkbook membaca sheet pertama dan memvalidasi per baris.
// Baris invalid tidak menghentikan parsing — dilaporkan di errs supaya
// admin bisa memperbaiki file sekali jalan.
func ParseMemberWorkbook(r io.Reader) ([]ImportRow, []ImportRowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("file tidak bisa dibaca sebagai xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook tidak punya sheet")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, err
	}

	var (
		out  []ImportRow
		errs []ImportRowError
	)

	for i, cells := range rows {
		if i == 0 {
			continue // header
		}
		rowNum := i + 1

		get := func(col int) string {
			if col < len(cells) {
				return strings.TrimSpace(cells[col])
			}
			return ""
		}

		firstName := get(0)
		if firstName == "" {
			// baris kosong total diabaikan diam-diam
			if get(1) == "" && get(2) == "" && get(3) == "" {
				continue
			}
			errs = append(errs, ImportRowError{rowNum, "nama depan wajib diisi"})
			continue
		}

		gender := model.Gender(strings.ToLower(get(2)))
		if gender != model.GenderMale && gender != model.GenderFemale {
			errs = append(errs, ImportRowError{rowNum, "gender harus male/female"})
			continue
		}

		ageGroup := model.AgeGroup(strings.ToLower(get(3)))
		switch ageGroup {
		case model.AgeGroupChild, model.AgeGroupAdolescent, model.AgeGroupAdult:
		default:
			errs = append(errs, ImportRowError{rowNum, "kelompok usia harus child/adolescent/adult"})
			continue
		}

		row := ImportRow{
			RowNumber: rowNum,
			FirstName: firstName,
			LastName:  get(1),
			Gender:    gender,
			AgeGroup:  ageGroup,
		}
		if p := get(4); p != "" {
			row.Phone = &p
		}
		if e := get(5); e != "" {
			row.Email = &e
		}

		// Adult wajib punya phone
		if ageGroup == model.AgeGroupAdult && row.Phone == nil {
			errs = append(errs, ImportRowError{rowNum, "member dewasa wajib punya nomor telepon"})
			continue
		}

		out = append(out, row)
	}

	return out, errs, nil
}
