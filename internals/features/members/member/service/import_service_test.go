package service

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gerejaku_backend/internals/features/members/member/model"
)

// buildWorkbook menulis xlsx in-memory: baris pertama header, sisanya data.
func buildWorkbook(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []string{"Nama Depan", "Nama Belakang", "Gender", "Kelompok Usia", "Telepon", "Email"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseMemberWorkbook_ValidRows(t *testing.T) {
	buf := buildWorkbook(t, [][]string{
		{"Agus", "Salim", "male", "adult", "+628123456789", "agus@contoh.id"},
		{"Rut", "", "female", "child", "", ""},
		{"Timotius", "Halim", "MALE", "Adolescent", "", "tim@contoh.id"},
	})

	rows, errs, err := ParseMemberWorkbook(buf)
	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].RowNumber)
	assert.Equal(t, "Agus", rows[0].FirstName)
	assert.Equal(t, "Salim", rows[0].LastName)
	assert.Equal(t, model.GenderMale, rows[0].Gender)
	assert.Equal(t, model.AgeGroupAdult, rows[0].AgeGroup)
	require.NotNil(t, rows[0].Phone)
	assert.Equal(t, "+628123456789", *rows[0].Phone)
	require.NotNil(t, rows[0].Email)

	// anak tanpa phone/email sah
	assert.Nil(t, rows[1].Phone)
	assert.Nil(t, rows[1].Email)

	// gender/age group tidak case-sensitive
	assert.Equal(t, model.GenderMale, rows[2].Gender)
	assert.Equal(t, model.AgeGroupAdolescent, rows[2].AgeGroup)
}

func TestParseMemberWorkbook_InvalidRowsReportedNotFatal(t *testing.T) {
	buf := buildWorkbook(t, [][]string{
		{"Agus", "Salim", "male", "adult", "+628123456789", ""},
		{"", "Tanpa Nama", "female", "adult", "", ""},
		{"Budi", "", "laki-laki", "adult", "+62811", ""},
		{"Citra", "", "female", "lansia", "", ""},
		{"Dewi", "", "female", "adult", "", ""}, // adult tanpa phone
	})

	rows, errs, err := ParseMemberWorkbook(buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Agus", rows[0].FirstName)

	require.Len(t, errs, 4)
	byRow := map[int]string{}
	for _, e := range errs {
		byRow[e.RowNumber] = e.Message
	}
	assert.Contains(t, byRow[3], "nama depan")
	assert.Contains(t, byRow[4], "gender")
	assert.Contains(t, byRow[5], "kelompok usia")
	assert.Contains(t, byRow[6], "telepon")
}

func TestParseMemberWorkbook_BlankRowsSkippedSilently(t *testing.T) {
	buf := buildWorkbook(t, [][]string{
		{"", "", "", "", "", ""},
		{"Agus", "Salim", "male", "adult", "+628123456789", ""},
		{"", "", "", "", "", ""},
	})

	rows, errs, err := ParseMemberWorkbook(buf)
	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].RowNumber)
}

func TestParseMemberWorkbook_WhitespaceTrimmed(t *testing.T) {
	buf := buildWorkbook(t, [][]string{
		{"  Agus  ", " Salim ", " male ", " adult ", " +628123456789 ", ""},
	})

	rows, errs, err := ParseMemberWorkbook(buf)
	require.NoError(t, err)
	assert.Empty(t, errs)
	require.Len(t, rows, 1)
	assert.Equal(t, "Agus", rows[0].FirstName)
	assert.Equal(t, "Salim", rows[0].LastName)
	assert.Equal(t, "+628123456789", *rows[0].Phone)
}

func TestParseMemberWorkbook_HeaderOnly(t *testing.T) {
	buf := buildWorkbook(t, nil)

	rows, errs, err := ParseMemberWorkbook(buf)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, errs)
}

func TestParseMemberWorkbook_NotAnXLSX(t *testing.T) {
	_, _, err := ParseMemberWorkbook(strings.NewReader("nama,gender\nAgus,male\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xlsx")
}
