package catalog

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func shiftJIS(t testing.TB, text string) []byte {
	encoded, err := japanese.ShiftJIS.NewEncoder().String(text)
	if err != nil {
		t.Fatal(err)
	}
	return []byte(encoded)
}

const fullExport = `"科目番号","科目名","授業方法","単位数","標準履修年次","実施学期","曜時限","教室","担当教員","授業概要","備考","科目等履修生申請可否","申請条件","短期留学生申請可否","申請条件","英語(日本語)科目名","科目コード","要件科目名","データ更新日"
"GB10234"," 情報科学概論 ","1","2.0","1","春AB","月3,4","3A202","筑波 太郎","情報科学の概要を学ぶ。""基礎""を含む。","","×","","×","","Introduction to Information Science","","","2025-03-01 10:00:00"
"01CF101","計算機科学特論","1","1.0","1・2","秋A","集中","","大学院 花子","","英語で授業。","","","","","Advanced Computer Science","","","2025-03-02 09:30:00"
`

func TestDecodeFullExport(t *testing.T) {
	records, err := Decode(context.Background(), bytes.NewReader(shiftJIS(t, fullExport)))
	require.NoError(t, err)

	expected := []Record{
		{
			Code:              "GB10234",
			Name:              "情報科学概論",
			InstructionalType: "1",
			Credits:           "2.0",
			StandardYear:      "1",
			Module:            "春AB",
			Period:            "月3,4",
			Classroom:         "3A202",
			Instructors:       "筑波 太郎",
			Overview:          `情報科学の概要を学ぶ。"基礎"を含む。`,
			Remarks:           "",
			UpdatedAt:         "2025-03-01 10:00:00",
		},
		{
			Code:              "01CF101",
			Name:              "計算機科学特論",
			InstructionalType: "1",
			Credits:           "1.0",
			StandardYear:      "1・2",
			Module:            "秋A",
			Period:            "集中",
			Instructors:       "大学院 花子",
			Remarks:           "英語で授業。",
			UpdatedAt:         "2025-03-02 09:30:00",
		},
	}
	if diff := cmp.Diff(expected, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeHeaderMapping(t *testing.T) {
	// same data with the columns reordered
	reordered := "科目名,データ更新日,科目番号\nIntro,2025-01-01,CS101\n"
	records, err := Decode(context.Background(), bytes.NewReader(shiftJIS(t, reordered)))
	require.NoError(t, err)
	require.Equal(t, []Record{{Code: "CS101", Name: "Intro", UpdatedAt: "2025-01-01"}}, records)
}

func TestDecodeScenario(t *testing.T) {
	raw := shiftJIS(t, "科目番号,科目名\n0XX101,Graduate Seminar\nCS101,Intro\n")
	records, err := Decode(context.Background(), bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "0XX101", records[0].Code)
	require.Equal(t, "Graduate Seminar", records[0].Name)

	p := Partition(records)
	require.Equal(t, []Record{records[0]}, p.Graduate)
	require.Equal(t, []Record{records[1]}, p.Undergraduate)
}

func TestDecodeHeaderOnly(t *testing.T) {
	records, err := Decode(context.Background(), bytes.NewReader(shiftJIS(t, "科目番号,科目名\n")))
	require.NoError(t, err)
	require.NotNil(t, records)
	require.Empty(t, records)
}

func TestDecodeInvalidBytesAreReplaced(t *testing.T) {
	raw := append(shiftJIS(t, "科目番号,科目名\nCS101,"), []byte("bad\xfdname\n")...)
	records, err := Decode(context.Background(), bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, "bad\ufffdname", records[0].Name)
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		line     int
		expected error
	}{
		{
			name:     "empty input",
			input:    "",
			line:     1,
			expected: ErrMissingHeader,
		},
		{
			name:     "missing code column",
			input:    "科目名,単位数\nIntro,2\n",
			line:     1,
			expected: ErrMissingColumn,
		},
		{
			name:     "extra field",
			input:    "科目番号,科目名\nCS101,Intro\nCS102,Data,Extra\n",
			line:     3,
			expected: ErrFieldCount,
		},
		{
			name:     "missing field",
			input:    "科目番号,科目名\nCS101\n",
			line:     2,
			expected: ErrFieldCount,
		},
		{
			name:     "empty code",
			input:    "科目番号,科目名\n  ,Intro\n",
			line:     2,
			expected: ErrEmptyCode,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			records, err := Decode(context.Background(), bytes.NewReader(shiftJIS(t, test.input)))
			require.Nil(t, records)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			require.Equal(t, test.line, parseErr.Line)
			require.True(t, errors.Is(err, test.expected), "got %v", err)
		})
	}
}

func TestDecodeBadQuote(t *testing.T) {
	_, err := Decode(context.Background(), bytes.NewReader(shiftJIS(t, "科目番号\n\"CS101\n")))
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestDecodeIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kdb.csv")
	err := os.WriteFile(path, shiftJIS(t, fullExport), 0600)
	require.NoError(t, err)

	first, err := DecodeFile(context.Background(), path)
	require.NoError(t, err)
	second, err := DecodeFile(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := DecodeFile(context.Background(), filepath.Join(t.TempDir(), "none.csv"))
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	require.True(t, errors.Is(err, os.ErrNotExist))
}
