package catalog

import "strings"

// Record is one course row of the catalog. every value is kept as the
// portal emits it, credits and standardYear look numeric but aren't always.
type Record struct {
	Code              string `json:"code"`
	Name              string `json:"name"`
	InstructionalType string `json:"instructionalType"`
	Credits           string `json:"credits"`
	StandardYear      string `json:"standardYear"`
	Module            string `json:"module"`
	Period            string `json:"period"`
	Classroom         string `json:"classroom"`
	Instructors       string `json:"instructors"`
	Overview          string `json:"overview"`
	Remarks           string `json:"remarks"`
	UpdatedAt         string `json:"updatedAt"`
}

// IsGraduate reports whether a course code denotes a graduate level course,
// graduate codes start with "0".
func IsGraduate(code string) bool {
	return strings.HasPrefix(code, "0")
}

func (r Record) IsGraduate() bool {
	return IsGraduate(r.Code)
}

type column struct {
	header   string
	required bool
	set      func(r *Record, value string)
}

// columns maps the export's header names to record fields, only the course
// code is required since it is the partition key.
var columns = []column{
	{"科目番号", true, func(r *Record, v string) { r.Code = v }},
	{"科目名", false, func(r *Record, v string) { r.Name = v }},
	{"授業方法", false, func(r *Record, v string) { r.InstructionalType = v }},
	{"単位数", false, func(r *Record, v string) { r.Credits = v }},
	{"標準履修年次", false, func(r *Record, v string) { r.StandardYear = v }},
	{"実施学期", false, func(r *Record, v string) { r.Module = v }},
	{"曜時限", false, func(r *Record, v string) { r.Period = v }},
	{"教室", false, func(r *Record, v string) { r.Classroom = v }},
	{"担当教員", false, func(r *Record, v string) { r.Instructors = v }},
	{"授業概要", false, func(r *Record, v string) { r.Overview = v }},
	{"備考", false, func(r *Record, v string) { r.Remarks = v }},
	{"データ更新日", false, func(r *Record, v string) { r.UpdatedAt = v }},
}
