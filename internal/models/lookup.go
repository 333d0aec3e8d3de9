package models

// Designation is read-only master data. IsJudicial feeds the succession
// eligibility classifier; the API never manages these rows.
type Designation struct {
	ID         string `db:"id" json:"id"`
	Title      string `db:"title" json:"title"`
	IsJudicial bool   `db:"is_judicial" json:"is_judicial"`
}

// PostingCategory is read-only master data. IsOffice feeds the succession
// eligibility classifier.
type PostingCategory struct {
	ID       string `db:"id" json:"id"`
	Title    string `db:"title" json:"title"`
	IsOffice bool   `db:"is_office" json:"is_office"`
}
