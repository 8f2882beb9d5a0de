package domain

// IssueCategory is reference data for classifying the kind of issue a
// ticket reports. Names are unique.
type IssueCategory struct {
	ID   int64
	Name string
}
