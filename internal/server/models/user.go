package models

import "time"

// User is the durable registration row. Document path columns are nullable:
// a user may register text-only and upload documents later through the
// presigned-URL flow.
type User struct {
	ID            string
	Email         string
	FullName      string
	BirthDate     string
	NationalID    string
	Phone1        string
	Phone2        *string
	Address       string
	Instagram     *string
	Facebook      *string
	TikTok        *string
	Ref1Name      string
	Ref1Relation  string
	Ref2Name      string
	Ref2Relation  string
	MonthlyIncome float64
	ActivityType  string
	Position      string

	IDFilePath   *string
	RIFFilePath  *string
	Ref1IDPath   *string
	Ref2IDPath   *string
	WorkCertPath *string

	FilesUploaded   bool
	FilesUploadedAt *time.Time
	CreatedAt       time.Time
}
