package models

// FileBlob is a document embedded in a registration request: base64 payload
// plus the content type the client declared for it.
type FileBlob struct {
	Data        string `json:"data"`
	ContentType string `json:"content_type"`
}

// RegistrationPayload is the inbound registration request body. The blob
// fields are optional; a payload without any of them is a text-only
// registration.
type RegistrationPayload struct {
	Email         string  `json:"email"`
	FullName      string  `json:"full_name"`
	BirthDate     string  `json:"birth_date"`
	NationalID    string  `json:"ci"`
	Phone1        string  `json:"phone1"`
	Phone2        *string `json:"phone2"`
	Address       string  `json:"address"`
	Instagram     *string `json:"instagram"`
	Facebook      *string `json:"facebook"`
	TikTok        *string `json:"tiktok"`
	Ref1Name      string  `json:"ref1_name"`
	Ref1Relation  string  `json:"ref1_relation"`
	Ref2Name      string  `json:"ref2_name"`
	Ref2Relation  string  `json:"ref2_relation"`
	MonthlyIncome float64 `json:"monthly_income"`
	ActivityType  string  `json:"activity_type"`
	Position      string  `json:"position"`

	IDFile   *FileBlob `json:"id_file"`
	RIFFile  *FileBlob `json:"rif_file"`
	Ref1ID   *FileBlob `json:"ref1_id"`
	Ref2ID   *FileBlob `json:"ref2_id"`
	WorkCert *FileBlob `json:"work_cert"`
}

// UploadedObject records one object written to storage during a registration
// attempt. The set of these drives compensation: if the row insert fails,
// every object in the set is deleted before the operation reports failure.
type UploadedObject struct {
	FormField  string
	ObjectKey  string
	StorageURL string
}
