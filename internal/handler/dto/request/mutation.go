package request

type MutationNotice struct {
	Table    string `json:"table" binding:"required"`
	RecordID int64  `json:"record_id" binding:"required"`
}
