package models

// UploadJob помещается в очередь при каждой загрузке файла или сдаче работы
type UploadJob struct {
	FileID   string `json:"file_id"`
	FilePath string `json:"file_path"`
}

// ProgressStatus — закрытый набор статусов обработки файла. Строковые
// значения являются частью контракта с подключенными клиентами.
type ProgressStatus string

const (
	ProgressStarted    ProgressStatus = "Processing started"
	ProgressInProgress ProgressStatus = "Processing in progress"
	ProgressComplete   ProgressStatus = "Processing complete"
	ProgressFailed     ProgressStatus = "Processing failed"
)

func (ps ProgressStatus) String() string {
	return string(ps)
}

func IsValidProgressStatus(status string) bool {
	switch ProgressStatus(status) {
	case ProgressStarted, ProgressInProgress, ProgressComplete, ProgressFailed:
		return true
	default:
		return false
	}
}

// ProgressEvent рассылается всем подключенным клиентам; нигде не сохраняется
type ProgressEvent struct {
	FileID string         `json:"fileId"`
	Status ProgressStatus `json:"status"`
}

// EventFileUploadProgress — имя события для push-канала
const EventFileUploadProgress = "fileUploadProgress"

// EventAssignmentDeadline рассылается когда истекает срок сдачи задания
const EventAssignmentDeadline = "assignmentDeadline"

type DeadlineEvent struct {
	FileID   string `json:"fileId"`
	ClassID  string `json:"classId"`
	Name     string `json:"name"`
	Deadline string `json:"deadline"`
}
