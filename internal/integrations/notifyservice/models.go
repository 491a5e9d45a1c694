package notifyservice

// NotificationKind тип уведомления
type NotificationKind string

const (
	// KindAccept запись принята сотрудником
	KindAccept NotificationKind = "accept"

	// KindReject запись отклонена сотрудником
	KindReject NotificationKind = "reject"

	// KindCancelled запись отменена
	KindCancelled NotificationKind = "cancelled"

	// KindExecuted запись выполнена (время записи наступило)
	KindExecuted NotificationKind = "executed"
)

// NotificationRequest модель запроса на отправку уведомления
type NotificationRequest struct {
	UserID  int64  `json:"userId"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ErrorResponse модель ошибки от NotifyService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
