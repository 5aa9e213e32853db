package apierrors

const (
	MsgFailListTask       = "errorListTask"
	MsgFailGetTask        = "failGetTask"
	MsgInvalidTaskPayload = "invalidTaskPayload"
	MsgInvalidTaskQuery   = "invalidTaskQuery"
	MsgTaskNotFound       = "taskNotFound"
	MsgFailCreateTask     = "failCreateTask"
	MsgFailUpdateTask     = "failUpdateTask"
	MsgFailDeleteTask     = "failDeleteTask"
	MsgFailTaskStats      = "failTaskStats"
	MsgFailNotifications  = "failNotifications"
	MsgStoreUnavailable   = "storeUnavailable"
	MsgUnauthenticated    = "unauthenticated"
	MsgTaskDeleted        = "taskDeleted"
)
