package contextkeys

type contextKey string

const (
	SessionIDKey contextKey = "SessionID"
	UsernameKey  contextKey = "Username"
	// ActorKey - строка user_info для журнала аудита
	ActorKey contextKey = "Actor"
)
