package ports

// Niveles de aviso no bloqueante.
const (
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

// Notifier publica avisos no bloqueantes para el usuario (datos viejos, retiro encolado...).
type Notifier interface {
	Notify(level, message string)
}

// ConnectivityReader estado de conectividad que se cree vigente.
type ConnectivityReader interface {
	Online() bool
}
