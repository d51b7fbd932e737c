package domain

import "time"

// ============================================================
// Notificações transitórias (toast)
// ============================================================

// Severity is the closed set of toast severities. Each one is bound to a
// fixed display color; there is no open configuration.
type Severity int

const (
	SeverityError Severity = iota
	SeveritySuccess
)

// Color returns the display color bound to the severity.
func (s Severity) Color() string {
	if s == SeveritySuccess {
		return "#00A925"
	}
	return "#FF0000"
}

func (s Severity) String() string {
	if s == SeveritySuccess {
		return "success"
	}
	return "error"
}

// Notification is a transient user-visible message. Invariant: a visible
// notification always has a non-empty message.
type Notification struct {
	Message  string
	Severity Severity
}

// NotificationDuration is how long a toast stays on screen before it
// dismisses itself. There is no early-dismiss affordance.
const NotificationDuration = 1500 * time.Millisecond

// User-facing texts, kept verbatim from the mobile app.
const (
	MsgHireService      = "Contrate um Serviço"
	MsgContractError    = "Erro ."
	MsgNoContractFound  = "Nenhum Contrato Encontrado..."
	MsgNoActiveContract = "Usuário sem contrato ativo..."
	MsgProfileError     = "Erro ao buscar os dados do usuário!"
	MsgUploadError      = "Erro ao fazer upload da imagem."
	MsgPermissionDenied = "Desculpe, nós precisamos da permissão para acessar a biblioteca de imagens."
)
