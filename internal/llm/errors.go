package llm

import (
	"errors"
	"fmt"
	"strings"
)

// FailureKind classifies why a Generate call failed.
type FailureKind string

const (
	FailureQuotaExceeded      FailureKind = "quota_exceeded"
	FailureInvalidCredentials FailureKind = "invalid_credentials"
	FailureConnectivity       FailureKind = "connectivity"
)

// Error is returned by every Gateway backend on failure.
type Error struct {
	Kind FailureKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "llm " + string(e.Kind)
	}
	return fmt.Sprintf("llm %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Classify maps an upstream error payload to a FailureKind by looking for the
// well-known OpenAI error codes. Anything unrecognised is a connectivity failure.
func Classify(detail string) FailureKind {
	switch {
	case strings.Contains(detail, "insufficient_quota"):
		return FailureQuotaExceeded
	case strings.Contains(detail, "invalid_api_key"):
		return FailureInvalidCredentials
	default:
		return FailureConnectivity
	}
}

// KindOf returns the FailureKind carried by err, classifying raw errors by text.
func KindOf(err error) FailureKind {
	if err == nil {
		return ""
	}
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return Classify(err.Error())
}

// FailureText is the user-facing explanation for a failure kind.
func FailureText(kind FailureKind) string {
	switch kind {
	case FailureQuotaExceeded:
		return "❌ **Cuota de OpenAI excedida**\n\n" +
			"Tu cuenta de OpenAI ha alcanzado el límite de uso.\n\n" +
			"**Para solucionarlo:**\n" +
			"• Ve a https://platform.openai.com/account/billing\n" +
			"• Agrega créditos a tu cuenta\n" +
			"• O espera hasta el próximo período de facturación\n\n" +
			"Una vez resuelto, la funcionalidad funcionará correctamente."
	case FailureInvalidCredentials:
		return "❌ **API Key inválida**\n\n" +
			"La API key de OpenAI no es válida o ha expirado.\n\n" +
			"**Para solucionarlo:**\n" +
			"• Ve a https://platform.openai.com/account/api-keys\n" +
			"• Crea una nueva API key\n" +
			"• Actualiza la configuración del backend"
	default:
		return "❌ **Error de conexión con OpenAI**\n\n" +
			"No se pudo conectar con la API de OpenAI.\n\n" +
			"**Posibles causas:**\n" +
			"• Problemas de conectividad\n" +
			"• Servicio temporalmente no disponible\n" +
			"• Límite de velocidad alcanzado\n\n" +
			"Por favor, inténtalo más tarde."
	}
}
