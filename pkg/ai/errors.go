package ai

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials is matched by every error caused by a backend that
// has no API key or service URL configured.
var ErrMissingCredentials = errors.New("ai backend credentials not configured")

const (
	OpSummary    = "summary"
	OpExperience = "experience"
	OpSkills     = "skills"
)

var opMessages = map[string]string{
	OpSummary:    "No se pudo generar el resumen profesional. Intenta nuevamente.",
	OpExperience: "No se pudo generar la descripción de experiencia. Intenta nuevamente.",
	OpSkills:     "No se pudieron generar sugerencias de habilidades. Intenta nuevamente.",
}

// ConfigError names the setting that has to be provided before generation
// can work. It never triggers a fallback.
type ConfigError struct {
	Setting string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Setting == "AI_SERVICE_URL" {
		return "URL del servicio de IA no configurada. Verifica que AI_SERVICE_URL esté definida en tu archivo .env"
	}
	return fmt.Sprintf("API key de Gemini no configurada. Verifica que %s esté en tu archivo .env", e.Setting)
}

func (e *ConfigError) Unwrap() error { return ErrMissingCredentials }

// RemoteError wraps a failed call to the generative backend.
type RemoteError struct {
	Op     string
	Status int
	Cause  error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ai %s: status %d: %v", e.Op, e.Status, e.Cause)
	}
	return fmt.Sprintf("ai %s: %v", e.Op, e.Cause)
}

func (e *RemoteError) Unwrap() error { return e.Cause }

// UserMessage is the Spanish message shown to the person editing the CV.
func (e *RemoteError) UserMessage() string {
	if m, ok := opMessages[e.Op]; ok {
		return m
	}
	return "No se pudo completar la solicitud de IA. Intenta nuevamente."
}

// UserMessage returns the message to show for any error produced by Client.
func UserMessage(err error) string {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re.UserMessage()
	}
	if err == nil {
		return ""
	}
	return "No se pudo completar la solicitud de IA. Intenta nuevamente."
}
