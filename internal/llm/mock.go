package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// MockGateway provides deterministic local replies when no LLM is configured.
type MockGateway struct{}

func NewMockGateway() *MockGateway { return &MockGateway{} }

func (g *MockGateway) Generate(ctx context.Context, prompt string, _ int) (string, error) {
	select {
	case <-ctx.Done():
		return "", &Error{Kind: FailureConnectivity, Err: ctx.Err()}
	default:
	}
	return buildMockReply(prompt), nil
}

var quotedPattern = regexp.MustCompile(`["']([^"']+)["']`)

var mockSteps = []string{
	"Definir el alcance y los objetivos de %s",
	"Identificar a los usuarios y sus necesidades",
	"Levantar los requisitos funcionales",
	"Diseñar la arquitectura de la solución",
	"Preparar el entorno de desarrollo",
	"Implementar las funcionalidades principales",
	"Integrar los servicios externos",
	"Realizar pruebas de calidad",
	"Documentar el proyecto",
	"Desplegar y presentar %s",
}

func buildMockReply(prompt string) string {
	idea := "tu proyecto"
	if m := quotedPattern.FindStringSubmatch(prompt); m != nil && strings.TrimSpace(m[1]) != "" {
		idea = strings.TrimSpace(m[1])
	}
	name := mockProjectName(idea)

	var b strings.Builder
	fmt.Fprintf(&b, "Te propongo el proyecto llamado \"%s\" a partir de la idea: %s.\n\n", name, idea)
	for i, step := range mockSteps {
		if strings.Contains(step, "%s") {
			step = fmt.Sprintf(step, name)
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	return strings.TrimSpace(b.String())
}

func mockProjectName(idea string) string {
	var b strings.Builder
	words := strings.Fields(idea)
	for i, w := range words {
		if i == 3 {
			break
		}
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	if b.Len() == 0 {
		return "ProyectoNuevo"
	}
	return b.String()
}
