package menu

import (
	"fmt"
	"strings"

	"github.com/antoniostano/asistente/internal/llm"
)

const unnamedProject = "Proyecto definido anteriormente"

const manualGuide = "**Guía básica para desarrollar tu proyecto:**\n" +
	"1. Define el objetivo principal de tu idea\n" +
	"2. Identifica tu público objetivo\n" +
	"3. Establece un presupuesto estimado\n" +
	"4. Define las fechas de inicio y fin\n" +
	"5. Crea la lista de características principales\n\n"

const basicTasks = "1. Definir requisitos del proyecto\n" +
	"2. Crear plan de trabajo\n" +
	"3. Asignar responsabilidades\n" +
	"4. Establecer cronograma\n" +
	"5. Configurar entorno de desarrollo\n" +
	"6. Diseñar arquitectura del sistema\n" +
	"7. Implementar funcionalidades core\n" +
	"8. Realizar pruebas\n" +
	"9. Documentar el proyecto\n" +
	"10. Desplegar y entregar\n\n"

// Render converts a Reply into the text returned to clients.
func Render(r Reply) string {
	name := r.ProjectName
	if name == "" {
		name = unnamedProject
	}

	switch r.Kind {
	case KindIdeaPrompt:
		return "🚀 **CREAR NUEVO PROYECTO**\n\n" +
			"¡Perfecto! Vamos a crear un nuevo proyecto juntos.\n\n" +
			"💡 **Para comenzar, necesito que me cuentes:**\n" +
			"• ¿Cuál es tu idea de proyecto?\n" +
			"• ¿Qué problema quieres resolver?\n" +
			"• ¿Qué tipo de proyecto tienes en mente?\n\n" +
			"✍️ **Escribe tu idea del proyecto** y te ayudaré a desarrollarla con todos los detalles necesarios."

	case KindEmptyIdea:
		return "❌ **Error:** No se proporcionó una idea de proyecto.\n\n" +
			"Por favor, describe tu idea de proyecto para poder ayudarte a desarrollarla."

	case KindProjectCreated:
		return "🚀 **PROYECTO DESARROLLADO**\n\n" + r.Content + "\n\n" +
			"✅ **Proyecto creado exitosamente**\n" +
			"🎯 **Siguiente paso:** Puedes gestionar las tareas usando las opciones del menú principal\n\n" +
			ShowMenuSentinel

	case KindGatewayFailure:
		return "🚀 **DESARROLLO DE PROYECTO**\n\n" +
			llm.FailureText(r.Failure) + "\n\n" +
			"💡 **Tu idea de proyecto:** " + r.Idea + "\n\n" +
			manualGuide +
			"🔧 **Para solucionar:** Verifica la configuración de la API key en el backend\n\n" +
			ShowMenuSentinel

	case KindTaskList:
		return fmt.Sprintf("📋 **GESTIÓN DE TAREAS: %s**\n\n"+
			"📊 **Tareas actuales:** %d tareas\n\n"+
			"**Lista de tareas:**\n%s\n\n"+
			"➕ **AGREGAR NUEVA TAREA**\n\n"+
			"💡 **Para agregar una nueva tarea:**\n"+
			"✍️ Escribe la descripción de la nueva tarea que quieres agregar al proyecto.\n\n"+
			"📝 **Ejemplo:** \"Configurar base de datos PostgreSQL\" o \"Implementar sistema de autenticación\"\n\n"+
			"🔄 **La nueva tarea se agregará automáticamente a la lista existente.**",
			name, r.Total, r.Tasks)

	case KindFirstTaskPrompt:
		return fmt.Sprintf("📋 **CREAR PRIMERA TAREA: %s**\n\n"+
			"🎯 **Proyecto definido pero sin tareas.**\n\n"+
			"➕ **Para comenzar, agrega la primera tarea:**\n"+
			"✍️ Escribe la descripción de la primera tarea para este proyecto.\n\n"+
			"📝 **Ejemplo:** \"Definir requisitos del proyecto\" o \"Configurar entorno de desarrollo\"\n\n"+
			"🔄 **Esta será la primera tarea de tu proyecto.**",
			name)

	case KindNoProject:
		return "📋 **GESTIÓN DE TAREAS DEL PROYECTO**\n\n" +
			"❗ **No hay proyecto definido en esta sesión.**\n\n" +
			"💡 **Para gestionar tareas:**\n" +
			"1. Primero selecciona **'1. Crear un proyecto'** para definir tu proyecto\n" +
			"2. El sistema generará automáticamente las tareas iniciales\n" +
			"3. Después podrás agregar más tareas usando esta opción"

	case KindNoTasks:
		return "📋 **CONSULTAR TAREAS DEL PROYECTO**\n\n" +
			"❗ **No hay tareas guardadas en esta sesión.**\n\n" +
			"💡 **Para consultar tareas:**\n" +
			"1. Primero selecciona **'1. Crear un proyecto'** para definir tu proyecto con ChatGPT\n" +
			"2. El sistema generará automáticamente las 10 tareas principales\n" +
			"3. Después podrás consultar las tareas generadas"

	case KindMissingProject:
		return "❌ **Error:** No hay proyecto definido en esta sesión.\n\n" +
			"💡 Primero debes crear un proyecto usando la **opción 1**.\n\n" +
			ShowMenuSentinel

	case KindMissingTasks:
		return "❌ **Error:** No hay tareas definidas en esta sesión.\n\n" +
			"💡 Primero debes crear tareas usando la **opción 1** o **opción 2**.\n\n" +
			ShowMenuSentinel

	case KindTaskAdded:
		return fmt.Sprintf("✅ **TAREA AGREGADA EXITOSAMENTE**\n\n"+
			"📋 **Proyecto:** %s\n"+
			"➕ **Nueva tarea #%d:** %s\n\n"+
			"📊 **Total de tareas:** %d\n\n"+
			"**Lista actualizada:**\n%s\n\n"+
			"💡 **Puedes:**\n"+
			"• Seleccionar **'2. Crear tareas'** para agregar otra tarea\n"+
			"• Seleccionar **'3. Consultar tareas'** para ver todas las tareas\n"+
			"• Continuar con tu proyecto\n\n"+
			ShowMenuSentinel,
			name, r.TaskNumber, r.TaskText, r.Total, r.Tasks)

	case KindProgress:
		return fmt.Sprintf("📋 **CONSULTAR TAREAS: %s**\n\n"+
			"📊 **Progreso:** %d/%d tareas completadas (%.1f%%)\n"+
			"✅ **Completadas:** %d | ⏳ **Pendientes:** %d\n\n"+
			"**Lista de tareas:**\n%s\n\n"+
			"🎯 **MARCAR TAREA COMO COMPLETADA**\n\n"+
			"💡 **Para completar una tarea:**\n"+
			"✍️ Escribe el **número de la tarea** que has completado.\n\n"+
			"📝 **Ejemplo:** Escribe \"3\" para marcar la tarea #3 como completada\n\n"+
			"🔄 **El estado se actualizará automáticamente en tu proyecto.**",
			name, r.Completed, r.Total, percent(r.Completed, r.Total),
			r.Completed, r.Total-r.Completed, r.Tasks)

	case KindInvalidTaskNumber:
		return fmt.Sprintf("❌ **Error:** Número de tarea inválido.\n\n"+
			"💡 **Tareas disponibles:** del 1 al %d\n"+
			"📝 **Tu entrada:** %d\n\n"+
			"Por favor, ingresa un número válido entre 1 y %d.\n\n"+
			ShowMenuSentinel,
			r.Total, r.Input, r.Total)

	case KindNotANumber:
		return "❌ **Error:** Por favor ingresa un número válido de tarea.\n\n" +
			"📝 **Ejemplo:** Escribe \"3\" para marcar la tarea #3 como completada.\n\n" +
			ShowMenuSentinel

	case KindAlreadyCompleted:
		return fmt.Sprintf("ℹ️ **TAREA YA COMPLETADA**\n\n"+
			"📋 **Proyecto:** %s\n"+
			"✅ **Tarea #%d** ya estaba marcada como completada.\n\n"+
			"💡 **Estado actual:** Esta tarea ya se encuentra en tu lista de tareas completadas.\n\n"+
			"🔄 **Puedes:**\n"+
			"• Seleccionar **'3. Consultar tareas'** para ver el estado de todas las tareas\n"+
			"• Marcar otra tarea como completada\n"+
			"• Continuar con tu proyecto\n\n"+
			ShowMenuSentinel,
			name, r.TaskNumber)

	case KindTaskCompleted:
		return fmt.Sprintf("🎉 **TAREA COMPLETADA EXITOSAMENTE**\n\n"+
			"📋 **Proyecto:** %s\n"+
			"✅ **Tarea #%d completada:** %s\n\n"+
			"📊 **Progreso actualizado:**\n"+
			"• **Completadas:** %d/%d tareas (%.1f%%)\n"+
			"• **Pendientes:** %d tareas\n\n"+
			"🎯 **¡Excelente trabajo!** Has completado una tarea más de tu proyecto.\n\n"+
			"💡 **Puedes:**\n"+
			"• Seleccionar **'3. Consultar tareas'** para marcar otra tarea como completada\n"+
			"• Seleccionar **'2. Crear tareas'** para agregar nuevas tareas\n"+
			"• Continuar trabajando en tu proyecto\n\n"+
			ShowMenuSentinel,
			name, r.TaskNumber, r.TaskText,
			r.Completed, r.Total, percent(r.Completed, r.Total),
			r.Total-r.Completed)

	case KindFarewell:
		if r.SessionKey == "" {
			return "👋 ¡Gracias por usar el sistema de gestión de proyectos! ¡Hasta luego!"
		}
		return "👋 ¡Gracias por usar el sistema de gestión de proyectos! " +
			"¡Hasta luego! (Sesión " + r.SessionKey + " finalizada)"

	case KindLegacyTasks:
		return fmt.Sprintf("📋 **TAREAS DEL PROYECTO: %s**\n\n"+
			"🤖 **Tareas generadas por el sistema:**\n\n%s\n\n"+
			"✅ **Tareas creadas exitosamente**\n"+
			"💡 **Siguiente paso:** Puedes usar las opciones del menú para gestionar estas tareas\n\n"+
			ShowMenuSentinel,
			r.ProjectName, strings.TrimSpace(r.Content))

	case KindLegacyTasksFallback:
		return fmt.Sprintf("📋 **TAREAS DEL PROYECTO: %s**\n\n"+
			"❌ No pude conectar con ChatGPT en este momento.\n\n"+
			"💡 **Tareas básicas sugeridas:**\n"+
			basicTasks+
			ShowMenuSentinel,
			r.ProjectName)

	case KindSessionRequired:
		return "📊 **CONSULTAR TAREAS DEL PROYECTO**\n\n" +
			"❗ **Para consultar o completar tareas necesitas una sesión.**\n\n" +
			"💡 Envía tu **sessionId** junto con el número de la tarea para marcarla como completada.\n\n" +
			ShowMenuSentinel

	default:
		return "❌ Opción inválida. Por favor, seleccione una opción del 1 al 4."
	}
}
