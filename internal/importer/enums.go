package importer

import "contracts-app/internal/domain/records"

func values(m map[string][]string) map[string]string {
	out := map[string]string{}
	for canonical, spellings := range m {
		out[NormalizeKey(canonical)] = canonical
		for _, s := range spellings {
			out[NormalizeKey(s)] = canonical
		}
	}
	return out
}

var (
	ContractStatus = Enum{
		Values: values(map[string][]string{
			string(records.ContractActive):      {"vigente", "activo", "activa", "en vigor", "current"},
			string(records.ContractFinished):    {"finalizado", "finalizada", "terminado", "vencido", "expirado", "expired", "ended", "inactive"},
			string(records.ContractUnspecified): {"sin especificar", "no especificado", "n/a", "-", "?"},
		}),
		Default:  string(records.ContractUnspecified),
		Fallback: string(records.ContractUnspecified),
	}

	Expansion = Enum{
		Values: values(map[string][]string{
			string(records.ExpansionYes):         {"si", "sí", "y", "true", "1", "x", "✓", "posible", "renovable"},
			string(records.ExpansionNo):          {"n", "false", "0", "no renovable"},
			string(records.ExpansionUnspecified): {"sin especificar", "no especificado", "n/a", "?"},
		}),
		Default:  string(records.ExpansionUnspecified),
		Fallback: string(records.ExpansionUnspecified),
	}

	ReleaseType = Enum{
		Values: values(map[string][]string{
			string(records.ReleaseSingle):      {"sencillo", "simple", "track", "tema"},
			string(records.ReleaseEP):          {"e.p.", "extended play"},
			string(records.ReleaseAlbum):       {"lp", "disco", "álbum", "long play"},
			string(records.ReleaseUnspecified): {"sin especificar", "n/a"},
		}),
		Default:  string(records.ReleaseUnspecified),
		Fallback: string(records.ReleaseUnspecified),
	}

	ReleaseFocus = Enum{
		Values: values(map[string][]string{
			string(records.FocusSoft):        {"suave", "soft launch", "lanzamiento suave"},
			string(records.FocusFocus):       {"foco", "focus track", "prioridad", "priority"},
			string(records.FocusUnspecified): {"sin especificar", "n/a"},
		}),
		Default:  string(records.FocusUnspecified),
		Fallback: string(records.FocusUnspecified),
	}

	TaskStatus = Enum{
		Values: values(map[string][]string{
			string(records.TaskBacklog):    {"pendiente de priorizar", "icebox"},
			string(records.TaskTodo):       {"to do", "pendiente", "por hacer", "open", "abierta"},
			string(records.TaskInProgress): {"in progress", "en progreso", "en curso", "doing", "wip"},
			string(records.TaskDone):       {"hecho", "hecha", "completado", "completada", "terminada", "closed", "completed"},
			string(records.TaskCanceled):   {"cancelled", "cancelado", "cancelada", "descartada"},
		}),
		Default: string(records.TaskTodo),
	}

	TaskPriority = Enum{
		Values: values(map[string][]string{
			string(records.PriorityLow):    {"baja", "minor"},
			string(records.PriorityMedium): {"media", "normal", "med"},
			string(records.PriorityHigh):   {"alta", "urgente", "urgent", "critical"},
		}),
		Default: string(records.PriorityMedium),
	}
)
