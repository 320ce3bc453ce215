package tasks

import (
	"contracts-app/internal/api/crud"
	"contracts-app/internal/api/table"
	"contracts-app/internal/apperr"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/domain/teams"
	"contracts-app/internal/importer"
	"contracts-app/internal/infra/search"
	"contracts-app/internal/tenancy"

	"gorm.io/gorm"
)

type Input struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Status      *records.TaskStatus   `json:"status"`
	Priority    *records.TaskPriority `json:"priority"`
	Label       *string               `json:"label"`
	DueDate     *crud.Date            `json:"due_date"`
	AssigneeID  *uint                 `json:"assignee_id"`
}

func (in Input) Validate(create bool) error {
	return crud.First(
		crud.Required("title", in.Title, create),
		crud.OneOf("status", in.Status, records.TaskBacklog, records.TaskTodo, records.TaskInProgress, records.TaskDone, records.TaskCanceled),
		crud.OneOf("priority", in.Priority, records.PriorityLow, records.PriorityMedium, records.PriorityHigh),
	)
}

func (in Input) ApplyTo(t *records.Task) {
	crud.Set(&t.Title, in.Title)
	crud.Set(&t.Description, in.Description)
	crud.Set(&t.Status, in.Status)
	crud.Set(&t.Priority, in.Priority)
	crud.Set(&t.Label, in.Label)
	crud.SetDate(&t.DueDate, in.DueDate)
	if in.AssigneeID != nil {
		if *in.AssigneeID == 0 {
			t.AssigneeID = nil
		} else {
			crud.SetPtr(&t.AssigneeID, in.AssigneeID)
		}
	}

	if t.Status == "" {
		t.Status = records.TaskTodo
	}
	if t.Priority == "" {
		t.Priority = records.PriorityMedium
	}
}

// checkAssignee only allows assigning to the caller in a personal workspace
// and to team members in a team.
func checkAssignee(tx *gorm.DB, scope tenancy.Scope, t *records.Task) error {
	if t.AssigneeID == nil {
		return nil
	}
	if !scope.IsTeam() {
		if *t.AssigneeID != scope.UserID {
			return apperr.BadRequest("unknown_assignee", "assignee must be yourself outside a team")
		}
		return nil
	}
	var n int64
	err := tx.Model(&teams.Member{}).
		Where("team_id = ? AND user_id = ?", *scope.TeamID, *t.AssigneeID).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.BadRequest("unknown_assignee", "assignee is not a team member")
	}
	return nil
}

var Columns = table.Base(
	table.TextCol("title"),
	table.TextCol("description"),
	table.EnumCol("status", "backlog", "todo", "in_progress", "done", "canceled"),
	table.EnumCol("priority", "low", "medium", "high"),
	table.TextCol("label"),
	table.DateCol("due_date"),
	table.NumberCol("assignee_id"),
)

var exportHeader = []string{"id", "title", "status", "priority", "label", "due_date", "assignee_id", "description"}

func exportRow(t *records.Task) []string {
	var assignee *int64
	if t.AssigneeID != nil {
		v := int64(*t.AssigneeID)
		assignee = &v
	}
	return []string{
		t.ID, t.Title, string(t.Status), string(t.Priority), t.Label,
		table.FmtDate(t.DueDate), table.FmtInt(assignee), t.Description,
	}
}

var aliases = importer.NewAliases(map[string][]string{
	"title":       {"titulo", "tarea", "task", "nombre", "name"},
	"description": {"descripcion", "detalle", "notas", "notes"},
	"status":      {"estado", "estatus"},
	"priority":    {"prioridad"},
	"label":       {"etiqueta", "categoria", "tag", "category"},
	"due_date":    {"fecha limite", "vencimiento", "fecha de entrega", "due", "deadline", "fecha"},
})

func fromCSV(r *importer.Row) Input {
	return Input{
		Title:       crud.CSVString(r, "title"),
		Description: crud.CSVString(r, "description"),
		Status:      crud.CSVEnum[records.TaskStatus](r, "status", importer.TaskStatus),
		Priority:    crud.CSVEnum[records.TaskPriority](r, "priority", importer.TaskPriority),
		Label:       crud.CSVString(r, "label"),
		DueDate:     crud.CSVDate(r, "due_date"),
	}
}

func New() *crud.Resource[records.Task, *records.Task, Input] {
	return &crud.Resource[records.Task, *records.Task, Input]{
		Name:         "tasks",
		Columns:      Columns,
		ExportHeader: exportHeader,
		ExportRow:    exportRow,
		Aliases:      aliases,
		FromCSV:      fromCSV,
		BeforeSave:   checkAssignee,
		SearchType:   search.TypeTask,
		SearchText: func(t *records.Task) (string, string) {
			return t.Title, string(t.Status) + " " + t.Label
		},
	}
}
