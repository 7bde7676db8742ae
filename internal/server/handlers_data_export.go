package server

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func sanitizeCSVFilename(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "user"
	}
	var b strings.Builder
	for _, r := range trimmed {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		if r == '-' || r == '_' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	sanitized := strings.Trim(b.String(), "_")
	if sanitized == "" {
		return "user"
	}
	return sanitized
}

func timeOrEmpty(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}

// exportTasksCSV renders the current plan's task list as CSV so a family
// can share the division of work outside the app.
func (a *App) exportTasksCSV(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	state, err := a.loadGuideState(c.Request.Context(), user.ID)
	if err != nil {
		a.writeGuideStateError(c, err)
		return
	}
	if state.Plan == nil {
		writeError(c, http.StatusConflict, "No plan to export")
		return
	}

	var out bytes.Buffer
	writer := csv.NewWriter(&out)
	if err := writer.Write([]string{
		"task_id",
		"title",
		"description",
		"status",
		"priority",
		"deadline",
		"phase",
		"contact_office",
		"parent_task_id",
		"archived_at_utc",
		"created_at_utc",
	}); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to build CSV header")
		return
	}

	tasks := state.Plan.Tasks
	tasks = append(tasks, state.Plan.ArchivedTasks...)
	for _, task := range tasks {
		if err := writer.Write([]string{
			task.TaskID,
			task.Title,
			task.Description,
			string(task.Status),
			string(task.Priority),
			string(task.Deadline),
			string(task.Phase),
			task.ContactOffice,
			task.ParentTaskID,
			timeOrEmpty(task.ArchivedAt),
			task.CreatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			writeError(c, http.StatusInternalServerError, "Failed to write CSV rows")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to flush CSV")
		return
	}

	filename := fmt.Sprintf(
		"careguide_tasks_%s_%s.csv",
		sanitizeCSVFilename(user.ID),
		time.Now().UTC().Format("20060102_150405"),
	)

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.String(http.StatusOK, out.String())
}
