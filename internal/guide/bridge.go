package guide

import (
	"time"

	"github.com/google/uuid"
)

// Roles the assessment bridge may target for its two-week action items:
// the tasks about family coordination and contact windows.
var bridgeTargetRoles = []TaskRole{
	RoleOrganizeFamily,
	RoleContactMSW,
	RoleContactChiikiHoukatsu,
}

// BridgeAssessment folds an assessment result into an existing plan.
// There is a single bridge target, the first family/contact task: it
// absorbs one two-week item while still unmerged, and every remaining
// item becomes a standalone task. Eligibilities are rebuilt from the
// candidate list, and the plan summary is overwritten with the
// assessment's short summary. The input plan is not mutated.
func BridgeAssessment(plan Plan, result AssessmentResult, now time.Time) Plan {
	nowUTC := now.UTC()

	bridged := plan
	bridged.Tasks = cloneTasks(plan.Tasks)
	bridged.ArchivedTasks = cloneTasks(plan.ArchivedTasks)

	for _, todo := range result.TwoWeekTasks {
		target := firstTaskWithRole(bridged.Tasks, bridgeTargetRoles)
		if target != nil && target.MergedFrom == nil {
			note := "\n\n【2週間タスク】" + todo.Text + "（担当: " + todo.AssignedTo
			if todo.Condition != "" {
				note += "、条件: " + todo.Condition
			}
			note += "）"
			target.Description += note
			target.MergedFrom = &TaskMergeHistory{
				Action:       MergeEnrich,
				SourceTaskID: target.TaskID,
				MergedAt:     nowUTC,
			}
			target.UpdatedAt = nowUTC
			continue
		}
		if taskTitleExists(bridged.Tasks, todo.Text) {
			continue
		}
		description := "担当: " + todo.AssignedTo
		if todo.Condition != "" {
			description += "\n条件: " + todo.Condition
		}
		bridged.Tasks = append(bridged.Tasks, Task{
			TaskID:      uuid.NewString(),
			Role:        RoleTwoWeekAction,
			Title:       todo.Text,
			Description: description,
			Status:      TaskStatusTodo,
			Source:      TaskSourceDetailed,
			Priority:    PriorityNormal,
			Deadline:    DeadlineWithin2w,
			Phase:       bridged.Phase,
			CreatedAt:   nowUTC,
			UpdatedAt:   nowUTC,
		})
	}

	bridged.ServiceEligibilities = eligibilitiesFromCandidates(result, bridged.Tasks)

	if len(result.ContactWindows) > 0 && len(bridged.Tasks) > 0 {
		if target := firstUnmergedHighPriorityTask(bridged.Tasks); target != nil {
			office := ""
			for i, w := range result.ContactWindows {
				if i > 0 {
					office += "、"
				}
				office += w.Name + "（" + w.Role + "）"
			}
			target.ContactOffice = office
			target.UpdatedAt = nowUTC
		}
	}

	bridged.Version = PlanVersionDetailed
	bridged.ConclusionSummary = result.ShortSummary
	bridged.UpdatedAt = nowUTC
	return bridged
}

// eligibilitiesFromCandidates emits one eligibility per area that still
// has candidates after filtering, in fixed area order so output is
// reproducible run to run.
func eligibilitiesFromCandidates(result AssessmentResult, tasks []Task) []ServiceEligibility {
	byArea := make(map[AreaName][]CandidateService, len(allAreas))
	for _, c := range result.Candidates {
		byArea[c.Area] = append(byArea[c.Area], c)
	}

	eligibilities := make([]ServiceEligibility, 0, len(allAreas))
	for _, area := range allAreas {
		candidates := byArea[area]
		if len(candidates) == 0 {
			continue
		}
		category := areaToCategory[area]
		description := ""
		for i, c := range candidates {
			if i > 0 {
				description += "\n"
			}
			description += c.Name + ": " + c.Summary
		}
		eligibilities = append(eligibilities, ServiceEligibility{
			Category:         category,
			ServiceName:      string(area),
			IsLikelyEligible: result.AreaInvolvement[area] == InvolvementHigh,
			LinkedTaskID:     taskIDOrEmpty(firstLiveTaskWithCategory(tasks, category)),
			Description:      description,
		})
	}
	return eligibilities
}

// firstTaskWithRole scans in task order so the bridge target stays the
// same task across iterations, merged or not.
func firstTaskWithRole(tasks []Task, roles []TaskRole) *Task {
	for i := range tasks {
		if tasks[i].ArchivedAt != nil {
			continue
		}
		for _, role := range roles {
			if tasks[i].Role == role {
				return &tasks[i]
			}
		}
	}
	return nil
}

func firstUnmergedHighPriorityTask(tasks []Task) *Task {
	for i := range tasks {
		if tasks[i].Priority == PriorityHigh && tasks[i].ArchivedAt == nil && tasks[i].MergedFrom == nil {
			return &tasks[i]
		}
	}
	return nil
}

func taskTitleExists(tasks []Task, title string) bool {
	for i := range tasks {
		if tasks[i].Title == title {
			return true
		}
	}
	return false
}
