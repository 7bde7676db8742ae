package guide

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunMinimalDiagnosis resolves the care-journey phase from the two intake
// answers. Both values come from closed UI enumerations; an unknown pair is
// a caller bug, not a user error.
func RunMinimalDiagnosis(onset OnsetType, situation Situation, now time.Time) (MinimalDiagnosis, error) {
	if !situationBelongsToOnset(situation, onset) {
		return MinimalDiagnosis{}, fmt.Errorf("situation %q is not valid for onset type %q", situation, onset)
	}
	phase, ok := situationToPhase[situation]
	if !ok {
		return MinimalDiagnosis{}, fmt.Errorf("situation %q has no phase mapping", situation)
	}
	return MinimalDiagnosis{
		ID:        uuid.NewString(),
		OnsetType: onset,
		Situation: situation,
		Phase:     phase,
		CreatedAt: now.UTC(),
	}, nil
}

func situationBelongsToOnset(situation Situation, onset OnsetType) bool {
	for _, s := range situationsByOnset[onset] {
		if s == situation {
			return true
		}
	}
	return false
}

// GenerateMinimalPlan builds the first plan for a diagnosis: the full flow
// strip with the current phase marked, and tasks instantiated from the
// templates of every phase reachable from the onset type.
func GenerateMinimalPlan(diagnosis MinimalDiagnosis, now time.Time) Plan {
	nowUTC := now.UTC()

	tasks := make([]Task, 0, 20)
	for _, phase := range phasesByOnset[diagnosis.OnsetType] {
		tasks = append(tasks, instantiatePhaseTasks(phase, nowUTC)...)
	}

	return Plan{
		PlanID:             uuid.NewString(),
		Version:            PlanVersionMinimal,
		MinimalDiagnosisID: diagnosis.ID,
		Phase:              diagnosis.Phase,
		PhaseLabel:         PhaseLabels[diagnosis.Phase],
		ConclusionSummary:  phaseSummaries[diagnosis.Phase],
		FirstContact:       firstContacts[diagnosis.Phase],
		Tasks:              tasks,
		ArchivedTasks:      []Task{},
		FlowSteps:          buildFlowSteps(diagnosis.OnsetType, diagnosis.Phase),
		CreatedAt:          nowUTC,
		UpdatedAt:          nowUTC,
	}
}

func buildFlowSteps(onset OnsetType, currentPhase Phase) []FlowStep {
	currentStepIDs := currentStepsByPhase[currentPhase]
	template := flowStepsByOnset[onset]

	steps := make([]FlowStep, len(template))
	for i, step := range template {
		step.IsCurrent = containsString(currentStepIDs, step.StepID)
		steps[i] = step
	}
	return steps
}

func instantiatePhaseTasks(phase Phase, now time.Time) []Task {
	templates := phaseTasks[phase]
	tasks := make([]Task, 0, len(templates))
	for _, tmpl := range templates {
		tasks = append(tasks, Task{
			TaskID:                 uuid.NewString(),
			Role:                   tmpl.Role,
			Title:                  tmpl.Title,
			Description:            tmpl.Description,
			Status:                 TaskStatusTodo,
			Source:                 TaskSourceMinimal,
			Priority:               tmpl.Priority,
			Deadline:               tmpl.Deadline,
			Phase:                  phase,
			RelatedServiceCategory: tmpl.RelatedServiceCategory,
			CreatedAt:              now,
			UpdatedAt:              now,
		})
	}
	return tasks
}

// NewDetailedDiagnosis wraps a (possibly partial) answer set with identity
// and provenance. The input is consumed incrementally: callers may pass 1
// to 10 answered fields across up to three questionnaire steps.
func NewDetailedDiagnosis(minimalDiagnosisID string, input DetailedDiagnosisInput, completedSteps int, now time.Time) DetailedDiagnosis {
	return DetailedDiagnosis{
		DetailedDiagnosisInput: input,
		ID:                     uuid.NewString(),
		MinimalDiagnosisID:     minimalDiagnosisID,
		CompletedSteps:         completedSteps,
		CreatedAt:              now.UTC(),
	}
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
