package guide

import "testing"

func TestCheckTables(t *testing.T) {
	if err := CheckTables(); err != nil {
		t.Fatalf("CheckTables: %v", err)
	}
}

func TestEverySituationResolvesToOnsetPhase(t *testing.T) {
	for _, onset := range AllOnsetTypes {
		for _, situation := range situationsByOnset[onset] {
			phase, ok := situationToPhase[situation]
			if !ok {
				t.Fatalf("situation %s has no phase mapping", situation)
			}
			if !phaseBelongsToOnset(phase, onset) {
				t.Fatalf("situation %s resolves to phase %s outside onset %s", situation, phase, onset)
			}
		}
	}
}

func TestEveryPhaseHasTaskTemplates(t *testing.T) {
	for _, phase := range AllPhases {
		if len(phaseTasks[phase]) == 0 {
			t.Fatalf("phase %s has no task templates", phase)
		}
		for _, tmpl := range phaseTasks[phase] {
			if tmpl.Role == "" {
				t.Fatalf("phase %s template %q has no role", phase, tmpl.Title)
			}
			if tmpl.Title == "" || tmpl.Description == "" {
				t.Fatalf("phase %s has an empty template", phase)
			}
		}
	}
}

func TestFlowStepsCoverPhases(t *testing.T) {
	for _, onset := range AllOnsetTypes {
		for _, step := range flowStepsByOnset[onset] {
			phase := PhaseForStep(step.StepID)
			if phase == "" {
				t.Fatalf("step %s maps to no phase", step.StepID)
			}
			if !phaseBelongsToOnset(phase, onset) {
				t.Fatalf("step %s maps to phase %s outside onset %s", step.StepID, phase, onset)
			}
		}
	}
}
