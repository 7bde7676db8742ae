package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"careguide/backend/internal/guide"
)

func (a *App) getGuideOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"onset_types": guide.OnsetOptions,
		"situations":  guide.SituationOptions,
	})
}

func (a *App) postDiagnosis(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var payload diagnosisRequest
	if !mustJSON(c, &payload) {
		return
	}

	now := time.Now()
	diagnosis, err := guide.RunMinimalDiagnosis(
		guide.OnsetType(strings.TrimSpace(payload.OnsetType)),
		guide.Situation(strings.TrimSpace(payload.Situation)),
		now,
	)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	plan := guide.GenerateMinimalPlan(diagnosis, now)

	state := GuideState{
		MinimalDiagnosis: &diagnosis,
		Plan:             &plan,
	}
	if err := a.saveGuideState(c.Request.Context(), user.ID, state, now); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to save guide state")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"diagnosis": diagnosis,
		"plan":      plan,
	})
}

func (a *App) postDetailedDiagnosis(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var payload detailedDiagnosisRequest
	if !mustJSON(c, &payload) {
		return
	}

	state, err := a.loadGuideState(c.Request.Context(), user.ID)
	if err != nil {
		a.writeGuideStateError(c, err)
		return
	}
	if state.Plan == nil || state.MinimalDiagnosis == nil {
		writeError(c, http.StatusConflict, "Run the initial diagnosis first")
		return
	}

	now := time.Now()
	detailed := guide.NewDetailedDiagnosis(state.MinimalDiagnosis.ID, payload.Answers, payload.CompletedSteps, now)
	upgraded := guide.UpgradePlan(*state.Plan, detailed, now)

	state.DetailedDiagnosis = &detailed
	state.Plan = &upgraded
	if err := a.saveGuideState(c.Request.Context(), user.ID, state, now); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to save guide state")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"diagnosis": detailed,
		"plan":      upgraded,
	})
}

func (a *App) postAssessment(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var payload assessmentRequest
	if !mustJSON(c, &payload) {
		return
	}

	now := time.Now()
	result := guide.RunAssessment(payload.Answers)

	state, err := a.loadGuideState(c.Request.Context(), user.ID)
	if err != nil && !errors.Is(err, errNoGuideState) {
		a.writeGuideStateError(c, err)
		return
	}

	if payload.ApplyToPlan && state.Plan != nil {
		bridged := guide.BridgeAssessment(*state.Plan, result, now)
		state.Plan = &bridged
	}
	state.AssessmentResult = &result
	if err := a.saveGuideState(c.Request.Context(), user.ID, state, now); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to save guide state")
		return
	}

	response := gin.H{"result": result}
	if payload.ApplyToPlan && state.Plan != nil {
		response["plan"] = state.Plan
	}
	c.JSON(http.StatusOK, response)
}

func (a *App) postPreparedness(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var payload preparednessRequest
	if !mustJSON(c, &payload) {
		return
	}

	now := time.Now()
	result := guide.RunPreparedness(payload.Answers)

	state, err := a.loadGuideState(c.Request.Context(), user.ID)
	if err != nil && !errors.Is(err, errNoGuideState) {
		a.writeGuideStateError(c, err)
		return
	}
	state.PreparednessResult = &result
	if err := a.saveGuideState(c.Request.Context(), user.ID, state, now); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to save guide state")
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (a *App) getGuideState(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	state, err := a.loadGuideState(c.Request.Context(), user.ID)
	if errors.Is(err, errNoGuideState) {
		c.JSON(http.StatusOK, GuideState{})
		return
	}
	if err != nil {
		a.writeGuideStateError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (a *App) toggleGuideTask(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	taskID := strings.TrimSpace(c.Param("task_id"))
	if taskID == "" {
		writeError(c, http.StatusBadRequest, "task_id is required")
		return
	}

	state, err := a.loadGuideState(c.Request.Context(), user.ID)
	if err != nil {
		a.writeGuideStateError(c, err)
		return
	}
	if state.Plan == nil {
		writeError(c, http.StatusConflict, "No plan to update")
		return
	}

	now := time.Now()
	updated, err := guide.ToggleTask(state.Plan.Tasks, taskID, now)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	state.Plan.Tasks = updated
	state.Plan.UpdatedAt = now.UTC()

	if err := a.saveGuideState(c.Request.Context(), user.ID, state, now); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to save guide state")
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": state.Plan})
}

func (a *App) resetGuideState(c *gin.Context) {
	user, ok := authUserFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err := a.deleteGuideState(c.Request.Context(), user.ID); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to reset guide state")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

func (a *App) writeGuideStateError(c *gin.Context, err error) {
	if errors.Is(err, errNoGuideState) {
		writeError(c, http.StatusNotFound, "Guide state not found")
		return
	}
	writeError(c, http.StatusInternalServerError, "Failed to load guide state")
}
