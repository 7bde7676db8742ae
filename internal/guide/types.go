// Package guide implements the care-guide diagnosis core: rule tables that
// map questionnaire answers to a care-journey phase, plan generation from
// task templates, the detailed-answer merge engine, the legacy assessment
// engine with its plan bridge, and the preparedness risk scorer. Everything
// in this package is pure and in-memory; persistence and transport live in
// internal/server.
package guide

import "time"

type OnsetType string

const (
	OnsetSudden  OnsetType = "sudden"
	OnsetGradual OnsetType = "gradual"
)

type Situation string

const (
	// Sudden-onset situations.
	SituationAcuteHospital          Situation = "acute_hospital"
	SituationRehabHospital          Situation = "rehab_hospital"
	SituationHomeAfterDischarge     Situation = "home_after_discharge"
	SituationFacilityAfterDischarge Situation = "facility_after_discharge"
	SituationNoHospitalization      Situation = "no_hospitalization"
	// Gradual-onset situations.
	SituationNotVisited            Situation = "not_visited"
	SituationVisitedNoInsurance    Situation = "visited_no_insurance"
	SituationHomeCareWithInsurance Situation = "home_care_with_insurance"
)

type Phase string

const (
	PhaseAcute         Phase = "acute"
	PhaseRehab         Phase = "rehab"
	PhaseDischargePrep Phase = "discharge_prep"
	PhasePostDischarge Phase = "post_discharge"
	PhaseDiscovery     Phase = "discovery"
	PhaseMedicalVisit  Phase = "medical_visit"
	PhasePrevention    Phase = "prevention"
	PhaseHomeCare      Phase = "home_care"
)

type MinimalDiagnosis struct {
	ID        string    `json:"id"`
	OnsetType OnsetType `json:"onsetType"`
	Situation Situation `json:"situation"`
	Phase     Phase     `json:"phase"`
	CreatedAt time.Time `json:"createdAt"`
}

type CareLevel string

const (
	CareLevelNotApplied CareLevel = "not_applied"
	CareLevelApplying   CareLevel = "applying"
	CareLevelSupport1   CareLevel = "support_1"
	CareLevelSupport2   CareLevel = "support_2"
	CareLevel1          CareLevel = "care_1"
	CareLevel2          CareLevel = "care_2"
	CareLevel3          CareLevel = "care_3"
	CareLevel4          CareLevel = "care_4"
	CareLevel5          CareLevel = "care_5"
)

type MedicalDependency string

const (
	MedicalDependencyNone       MedicalDependency = "none"
	MedicalDependencyOutpatient MedicalDependency = "outpatient"
	MedicalDependencyProcedures MedicalDependency = "medical_procedures"
)

type DementiaLevel string

const (
	DementiaNone     DementiaLevel = "none"
	DementiaMild     DementiaLevel = "mild"
	DementiaModerate DementiaLevel = "moderate"
	DementiaSevere   DementiaLevel = "severe"
)

type EmploymentStatus string

const (
	EmploymentFulltime     EmploymentStatus = "fulltime"
	EmploymentParttime     EmploymentStatus = "parttime"
	EmploymentUnemployed   EmploymentStatus = "unemployed"
	EmploymentSelfEmployed EmploymentStatus = "self_employed"
)

type LivingArrangement string

const (
	LivingAlone       LivingArrangement = "alone"
	LivingSpouseOnly  LivingArrangement = "spouse_only"
	LivingWithChild   LivingArrangement = "with_children"
	LivingOtherFamily LivingArrangement = "other_family"
)

type HousingType string

const (
	HousingOwnedHouse     HousingType = "owned_house"
	HousingOwnedApartment HousingType = "owned_apartment"
	HousingRental         HousingType = "rental"
	HousingCohabitation   HousingType = "cohabitation"
)

type FinancialConcern string

const (
	FinancialConcernNone        FinancialConcern = "none"
	FinancialConcernSlight      FinancialConcern = "slight"
	FinancialConcernSignificant FinancialConcern = "significant"
)

type PostDischargePreference string

const (
	PostDischargeHome      PostDischargePreference = "home"
	PostDischargeFacility  PostDischargePreference = "facility"
	PostDischargeUndecided PostDischargePreference = "undecided"
)

type DisabilityCard string

const (
	DisabilityCardNone    DisabilityCard = "none"
	DisabilityCardYes     DisabilityCard = "yes"
	DisabilityCardUnknown DisabilityCard = "unknown"
)

type ContactedOffice string

const (
	ContactedOfficeYes     ContactedOffice = "yes"
	ContactedOfficeNo      ContactedOffice = "no"
	ContactedOfficeUnknown ContactedOffice = "unknown"
)

// DetailedDiagnosisInput is a sparse record: any field may be empty, and
// merge operations are decided per answered field only.
type DetailedDiagnosisInput struct {
	CareLevel               CareLevel               `json:"careLevel,omitempty"`
	MedicalDependency       MedicalDependency       `json:"medicalDependency,omitempty"`
	DementiaLevel           DementiaLevel           `json:"dementiaLevel,omitempty"`
	EmploymentStatus        EmploymentStatus        `json:"employmentStatus,omitempty"`
	LivingArrangement       LivingArrangement       `json:"livingArrangement,omitempty"`
	HousingType             HousingType             `json:"housingType,omitempty"`
	FinancialConcern        FinancialConcern        `json:"financialConcern,omitempty"`
	PostDischargePreference PostDischargePreference `json:"postDischargePreference,omitempty"`
	DisabilityCard          DisabilityCard          `json:"disabilityCard,omitempty"`
	ContactedOffice         ContactedOffice         `json:"contactedOffice,omitempty"`
}

type DetailedDiagnosis struct {
	DetailedDiagnosisInput

	ID                 string    `json:"id"`
	MinimalDiagnosisID string    `json:"minimalDiagnosisId"`
	CompletedSteps     int       `json:"completedSteps"`
	CreatedAt          time.Time `json:"createdAt"`
}

type TaskStatus string

const (
	TaskStatusTodo TaskStatus = "todo"
	TaskStatusDone TaskStatus = "done"
)

type TaskSource string

const (
	TaskSourceMinimal  TaskSource = "minimal"
	TaskSourceDetailed TaskSource = "detailed"
	TaskSourceManual   TaskSource = "manual"
)

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityNormal TaskPriority = "normal"
)

type TaskDeadline string

const (
	DeadlineImmediate TaskDeadline = "immediate"
	DeadlineWithin24h TaskDeadline = "within_24h"
	DeadlineWithin48h TaskDeadline = "within_48h"
	DeadlineWithin72h TaskDeadline = "within_72h"
	DeadlineWithin1w  TaskDeadline = "within_1week"
	DeadlineWithin2w  TaskDeadline = "within_2weeks"
	DeadlineWithin1mo TaskDeadline = "within_1month"
	DeadlineOngoing   TaskDeadline = "ongoing"
)

type MergeAction string

const (
	MergeEnrich  MergeAction = "enrich"
	MergeReplace MergeAction = "replace"
	MergeSplit   MergeAction = "split"
)

// TaskRole is a stable tag attached to every task template so merge
// operations can locate their target without matching on title text.
type TaskRole string

const (
	RoleConfirmCondition        TaskRole = "confirm_condition"
	RoleContactMSW              TaskRole = "contact_msw"
	RoleApplyCareInsurance      TaskRole = "apply_care_insurance"
	RoleCheckLimitAmount        TaskRole = "check_limit_amount"
	RoleOrganizeFamily          TaskRole = "organize_family"
	RolePlanPostDischarge       TaskRole = "plan_post_discharge"
	RoleAttendConference        TaskRole = "attend_conference"
	RoleFindCareManager         TaskRole = "find_care_manager"
	RoleCheckHomeEnvironment    TaskRole = "check_home_environment"
	RoleContactChiikiHoukatsu   TaskRole = "contact_chiiki_houkatsu"
	RoleStartCareService        TaskRole = "start_care_service"
	RoleSetupHomeCare           TaskRole = "setup_home_care"
	RoleCheckFinancialSupport   TaskRole = "check_financial_support"
	RoleCaregiverSelfCare       TaskRole = "caregiver_self_care"
	RoleVisitDoctor             TaskRole = "visit_doctor"
	RoleRecordSymptoms          TaskRole = "record_symptoms"
	RoleUnderstandDiagnosis     TaskRole = "understand_diagnosis"
	RoleCheckServices           TaskRole = "check_services"
	RoleReviewCarePlan          TaskRole = "review_care_plan"
	RoleCheckAdditionalServices TaskRole = "check_additional_services"
	RoleTwoWeekAction           TaskRole = "two_week_action"
	RoleArrangeVisitNursing     TaskRole = "arrange_visit_nursing"
	RoleFindHomeDoctor          TaskRole = "find_home_doctor"
	RoleArrangeMedicalDevices   TaskRole = "arrange_medical_devices"
	RoleSelectCareManager       TaskRole = "select_care_manager"
)

type ServiceCategory string

const (
	CategoryCareInsurance ServiceCategory = "care_insurance"
	CategoryMedical       ServiceCategory = "medical"
	CategoryMunicipal     ServiceCategory = "municipal"
	CategoryPrivate       ServiceCategory = "private"
	CategoryFinancial     ServiceCategory = "financial"
	CategoryDisability    ServiceCategory = "disability"
)

// TaskMergeHistory records how and when a merge operation touched a task.
// AnswerKeys lists the detailed-answer fields already applied to the task;
// re-applying the same answer is skipped, which keeps merges idempotent.
type TaskMergeHistory struct {
	Action       MergeAction `json:"action"`
	SourceTaskID string      `json:"sourceTaskId"`
	AnswerKeys   []string    `json:"answerKeys,omitempty"`
	MergedAt     time.Time   `json:"mergedAt"`
}

type Task struct {
	TaskID                 string            `json:"taskId"`
	Role                   TaskRole          `json:"role"`
	Title                  string            `json:"title"`
	Description            string            `json:"description"`
	Status                 TaskStatus        `json:"status"`
	Source                 TaskSource        `json:"source"`
	Priority               TaskPriority      `json:"priority"`
	Deadline               TaskDeadline      `json:"deadline"`
	ParentTaskID           string            `json:"parentTaskId,omitempty"`
	Phase                  Phase             `json:"phase"`
	Documents              []string          `json:"documents,omitempty"`
	ContactOffice          string            `json:"contactOffice,omitempty"`
	RelatedServiceCategory ServiceCategory   `json:"relatedServiceCategory,omitempty"`
	ArchivedAt             *time.Time        `json:"archivedAt,omitempty"`
	MergedFrom             *TaskMergeHistory `json:"mergedFrom,omitempty"`
	CreatedAt              time.Time         `json:"createdAt"`
	UpdatedAt              time.Time         `json:"updatedAt"`
}

type PlanVersion string

const (
	PlanVersionMinimal  PlanVersion = "minimal"
	PlanVersionDetailed PlanVersion = "detailed"
)

type ServiceEligibility struct {
	Category         ServiceCategory `json:"category"`
	ServiceName      string          `json:"serviceName"`
	IsLikelyEligible bool            `json:"isLikelyEligible"`
	LinkedTaskID     string          `json:"linkedTaskId,omitempty"`
	Description      string          `json:"description"`
}

type FlowStep struct {
	StepID      string `json:"stepId"`
	Label       string `json:"label"`
	Description string `json:"description"`
	IsCurrent   bool   `json:"isCurrent"`
	Order       int    `json:"order"`
}

type Plan struct {
	PlanID               string               `json:"planId"`
	Version              PlanVersion          `json:"version"`
	MinimalDiagnosisID   string               `json:"minimalDiagnosisId"`
	DetailedDiagnosisID  string               `json:"detailedDiagnosisId,omitempty"`
	Phase                Phase                `json:"phase"`
	PhaseLabel           string               `json:"phaseLabelJa"`
	ConclusionSummary    string               `json:"conclusionSummary"`
	FirstContact         string               `json:"firstContact"`
	Tasks                []Task               `json:"tasks"`
	ArchivedTasks        []Task               `json:"archivedTasks"`
	FlowSteps            []FlowStep           `json:"flowSteps"`
	ServiceEligibilities []ServiceEligibility `json:"serviceEligibilities,omitempty"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}
