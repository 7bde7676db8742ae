package guide

import (
	"time"

	"github.com/google/uuid"
)

// Answer keys identify which detailed-diagnosis field produced a merge
// operation. They are recorded on the touched task so re-submitting the
// same answers is a no-op: merges are a function of the input, never of
// prior merge history.
const (
	answerKeyCareLevel         = "careLevel"
	answerKeyMedicalDependency = "medicalDependency"
	answerKeyDementiaLevel     = "dementiaLevel"
	answerKeyFinancialConcern  = "financialConcern"
	answerKeyDisabilityCard    = "disabilityCard"
	answerKeyEmploymentStatus  = "employmentStatus"
)

type replacementSpec struct {
	Role                   TaskRole
	Title                  string
	Description            string
	Priority               TaskPriority
	Deadline               TaskDeadline
	RelatedServiceCategory ServiceCategory
	ContactOffice          string
}

type splitSpec struct {
	Role                   TaskRole
	Title                  string
	Description            string
	Priority               TaskPriority
	Deadline               TaskDeadline
	RelatedServiceCategory ServiceCategory
	ContactOffice          string
}

type enrichSpec struct {
	AppendDescription string
	Documents         []string
	ContactOffice     string
}

type mergeOperation struct {
	AnswerKey    string
	Action       MergeAction
	TargetTaskID string
	Enrich       *enrichSpec
	Replacement  *replacementSpec
	Splits       []splitSpec
}

// UpgradePlan applies the detailed-diagnosis answers to a plan and returns
// the upgraded copy. Operations are decided per answered field in declared
// field order, so two operations landing on the same task apply in a fixed
// sequence and the output is reproducible. The input plan is not mutated.
func UpgradePlan(plan Plan, detailed DetailedDiagnosis, now time.Time) Plan {
	nowUTC := now.UTC()

	upgraded := plan
	upgraded.Tasks = cloneTasks(plan.Tasks)
	upgraded.ArchivedTasks = cloneTasks(plan.ArchivedTasks)

	for _, op := range determineMergeOperations(upgraded.Tasks, detailed) {
		applyMergeOperation(&upgraded.Tasks, &upgraded.ArchivedTasks, op, nowUTC)
	}

	upgraded.Version = PlanVersionDetailed
	upgraded.DetailedDiagnosisID = detailed.ID
	upgraded.ServiceEligibilities = generateServiceEligibilities(detailed, upgraded.Tasks)
	upgraded.UpdatedAt = nowUTC
	return upgraded
}

func determineMergeOperations(tasks []Task, detailed DetailedDiagnosis) []mergeOperation {
	ops := make([]mergeOperation, 0, 6)

	// Care-insurance application refinement.
	if detailed.CareLevel != "" && !answerAlreadyApplied(tasks, answerKeyCareLevel) {
		if target := findTaskByRole(tasks, RoleApplyCareInsurance); target != nil {
			switch detailed.CareLevel {
			case CareLevelNotApplied:
				ops = append(ops, mergeOperation{
					AnswerKey:    answerKeyCareLevel,
					Action:       MergeEnrich,
					TargetTaskID: target.TaskID,
					Enrich: &enrichSpec{
						AppendDescription: "\n\n【詳細】主治医意見書は市区町村から主治医に依頼されます。申請後、認定調査員が訪問調査を行い、約30日で認定結果が届きます。",
						Documents:         []string{"介護保険要介護認定申請書", "健康保険被保険者証", "主治医意見書（医師に依頼）"},
						ContactOffice:     "市区町村の介護保険窓口 or 地域包括支援センター",
					},
				})
			case CareLevelApplying:
				ops = append(ops, mergeOperation{
					AnswerKey:    answerKeyCareLevel,
					Action:       MergeReplace,
					TargetTaskID: target.TaskID,
					Replacement: &replacementSpec{
						Role:                   RoleSelectCareManager,
						Title:                  "介護保険の認定結果を確認し、ケアマネージャーを選ぶ",
						Description:            "申請中とのこと。認定結果が届いたら、要介護度に応じてケアマネージャーを選び、ケアプランの作成を依頼しましょう。",
						Priority:               PriorityHigh,
						Deadline:               DeadlineWithin2w,
						RelatedServiceCategory: CategoryCareInsurance,
						ContactOffice:          "地域包括支援センター（ケアマネ紹介）",
					},
				})
			}
		}
	}

	// High medical dependency splits the post-discharge setup into concrete
	// medical arrangements.
	if detailed.MedicalDependency == MedicalDependencyProcedures && !answerAlreadyApplied(tasks, answerKeyMedicalDependency) {
		target := findTaskByRoles(tasks,
			RolePlanPostDischarge,
			RoleSetupHomeCare,
			RoleStartCareService,
			RoleCheckHomeEnvironment,
		)
		if target != nil {
			ops = append(ops, mergeOperation{
				AnswerKey:    answerKeyMedicalDependency,
				Action:       MergeSplit,
				TargetTaskID: target.TaskID,
				Splits: []splitSpec{
					{
						Role:                   RoleArrangeVisitNursing,
						Title:                  "訪問看護ステーションを手配する",
						Description:            "医療処置が必要なため、訪問看護が不可欠です。ケアマネージャーまたは病院のMSWに訪問看護ステーションの紹介を依頼しましょう。",
						Priority:               PriorityHigh,
						Deadline:               DeadlineWithin1w,
						RelatedServiceCategory: CategoryMedical,
						ContactOffice:          "病院の医療ソーシャルワーカー or ケアマネージャー",
					},
					{
						Role:                   RoleFindHomeDoctor,
						Title:                  "在宅医（訪問診療医）を探す",
						Description:            "定期的な医師の訪問が必要です。病院から在宅医への紹介状をもらい、訪問診療の契約を行いましょう。",
						Priority:               PriorityHigh,
						Deadline:               DeadlineWithin2w,
						RelatedServiceCategory: CategoryMedical,
					},
					{
						Role:                   RoleArrangeMedicalDevices,
						Title:                  "医療機器・物品の手配を確認する",
						Description:            "吸引器、経管栄養のポンプ、酸素濃縮器など、必要な医療機器を確認し、レンタルまたは購入の手配を進めましょう。",
						Priority:               PriorityNormal,
						Deadline:               DeadlineWithin2w,
						RelatedServiceCategory: CategoryMedical,
					},
				},
			})
		}
	}

	// Dementia note lands on the family coordination task.
	if detailed.DementiaLevel != "" && detailed.DementiaLevel != DementiaNone && !answerAlreadyApplied(tasks, answerKeyDementiaLevel) {
		if target := findTaskByRole(tasks, RoleOrganizeFamily); target != nil {
			ops = append(ops, mergeOperation{
				AnswerKey:    answerKeyDementiaLevel,
				Action:       MergeEnrich,
				TargetTaskID: target.TaskID,
				Enrich: &enrichSpec{
					AppendDescription: dementiaNote(detailed.DementiaLevel),
				},
			})
		}
	}

	// Significant financial concern enriches the money-related task.
	if detailed.FinancialConcern == FinancialConcernSignificant && !answerAlreadyApplied(tasks, answerKeyFinancialConcern) {
		if target := findTaskByRoles(tasks, RoleCheckFinancialSupport, RoleCheckLimitAmount); target != nil {
			ops = append(ops, mergeOperation{
				AnswerKey:    answerKeyFinancialConcern,
				Action:       MergeEnrich,
				TargetTaskID: target.TaskID,
				Enrich: &enrichSpec{
					AppendDescription: "\n\n【経済的支援の追加情報】生活保護の申請、社会福祉協議会の生活福祉資金貸付、介護保険料の減免制度、障害者控除（要介護認定者向け）なども検討しましょう。",
					Documents: []string{
						"高額介護サービス費支給申請書",
						"特定入所者介護サービス費（補足給付）申請書",
					},
					ContactOffice: "市区町村の福祉課 or 社会福祉協議会",
				},
			})
		}
	}

	// A disability card unlocks a parallel service track; note it on the
	// first live task so it is read early.
	if detailed.DisabilityCard == DisabilityCardYes && !answerAlreadyApplied(tasks, answerKeyDisabilityCard) {
		if target := firstLiveTask(tasks); target != nil {
			ops = append(ops, mergeOperation{
				AnswerKey:    answerKeyDisabilityCard,
				Action:       MergeEnrich,
				TargetTaskID: target.TaskID,
				Enrich: &enrichSpec{
					AppendDescription: "\n\n【障害者手帳あり】障害福祉サービスも利用可能です。介護保険との併用について、市区町村の障害福祉課に確認しましょう。",
				},
			})
		}
	}

	// Working caregivers get the leave-system note on the most urgent task.
	if (detailed.EmploymentStatus == EmploymentFulltime || detailed.EmploymentStatus == EmploymentParttime) &&
		!answerAlreadyApplied(tasks, answerKeyEmploymentStatus) {
		if target := firstHighPriorityTask(tasks); target != nil {
			ops = append(ops, mergeOperation{
				AnswerKey:    answerKeyEmploymentStatus,
				Action:       MergeEnrich,
				TargetTaskID: target.TaskID,
				Enrich: &enrichSpec{
					AppendDescription: "\n\n【仕事との両立】介護休業制度（93日間）や介護休暇（年5日）を利用できます。会社の人事部門に相談しましょう。介護休業給付金（賃金の67%）もハローワークで申請できます。",
				},
			})
		}
	}

	return ops
}

func dementiaNote(level DementiaLevel) string {
	switch level {
	case DementiaMild:
		return "\n\n【認知症対応】軽度の認知症があるため、本人の意思確認を早めに行いましょう。成年後見制度の検討も視野に入れてください。"
	case DementiaModerate:
		return "\n\n【認知症対応】中等度の認知症があります。徘徊防止、火の元管理、服薬管理の体制を整えましょう。グループホームも選択肢になります。"
	default:
		return "\n\n【認知症対応】重度の認知症があります。常時見守りが必要なため、施設入所（特養/グループホーム）の検討を急ぎましょう。成年後見制度の申立ても必要です。"
	}
}

func applyMergeOperation(tasks *[]Task, archivedTasks *[]Task, op mergeOperation, now time.Time) {
	targetIndex := -1
	for i, t := range *tasks {
		if t.TaskID == op.TargetTaskID {
			targetIndex = i
			break
		}
	}
	if targetIndex == -1 {
		return
	}

	switch op.Action {
	case MergeEnrich:
		if op.Enrich == nil {
			return
		}
		target := &(*tasks)[targetIndex]
		target.Description += op.Enrich.AppendDescription
		if len(op.Enrich.Documents) > 0 {
			target.Documents = append(target.Documents, op.Enrich.Documents...)
		}
		if op.Enrich.ContactOffice != "" {
			target.ContactOffice = op.Enrich.ContactOffice
		}
		stampMerge(target, MergeEnrich, target.TaskID, op.AnswerKey, now)
		target.UpdatedAt = now

	case MergeReplace:
		if op.Replacement == nil {
			return
		}
		oldTask := (*tasks)[targetIndex]
		archivedAt := now
		oldTask.ArchivedAt = &archivedAt
		*archivedTasks = append(*archivedTasks, oldTask)

		replacement := Task{
			// The replacement keeps the old identity so UI state and
			// eligibility links survive the swap.
			TaskID:                 oldTask.TaskID,
			Role:                   op.Replacement.Role,
			Title:                  op.Replacement.Title,
			Description:            op.Replacement.Description,
			Status:                 TaskStatusTodo,
			Source:                 TaskSourceDetailed,
			Priority:               op.Replacement.Priority,
			Deadline:               op.Replacement.Deadline,
			Phase:                  oldTask.Phase,
			RelatedServiceCategory: op.Replacement.RelatedServiceCategory,
			ContactOffice:          op.Replacement.ContactOffice,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		stampMerge(&replacement, MergeReplace, oldTask.TaskID, op.AnswerKey, now)
		(*tasks)[targetIndex] = replacement

	case MergeSplit:
		if len(op.Splits) == 0 {
			return
		}
		parent := &(*tasks)[targetIndex]
		stampMerge(parent, MergeSplit, parent.TaskID, op.AnswerKey, now)
		parent.UpdatedAt = now
		parentID := parent.TaskID
		parentPhase := parent.Phase

		children := make([]Task, 0, len(op.Splits))
		for _, spec := range op.Splits {
			children = append(children, Task{
				TaskID:                 uuid.NewString(),
				Role:                   spec.Role,
				Title:                  spec.Title,
				Description:            spec.Description,
				Status:                 TaskStatusTodo,
				Source:                 TaskSourceDetailed,
				Priority:               spec.Priority,
				Deadline:               spec.Deadline,
				ParentTaskID:           parentID,
				Phase:                  parentPhase,
				RelatedServiceCategory: spec.RelatedServiceCategory,
				ContactOffice:          spec.ContactOffice,
				CreatedAt:              now,
				UpdatedAt:              now,
			})
		}

		// Children go immediately after the parent in list order.
		rest := make([]Task, len(*tasks)-targetIndex-1)
		copy(rest, (*tasks)[targetIndex+1:])
		*tasks = append((*tasks)[:targetIndex+1], children...)
		*tasks = append(*tasks, rest...)
	}
}

func stampMerge(task *Task, action MergeAction, sourceTaskID, answerKey string, now time.Time) {
	if task.MergedFrom == nil {
		task.MergedFrom = &TaskMergeHistory{
			Action:       action,
			SourceTaskID: sourceTaskID,
			MergedAt:     now,
		}
	} else {
		task.MergedFrom.Action = action
		task.MergedFrom.MergedAt = now
	}
	if !containsString(task.MergedFrom.AnswerKeys, answerKey) {
		task.MergedFrom.AnswerKeys = append(task.MergedFrom.AnswerKeys, answerKey)
	}
}

func answerAlreadyApplied(tasks []Task, answerKey string) bool {
	for _, t := range tasks {
		if t.MergedFrom != nil && containsString(t.MergedFrom.AnswerKeys, answerKey) {
			return true
		}
	}
	return false
}

func findTaskByRole(tasks []Task, role TaskRole) *Task {
	for i := range tasks {
		if tasks[i].Role == role && tasks[i].ArchivedAt == nil {
			return &tasks[i]
		}
	}
	return nil
}

func findTaskByRoles(tasks []Task, roles ...TaskRole) *Task {
	for _, role := range roles {
		if t := findTaskByRole(tasks, role); t != nil {
			return t
		}
	}
	return nil
}

func firstLiveTask(tasks []Task) *Task {
	for i := range tasks {
		if tasks[i].ArchivedAt == nil {
			return &tasks[i]
		}
	}
	return nil
}

func firstHighPriorityTask(tasks []Task) *Task {
	for i := range tasks {
		if tasks[i].Priority == PriorityHigh && tasks[i].ArchivedAt == nil {
			return &tasks[i]
		}
	}
	return nil
}

func firstLiveTaskWithCategory(tasks []Task, category ServiceCategory) *Task {
	for i := range tasks {
		if tasks[i].RelatedServiceCategory == category && tasks[i].ArchivedAt == nil {
			return &tasks[i]
		}
	}
	return nil
}

// generateServiceEligibilities rebuilds the six-category eligibility list
// wholesale from the detailed answers. It is never merged incrementally.
func generateServiceEligibilities(detailed DetailedDiagnosis, tasks []Task) []ServiceEligibility {
	eligibilities := make([]ServiceEligibility, 0, 6)

	careTask := firstLiveTaskWithCategory(tasks, CategoryCareInsurance)
	eligibilities = append(eligibilities, ServiceEligibility{
		Category:         CategoryCareInsurance,
		ServiceName:      "介護保険サービス",
		IsLikelyEligible: true,
		LinkedTaskID:     taskIDOrEmpty(careTask),
		Description:      "要介護認定を受けることで、訪問介護・デイサービス・ショートステイ・福祉用具レンタル等が1〜3割負担で利用できます。",
	})

	medicalTask := firstLiveTaskWithCategory(tasks, CategoryMedical)
	eligibilities = append(eligibilities, ServiceEligibility{
		Category:         CategoryMedical,
		ServiceName:      "医療保険制度",
		IsLikelyEligible: true,
		LinkedTaskID:     taskIDOrEmpty(medicalTask),
		Description:      "高額療養費制度、訪問看護（医療保険適用）、訪問リハビリなどが利用可能です。",
	})

	eligibilities = append(eligibilities, ServiceEligibility{
		Category:         CategoryMunicipal,
		ServiceName:      "自治体独自サービス",
		IsLikelyEligible: true,
		Description:      "配食サービス、紙おむつ支給、緊急通報システム、家族介護者支援など、自治体ごとに独自のサービスがあります。お住まいの自治体に確認しましょう。",
	})

	financialTask := firstLiveTaskWithCategory(tasks, CategoryFinancial)
	hasFinancialConcern := detailed.FinancialConcern == FinancialConcernSlight ||
		detailed.FinancialConcern == FinancialConcernSignificant
	eligibilities = append(eligibilities, ServiceEligibility{
		Category:         CategoryFinancial,
		ServiceName:      "経済的支援制度",
		IsLikelyEligible: hasFinancialConcern,
		LinkedTaskID:     taskIDOrEmpty(financialTask),
		Description:      "高額介護サービス費、介護休業給付金、障害者控除、生活福祉資金貸付などが利用可能な場合があります。",
	})

	eligibilities = append(eligibilities, ServiceEligibility{
		Category:         CategoryPrivate,
		ServiceName:      "民間介護サービス",
		IsLikelyEligible: false,
		Description:      "家事代行、見守りサービス、配食サービス、介護タクシーなど、保険外の民間サービスも選択肢に入ります。",
	})

	eligibilities = append(eligibilities, ServiceEligibility{
		Category:         CategoryDisability,
		ServiceName:      "障害福祉サービス",
		IsLikelyEligible: detailed.DisabilityCard == DisabilityCardYes,
		Description:      "障害者手帳をお持ちの場合、介護保険に加えて障害福祉サービスも利用できる場合があります。",
	})

	return eligibilities
}

func taskIDOrEmpty(task *Task) string {
	if task == nil {
		return ""
	}
	return task.TaskID
}

func cloneTasks(tasks []Task) []Task {
	cloned := make([]Task, len(tasks))
	copy(cloned, tasks)
	for i := range cloned {
		if tasks[i].Documents != nil {
			cloned[i].Documents = append([]string(nil), tasks[i].Documents...)
		}
		if tasks[i].MergedFrom != nil {
			history := *tasks[i].MergedFrom
			history.AnswerKeys = append([]string(nil), tasks[i].MergedFrom.AnswerKeys...)
			cloned[i].MergedFrom = &history
		}
		if tasks[i].ArchivedAt != nil {
			archivedAt := *tasks[i].ArchivedAt
			cloned[i].ArchivedAt = &archivedAt
		}
	}
	return cloned
}
