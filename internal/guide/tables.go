package guide

import "fmt"

// The rule tables below are the whole of the diagnosis business logic:
// closed enums in, static lookups out. CheckTables enforces completeness at
// startup so a missing entry surfaces as a boot failure, not a bad plan.

type Option struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

var OnsetOptions = []Option{
	{
		Value:       string(OnsetSudden),
		Label:       "いきなり型",
		Description: "脳卒中・心筋梗塞・骨折/転倒など、突然の発症",
	},
	{
		Value:       string(OnsetGradual),
		Label:       "じわじわ型",
		Description: "認知症・パーキンソン病・老化による衰えなど",
	},
}

var SituationOptions = map[OnsetType][]Option{
	OnsetSudden: {
		{Value: string(SituationAcuteHospital), Label: "急性期病院に入院中"},
		{Value: string(SituationRehabHospital), Label: "リハビリ病院に入院中"},
		{Value: string(SituationHomeAfterDischarge), Label: "退院し自宅で療養中"},
		{Value: string(SituationFacilityAfterDischarge), Label: "退院し施設で療養中"},
		{Value: string(SituationNoHospitalization), Label: "最初から入院していない"},
	},
	OnsetGradual: {
		{Value: string(SituationNotVisited), Label: "異変を感じるが受診していない"},
		{Value: string(SituationVisitedNoInsurance), Label: "受診しているが介護保険を申請していない"},
		{Value: string(SituationHomeCareWithInsurance), Label: "介護保険を使用して在宅介護中"},
	},
}

var situationToPhase = map[Situation]Phase{
	SituationAcuteHospital:          PhaseAcute,
	SituationRehabHospital:          PhaseRehab,
	SituationHomeAfterDischarge:     PhasePostDischarge,
	SituationFacilityAfterDischarge: PhasePostDischarge,
	SituationNoHospitalization:      PhaseDischargePrep,
	SituationNotVisited:             PhaseDiscovery,
	SituationVisitedNoInsurance:     PhaseMedicalVisit,
	SituationHomeCareWithInsurance:  PhaseHomeCare,
}

var situationsByOnset = map[OnsetType][]Situation{
	OnsetSudden: {
		SituationAcuteHospital,
		SituationRehabHospital,
		SituationHomeAfterDischarge,
		SituationFacilityAfterDischarge,
		SituationNoHospitalization,
	},
	OnsetGradual: {
		SituationNotVisited,
		SituationVisitedNoInsurance,
		SituationHomeCareWithInsurance,
	},
}

// phasesByOnset lists the phases whose task templates feed a plan for the
// given onset type. Plans carry tasks for every reachable phase, not just
// the current one.
var phasesByOnset = map[OnsetType][]Phase{
	OnsetSudden:  {PhaseAcute, PhaseRehab, PhaseDischargePrep, PhasePostDischarge},
	OnsetGradual: {PhaseDiscovery, PhaseMedicalVisit, PhasePrevention, PhaseHomeCare},
}

var flowStepsByOnset = map[OnsetType][]FlowStep{
	OnsetSudden: {
		{StepID: "s1", Label: "急性期病院", Description: "入院0〜72時間〜2週間。救急搬送・初期治療・手術", Order: 1},
		{StepID: "s2", Label: "リハビリ病院", Description: "2週間〜3ヶ月。回復期リハビリ・機能回復訓練", Order: 2},
		{StepID: "s3", Label: "退院準備", Description: "退院2〜4週前。カンファレンス・在宅/施設の方針決定", Order: 3},
		{StepID: "s4", Label: "退院", Description: "退院当日。住環境整備・福祉用具設置", Order: 4},
		{StepID: "s5", Label: "在宅介護 / 施設入所", Description: "退院後0〜1ヶ月。介護サービス開始・生活リズム確立", Order: 5},
		{StepID: "s6", Label: "継続フォロー", Description: "以降。定期見直し・ケアプラン更新", Order: 6},
	},
	OnsetGradual: {
		{StepID: "g1", Label: "気づき・発見", Description: "異変の自覚。物忘れ・体力低下・日常の変化", Order: 1},
		{StepID: "g2", Label: "受診・検査", Description: "かかりつけ医 or 専門医を受診。診断を受ける", Order: 2},
		{StepID: "g3", Label: "介護予防・申請準備", Description: "介護保険申請・地域包括支援センターへ相談", Order: 3},
		{StepID: "g4", Label: "在宅介護", Description: "ケアプランに基づくサービス利用開始", Order: 4},
		{StepID: "g5", Label: "継続・見直し", Description: "定期的なケアプラン見直し・状態変化への対応", Order: 5},
	},
}

// currentStepsByPhase marks where the user stands on the journey strip.
// post_discharge spans two steps (discharge day + settling in).
var currentStepsByPhase = map[Phase][]string{
	PhaseAcute:         {"s1"},
	PhaseRehab:         {"s2"},
	PhaseDischargePrep: {"s3"},
	PhasePostDischarge: {"s4", "s5"},
	PhaseDiscovery:     {"g1"},
	PhaseMedicalVisit:  {"g2"},
	PhasePrevention:    {"g3"},
	PhaseHomeCare:      {"g4"},
}

var stepToPhase = map[string]Phase{
	"s1": PhaseAcute,
	"s2": PhaseRehab,
	"s3": PhaseDischargePrep,
	"s4": PhasePostDischarge,
	"s5": PhasePostDischarge,
	"g1": PhaseDiscovery,
	"g2": PhaseMedicalVisit,
	"g3": PhasePrevention,
	"g4": PhaseHomeCare,
	"g5": PhaseHomeCare,
}

var PhaseLabels = map[Phase]string{
	PhaseAcute:         "急性期病院（入院0〜2週間）",
	PhaseRehab:         "リハビリ病院（2週間〜3ヶ月）",
	PhaseDischargePrep: "退院準備（退院2〜4週前）",
	PhasePostDischarge: "退院後（在宅/施設）",
	PhaseDiscovery:     "病気の発見・気づき",
	PhaseMedicalVisit:  "受診・検査",
	PhasePrevention:    "介護予防・申請準備",
	PhaseHomeCare:      "在宅介護",
}

var phaseSummaries = map[Phase]string{
	PhaseAcute:         "まずは治療に専念。並行して、今後の手続きの準備を始めましょう。",
	PhaseRehab:         "退院後の生活に向けて、制度申請と住環境の準備を進めましょう。",
	PhaseDischargePrep: "退院まで時間があります。介護保険と退院後の体制を整えましょう。",
	PhasePostDischarge: "退院後の生活が始まっています。介護サービスの開始と調整を進めましょう。",
	PhaseDiscovery:     "まずは受診して、状態を正確に把握することが最優先です。",
	PhaseMedicalVisit:  "診断を受けた今、介護保険の申請と相談窓口への連絡を進めましょう。",
	PhasePrevention:    "介護保険の申請準備と、利用できるサービスの確認を行いましょう。",
	PhaseHomeCare:      "現在のケアプランを見直し、必要に応じてサービスを追加・変更しましょう。",
}

var firstContacts = map[Phase]string{
	PhaseAcute:         "病院の医療ソーシャルワーカー（MSW）",
	PhaseRehab:         "リハビリ病院の相談室 or 医療ソーシャルワーカー",
	PhaseDischargePrep: "地域包括支援センター",
	PhasePostDischarge: "地域包括支援センター or 担当ケアマネージャー",
	PhaseDiscovery:     "かかりつけ医（いなければ近くの内科）",
	PhaseMedicalVisit:  "地域包括支援センター",
	PhasePrevention:    "市区町村の介護保険窓口",
	PhaseHomeCare:      "担当ケアマネージャー",
}

var DeadlineLabels = map[TaskDeadline]string{
	DeadlineImmediate: "即時",
	DeadlineWithin24h: "24時間以内",
	DeadlineWithin48h: "48時間以内",
	DeadlineWithin72h: "72時間以内",
	DeadlineWithin1w:  "1週間以内",
	DeadlineWithin2w:  "2週間以内",
	DeadlineWithin1mo: "1ヶ月以内",
	DeadlineOngoing:   "継続",
}

var ServiceCategoryLabels = map[ServiceCategory]string{
	CategoryCareInsurance: "介護保険",
	CategoryMedical:       "医療",
	CategoryMunicipal:     "自治体独自",
	CategoryPrivate:       "民間サービス",
	CategoryFinancial:     "経済的支援",
	CategoryDisability:    "障害福祉",
}

type taskTemplate struct {
	Role                   TaskRole
	Title                  string
	Description            string
	Priority               TaskPriority
	Deadline               TaskDeadline
	RelatedServiceCategory ServiceCategory
}

var phaseTasks = map[Phase][]taskTemplate{
	PhaseAcute: {
		{
			Role:        RoleConfirmCondition,
			Title:       "主治医に病状と見通しを確認する",
			Description: "入院直後は情報が少ないため、主治医に「今の状態」「今後の見通し」「退院の目安」を確認しましょう。メモを取って家族と共有するのが重要です。",
			Priority:    PriorityHigh,
			Deadline:    DeadlineWithin48h,
		},
		{
			Role:        RoleContactMSW,
			Title:       "医療ソーシャルワーカー（MSW）に面談を依頼する",
			Description: "病院には医療ソーシャルワーカーがいます。退院後の生活設計、制度利用、費用の相談ができます。ナースステーションで「MSWに相談したい」と伝えてください。",
			Priority:    PriorityHigh,
			Deadline:    DeadlineWithin48h,
		},
		{
			Role:                   RoleApplyCareInsurance,
			Title:                  "介護保険の申請をする",
			Description:            "市区町村の窓口で介護保険の申請を行います。入院中でも申請可能です。認定まで約30日かかるため、早めの申請が重要です。",
			Priority:               PriorityHigh,
			Deadline:               DeadlineWithin1w,
			RelatedServiceCategory: CategoryCareInsurance,
		},
		{
			Role:                   RoleCheckLimitAmount,
			Title:                  "高額療養費制度を確認する",
			Description:            "入院費が高額になる場合、高額療養費制度で自己負担額に上限が設けられます。加入している健康保険に「限度額適用認定証」を申請しましょう。",
			Priority:               PriorityNormal,
			Deadline:               DeadlineWithin1w,
			RelatedServiceCategory: CategoryMedical,
		},
		{
			Role:        RoleOrganizeFamily,
			Title:       "家族で情報共有の体制をつくる",
			Description: "介護は1人で抱えるとパンクします。家族LINEグループ等で、病状・手続き・費用の情報を共有する仕組みをつくりましょう。",
			Priority:    PriorityNormal,
			Deadline:    DeadlineWithin1w,
		},
	},
	PhaseRehab: {
		{
			Role:                   RoleApplyCareInsurance,
			Title:                  "介護保険の申請をする（未申請の場合）",
			Description:            "まだ介護保険を申請していなければ、すぐに申請しましょう。リハビリ病院の相談室が手続きを支援してくれます。",
			Priority:               PriorityHigh,
			Deadline:               DeadlineWithin48h,
			RelatedServiceCategory: CategoryCareInsurance,
		},
		{
			Role:        RolePlanPostDischarge,
			Title:       "退院後の生活場所を検討する",
			Description: "在宅か施設か、退院後の方針を検討しましょう。リハビリの進捗、家族の介護力、住環境を考慮して判断します。",
			Priority:    PriorityHigh,
			Deadline:    DeadlineWithin2w,
		},
		{
			Role:        RoleAttendConference,
			Title:       "退院前カンファレンスに参加する",
			Description: "病院が退院前カンファレンスを開催します。主治医・看護師・リハビリスタッフ・MSWが参加。退院後に必要なケアを確認する重要な場です。",
			Priority:    PriorityHigh,
			Deadline:    DeadlineWithin1mo,
		},
		{
			Role:                   RoleFindCareManager,
			Title:                  "ケアマネージャーを探す",
			Description:            "退院後に在宅介護をする場合、ケアマネージャー（介護支援専門員）が必要です。地域包括支援センターに相談するか、MSWに紹介を依頼しましょう。",
			Priority:               PriorityNormal,
			Deadline:               DeadlineWithin2w,
			RelatedServiceCategory: CategoryCareInsurance,
		},
		{
			Role:                   RoleCheckHomeEnvironment,
			Title:                  "自宅の環境を確認する（在宅の場合）",
			Description:            "手すり・段差・トイレ・浴室など、退院後の生活に支障がないか確認しましょう。介護保険で住宅改修費（上限20万円）が出ます。",
			Priority:               PriorityNormal,
			Deadline:               DeadlineWithin1mo,
			RelatedServiceCategory: CategoryCareInsurance,
		},
	},
	PhaseDischargePrep: {
		{
			Role:                   RoleApplyCareInsurance,
			Title:                  "介護保険の申請をする",
			Description:            "まだ未申請の場合はすぐに申請しましょう。地域包括支援センターが手続きを支援してくれます。",
			Priority:               PriorityHigh,
			Deadline:               DeadlineImmediate,
			RelatedServiceCategory: CategoryCareInsurance,
		},
		{
			Role:        RoleContactChiikiHoukatsu,
			Title:       "地域包括支援センターに連絡する",
			Description: "介護に関する総合相談窓口です。ケアマネージャーの紹介、制度の案内、地域のサービス情報を得られます。",
			Priority:    PriorityHigh,
			Deadline:    DeadlineWithin24h,
		},
		{
			Role:        RolePlanPostDischarge,
			Title:       "退院後の生活場所を決める",
			Description: "在宅か施設か、方針を決めましょう。本人の意思、家族の介護力、経済状況を総合的に判断します。",
			Priority:    PriorityHigh,
			Deadline:    DeadlineWithin1w,
		},
		{
			Role:        RoleOrganizeFamily,
			Title:       "家族会議を開く",
			Description: "介護の方針・役割分担・費用負担について家族で話し合いましょう。全員が同じ情報を持つことが重要です。",
			Priority:    PriorityNormal,
			Deadline:    DeadlineWithin1w,
		},
	},
	PhasePostDischarge: {
		{
			Role:                   RoleStartCareService,
			Title:                  "介護サービスの利用を開始する",
			Description:            "ケアマネージャーと相談し、ケアプランに基づいて介護サービス（訪問介護、デイサービス等）を開始しましょう。",
			Priority:               PriorityHigh,
			Deadline:               DeadlineWithin48h,
			RelatedServiceCategory: CategoryCareInsurance,
		},
		{
			Role:                   RoleSetupHomeCare,
			Title:                  "在宅介護の環境を整える",
			Description:            "福祉用具のレンタル・購入、住宅改修、生活動線の確認を行いましょう。ケアマネージャーが手配を支援します。",
			Priority:               PriorityHigh,
			Deadline:               DeadlineWithin1w,
			RelatedServiceCategory: CategoryCareInsurance,
		},
		{
			Role:                   RoleFindCareManager,
			Title:                  "ケアマネージャーと定期的に連絡をとる",
			Description:            "ケアプランが合っているか、サービスに不満はないか、定期的にケアマネージャーと確認しましょう。",
			Priority:               PriorityNormal,
			Deadline:               DeadlineWithin2w,
			RelatedServiceCategory: CategoryCareInsurance,
		},
		{
			Role:                   RoleCheckFinancialSupport,
			Title:                  "経済的支援制度を確認する",
			Description:            "介護休業給付金、高額介護サービス費、自治体の助成制度など、利用できる経済的支援を確認しましょう。",
			Priority:               PriorityNormal,
			Deadline:               DeadlineWithin1mo,
			RelatedServiceCategory: CategoryFinancial,
		},
		{
			Role:        RoleCaregiverSelfCare,
			Title:       "介護者自身のケアを考える",
			Description: "介護者の疲弊は介護崩壊の最大原因です。レスパイトケア（ショートステイ等）やメンタルヘルスの相談先を確認しておきましょう。",
			Priority:    PriorityNormal,
			Deadline:    DeadlineWithin1mo,
		},
	},
	PhaseDiscovery: {
		{
			Role:                   RoleVisitDoctor,
			Title:                  "かかりつけ医を受診する",
			Description:            "まずは受診して、状態を正確に把握することが最優先です。かかりつけ医がいなければ、近くの内科を受診しましょう。認知症が疑われる場合は「もの忘れ外来」も選択肢です。",
			Priority:               PriorityHigh,
			Deadline:               DeadlineWithin1w,
			RelatedServiceCategory: CategoryMedical,
		},
		{
			Role:        RoleRecordSymptoms,
			Title:       "気になる症状を記録する",
			Description: "いつから、どんな症状があるか、どのくらいの頻度か、をメモしましょう。受診時に医師に伝える重要な情報になります。",
			Priority:    PriorityHigh,
			Deadline:    DeadlineWithin48h,
		},
		{
			Role:        RoleContactChiikiHoukatsu,
			Title:       "地域包括支援センターに相談する",
			Description: "介護に関する無料の相談窓口です。まだ介護が必要かわからない段階でも相談できます。お住まいの地域の窓口を調べて連絡しましょう。",
			Priority:    PriorityNormal,
			Deadline:    DeadlineWithin2w,
		},
	},
	PhaseMedicalVisit: {
		{
			Role:                   RoleApplyCareInsurance,
			Title:                  "介護保険の申請をする",
			Description:            "主治医の診断を受けた今がタイミングです。市区町村の窓口、または地域包括支援センターで申請しましょう。申請には主治医意見書が必要です（医師に直接依頼されます）。",
			Priority:               PriorityHigh,
			Deadline:               DeadlineWithin1w,
			RelatedServiceCategory: CategoryCareInsurance,
		},
		{
			Role:        RoleContactChiikiHoukatsu,
			Title:       "地域包括支援センターに連絡する",
			Description: "介護保険の申請支援、ケアマネージャーの紹介、地域の介護サービス情報を得られます。",
			Priority:    PriorityHigh,
			Deadline:    DeadlineWithin48h,
		},
		{
			Role:        RoleUnderstandDiagnosis,
			Title:       "診断内容と今後の見通しを主治医に確認する",
			Description: "病名、進行の見通し、治療方針、日常生活への影響について確認しましょう。メモを取って家族と共有してください。",
			Priority:    PriorityHigh,
			Deadline:    DeadlineWithin48h,
		},
		{
			Role:        RoleOrganizeFamily,
			Title:       "家族に状況を共有する",
			Description: "診断結果と今後の方針を家族に共有しましょう。早い段階で情報を共有することで、後の介護分担がスムーズになります。",
			Priority:    PriorityNormal,
			Deadline:    DeadlineWithin1w,
		},
	},
	PhasePrevention: {
		{
			Role:                   RoleApplyCareInsurance,
			Title:                  "介護保険の申請を完了する",
			Description:            "申請がまだの場合は、市区町村の窓口で申請しましょう。すでに申請中の場合は、認定結果を待ちながら次の準備を進めます。",
			Priority:               PriorityHigh,
			Deadline:               DeadlineImmediate,
			RelatedServiceCategory: CategoryCareInsurance,
		},
		{
			Role:                   RoleFindCareManager,
			Title:                  "ケアマネージャーを見つける",
			Description:            "介護保険の認定が出たら、ケアマネージャーを選びケアプランを作成します。地域包括支援センターで紹介を受けましょう。",
			Priority:               PriorityHigh,
			Deadline:               DeadlineWithin2w,
			RelatedServiceCategory: CategoryCareInsurance,
		},
		{
			Role:                   RoleCheckServices,
			Title:                  "利用できるサービスを確認する",
			Description:            "デイサービス、訪問介護、福祉用具レンタルなど、介護保険で使えるサービスを確認しましょう。ケアマネージャーが案内してくれます。",
			Priority:               PriorityNormal,
			Deadline:               DeadlineWithin1mo,
			RelatedServiceCategory: CategoryCareInsurance,
		},
	},
	PhaseHomeCare: {
		{
			Role:                   RoleReviewCarePlan,
			Title:                  "ケアプランを見直す",
			Description:            "現在のケアプランが本人の状態に合っているか、ケアマネージャーと確認しましょう。状態の変化があれば、サービスの追加・変更が可能です。",
			Priority:               PriorityHigh,
			Deadline:               DeadlineWithin1w,
			RelatedServiceCategory: CategoryCareInsurance,
		},
		{
			Role:                   RoleCheckAdditionalServices,
			Title:                  "追加で利用できるサービスを確認する",
			Description:            "自治体独自のサービス（配食、見守り、紙おむつ支給等）や、民間サービスも含めて確認しましょう。",
			Priority:               PriorityNormal,
			Deadline:               DeadlineWithin2w,
			RelatedServiceCategory: CategoryMunicipal,
		},
		{
			Role:        RoleCaregiverSelfCare,
			Title:       "介護者の負担を確認する",
			Description: "介護者が疲弊していないか確認しましょう。レスパイトケア（ショートステイ）の利用や、介護者向け相談窓口も検討してください。",
			Priority:    PriorityNormal,
			Deadline:    DeadlineWithin2w,
		},
		{
			Role:                   RoleCheckFinancialSupport,
			Title:                  "経済的支援制度を見直す",
			Description:            "高額介護サービス費、特定入所者介護サービス費、障害者控除、介護休業給付金など、利用できる支援を確認しましょう。",
			Priority:               PriorityNormal,
			Deadline:               DeadlineWithin1mo,
			RelatedServiceCategory: CategoryFinancial,
		},
	},
}

// AllOnsetTypes and AllPhases exist so table-completeness checks and tests
// can walk the closed enums without restating them.
var AllOnsetTypes = []OnsetType{OnsetSudden, OnsetGradual}

var AllPhases = []Phase{
	PhaseAcute,
	PhaseRehab,
	PhaseDischargePrep,
	PhasePostDischarge,
	PhaseDiscovery,
	PhaseMedicalVisit,
	PhasePrevention,
	PhaseHomeCare,
}

// CheckTables verifies the rule tables are total over their enum domains.
// Called once at startup; a failure here is a data bug, never a runtime
// condition.
func CheckTables() error {
	for _, onset := range AllOnsetTypes {
		situations, ok := situationsByOnset[onset]
		if !ok || len(situations) == 0 {
			return fmt.Errorf("no situations declared for onset type %q", onset)
		}
		if len(flowStepsByOnset[onset]) == 0 {
			return fmt.Errorf("no flow steps declared for onset type %q", onset)
		}
		if len(phasesByOnset[onset]) == 0 {
			return fmt.Errorf("no phases declared for onset type %q", onset)
		}
		for _, situation := range situations {
			phase, ok := situationToPhase[situation]
			if !ok {
				return fmt.Errorf("situation %q has no phase mapping", situation)
			}
			if !phaseBelongsToOnset(phase, onset) {
				return fmt.Errorf("situation %q maps to phase %q outside onset %q", situation, phase, onset)
			}
		}
	}
	for _, phase := range AllPhases {
		if _, ok := phaseSummaries[phase]; !ok {
			return fmt.Errorf("phase %q has no summary", phase)
		}
		if _, ok := firstContacts[phase]; !ok {
			return fmt.Errorf("phase %q has no first contact", phase)
		}
		if _, ok := PhaseLabels[phase]; !ok {
			return fmt.Errorf("phase %q has no label", phase)
		}
		if len(phaseTasks[phase]) == 0 {
			return fmt.Errorf("phase %q has no task templates", phase)
		}
		stepIDs, ok := currentStepsByPhase[phase]
		if !ok || len(stepIDs) == 0 {
			return fmt.Errorf("phase %q has no current-step mapping", phase)
		}
		for _, stepID := range stepIDs {
			if _, ok := stepToPhase[stepID]; !ok {
				return fmt.Errorf("phase %q references unknown step %q", phase, stepID)
			}
		}
	}
	return nil
}

func phaseBelongsToOnset(phase Phase, onset OnsetType) bool {
	for _, p := range phasesByOnset[onset] {
		if p == phase {
			return true
		}
	}
	return false
}

// PhaseForStep maps a journey step id back to its phase. Unknown ids
// return an empty phase.
func PhaseForStep(stepID string) Phase {
	return stepToPhase[stepID]
}

// PhasesForOnset returns the phases reachable from the given onset type in
// journey order.
func PhasesForOnset(onset OnsetType) []Phase {
	phases := phasesByOnset[onset]
	out := make([]Phase, len(phases))
	copy(out, phases)
	return out
}
