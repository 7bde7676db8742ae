package guide

import "strings"

// The assessment engine is a second questionnaire, independent of the
// minimal/detailed diagnosis. Its ten answers arrive as the literal
// Japanese option labels shown to the user; all routing is derived from
// substring tests over those labels, so the labels are part of the
// contract and must not be rephrased without updating this file.

type AreaName string

const (
	AreaDisability AreaName = "障害福祉サービス"
	AreaCare       AreaName = "介護保険サービス"
	AreaMedical    AreaName = "医療保険サービス"
	AreaMunicipal  AreaName = "自治体独自のサービス"
	AreaFinancial  AreaName = "経済的支援制度"
	AreaPrivate    AreaName = "民間サービス"
)

var allAreas = []AreaName{AreaDisability, AreaCare, AreaMedical, AreaMunicipal, AreaFinancial, AreaPrivate}

var areaToCategory = map[AreaName]ServiceCategory{
	AreaDisability: CategoryDisability,
	AreaCare:       CategoryCareInsurance,
	AreaMedical:    CategoryMedical,
	AreaMunicipal:  CategoryMunicipal,
	AreaFinancial:  CategoryFinancial,
	AreaPrivate:    CategoryPrivate,
}

type InvolvementLevel string

const (
	InvolvementHigh   InvolvementLevel = "high"
	InvolvementMedium InvolvementLevel = "medium"
	InvolvementLow    InvolvementLevel = "low"
)

// Route is the primary eligibility track the answers point to.
type Route string

const (
	RouteDisability   Route = "障害福祉"
	RouteCare         Route = "介護保険"
	RouteUndetermined Route = "未確定"
)

// AssessmentAnswers carries the raw option labels of the ten-question set.
type AssessmentAnswers struct {
	Q1Target          string   `json:"q1_target"`
	Q2Age             string   `json:"q2_age"`
	Q2bSpecificDisease string  `json:"q2b_specific_disease,omitempty"`
	Q3Status          string   `json:"q3_status"`
	Q4Trouble         []string `json:"q4_trouble"`
	Q5SupportLevel    string   `json:"q5_support_level"`
	Q6Traits          []string `json:"q6_traits"`
	Q7PublicService   string   `json:"q7_public_service"`
	Q8WorkStatus      string   `json:"q8_work_status"`
	Q9SupportStructure string  `json:"q9_support_structure"`
	Q10Finance        string   `json:"q10_finance"`
}

type PlanSummaryText struct {
	Life    string `json:"life"`
	Housing string `json:"housing"`
	Work    string `json:"work"`
	Money   string `json:"money"`
}

type NextStep struct {
	Title  string `json:"title"`
	Desc   string `json:"desc"`
	Button string `json:"button"`
}

type NextStepGuide struct {
	Step1 NextStep `json:"step1"`
	Step2 NextStep `json:"step2"`
	Step3 NextStep `json:"step3"`
}

type TodoItem struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	AssignedTo string `json:"assignedTo"`
	Condition  string `json:"condition,omitempty"`
}

type ContactWindowInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	TemplateKey string   `json:"templateKey"`
	Role        string   `json:"role"`
	CheckPoints []string `json:"checkPoints"`
}

type CandidateDetails struct {
	Reason    string   `json:"reason"`
	Check     []string `json:"check"`
	Documents []string `json:"documents"`
	Attention string   `json:"attention"`
}

type CandidateService struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Area           AreaName         `json:"area"`
	Summary        string           `json:"summary"`
	Tags           []string         `json:"tags"`
	Condition      string           `json:"condition"`
	NextAction     string           `json:"nextAction"`
	ActionTemplate string           `json:"actionTemplate,omitempty"`
	Details        CandidateDetails `json:"details"`
}

type RiskItem struct {
	Title      string `json:"title"`
	Reason     string `json:"reason"`
	Prevention string `json:"prevention"`
}

type FamilyPoint struct {
	Title    string `json:"title"`
	Draft    string `json:"draft"`
	Material string `json:"material"`
}

type AssessmentResult struct {
	ShortSummary    string                        `json:"shortSummary"`
	PlanSummary     PlanSummaryText               `json:"planSummary"`
	AreaInvolvement map[AreaName]InvolvementLevel `json:"areaInvolvement"`
	NextSteps       NextStepGuide                 `json:"nextSteps"`
	TopTodos        []TodoItem                    `json:"topTodos"`
	ContactWindows  []ContactWindowInfo           `json:"contactWindows"`
	Candidates      []CandidateService            `json:"candidates"`
	TwoWeekTasks    []TodoItem                    `json:"twoWeekTasks"`
	Risks           []RiskItem                    `json:"risks"`
	FamilyPoints    []FamilyPoint                 `json:"familyPoints"`
}

type assessmentFlags struct {
	is65plus              bool
	is40to64              bool
	ltcEligible           bool
	ltcEligibilityUnknown bool
	hasDisability         bool
	hasLTC                bool
	needDailySupport      bool
	needConstantSupport   bool
	cognitiveIssues       bool
	mentalIssues          bool
	unstableMedical       bool
	employmentRisk        bool
	financialRisk         bool
	highUrgency           bool
	primaryRoute          Route
	secondaryRoute        Route
}

// RunAssessment evaluates the ten-question set into the full result bag.
// Pure; the same answers always produce the same result.
func RunAssessment(answers AssessmentAnswers) AssessmentResult {
	flags := deriveAssessmentFlags(answers)
	return AssessmentResult{
		ShortSummary:    assessmentShortSummary(answers, flags),
		PlanSummary:     assessmentPlanSummary(),
		AreaInvolvement: assessmentInvolvement(answers, flags),
		NextSteps:       assessmentNextSteps(flags),
		TopTodos:        []TodoItem{},
		ContactWindows:  assessmentContactWindows(flags),
		Candidates:      assessmentCandidates(flags),
		TwoWeekTasks:    assessmentTwoWeekTasks(flags),
		Risks:           assessmentRisks(),
		FamilyPoints:    assessmentFamilyPoints(flags),
	}
}

func deriveAssessmentFlags(a AssessmentAnswers) assessmentFlags {
	var f assessmentFlags

	f.is65plus = a.Q2Age == "65〜74歳" || a.Q2Age == "75歳以上"
	f.is40to64 = a.Q2Age == "40〜64歳"
	specificDiseaseYes := strings.Contains(a.Q2bSpecificDisease, "はい")
	specificDiseaseUnknown := a.Q2bSpecificDisease == "わからない"
	f.ltcEligible = f.is65plus || (f.is40to64 && specificDiseaseYes)
	f.ltcEligibilityUnknown = (f.is40to64 && specificDiseaseUnknown) || a.Q2Age == "わからない"

	f.hasDisability = a.Q7PublicService == "障害福祉だけ申請中／利用中" || a.Q7PublicService == "両方"
	f.hasLTC = a.Q7PublicService == "介護保険だけ申請中／利用中" || a.Q7PublicService == "両方"
	f.needDailySupport = a.Q5SupportLevel == "見守りが必要" || a.Q5SupportLevel == "介助が必要"
	f.needConstantSupport = a.Q5SupportLevel == "介助が必要"
	f.cognitiveIssues = strings.Contains(a.Q3Status, "認知") ||
		anyContains(a.Q6Traits, "段取り") || anyContains(a.Q6Traits, "記憶") || anyContains(a.Q6Traits, "対人")
	f.mentalIssues = containsString(a.Q4Trouble, "生活が回らない") &&
		(anyContains(a.Q6Traits, "対人") || anyContains(a.Q6Traits, "感情"))
	f.unstableMedical = a.Q3Status == "入院中" || a.Q3Status == "退院予定（30日以内）" ||
		strings.Contains(a.Q10Finance, "医療費")
	f.employmentRisk = strings.Contains(a.Q8WorkStatus, "継続中") || strings.Contains(a.Q8WorkStatus, "休職")
	f.financialRisk = strings.Contains(a.Q10Finance, "収入") || strings.Contains(a.Q10Finance, "医療費") ||
		strings.Contains(a.Q10Finance, "未完")
	f.highUrgency = true

	f.primaryRoute = RouteUndetermined
	switch {
	case f.hasLTC:
		f.primaryRoute = RouteCare
	case f.ltcEligible && f.needDailySupport:
		f.primaryRoute = RouteCare
	case f.hasDisability:
		f.primaryRoute = RouteDisability
	case !f.ltcEligible && !f.ltcEligibilityUnknown &&
		(f.needDailySupport || f.cognitiveIssues || f.employmentRisk || f.mentalIssues):
		f.primaryRoute = RouteDisability
	}

	if f.primaryRoute == RouteCare && !f.hasDisability && (f.cognitiveIssues || f.employmentRisk || f.mentalIssues) {
		f.secondaryRoute = RouteDisability
	}
	if f.primaryRoute == RouteDisability && !f.hasLTC && f.ltcEligible && f.needDailySupport {
		f.secondaryRoute = RouteCare
	}
	return f
}

func anyContains(values []string, substr string) bool {
	for _, v := range values {
		if strings.Contains(v, substr) {
			return true
		}
	}
	return false
}

func assessmentShortSummary(a AssessmentAnswers, f assessmentFlags) string {
	mainDomain := "生活と手続き"
	switch {
	case containsString(a.Q4Trouble, "お金が不安"):
		mainDomain = "お金"
	case containsString(a.Q4Trouble, "仕事・学校が続かない"):
		mainDomain = "仕事"
	case containsString(a.Q4Trouble, "生活が回らない"):
		mainDomain = "生活"
	case containsString(a.Q4Trouble, "住まいが限界"):
		mainDomain = "住まい"
	}

	windowName := "市役所（福祉の総合窓口）"
	if f.primaryRoute == RouteDisability {
		windowName = "市役所（障害福祉担当）"
	}
	if f.primaryRoute == RouteCare {
		windowName = "地域包括支援センター"
	}

	return "いまの焦点は「" + mainDomain + "」です。まずは「" + windowName + "」へ相談予約を取り、そこから支援を組み立てます。"
}

func assessmentPlanSummary() PlanSummaryText {
	return PlanSummaryText{
		Life:    "日々の段取り・服薬・通院・家事など、つまずく場面を「支援で補う」設計にします。",
		Housing: "安全・見守り・移動の不安を減らし、家の中で事故が起きにくい形に整えます。",
		Work:    "続け方（配慮・役割・ペース）を具体化し、職場で\"回る形\"に寄せます。",
		Money:   "申請が必要な支援を洗い出し、家計の不安を減らす順番を作ります。",
	}
}

func assessmentNextSteps(f assessmentFlags) NextStepGuide {
	usingLTC := f.hasLTC
	usingDisability := f.hasDisability
	ltcUnknown := f.ltcEligibilityUnknown

	windowName := "市役所（福祉の総合窓口）"
	step1Focus := "入口の確定"
	switch {
	case usingLTC:
		windowName = "地域包括支援センター"
		step1Focus = "利用中サービスの見直し・追加"
	case usingDisability:
		windowName = "市役所（障害福祉担当）"
		step1Focus = "利用中サービスの見直し・組み替え"
	case ltcUnknown:
		windowName = "市役所（福祉の総合窓口）"
		step1Focus = "介護保険か障害福祉か、入口の確定"
	case f.primaryRoute == RouteCare:
		windowName = "地域包括支援センター"
		step1Focus = "申請の入口確定（介護保険）"
	case f.primaryRoute == RouteDisability:
		windowName = "市役所（障害福祉担当）"
		step1Focus = "申請の入口確定（障害福祉）"
	}

	step1Desc := "最初に「" + windowName + "」へ電話し、相談予約を取ります。窓口を確定しないと候補が増えるだけで進みません。"
	switch {
	case usingLTC:
		step1Desc = "すでに介護保険を申請中／利用中の場合、最初の焦点は「新規申請」ではありません。「" + windowName + "」へ相談予約を入れ、サービスの\"見直し\"ができるかを確認します。"
	case usingDisability:
		step1Desc = "すでに障害福祉を申請中／利用中の場合、「" + windowName + "」へ相談予約を入れ、支援計画やサービスの\"見直し\"ができるかを確認します。"
	case ltcUnknown:
		step1Desc = "40〜64歳の場合、介護保険は「特定疾病」に当てはまるときのみ対象になります。まず「" + windowName + "」で入口を確定する相談予約を取ります。"
	}

	step2Title := "Step 2：必要情報をそろえる（該当可能性を絞る）"
	step2Desc := "診断書・手帳・現在の困りごとメモなど、窓口で話すために必要な情報を揃えます。"
	if usingLTC || usingDisability {
		step2Title = "Step 2：現状を棚卸しする（何が足りていないか特定）"
		step2Desc = "「いま困っていること」「すでに使っている支援」「うまくいっていない点」を短くメモ化します。"
	}

	return NextStepGuide{
		Step1: NextStep{Title: "Step 1：相談予約（" + step1Focus + "）", Desc: step1Desc, Button: "窓口別 質問セットを見る"},
		Step2: NextStep{Title: step2Title, Desc: step2Desc, Button: "必要情報チェックを見る"},
		Step3: NextStep{
			Title:  "Step 3：6分野を組み合わせて\"リライフプラン\"を作る",
			Desc:   "一つの制度で完結させず、障害・介護保険・医療・自治体独自・経済的支援・民間をパズルのように組み合わせ、生活が回る形に寄せます。",
			Button: "組み合わせ案（候補カード）を見る",
		},
	}
}

func assessmentInvolvement(a AssessmentAnswers, f assessmentFlags) map[AreaName]InvolvementLevel {
	m := map[AreaName]InvolvementLevel{
		AreaDisability: InvolvementLow,
		AreaCare:       InvolvementLow,
		AreaMedical:    InvolvementLow,
		AreaMunicipal:  InvolvementMedium,
		AreaFinancial:  InvolvementMedium,
		AreaPrivate:    InvolvementMedium,
	}

	if f.hasDisability || f.primaryRoute == RouteDisability || (!f.is65plus && f.needDailySupport) {
		m[AreaDisability] = InvolvementHigh
	} else if f.cognitiveIssues || f.employmentRisk {
		m[AreaDisability] = InvolvementMedium
	}
	if f.hasLTC || f.primaryRoute == RouteCare {
		m[AreaCare] = InvolvementHigh
	} else if f.is65plus && len(a.Q4Trouble) > 0 {
		m[AreaCare] = InvolvementMedium
	}
	if f.unstableMedical || strings.Contains(a.Q3Status, "入院") || strings.Contains(a.Q3Status, "退院") {
		m[AreaMedical] = InvolvementHigh
	} else if strings.Contains(a.Q3Status, "在宅") || strings.Contains(a.Q3Status, "通院") {
		m[AreaMedical] = InvolvementMedium
	}
	if f.needDailySupport || f.financialRisk || a.Q5SupportLevel != "ほぼ自立" {
		m[AreaMunicipal] = InvolvementHigh
	}
	if f.financialRisk || containsString(a.Q4Trouble, "お金が不安") {
		m[AreaFinancial] = InvolvementHigh
	}
	if f.highUrgency || strings.Contains(a.Q7PublicService, "まだ") {
		m[AreaPrivate] = InvolvementHigh
	}
	return m
}

func assessmentContactWindows(f assessmentFlags) []ContactWindowInfo {
	switch f.primaryRoute {
	case RouteDisability:
		if f.hasDisability {
			return []ContactWindowInfo{{
				Name:        "担当の相談支援専門員（計画相談）",
				Description: "障害福祉を利用中の場合の相談窓口",
				TemplateKey: string(AreaDisability),
				Role:        "支援の組み直し",
				CheckPoints: []string{"今の計画/契約の確認", "追加したい困りごとの整理", "次回モニタリングの段取り"},
			}}
		}
		return []ContactWindowInfo{{
			Name:        "市役所（障害福祉担当）",
			Description: "障害福祉サービスの申請・相談窓口",
			TemplateKey: string(AreaDisability),
			Role:        "入口の確定",
			CheckPoints: []string{"申請書類", "流れと期間"},
		}}
	case RouteCare:
		if f.hasLTC {
			return []ContactWindowInfo{{
				Name:        "担当ケアマネジャー（介護保険）",
				Description: "介護保険を利用中の場合の相談窓口",
				TemplateKey: string(AreaCare),
				Role:        "支援の組み直し",
				CheckPoints: []string{"今のケアプラン確認", "追加したい困りごとの整理", "サービス追加の可否/手順"},
			}}
		}
		return []ContactWindowInfo{{
			Name:        "地域包括支援センター",
			Description: "介護の総合相談、申請受付",
			TemplateKey: string(AreaCare),
			Role:        "介護・生活相談",
			CheckPoints: []string{"要介護認定", "使えるサービス"},
		}}
	default:
		return []ContactWindowInfo{{
			Name:        "市役所（福祉の総合窓口）",
			Description: "福祉全般の相談",
			TemplateKey: "自治体",
			Role:        "制度の案内",
			CheckPoints: []string{"担当課確認", "独自サービス"},
		}}
	}
}

func assessmentCandidates(f assessmentFlags) []CandidateService {
	all := make([]CandidateService, 0, len(candidateCatalog))
	for _, c := range candidateCatalog {
		templateKey := string(c.Area)
		switch c.Area {
		case AreaMedical:
			templateKey = "病院"
		case AreaFinancial:
			templateKey = "年金"
		case AreaMunicipal, AreaPrivate:
			templateKey = "自治体"
		}
		if c.ID == "f3" {
			templateKey = "自治体"
		}
		c.ActionTemplate = templateKey
		all = append(all, c)
	}

	areaOrder := map[AreaName]int{
		AreaDisability: 2,
		AreaCare:       2,
		AreaMedical:    3,
		AreaFinancial:  4,
		AreaMunicipal:  5,
		AreaPrivate:    6,
	}
	if f.primaryRoute == RouteDisability {
		areaOrder[AreaDisability] = 1
	}
	if f.primaryRoute == RouteCare {
		areaOrder[AreaCare] = 1
	}

	sorted := stableSortByAreaOrder(all, areaOrder)

	filtered := sorted[:0:0]
	showLtcArea := f.hasLTC || f.primaryRoute == RouteCare || f.secondaryRoute == RouteCare
	for _, c := range sorted {
		if f.hasLTC && c.ID == "c1" {
			continue
		}
		if f.hasDisability && c.ID == "w0" {
			continue
		}
		if !showLtcArea && c.Area == AreaCare {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

// stableSortByAreaOrder keeps catalog order inside each area bucket.
func stableSortByAreaOrder(candidates []CandidateService, areaOrder map[AreaName]int) []CandidateService {
	out := make([]CandidateService, 0, len(candidates))
	for order := 1; order <= 6; order++ {
		for _, c := range candidates {
			if areaOrder[c.Area] == order {
				out = append(out, c)
			}
		}
	}
	return out
}

func assessmentTwoWeekTasks(f assessmentFlags) []TodoItem {
	tasks := []TodoItem{
		{ID: "tk1", Text: "キーパーソン（連絡窓口）を1人決める", AssignedTo: "家族", Condition: "平日日中に連絡が取れる人"},
		{ID: "tk2", Text: "現在の困りごとをメモに書き出す（10個以内）", AssignedTo: "家族", Condition: "「いつ・何に」困るか具体的に"},
		{ID: "tk3", Text: "市役所/地域包括の場所と電話番号を調べる", AssignedTo: "家族", Condition: "ネットまたは広報誌で確認"},
		{ID: "tk4", Text: "相談窓口へ電話し、相談予約を入れる", AssignedTo: "連絡窓口", Condition: "「困りごとを整理したい」と伝える"},
		{ID: "tk5", Text: "診断書・保険証・手帳など書類をまとめる", AssignedTo: "家族", Condition: "コピーをとっておく"},
	}
	if f.financialRisk {
		tasks = append(tasks, TodoItem{ID: "tk6", Text: "年金・手当の必要書類（初診日等）を調べる", AssignedTo: "家族"})
	}
	return tasks
}

func assessmentRisks() []RiskItem {
	return []RiskItem{
		{Title: "手続きの空白期間", Reason: "申請から開始まで1〜2ヶ月かかる", Prevention: "予約を急ぎ、暫定の支え（自費等）を用意する"},
		{Title: "役割の押し付け合い", Reason: "「誰かがやるだろう」で止まる", Prevention: "キーパーソン（連絡担当）を1人だけ決める"},
		{Title: "情報の分散", Reason: "病院・役所・職場で話が食い違う", Prevention: "「困りごとメモ」をコピーして全員に同じものを渡す"},
	}
}

func assessmentFamilyPoints(f assessmentFlags) []FamilyPoint {
	points := []FamilyPoint{
		{Title: "誰が窓口になる？（連絡担当）", Draft: "平日日中に動ける◯◯さんが担当", Material: "各家族の仕事の状況と連絡可能時間"},
		{Title: "家計の不足をどこまで補うか", Draft: "まずは制度を洗い出し、不足分は貯蓄/援助で補填", Material: "月々の赤字額の見込み"},
		{Title: "仕事は\"維持\"か\"調整\"か", Draft: "今は「続けること」を最優先に調整する", Material: "本人の疲労度と職場の理解度"},
	}
	if f.primaryRoute == RouteCare {
		points = append(points, FamilyPoint{
			Title:    "住まいは当面維持か、転居か",
			Draft:    "半年は在宅で粘り、その間に施設も調べる",
			Material: "夜間の介護負担の限界ライン",
		})
	}
	return points
}
