package guide

import (
	"strings"
	"testing"
)

func baseAnswers() AssessmentAnswers {
	return AssessmentAnswers{
		Q1Target:           "親",
		Q2Age:              "75歳以上",
		Q3Status:           "在宅（通院中）",
		Q4Trouble:          []string{"生活が回らない"},
		Q5SupportLevel:     "見守りが必要",
		Q6Traits:           []string{},
		Q7PublicService:    "まだどちらも申請していない",
		Q8WorkStatus:       "仕事はしていない",
		Q9SupportStructure: "主に自分ひとり",
		Q10Finance:         "当面は問題ない",
	}
}

func TestPrimaryRouteCareForEligibleWithSupport(t *testing.T) {
	f := deriveAssessmentFlags(baseAnswers())
	if !f.is65plus || !f.ltcEligible {
		t.Fatal("75歳以上 should be care-insurance eligible")
	}
	if f.primaryRoute != RouteCare {
		t.Fatalf("primaryRoute = %s, want %s", f.primaryRoute, RouteCare)
	}
}

func TestPrimaryRouteDisabilityForYoungWithSupport(t *testing.T) {
	a := baseAnswers()
	a.Q2Age = "39歳以下"
	f := deriveAssessmentFlags(a)
	if f.ltcEligible {
		t.Fatal("under 40 must not be care-insurance eligible")
	}
	if f.primaryRoute != RouteDisability {
		t.Fatalf("primaryRoute = %s, want %s", f.primaryRoute, RouteDisability)
	}
}

func TestPrimaryRouteUndeterminedWhenEligibilityUnknown(t *testing.T) {
	a := baseAnswers()
	a.Q2Age = "40〜64歳"
	a.Q2bSpecificDisease = "わからない"
	f := deriveAssessmentFlags(a)
	if !f.ltcEligibilityUnknown {
		t.Fatal("eligibility should be unknown")
	}
	if f.primaryRoute != RouteUndetermined {
		t.Fatalf("primaryRoute = %s, want %s", f.primaryRoute, RouteUndetermined)
	}
}

func TestExistingLTCUseWinsRoute(t *testing.T) {
	a := baseAnswers()
	a.Q7PublicService = "介護保険だけ申請中／利用中"
	f := deriveAssessmentFlags(a)
	if f.primaryRoute != RouteCare {
		t.Fatalf("primaryRoute = %s, want %s", f.primaryRoute, RouteCare)
	}
}

func TestSecondaryRouteDisability(t *testing.T) {
	a := baseAnswers()
	a.Q6Traits = []string{"記憶があいまいになる"}
	f := deriveAssessmentFlags(a)
	if f.primaryRoute != RouteCare {
		t.Fatalf("primaryRoute = %s", f.primaryRoute)
	}
	if f.secondaryRoute != RouteDisability {
		t.Fatalf("secondaryRoute = %s, want %s", f.secondaryRoute, RouteDisability)
	}
}

func TestShortSummaryDomainAndWindow(t *testing.T) {
	a := baseAnswers()
	a.Q4Trouble = []string{"お金が不安"}
	result := RunAssessment(a)
	if !strings.Contains(result.ShortSummary, "お金") {
		t.Fatalf("shortSummary = %q", result.ShortSummary)
	}
	if !strings.Contains(result.ShortSummary, "地域包括支援センター") {
		t.Fatalf("shortSummary window = %q", result.ShortSummary)
	}
}

func TestCandidatesDropAppliedEntries(t *testing.T) {
	a := baseAnswers()
	a.Q7PublicService = "介護保険だけ申請中／利用中"
	result := RunAssessment(a)
	for _, c := range result.Candidates {
		if c.ID == "c1" {
			t.Fatal("c1 should be dropped when care insurance is already in use")
		}
	}

	a = baseAnswers()
	a.Q7PublicService = "障害福祉だけ申請中／利用中"
	result = RunAssessment(a)
	for _, c := range result.Candidates {
		if c.ID == "w0" {
			t.Fatal("w0 should be dropped when disability services are already in use")
		}
	}
}

func TestCandidatesHideCareAreaOffRoute(t *testing.T) {
	a := baseAnswers()
	a.Q2Age = "39歳以下"
	result := RunAssessment(a)
	for _, c := range result.Candidates {
		if c.Area == AreaCare {
			t.Fatalf("care-insurance candidate %s shown off the care route", c.ID)
		}
	}
}

func TestCandidatesPrimaryAreaFirst(t *testing.T) {
	result := RunAssessment(baseAnswers())
	if len(result.Candidates) == 0 {
		t.Fatal("no candidates")
	}
	if result.Candidates[0].Area != AreaCare {
		t.Fatalf("first candidate area = %s, want %s", result.Candidates[0].Area, AreaCare)
	}
	for _, c := range result.Candidates {
		if c.ActionTemplate == "" {
			t.Fatalf("candidate %s has no action template", c.ID)
		}
	}
}

func TestTwoWeekTasksFinancialExtra(t *testing.T) {
	result := RunAssessment(baseAnswers())
	if len(result.TwoWeekTasks) != 5 {
		t.Fatalf("two-week tasks = %d, want 5", len(result.TwoWeekTasks))
	}

	a := baseAnswers()
	a.Q10Finance = "収入が下がる見込み"
	result = RunAssessment(a)
	if len(result.TwoWeekTasks) != 6 {
		t.Fatalf("two-week tasks = %d, want 6 with financial risk", len(result.TwoWeekTasks))
	}
	if result.TwoWeekTasks[5].ID != "tk6" {
		t.Fatalf("extra task id = %s", result.TwoWeekTasks[5].ID)
	}
}

func TestInvolvementLevels(t *testing.T) {
	a := baseAnswers()
	a.Q3Status = "入院中"
	a.Q10Finance = "収入が下がる見込み"
	result := RunAssessment(a)

	if result.AreaInvolvement[AreaCare] != InvolvementHigh {
		t.Fatalf("care involvement = %s", result.AreaInvolvement[AreaCare])
	}
	if result.AreaInvolvement[AreaMedical] != InvolvementHigh {
		t.Fatalf("medical involvement = %s", result.AreaInvolvement[AreaMedical])
	}
	if result.AreaInvolvement[AreaFinancial] != InvolvementHigh {
		t.Fatalf("financial involvement = %s", result.AreaInvolvement[AreaFinancial])
	}
}

func TestContactWindowsFollowRoute(t *testing.T) {
	result := RunAssessment(baseAnswers())
	if len(result.ContactWindows) != 1 {
		t.Fatalf("contact windows = %d", len(result.ContactWindows))
	}
	if result.ContactWindows[0].Name != "地域包括支援センター" {
		t.Fatalf("window = %q", result.ContactWindows[0].Name)
	}

	a := baseAnswers()
	a.Q7PublicService = "介護保険だけ申請中／利用中"
	result = RunAssessment(a)
	if result.ContactWindows[0].Name != "担当ケアマネジャー（介護保険）" {
		t.Fatalf("window = %q", result.ContactWindows[0].Name)
	}
}

func TestFamilyPointsExtraOnCareRoute(t *testing.T) {
	result := RunAssessment(baseAnswers())
	if len(result.FamilyPoints) != 4 {
		t.Fatalf("family points = %d, want 4 on care route", len(result.FamilyPoints))
	}

	a := baseAnswers()
	a.Q2Age = "39歳以下"
	result = RunAssessment(a)
	if len(result.FamilyPoints) != 3 {
		t.Fatalf("family points = %d, want 3 off care route", len(result.FamilyPoints))
	}
}
