package guide

import (
	"sort"
	"strings"
)

// PreparednessAnswers carries the raw option labels of the future-proofing
// questionnaire. As with the assessment, the Japanese labels are the wire
// format and normalization happens here.
type PreparednessAnswers struct {
	PTarget                  string `json:"p_target"`
	ParentAge                string `json:"parent_age"`
	ParentLiving             string `json:"parent_living"`
	ParentLastSeen           string `json:"parent_lastSeen"`
	QInfoDoctor              string `json:"q_info_doctor"`
	QInfoMeds                string `json:"q_info_meds"`
	QInfoCardsLocation       string `json:"q_info_cards_location"`
	QInfoSupportContact      string `json:"q_info_support_contact"`
	QSafeFallPrevention      string `json:"q_safe_fall_prevention"`
	QSafeHeatshockPrevention string `json:"q_safe_heatshock_prevention"`
	QSafeOutingPrevention    string `json:"q_safe_outing_prevention"`
	QSafeFoundQuickly        string `json:"q_safe_found_quickly"`
	QCapWeekdayAvailable     string `json:"q_cap_weekday_available"`
	QCapHelpersExist         string `json:"q_cap_helpers_exist"`
	QCapRolesDefined         string `json:"q_cap_roles_defined"`
	QCapConflictRisk         string `json:"q_cap_conflict_risk"`
	QMoneyPolicy             string `json:"q_money_policy"`
	QMoneyBillsAndAccounts   string `json:"q_money_bills_and_accounts"`
	QMoneyAdvanceRule        string `json:"q_money_advance_rule"`
	QMoneyDocsPlace          string `json:"q_money_docs_place"`
	QAxisPriority            string `json:"q_axis_priority"`
}

type RiskDescription struct {
	Summary       string   `json:"summary"`
	DetailBullets []string `json:"detailBullets"`
}

type PreparednessRisk struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Severity         int             `json:"severity"`
	Description      RiskDescription `json:"description"`
	DiscussionPoints []string        `json:"discussionPoints"`
	RecommendedCards []string        `json:"recommendedCards"`
	ResultCtaHint    string          `json:"resultCtaHint"`
}

type PreparednessCard struct {
	CardID      string   `json:"cardId"`
	Title       string   `json:"title"`
	Badge       string   `json:"badge"`
	Why         string   `json:"why"`
	CheckPoints []string `json:"checkPoints"`
}

type PreparednessResult struct {
	Summary         string             `json:"summary"`
	Risks           []PreparednessRisk `json:"risks"`
	Cards           []PreparednessCard `json:"cards"`
	FinalNextAction string             `json:"finalNextAction"`
}

// Answer normalization: each option label maps to a canonical code, and
// each code to a weight of 0 (covered), 1 (partial/unknown) or 2 (gap).

func normalizeAnswer(val string) string {
	switch val {
	case "できている", "決まっている", "合意できている", "決めている":
		return "done"
	case "一部できている", "なんとなく決まっている", "なんとなく共有している", "なんとなく考えている":
		return "partial"
	case "できていない", "決まっていない", "話していない", "意見が割れている":
		return "not_done"
	}
	if val != "" && (strings.Contains(val, "分からない") || val == "わからない") {
		return "unknown"
	}
	switch val {
	case "いる":
		return "yes"
	case "いない":
		return "no"
	case "はい（可能性が高い）":
		return "conflict_yes"
	case "いいえ（話し合えそう）":
		return "conflict_no"
	}
	return "unknown"
}

func quadWeight(val string) int {
	switch normalizeAnswer(val) {
	case "done":
		return 0
	case "partial":
		return 1
	case "not_done":
		return 2
	default:
		return 1
	}
}

func binWeight(val string) int {
	switch normalizeAnswer(val) {
	case "yes":
		return 0
	case "no":
		return 2
	default:
		return 1
	}
}

func conflictWeight(val string) int {
	switch normalizeAnswer(val) {
	case "conflict_no":
		return 0
	case "conflict_yes":
		return 2
	default:
		return 1
	}
}

type scoredRisk struct {
	risk    PreparednessRisk
	score   int
	cardIDs []string
}

// RunPreparedness scores the five risk buckets, keeps the top three by
// severity then score, and unions their recommendation cards with the two
// always-shown cards. Pure and deterministic; ties keep bucket order.
func RunPreparedness(answers PreparednessAnswers) PreparednessResult {
	risks := make([]scoredRisk, 0, 5)

	if score := quadWeight(answers.QInfoDoctor) + quadWeight(answers.QInfoMeds) +
		quadWeight(answers.QInfoCardsLocation) + quadWeight(answers.QInfoSupportContact); score > 0 {
		risks = append(risks, scoredRisk{
			score:   score,
			cardIDs: []string{"card_info"},
			risk: PreparednessRisk{
				ID:       "risk_info",
				Title:    "緊急時に必要な情報が共有されていないリスク",
				Severity: 4,
				Description: RiskDescription{
					Summary:       "医療・服薬・書類の情報が曖昧だと、急変時の初動が遅れ、家族の混乱が一気に増えます。",
					DetailBullets: []string{"入院判断に必要な情報の欠如", "必要書類の捜索による遅延", "相談先不明による孤立"},
				},
				DiscussionPoints: []string{"通院先・服薬情報の集約", "重要書類の場所共有", "相談先のリストアップ"},
				RecommendedCards: []string{"card_info"},
				ResultCtaHint:    "情報の棚卸しだけで、万が一の不安は大きく軽減されます。",
			},
		})
	}

	if score := quadWeight(answers.QSafeFallPrevention) + quadWeight(answers.QSafeHeatshockPrevention) +
		quadWeight(answers.QSafeOutingPrevention) + quadWeight(answers.QSafeFoundQuickly); score > 0 {
		risks = append(risks, scoredRisk{
			score:   score,
			cardIDs: []string{"card_safety_measures", "card_limit_line"},
			risk: PreparednessRisk{
				ID:       "risk_safety",
				Title:    "安全対策が不十分で一気に生活が崩れるリスク",
				Severity: 5,
				Description: RiskDescription{
					Summary:       "転倒やヒートショックは、一度で生活を激変させます。対策の遅れは『手遅れ』に直結します。",
					DetailBullets: []string{"転倒・骨折による自立喪失", "浴室等の寒暖差リスク", "緊急時の発見遅れ"},
				},
				DiscussionPoints: []string{"住環境の具体的改善", "生存確認の仕組み化", "支援導入の検討ライン"},
				RecommendedCards: []string{"card_safety_measures", "card_limit_line"},
				ResultCtaHint:    "安全対策は「いつ支援を入れるか」まで決めると迷いが減ります。",
			},
		})
	}

	if score := binWeight(answers.QCapWeekdayAvailable) + binWeight(answers.QCapHelpersExist) +
		quadWeight(answers.QCapRolesDefined); score > 0 {
		risks = append(risks, scoredRisk{
			score:   score,
			cardIDs: []string{"card_family_capacity"},
			risk: PreparednessRisk{
				ID:       "risk_capacity",
				Title:    "支える家族の負担が一人に集中するリスク",
				Severity: 5,
				Description: RiskDescription{
					Summary:       "役割が曖昧だと、特定の一人に手続きや付き添いの負荷が偏り、介護離職や共倒れを招きます。",
					DetailBullets: []string{"平日窓口対応の集中", "兄弟間での不公平感の蓄積", "一人の限界を超えた抱え込み"},
				},
				DiscussionPoints: []string{"平日窓口役の明確化", "分担可能な作業の切り出し", "外部支援の活用判断"},
				RecommendedCards: []string{"card_family_capacity"},
				ResultCtaHint:    "頑張るのではなく、回る仕組みを設計することが重要です。",
			},
		})
	}

	if score := quadWeight(answers.QMoneyPolicy) + quadWeight(answers.QMoneyBillsAndAccounts) +
		quadWeight(answers.QMoneyAdvanceRule) + quadWeight(answers.QMoneyDocsPlace); score > 0 {
		risks = append(risks, scoredRisk{
			score:   score,
			cardIDs: []string{"card_money"},
			risk: PreparednessRisk{
				ID:       "risk_money",
				Title:    "お金の段取りがなく家族が揉めるリスク",
				Severity: 4,
				Description: RiskDescription{
					Summary:       "費用方針や立替ルールがないと、急な支払い時に揉めたり、家計が圧迫されやすくなります。",
					DetailBullets: []string{"立替金の清算トラブル", "支払い不能（口座凍結）への懸念", "不透明な財産管理による疑念"},
				},
				DiscussionPoints: []string{"費用負担の基本方針", "立替・管理の運用ルール", "口座・重要書類の所在把握"},
				RecommendedCards: []string{"card_money"},
				ResultCtaHint:    "お金は「誰が・どこから出すか」を先に決めるのが鉄則です。",
			},
		})
	}

	if score := conflictWeight(answers.QCapConflictRisk); score > 0 {
		risks = append(risks, scoredRisk{
			score:   score,
			cardIDs: []string{"card_decision_axis", "card_family_capacity"},
			risk: PreparednessRisk{
				ID:       "risk_conflict",
				Title:    "意見が割れて判断が止まる・揉めるリスク",
				Severity: 4,
				Description: RiskDescription{
					Summary:       "家族内で意見が割れると、決断が必要な場面で何も決まらず、本人が一番不利益を被ります。",
					DetailBullets: []string{"介護方針の不一致による対立", "情報の独占による不信感", "過去の感情のもつれの再燃"},
				},
				DiscussionPoints: []string{"迷った時の最優先軸の決定", "情報共有の透明化", "第三者の介入タイミング"},
				RecommendedCards: []string{"card_decision_axis", "card_family_capacity"},
				ResultCtaHint:    "揉めそうな場合は、合意の取り方を先に決めておきましょう。",
			},
		})
	}

	sort.SliceStable(risks, func(i, j int) bool {
		if risks[i].risk.Severity != risks[j].risk.Severity {
			return risks[i].risk.Severity > risks[j].risk.Severity
		}
		return risks[i].score > risks[j].score
	})
	if len(risks) > 3 {
		risks = risks[:3]
	}

	topRisks := make([]PreparednessRisk, 0, len(risks))
	wantedCards := map[string]bool{
		"card_decision_axis": true,
		"card_limit_line":    true,
	}
	for _, r := range risks {
		topRisks = append(topRisks, r.risk)
		for _, id := range r.cardIDs {
			wantedCards[id] = true
		}
	}

	// Catalog order keeps the card list stable regardless of which risks won.
	cards := make([]PreparednessCard, 0, len(preparednessCards))
	for _, c := range preparednessCards {
		if wantedCards[c.CardID] {
			cards = append(cards, c)
		}
	}

	targetLabel := "親御様"
	switch answers.PTarget {
	case "配偶者・パートナーについて":
		targetLabel = "パートナー様"
	case "自分自身について":
		targetLabel = "ご自身"
	case "その他":
		targetLabel = "対象の方"
	}

	summary := answers.ParentAge + "の" + targetLabel + "の状況を整理しました。\n現在は「" + answers.QAxisPriority + "」を最優先に考えたいというご意向に基づき、備えを強化すべきポイントを提示します。"

	finalNextAction := "まずはご家族と、今の状況について話す時間を取ってみましょう。"
	if len(topRisks) > 0 {
		finalNextAction = topRisks[0].ResultCtaHint
	}

	return PreparednessResult{
		Summary:         summary,
		Risks:           topRisks,
		Cards:           cards,
		FinalNextAction: finalNextAction,
	}
}
