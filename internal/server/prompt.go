package server

import (
	"fmt"
	"strings"

	"careguide/backend/internal/guide"
)

// systemPrompt frames the assistant as a Japanese family-caregiving guide.
// Replies stay grounded in public support systems and always point to a
// concrete next contact.
const systemPrompt = `あなたは日本の家族介護者を支援する「ケアガイド」のAI相談員です。

役割:
- 急な入院や認知症の進行など、介護が始まったばかりの家族の「次に何をすべきか」を整理して案内します。
- 介護保険、障害福祉、医療保険、自治体独自サービス、経済的支援制度、民間サービスの6分野を組み合わせて提案します。

回答のルール:
- 日本語で、専門用語には短い説明を添えて答えます。
- 必ず「最初に相談すべき窓口」（地域包括支援センター、市区町村の窓口、病院のMSWなど）を具体的に示します。
- 医療行為の判断や診断はせず、受診や専門家への相談を促します。
- 制度の詳細は自治体によって異なるため、断定せず「お住まいの自治体で確認」を添えます。
- 長くなりすぎないよう、要点を箇条書きで簡潔にまとめます。`

// buildCaseContext renders the user's current guidance snapshot as an
// extra system block so the assistant can answer in context. Empty when
// the user has no plan yet.
func buildCaseContext(state GuideState) string {
	if state.Plan == nil {
		return ""
	}
	plan := state.Plan

	var b strings.Builder
	b.WriteString("【相談者の状況】\n")
	if state.MinimalDiagnosis != nil {
		onsetLabel := "急なケア（入院など）"
		if state.MinimalDiagnosis.OnsetType == guide.OnsetGradual {
			onsetLabel = "ゆるやかなケア（認知症・体力低下など）"
		}
		b.WriteString("- きっかけ: " + onsetLabel + "\n")
	}
	b.WriteString("- 現在のフェーズ: " + guide.PhaseLabels[plan.Phase] + "\n")
	b.WriteString("- 最初の相談先: " + plan.FirstContact + "\n")

	total := 0
	done := 0
	highPending := make([]string, 0, 3)
	for _, task := range plan.Tasks {
		if task.ArchivedAt != nil {
			continue
		}
		total++
		if task.Status == guide.TaskStatusDone {
			done++
			continue
		}
		if task.Priority == guide.PriorityHigh && len(highPending) < 3 {
			highPending = append(highPending, task.Title)
		}
	}
	b.WriteString(fmt.Sprintf("- タスク進捗: %d/%d 完了\n", done, total))
	if len(highPending) > 0 {
		b.WriteString("- 未完了の優先タスク: " + strings.Join(highPending, " / ") + "\n")
	}

	if d := state.DetailedDiagnosis; d != nil {
		details := make([]string, 0, 4)
		if d.CareLevel != "" {
			details = append(details, "介護認定: "+string(d.CareLevel))
		}
		if d.MedicalDependency != "" {
			details = append(details, "医療依存度: "+string(d.MedicalDependency))
		}
		if d.DementiaLevel != "" {
			details = append(details, "認知症: "+string(d.DementiaLevel))
		}
		if d.EmploymentStatus != "" {
			details = append(details, "就労状況: "+string(d.EmploymentStatus))
		}
		if d.FinancialConcern != "" {
			details = append(details, "経済面の不安: "+string(d.FinancialConcern))
		}
		if len(details) > 0 {
			b.WriteString("- 詳細回答: " + strings.Join(details, "、") + "\n")
		}
	}

	b.WriteString("この状況を踏まえて回答してください。")
	return b.String()
}
