package guide

// preparednessCards is the fixed recommendation-card catalog. The scorer
// filters it by the card ids its winning risks reference; card_decision_axis
// and card_limit_line are always included in the result.
var preparednessCards = []PreparednessCard{
	{
		CardID: "card_info",
		Title:  "緊急時情報の棚卸しカード",
		Badge:  "情報共有",
		Why:    "急変時は「どこの病院か」「何の薬か」「書類はどこか」が最初に問われます。事前に一枚にまとめておくと初動が変わります。",
		CheckPoints: []string{
			"かかりつけ医と通院先の一覧化",
			"服薬内容のメモ（お薬手帳の場所）",
			"保険証・手帳・通帳など重要書類の保管場所の共有",
			"緊急時に連絡する支援者・窓口のリスト",
		},
	},
	{
		CardID: "card_safety_measures",
		Title:  "住まいの安全対策カード",
		Badge:  "安全",
		Why:    "転倒とヒートショックは一度の事故で生活を激変させます。家の中の危険を先に潰すのが最も費用対効果の高い備えです。",
		CheckPoints: []string{
			"段差・滑りやすい場所への手すり/滑り止め",
			"浴室・脱衣所の暖房など寒暖差対策",
			"外出時の迷い・事故への備え（連絡カード等）",
			"倒れたときに早く気づける仕組み（見守りセンサー・定時連絡）",
		},
	},
	{
		CardID: "card_family_capacity",
		Title:  "家族の分担設計カード",
		Badge:  "体制",
		Why:    "「誰かがやるだろう」は必ず一人に偏ります。平日動ける人、書類が得意な人、送迎ができる人で役割を分けて設計します。",
		CheckPoints: []string{
			"平日日中に窓口対応できる人の確定",
			"手続き・付き添い・家事の分担表",
			"限界が来たときに外部支援へ切り替える条件",
		},
	},
	{
		CardID: "card_money",
		Title:  "お金の段取りカード",
		Badge:  "お金",
		Why:    "費用の方針と立替ルールを先に決めておくと、急な支払いで揉めません。口座凍結への備えも重要です。",
		CheckPoints: []string{
			"介護費用を誰が・どこから出すかの基本方針",
			"立替の記録と清算ルール",
			"口座・保険・重要書類の所在の共有",
			"認知症に備えた代理手続き（家族信託・代理人カード等）の検討",
		},
	},
	{
		CardID: "card_decision_axis",
		Title:  "判断軸のすり合わせカード",
		Badge:  "合意",
		Why:    "迷う場面で「何を最優先するか」が共有されていれば、決断が止まりません。本人の希望を聞けるうちに聞いておきます。",
		CheckPoints: []string{
			"本人の希望（在宅か施設か、延命の考え方）の確認",
			"迷ったときの最優先軸の合意",
			"意見が割れたときの決め方（キーパーソン・第三者）",
		},
	},
	{
		CardID: "card_limit_line",
		Title:  "支援導入ラインカード",
		Badge:  "見極め",
		Why:    "「まだ大丈夫」の先送りが一番危険です。どの状態になったら支援を入れるか、具体的なラインを先に決めておきます。",
		CheckPoints: []string{
			"支援を入れる具体的な条件（転倒した・火の不始末など）",
			"最初に相談する窓口の確認（地域包括支援センター）",
			"家族だけで抱える期間の上限",
		},
	},
}
