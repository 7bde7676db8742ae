package guide

// candidateCatalog is the fixed candidate-service list the assessment
// engine sorts and filters. IDs are referenced by the filter rules
// (c1 drops once care insurance is in use, w0 once disability services
// are in use, f3 routes to the municipal contact template).
var candidateCatalog = []CandidateService{
	{
		ID:         "w0",
		Name:       "障害福祉サービスの利用申請",
		Area:       AreaDisability,
		Summary:    "市役所の障害福祉担当へ申請し、計画相談を経てホームヘルプ等の支援を組み立てます。",
		Tags:       []string{"申請", "入口"},
		Condition:  "障害者手帳または医師の診断があること（手帳なしでも相談可）",
		NextAction: "市役所（障害福祉担当）へ電話し、申請の流れを確認する",
		Details: CandidateDetails{
			Reason:    "65歳未満で日常的な支援が必要な場合の中心的な制度です。",
			Check:     []string{"対象となるサービスの種類", "支給決定までの期間", "自己負担の上限"},
			Documents: []string{"障害者手帳または診断書", "マイナンバーカード", "印鑑"},
			Attention: "申請から支給決定まで1〜2ヶ月かかるため、早めに動きましょう。",
		},
	},
	{
		ID:         "w1",
		Name:       "居宅介護（ホームヘルプ）",
		Area:       AreaDisability,
		Summary:    "ヘルパーが自宅を訪問し、家事や身体介助を行います。",
		Tags:       []string{"在宅", "生活支援"},
		Condition:  "障害支援区分の認定を受けていること",
		NextAction: "相談支援専門員にサービス等利用計画への組み込みを相談する",
		Details: CandidateDetails{
			Reason:    "日々の家事・入浴・通院同行のつまずきを直接補えます。",
			Check:     []string{"利用できる時間数", "事業所の空き状況"},
			Documents: []string{"受給者証"},
			Attention: "区分認定の結果によって利用できる量が変わります。",
		},
	},
	{
		ID:         "c1",
		Name:       "要介護認定の申請",
		Area:       AreaCare,
		Summary:    "地域包括支援センターまたは市区町村窓口へ申請し、訪問調査を経て要介護度が決まります。",
		Tags:       []string{"申請", "入口"},
		Condition:  "65歳以上、または40〜64歳で特定疾病に該当すること",
		NextAction: "地域包括支援センターへ電話し、申請の予約を取る",
		Details: CandidateDetails{
			Reason:    "介護保険サービスを使うための入口となる手続きです。",
			Check:     []string{"認定までの期間（約30日）", "暫定利用の可否"},
			Documents: []string{"介護保険被保険者証", "健康保険証", "主治医の情報"},
			Attention: "主治医意見書が必要なため、かかりつけ医を決めておきましょう。",
		},
	},
	{
		ID:         "c2",
		Name:       "訪問介護・デイサービス",
		Area:       AreaCare,
		Summary:    "ヘルパーの訪問や日帰りの通所で、生活支援と見守りを確保します。",
		Tags:       []string{"在宅", "見守り"},
		Condition:  "要介護（要支援）認定を受けていること",
		NextAction: "ケアマネジャーにケアプランへの組み込みを相談する",
		Details: CandidateDetails{
			Reason:    "家族が平日動けない時間帯の支援を制度で補えます。",
			Check:     []string{"週あたりの利用回数", "自己負担額"},
			Documents: []string{"介護保険被保険者証", "負担割合証"},
			Attention: "事業所によって空き状況が大きく異なります。",
		},
	},
	{
		ID:         "m1",
		Name:       "高額療養費制度",
		Area:       AreaMedical,
		Summary:    "医療費の自己負担が上限額を超えた分が払い戻されます。",
		Tags:       []string{"医療費", "払い戻し"},
		Condition:  "公的医療保険に加入していること",
		NextAction: "加入している健康保険の窓口へ限度額適用認定証を申請する",
		Details: CandidateDetails{
			Reason:    "入院・手術で医療費がかさむ局面の負担を直接減らせます。",
			Check:     []string{"所得区分ごとの上限額", "限度額適用認定証の事前取得"},
			Documents: []string{"健康保険証", "医療費の領収書"},
			Attention: "世帯合算や多数回該当でさらに軽減される場合があります。",
		},
	},
	{
		ID:         "m2",
		Name:       "訪問看護",
		Area:       AreaMedical,
		Summary:    "看護師が自宅を訪問し、医療処置や体調管理を行います。",
		Tags:       []string{"在宅医療"},
		Condition:  "主治医の訪問看護指示書があること",
		NextAction: "主治医または病院のMSWに訪問看護ステーションの紹介を依頼する",
		Details: CandidateDetails{
			Reason:    "医療的ケアが必要なまま在宅生活を続けるための柱になります。",
			Check:     []string{"医療保険と介護保険どちらの適用か", "訪問回数"},
			Documents: []string{"訪問看護指示書", "健康保険証"},
			Attention: "適用保険によって自己負担の計算が変わります。",
		},
	},
	{
		ID:         "f1",
		Name:       "傷病手当金",
		Area:       AreaFinancial,
		Summary:    "病気やけがで働けない間、給与のおよそ2/3が支給されます。",
		Tags:       []string{"収入補填"},
		Condition:  "健康保険の被保険者本人が療養のため就労できないこと",
		NextAction: "勤務先の健康保険組合または協会けんぽへ申請する",
		Details: CandidateDetails{
			Reason:    "本人の収入が止まる期間の生活費を支えます。",
			Check:     []string{"支給期間（通算1年6ヶ月）", "待期3日間の要件"},
			Documents: []string{"傷病手当金支給申請書", "医師の意見欄記入"},
			Attention: "退職後も条件を満たせば継続受給できる場合があります。",
		},
	},
	{
		ID:         "f2",
		Name:       "障害年金",
		Area:       AreaFinancial,
		Summary:    "一定の障害状態にある場合、年金として継続的な収入が得られます。",
		Tags:       []string{"収入補填", "年金"},
		Condition:  "初診日の保険料納付要件と障害認定基準を満たすこと",
		NextAction: "年金事務所または市役所の年金窓口で初診日の要件を確認する",
		Details: CandidateDetails{
			Reason:    "長期的な収入の土台になる制度です。",
			Check:     []string{"初診日の証明", "障害認定日の診断書"},
			Documents: []string{"年金手帳", "診断書", "受診状況等証明書"},
			Attention: "初診日の特定が最大の関門です。受診記録を早めに集めましょう。",
		},
	},
	{
		ID:         "f3",
		Name:       "生活福祉資金貸付",
		Area:       AreaFinancial,
		Summary:    "社会福祉協議会による低利・無利子の貸付で当面の資金を確保します。",
		Tags:       []string{"貸付"},
		Condition:  "低所得世帯・障害者世帯・高齢者世帯であること",
		NextAction: "市区町村の社会福祉協議会へ相談する",
		Details: CandidateDetails{
			Reason:    "給付の決定を待つ間のつなぎ資金として使えます。",
			Check:     []string{"貸付の種類と限度額", "償還計画"},
			Documents: []string{"世帯の収入がわかる書類", "住民票"},
			Attention: "貸付のため返済が必要です。給付制度を優先的に検討しましょう。",
		},
	},
	{
		ID:         "g1",
		Name:       "自治体の高齢者・障害者支援サービス",
		Area:       AreaMunicipal,
		Summary:    "配食、紙おむつ支給、緊急通報システムなど自治体独自の支援があります。",
		Tags:       []string{"自治体", "生活支援"},
		Condition:  "自治体ごとの対象要件によります",
		NextAction: "市役所の福祉課で利用できる独自サービスの一覧をもらう",
		Details: CandidateDetails{
			Reason:    "制度の谷間を埋める小回りの利く支援が見つかります。",
			Check:     []string{"対象要件", "申請窓口"},
			Documents: []string{"本人確認書類"},
			Attention: "同じ名前のサービスでも自治体によって内容が異なります。",
		},
	},
	{
		ID:         "p1",
		Name:       "民間の家事代行・見守りサービス",
		Area:       AreaPrivate,
		Summary:    "保険外の家事代行、見守りセンサー、配食、介護タクシーなどで即日の支えを作ります。",
		Tags:       []string{"保険外", "即時"},
		Condition:  "費用は全額自己負担",
		NextAction: "地域の事業者を調べ、短期の試用から始める",
		Details: CandidateDetails{
			Reason:    "公的制度の開始を待つ間の空白期間を埋められます。",
			Check:     []string{"料金体系", "最低契約期間"},
			Documents: []string{},
			Attention: "長期利用は家計を圧迫するため、公的制度への切り替え時期を決めておきましょう。",
		},
	},
}
