package ingredient

import "supplement-advisor/internal/pkg/common"

// DefaultEntries 內建關鍵字表：同一成分的韓文、英文與縮寫寫法。
// 順序即同長度關鍵字的優先順序。
// 數字編號的 B 群必須同時列出有無空白的寫法，否則較長的 비타민b 會先吃掉 비타민b12。
func DefaultEntries() []Entry {
	return []Entry{
		// 複合成分
		{Canonical: "코엔자임Q10", Keywords: []string{"코엔자임q10", "coenzyme q10", "coq10", "코큐텐"}},
		{Canonical: "히알루론산", Keywords: []string{"히알루론산", "히알루론", "hyaluronic acid", "hyaluronic"}},
		{Canonical: "세인트존스워트", Keywords: []string{"세인트존스워트", "st john's wort", "st johns wort"}},
		{Canonical: "종합비타민", Keywords: []string{"종합비타민", "멀티비타민", "multivitamin", "multi vitamin"}},
		{Canonical: "글루코사민", Keywords: []string{"글루코사민", "glucosamine"}},
		{Canonical: "콘드로이틴", Keywords: []string{"콘드로이틴", "chondroitin"}},
		{Canonical: "유산균", Keywords: []string{"프로바이오틱스", "probiotics", "probiotic", "유산균", "락토"}, Excludes: []string{"락토페린", "락토스", "락토오스"}},
		{Canonical: "프로폴리스", Keywords: []string{"프로폴리스", "propolis"}},
		{Canonical: "에키네시아", Keywords: []string{"에키네시아", "echinacea"}},
		{Canonical: "베타카로틴", Keywords: []string{"베타카로틴", "beta carotene", "betacarotene"}},
		{Canonical: "지아잔틴", Keywords: []string{"지아잔틴", "zeaxanthin"}},
		{Canonical: "발레리안", Keywords: []string{"발레리안", "valerian"}},
		{Canonical: "멜라토닌", Keywords: []string{"멜라토닌", "melatonin"}},
		{Canonical: "피크노제놀", Keywords: []string{"피크노제놀", "pycnogenol"}},

		// 單一維生素：數字編號的 B 群要排在泛用的 비타민B 之前
		{Canonical: "비타민B12", Keywords: []string{"비타민b12", "비타민 b12", "vitamin b12", "vitaminb12", "b12"}},
		{Canonical: "비타민B6", Keywords: []string{"비타민b6", "비타민 b6", "vitamin b6", "vitaminb6", "b6"}},
		{Canonical: "비타민B1", Keywords: []string{"비타민b1", "비타민 b1", "vitamin b1", "vitaminb1", "b1"}},
		{Canonical: "비타민B2", Keywords: []string{"비타민b2", "비타민 b2", "vitamin b2", "vitaminb2", "b2"}},
		{Canonical: "비타민B3", Keywords: []string{"비타민b3", "비타민 b3", "vitamin b3", "vitaminb3", "b3"}},
		{Canonical: "비타민B5", Keywords: []string{"비타민b5", "비타민 b5", "vitamin b5", "vitaminb5", "b5"}},
		{Canonical: "비타민B", Keywords: []string{"b컴플렉스", "b complex", "b-complex", "비타민b", "비타민 b", "vitamin b", "b군", "b-군"}},
		{Canonical: "비타민C", Keywords: []string{"비타민c", "비타민 c", "vitamin c", "vit c", "vitc"}},
		{Canonical: "비타민D", Keywords: []string{"비타민d", "비타민 d", "vitamin d", "vit d", "vitd"}},
		{Canonical: "비타민E", Keywords: []string{"비타민e", "비타민 e", "vitamin e", "vit e", "vite"}},
		{Canonical: "비타민A", Keywords: []string{"비타민a", "비타민 a", "vitamin a", "vit a", "vita"}},
		{Canonical: "비타민K", Keywords: []string{"비타민k", "비타민 k", "vitamin k"}},

		// 礦物質
		{Canonical: "마그네슘", Keywords: []string{"마그네슘", "magnesium", "mg"}},
		{Canonical: "칼슘", Keywords: []string{"칼슘", "calcium", "ca"}},
		{Canonical: "철분", Keywords: []string{"철분", "iron", "철", "fe"}},
		{Canonical: "아연", Keywords: []string{"아연", "zinc", "zn"}},
		{Canonical: "구리", Keywords: []string{"구리", "copper"}},
		{Canonical: "셀레늄", Keywords: []string{"셀레늄", "selenium"}},

		// Omega
		{Canonical: "오메가3", Keywords: []string{"오메가-3", "omega-3", "omega 3", "오메가 3", "오메가3", "dha", "epa"}},
		{Canonical: "오메가6", Keywords: []string{"오메가6", "omega-6", "omega 6"}},

		// 其他
		{Canonical: "루테인", Keywords: []string{"루테인", "lutein"}},
		{Canonical: "콜라겐", Keywords: []string{"콜라겐", "collagen"}},
		{Canonical: "커큐민", Keywords: []string{"커큐민", "강황", "curcumin", "turmeric"}},
		{Canonical: "테아닌", Keywords: []string{"테아닌", "theanine", "l-theanine"}},
		{Canonical: "비오틴", Keywords: []string{"비오틴", "biotin"}},
		{Canonical: "엽산", Keywords: []string{"엽산", "folic acid", "folate"}},
		{Canonical: "은행잎", Keywords: []string{"은행잎", "ginkgo biloba", "ginkgo"}},
		{Canonical: "인삼", Keywords: []string{"인삼", "ginseng"}},
		{Canonical: "마카", Keywords: []string{"마카", "maca"}, Excludes: []string{"마카다미아", "macadamia"}},
		{Canonical: "MSM", Keywords: []string{"msm"}},
		{Canonical: "알파리포산", Keywords: []string{"알파리포산", "alpha lipoic acid", "ala"}},
		{Canonical: "레스베라트롤", Keywords: []string{"레스베라트롤", "resveratrol"}},
		{Canonical: "밀크씨슬", Keywords: []string{"밀크씨슬", "milk thistle", "실리마린", "silymarin"}},
	}
}

// defaultInfo 營養素說明，鍵為標準成分名
func defaultInfo() map[string]common.SupplementInfo {
	return map[string]common.SupplementInfo{
		"비타민C": {
			Description: "강력한 항산화 작용으로 면역 기능과 콜라겐 합성을 돕는 수용성 비타민입니다.",
			Benefits:    []string{"면역력 강화", "항산화", "철분 흡수 촉진", "피부 건강"},
			Dosage:      "성인 기준 하루 100~1,000mg",
		},
		"비타민D": {
			Description: "칼슘 흡수와 뼈 건강, 면역 조절에 관여하는 지용성 비타민입니다.",
			Benefits:    []string{"뼈 건강", "면역 조절", "근육 기능 유지"},
			Dosage:      "성인 기준 하루 1,000~2,000IU",
		},
		"비타민B": {
			Description: "에너지 대사와 신경 기능에 필요한 비타민 B군입니다.",
			Benefits:    []string{"피로 회복", "에너지 대사", "신경 건강"},
			Dosage:      "제품 라벨의 1일 권장량을 따르세요.",
		},
		"비타민B12": {
			Description: "적혈구 생성과 신경 기능 유지에 필요한 비타민입니다.",
			Benefits:    []string{"빈혈 예방", "신경 건강", "에너지 대사"},
			Dosage:      "성인 기준 하루 2.4~1,000mcg",
		},
		"오메가3": {
			Description: "EPA와 DHA를 함유한 필수 지방산으로 혈행과 두뇌 건강에 도움을 줍니다.",
			Benefits:    []string{"혈중 중성지방 개선", "혈행 개선", "두뇌 및 눈 건강"},
			Dosage:      "EPA+DHA 합계 하루 500~2,000mg",
		},
		"마그네슘": {
			Description: "근육 이완과 신경 안정, 에너지 생성에 관여하는 미네랄입니다.",
			Benefits:    []string{"근육 경련 완화", "수면 질 개선", "스트레스 완화"},
			Dosage:      "성인 기준 하루 300~400mg",
		},
		"칼슘": {
			Description: "뼈와 치아를 구성하는 주요 미네랄입니다.",
			Benefits:    []string{"뼈 건강", "치아 건강", "근육 수축"},
			Dosage:      "성인 기준 하루 700~1,000mg (철분과 시간 간격을 두고 복용)",
		},
		"철분": {
			Description: "헤모글로빈 생성에 필요한 미네랄로 빈혈 예방에 중요합니다.",
			Benefits:    []string{"빈혈 예방", "산소 운반", "피로 감소"},
			Dosage:      "성인 기준 하루 10~18mg (공복 복용 권장, 칼슘과 분리)",
		},
		"아연": {
			Description: "면역 기능과 상처 회복, 세포 분열에 관여하는 미네랄입니다.",
			Benefits:    []string{"면역력 강화", "피부 건강", "상처 회복"},
			Dosage:      "성인 기준 하루 8~11mg",
		},
		"유산균": {
			Description: "장내 유익균을 늘려 장 건강을 돕는 프로바이오틱스입니다.",
			Benefits:    []string{"장 건강", "배변 활동 원활", "면역 기능"},
			Dosage:      "하루 1억~100억 CFU",
		},
		"루테인": {
			Description: "황반 색소 밀도를 유지해 눈 건강을 돕는 카로티노이드입니다.",
			Benefits:    []string{"눈 건강", "황반 보호", "블루라이트 차단"},
			Dosage:      "하루 10~20mg",
		},
		"종합비타민": {
			Description: "여러 비타민과 미네랄을 한 번에 보충하는 복합 영양제입니다.",
			Benefits:    []string{"기초 영양 보충", "피로 회복", "면역 기능"},
			Dosage:      "제품 라벨의 1일 권장량을 따르세요.",
		},
		"밀크씨슬": {
			Description: "실리마린을 함유해 간 건강에 도움을 줄 수 있습니다.",
			Benefits:    []string{"간 건강", "항산화"},
			Dosage:      "실리마린 기준 하루 130mg",
		},
	}
}
