package zh

import "strings"

// Mandarin tone sandhi, following the PaddleSpeech rule set: neutral
// tone for listed words and grammatical particles, 不 and 一 tone
// shifts, and the third-tone chain rule.

// mustNeutral lists words whose last syllable is read with neutral tone.
var mustNeutral = makeSet(
	"麻烦", "麻利", "鸳鸯", "高粱", "骨头", "骆驼", "马虎", "首饰", "馒头", "馄饨", "风筝",
	"难为", "队伍", "阔气", "闺女", "门道", "锄头", "铺盖", "铃铛", "铁匠", "钥匙", "里脊",
	"里头", "部分", "那么", "道士", "造化", "迷糊", "连累", "这么", "这个", "运气", "过去",
	"软和", "转悠", "踏实", "跳蚤", "跟头", "趔趄", "财主", "豆腐", "讲究", "记性", "记号",
	"认识", "规矩", "见识", "裁缝", "补丁", "衣裳", "衣服", "衙门", "街坊", "行李", "行当",
	"蛤蟆", "蘑菇", "薄荷", "葫芦", "葡萄", "萝卜", "荸荠", "苗条", "苗头", "苍蝇", "芝麻",
	"舒服", "舒坦", "舌头", "自在", "膏药", "脾气", "脑袋", "脊梁", "能耐", "胳膊", "胭脂",
	"胡萝", "胡琴", "胡同", "聪明", "耽误", "耽搁", "耷拉", "耳朵", "老爷", "老实", "老婆",
	"戏弄", "将军", "翻腾", "罗嗦", "罐头", "编辑", "结实", "红火", "累赘", "糨糊", "糊涂",
	"精神", "粮食", "簸箕", "篱笆", "算计", "算盘", "答应", "笤帚", "笑语", "笑话", "窟窿",
	"窝囊", "窗户", "稳当", "稀罕", "称呼", "秧歌", "秀气", "秀才", "福气", "祖宗", "砚台",
	"码头", "石榴", "石头", "石匠", "知识", "眼睛", "眯缝", "眨巴", "眉毛", "相声", "盘算",
	"白净", "痢疾", "痛快", "疟疾", "疙瘩", "疏忽", "畜生", "生意", "甘蔗", "琵琶", "琢磨",
	"琉璃", "玻璃", "玫瑰", "玄乎", "狐狸", "状元", "特务", "牲口", "牙碜", "牌楼", "爽快",
	"爱人", "热闹", "烧饼", "烟筒", "烂糊", "点心", "炊帚", "灯笼", "火候", "漂亮", "滑溜",
	"溜达", "温和", "清楚", "消息", "浪头", "活泼", "比方", "正经", "欺负", "模糊", "槟榔",
	"棺材", "棒槌", "棉花", "核桃", "栅栏", "柴火", "架势", "枕头", "枇杷", "机灵", "本事",
	"木头", "木匠", "朋友", "月饼", "月亮", "暖和", "明白", "时候", "新鲜", "故事", "收拾",
	"收成", "提防", "挖苦", "挑剔", "指甲", "指头", "拾掇", "拳头", "拨弄", "招牌", "招呼",
	"抬举", "护士", "折腾", "扫帚", "打量", "打算", "打扮", "打听", "打发", "扎实", "扁担",
	"戒指", "懒得", "意识", "意思", "悟性", "怪物", "思量", "怎么", "念头", "念叨", "别人",
	"快活", "忙活", "志气", "心思", "得罪", "张罗", "弟兄", "开通", "应酬", "庄稼", "干事",
	"帮手", "帐篷", "希罕", "师父", "师傅", "巴结", "巴掌", "差事", "工夫", "岁数", "屁股",
	"尾巴", "少爷", "小气", "小伙", "将就", "对头", "对付", "寡妇", "家伙", "客气", "实在",
	"官司", "学问", "字号", "嫁妆", "媳妇", "媒人", "婆家", "娘家", "委屈", "姑娘", "姐夫",
	"妯娌", "妥当", "妖精", "奴才", "女婿", "头发", "太阳", "大爷", "大方", "大意", "大夫",
	"多少", "多么", "外甥", "壮实", "地道", "地方", "在乎", "困难", "嘴巴", "嘱咐", "嘟囔",
	"嘀咕", "喜欢", "喇嘛", "喇叭", "商量", "唾沫", "哑巴", "哈欠", "哆嗦", "咳嗽", "和尚",
	"告诉", "告示", "含糊", "吓唬", "后头", "名字", "名堂", "合同", "吆喝", "叫唤", "口袋",
	"厚道", "厉害", "千斤", "包袱", "包涵", "匀称", "勤快", "动静", "动弹", "功夫", "力气",
	"前头", "刺猬", "刺激", "别扭", "利落", "利索", "利害", "分析", "出息", "凑合", "凉快",
	"冷战", "冤枉", "冒失", "养活", "关系", "先生", "兄弟", "便宜", "使唤", "佩服", "作坊",
	"体面", "位置", "似的", "伙计", "休息", "什么", "人家", "亲戚", "亲家", "交情", "云彩",
	"事情", "买卖", "主意", "丫头", "丧气", "两口", "东西", "东家", "世故", "不由", "下水",
	"下巴", "上头", "上司", "丈夫", "丈人", "一辈", "那个", "菩萨", "父亲", "母亲", "咕噜",
	"邋遢", "费用", "冤家", "甜头", "介绍", "荒唐", "大人", "泥鳅", "幸福", "熟悉", "计划",
	"扑腾", "蜡烛", "姥爷", "照顾", "喉咙", "吉他", "弄堂", "蚂蚱", "凤凰", "拖沓", "寒碜",
	"糟蹋", "倒腾", "报复", "逻辑", "盘缠", "喽啰", "牢骚", "咖喱", "扫把", "惦记",
)

// mustNotNeutral lists words the neutral-tone rules must leave alone.
var mustNotNeutral = makeSet(
	"男子", "女子", "分子", "原子", "量子", "莲子", "石子", "瓜子", "电子", "人人", "虎虎",
	"幺幺", "干嘛", "学子", "哈哈", "数数", "袅袅", "局地", "以下", "娃哈哈", "花花草草", "留得",
	"耕地", "想想", "熙熙", "攘攘", "卵子", "死死", "冉冉", "恳恳", "佼佼", "吵吵", "打打",
	"考考", "整整", "莘莘", "落地", "算子", "家家户户", "青青",
)

const (
	sandhiPunct    = "、：，；。？！\"“”''':,;.?!"
	finalParticles = "吧呢啊呐噻嘛吖嗨呐哦哒滴哩哟喽啰耶喔诶"
	deParticles    = "的地得"
)

func makeSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func toneOf(py string) byte {
	if n := len(py); n > 0 && py[n-1] >= '0' && py[n-1] <= '9' {
		return py[n-1] - '0'
	}
	return 5
}

func withTone(py string, tone byte) string {
	base := strings.TrimRight(py, "0123456789")
	return base + string('0'+tone)
}

// applySandhi rewrites the tone digits of a word's numbered pinyin
// syllables in place, one rule family at a time, in the same order as
// the reference rule set.
func applySandhi(word, pos string, pinyins []string) []string {
	finals := make([]string, len(pinyins))
	copy(finals, pinyins)
	buSandhi(word, finals)
	yiSandhi(word, finals)
	neutralSandhi(word, pos, finals)
	thirdSandhi(finals)
	return finals
}

func buSandhi(word string, finals []string) {
	chars := []rune(word)
	// 看不懂: the embedded 不 goes neutral.
	if len(chars) == 3 && chars[1] == '不' && len(finals) > 1 {
		finals[1] = withTone(finals[1], 5)
		return
	}
	// 不 before a fourth tone reads second tone.
	for i, ch := range chars {
		if ch == '不' && i+1 < len(finals) && toneOf(finals[i+1]) == 4 {
			finals[i] = withTone(finals[i], 2)
		}
	}
}

func yiSandhi(word string, finals []string) {
	chars := []rune(word)

	// Digit strings keep 一 in first tone: 一零零.
	if strings.ContainsRune(word, '一') {
		numeric := true
		for _, c := range chars {
			if c != '一' && (c < '0' || c > '9') {
				numeric = false
				break
			}
		}
		if numeric {
			return
		}
	}
	// 看一看: the embedded 一 goes neutral.
	if len(chars) == 3 && chars[1] == '一' && chars[0] == chars[2] && len(finals) > 1 {
		finals[1] = withTone(finals[1], 5)
		return
	}
	// Ordinals keep first tone: 第一.
	if strings.HasPrefix(word, "第一") {
		return
	}
	for i, ch := range chars {
		if ch != '一' || i+1 >= len(finals) {
			continue
		}
		switch t := toneOf(finals[i+1]); {
		case t == 4 || t == 5:
			finals[i] = withTone(finals[i], 2)
		case !strings.ContainsRune(sandhiPunct, chars[i+1]):
			finals[i] = withTone(finals[i], 4)
		}
	}
}

func neutralSandhi(word, pos string, finals []string) {
	if _, ok := mustNotNeutral[word]; ok {
		return
	}
	chars := []rune(word)
	if len(chars) == 0 || len(finals) == 0 {
		return
	}
	last := len(finals) - 1

	// Reduplication: 奶奶, 试试.
	if len(pos) > 0 && (pos[0] == 'n' || pos[0] == 'v' || pos[0] == 'a') {
		for j := 1; j < len(chars) && j < len(finals); j++ {
			if chars[j] == chars[j-1] {
				finals[j] = withTone(finals[j], 5)
			}
		}
	}

	lastChar := chars[len(chars)-1]
	if strings.ContainsRune(finalParticles, lastChar) || strings.ContainsRune(deParticles, lastChar) {
		finals[last] = withTone(finals[last], 5)
	}
	// Aspect markers 了着过.
	if len(chars) == 1 && strings.ContainsRune("了着过", chars[0]) &&
		(pos == "ul" || pos == "uz" || pos == "ug") {
		finals[last] = withTone(finals[last], 5)
	}
	// Suffixes 们 and 子.
	if len(chars) > 1 && strings.ContainsRune("们子", lastChar) && (pos == "r" || pos == "n") {
		finals[last] = withTone(finals[last], 5)
	}
	// Locatives 上 and 下.
	if len(chars) > 1 && strings.ContainsRune("上下", lastChar) &&
		(pos == "s" || pos == "l" || pos == "f") {
		finals[last] = withTone(finals[last], 5)
	}
	// Directional 来去 after 上下进出回过起开.
	if len(chars) > 1 && strings.ContainsRune("来去", lastChar) &&
		strings.ContainsRune("上下进出回过起开", chars[len(chars)-2]) {
		finals[last] = withTone(finals[last], 5)
	}
	// Measure word 个 after a quantity.
	for j, ch := range chars {
		if ch != '个' || j >= len(finals) {
			continue
		}
		if j > 0 {
			prev := chars[j-1]
			if (prev >= '0' && prev <= '9') || strings.ContainsRune("几有两半多各整每做是", prev) {
				finals[j] = withTone(finals[j], 5)
			}
		} else if word == "个" {
			finals[0] = withTone(finals[0], 5)
		}
	}
	if _, ok := mustNeutral[word]; ok {
		finals[last] = withTone(finals[last], 5)
	}
	if len(chars) >= 2 {
		if _, ok := mustNeutral[string(chars[len(chars)-2:])]; ok {
			finals[last] = withTone(finals[last], 5)
		}
	}
}

func thirdSandhi(finals []string) {
	allThird := len(finals) > 0
	for _, f := range finals {
		if toneOf(f) != 3 {
			allThird = false
			break
		}
	}
	switch {
	case len(finals) == 2 && allThird:
		finals[0] = withTone(finals[0], 2)
	case len(finals) == 3 && allThird:
		finals[0] = withTone(finals[0], 2)
		finals[1] = withTone(finals[1], 2)
	case len(finals) == 3:
		// 所有人: a leading third-tone pair still shifts.
		if toneOf(finals[0]) == 3 && toneOf(finals[1]) == 3 {
			finals[0] = withTone(finals[0], 2)
		}
	case len(finals) == 4 && allThird:
		finals[0] = withTone(finals[0], 2)
		finals[2] = withTone(finals[2], 2)
	}
}

type posWord struct {
	text string
	pos  string
}

// preMerge joins 不/一 with the following word, the 儿 suffix and
// reduplications with the preceding one, so the sandhi rules see the
// unit they apply to.
func preMerge(words []posWord) []posWord {
	merged := make([]posWord, 0, len(words))
	skip := false
	for i, w := range words {
		if skip {
			skip = false
			continue
		}
		if (w.text == "不" || w.text == "一") && i+1 < len(words) {
			next := words[i+1]
			if next.pos != "x" && next.pos != "eng" {
				merged = append(merged, posWord{text: w.text + next.text, pos: next.pos})
				skip = true
				continue
			}
		}
		if len(merged) > 0 {
			prev := &merged[len(merged)-1]
			if w.text == "儿" && prev.pos != "x" && prev.pos != "eng" {
				prev.text += w.text
				continue
			}
			if w.text == prev.text && w.pos != "x" && w.pos != "eng" {
				prev.text += w.text
				continue
			}
		}
		merged = append(merged, w)
	}
	return merged
}
