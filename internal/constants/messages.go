package constants

// Reply formats. Replies addressed to a person are prefixed with a CQ at-code.
const (
	// MsgAtFormat mentions the sender: [CQ:at,qq=<id>]<text>
	MsgAtFormat = "[CQ:at,qq=%d]%s"

	// MsgTooLarge is sent when an expression evaluates to infinity.
	MsgTooLarge = "太大了自己算去"

	// MsgDiceFormat reports a dice roll.
	MsgDiceFormat = "掷出了%d点！"

	// MsgImageFormat embeds an image by URL.
	MsgImageFormat = "[CQ:image,file=%s]"

	// MsgCardFormat summarizes a shared card.
	MsgCardFormat = "标题：%s\n链接：%s"
)

// Meal replies.
const (
	MsgBreakfastFormat     = "早餐：%s"
	MsgLunchFormat         = "午餐：%s"
	MsgDinnerFormat        = "晚餐：%s"
	MsgMidnightSnackFormat = "夜宵：%s"
)

// MsgSysinfoFormat lays out #sysinfo.
const MsgSysinfoFormat = "系统：%s\n" +
	"内核版本：%s\n" +
	"系统版本：%s\n" +
	"内存用量：%d MiB / %d MiB\n" +
	"交换用量：%d MiB / %d MiB\n" +
	"核心负载：%s"

// MsgHelp lists the commands.
const MsgHelp = "#help\n" +
	"    显示本帮助\n" +
	"#random #r #roll\n" +
	"    掷骰子\n" +
	"#cat 猫猫图\n" +
	"    猫猫图\n" +
	"#dog 狗狗图\n" +
	"    狗狗图\n" +
	"#eat 吃什么\n" +
	"    今天吃点什么呢……\n" +
	"#breakfast 早上吃什么 早餐吃什么 早餐\n" +
	"    早上吃点什么呢……\n" +
	"#lunch 中午吃什么 午餐吃什么 午餐\n" +
	"    中午吃点什么呢……\n" +
	"#dinner 晚上吃什么 晚餐吃什么 晚餐\n" +
	"    晚上吃点什么呢……\n" +
	"#midnight_snack 夜宵吃什么 宵夜吃什么 夜宵 宵夜\n" +
	"    夜宵吃点什么呢……\n" +
	"#poem 念诗\n" +
	"    念句诗\n" +
	"#tarot 塔罗\n" +
	"    抽三张塔罗牌\n" +
	"#sysinfo\n" +
	"    系统信息"

// Tarot replies.
const (
	MsgTarotCardFormat = "%s：%s（%s）"
	MsgTarotUpright    = "正位"
	MsgTarotReversed   = "逆位"
)
