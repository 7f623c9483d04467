package constants

// Command triggers. Matching is exact and case-sensitive on the first
// whitespace-delimited token of a message.
var (
	TriggersHelp          = []string{"#help", "#h"}
	TriggersRandom        = []string{"#random", "#r", "#roll"}
	TriggersCat           = []string{"#cat", "猫猫图"}
	TriggersDog           = []string{"#dog", "狗狗图"}
	TriggersSysinfo       = []string{"#sysinfo"}
	TriggersEat           = []string{"#eat", "吃什么"}
	TriggersBreakfast     = []string{"#breakfast", "早上吃什么", "早餐吃什么", "早餐"}
	TriggersLunch         = []string{"#lunch", "中午吃什么", "午餐吃什么", "午餐"}
	TriggersDinner        = []string{"#dinner", "晚上吃什么", "晚餐吃什么", "晚餐"}
	TriggersMidnightSnack = []string{"#midnight_snack", "夜宵吃什么", "宵夜吃什么", "夜宵", "宵夜"}
	TriggersPoem          = []string{"#poem", "念诗"}
	TriggersTarot         = []string{"#tarot", "塔罗"}
)

// Dice bounds for #random.
const (
	RandomDefaultMin = 0
	RandomDefaultMax = 100
	RandomUpperLimit = 10000
	RandomLowerLimit = -10000
	// RandomLowerClamp replaces a min below RandomLowerLimit.
	RandomLowerClamp = -9999
)
