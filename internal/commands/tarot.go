package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/aatumaykin/cqbot/internal/bus"
	"github.com/aatumaykin/cqbot/internal/constants"
)

// MajorArcana lists the 22 major arcana in deck order.
var MajorArcana = []string{
	"愚者", "魔术师", "女祭司", "女皇", "皇帝", "教皇", "恋人", "战车",
	"力量", "隐士", "命运之轮", "正义", "倒吊人", "死神", "节制", "恶魔",
	"高塔", "星星", "月亮", "太阳", "审判", "世界",
}

const tarotDraws = 3

var tarotPositions = [tarotDraws]string{"过去", "现在", "未来"}

// DrawTarot picks distinct cards and an orientation for each.
func (b *Builtins) DrawTarot() []string {
	order := b.rand.Perm(len(MajorArcana))
	lines := make([]string, 0, tarotDraws)
	for i := 0; i < tarotDraws; i++ {
		orientation := constants.MsgTarotUpright
		if b.rand.IntN(2) == 1 {
			orientation = constants.MsgTarotReversed
		}
		lines = append(lines, fmt.Sprintf(constants.MsgTarotCardFormat,
			tarotPositions[i], MajorArcana[order[i]], orientation))
	}
	return lines
}

func (b *Builtins) handleTarot(_ context.Context, msg bus.IncomingMessage, _ string, _ []string) []string {
	body := strings.Join(b.DrawTarot(), "\n")
	return []string{fmt.Sprintf(constants.MsgAtFormat, msg.SenderID, "\n"+body)}
}
