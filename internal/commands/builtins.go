package commands

import (
	"context"
	"math/rand/v2"

	"github.com/aatumaykin/cqbot/internal/bus"
	"github.com/aatumaykin/cqbot/internal/constants"
	"github.com/aatumaykin/cqbot/internal/logger"
)

// JSONFetcher performs a GET request and decodes the JSON response.
type JSONFetcher interface {
	GetJSON(ctx context.Context, url string, v any) error
}

// Deps carries everything the built-in handlers touch.
type Deps struct {
	Rand      *rand.Rand
	Fetcher   JSONFetcher
	System    SystemProbe
	MealsPath string
	CatURL    string
	DogURL    string
	PoemURL   string
	Logger    *logger.Logger
}

// Builtins implements the built-in command set.
type Builtins struct {
	rand      *rand.Rand
	fetcher   JSONFetcher
	system    SystemProbe
	mealsPath string
	catURL    string
	dogURL    string
	poemURL   string
	logger    *logger.Logger
}

// NewBuiltins creates the built-in handlers. A nil Rand gets a time-seeded
// generator, a nil Logger discards output.
func NewBuiltins(deps Deps) *Builtins {
	b := &Builtins{
		rand:      deps.Rand,
		fetcher:   deps.Fetcher,
		system:    deps.System,
		mealsPath: deps.MealsPath,
		catURL:    deps.CatURL,
		dogURL:    deps.DogURL,
		poemURL:   deps.PoemURL,
		logger:    deps.Logger,
	}
	if b.rand == nil {
		b.rand = NewTimeSeededRand()
	}
	if b.logger == nil {
		b.logger = logger.Nop()
	}
	if b.system == nil {
		b.system = HostProbe{}
	}
	return b
}

// Registrations returns the trigger table entries for every built-in.
func (b *Builtins) Registrations() []Registration {
	return []Registration{
		{Triggers: constants.TriggersHelp, Handler: HandlerFunc(b.handleHelp)},
		{Triggers: constants.TriggersRandom, Handler: HandlerFunc(b.handleRandom)},
		{Triggers: constants.TriggersCat, Handler: HandlerFunc(b.handleCat)},
		{Triggers: constants.TriggersDog, Handler: HandlerFunc(b.handleDog)},
		{Triggers: constants.TriggersPoem, Handler: HandlerFunc(b.handlePoem)},
		{Triggers: constants.TriggersEat, Handler: HandlerFunc(b.handleEat)},
		{Triggers: constants.TriggersBreakfast, Handler: HandlerFunc(b.handleBreakfast)},
		{Triggers: constants.TriggersLunch, Handler: HandlerFunc(b.handleLunch)},
		{Triggers: constants.TriggersDinner, Handler: HandlerFunc(b.handleDinner)},
		{Triggers: constants.TriggersMidnightSnack, Handler: HandlerFunc(b.handleMidnightSnack)},
		{Triggers: constants.TriggersSysinfo, Handler: HandlerFunc(b.handleSysinfo)},
		{Triggers: constants.TriggersTarot, Handler: HandlerFunc(b.handleTarot)},
	}
}

// NewBuiltinTable builds the command table holding every built-in.
func NewBuiltinTable(deps Deps) (*Table, error) {
	return NewTable(NewBuiltins(deps).Registrations()...)
}

func (b *Builtins) handleHelp(_ context.Context, _ bus.IncomingMessage, _ string, _ []string) []string {
	return []string{constants.MsgHelp}
}
