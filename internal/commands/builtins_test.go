package commands

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aatumaykin/cqbot/internal/bus"
	"github.com/aatumaykin/cqbot/internal/constants"
	"github.com/aatumaykin/cqbot/internal/fetch"
	"github.com/aatumaykin/cqbot/internal/meals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sender = bus.IncomingMessage{SenderID: 10001}

func run(t *testing.T, b *Builtins, text string) []string {
	t.Helper()
	table, err := NewTable(b.Registrations()...)
	require.NoError(t, err)

	fields := strings.Fields(text)
	h, ok := table.Lookup(fields[0])
	require.True(t, ok, "no handler for %q", fields[0])
	return h.Handle(context.Background(), sender, fields[0], fields[1:])
}

func TestDiceRange(t *testing.T) {
	tests := []struct {
		args      []string
		low, high int64
	}{
		{nil, 0, 100},
		{[]string{"6"}, 0, 6},
		{[]string{"20000"}, 0, 10000},
		{[]string{"10000"}, 0, 10000},
		{[]string{"abc"}, 0, 100},
		{[]string{"5", "10"}, 5, 10},
		{[]string{"50", "10"}, 50, 50},
		{[]string{"-20000", "5"}, -9999, 5},
		{[]string{"-10000", "5"}, -10000, 5},
		{[]string{"x", "y"}, 0, 100},
		{[]string{"3", "y", "z"}, 3, 100},
		{[]string{"-5"}, 0, 0},
		{[]string{"3000000000"}, 0, 100},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, "_"), func(t *testing.T) {
			low, high := DiceRange(tt.args)
			assert.Equal(t, tt.low, low)
			assert.Equal(t, tt.high, high)
		})
	}
}

func TestRandom_WithinBounds(t *testing.T) {
	b := NewBuiltins(Deps{Rand: NewRand(1)})

	for i := 0; i < 200; i++ {
		out := run(t, b, "#random 5 10")
		require.Len(t, out, 1)

		digits := strings.TrimSuffix(strings.TrimPrefix(out[0], "[CQ:at,qq=10001]掷出了"), "点！")
		n, err := strconv.Atoi(digits)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 5)
		assert.LessOrEqual(t, n, 10)
	}
}

func TestRandom_MaxBelowMin(t *testing.T) {
	b := NewBuiltins(Deps{Rand: NewRand(1)})
	assert.Equal(t, []string{"[CQ:at,qq=10001]掷出了50点！"}, run(t, b, "#random 50 10"))
}

func TestRandom_SameSeedSameRolls(t *testing.T) {
	a := NewBuiltins(Deps{Rand: NewRand(42)})
	b := NewBuiltins(Deps{Rand: NewRand(42)})
	for i := 0; i < 10; i++ {
		assert.Equal(t, run(t, a, "#r"), run(t, b, "#r"))
	}
}

func TestHelp(t *testing.T) {
	b := NewBuiltins(Deps{})
	assert.Equal(t, []string{constants.MsgHelp}, run(t, b, "#h"))
}

func newService(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestImages(t *testing.T) {
	cat := newService(t, http.StatusOK, `[{"id":"x","url":"https://cdn.example.com/cat.jpg","width":1}]`)
	dog := newService(t, http.StatusOK, `[{"url":"https://cdn.example.com/dog.png"}]`)
	b := NewBuiltins(Deps{Fetcher: fetch.New(time.Second), CatURL: cat, DogURL: dog})

	assert.Equal(t, []string{"[CQ:image,file=https://cdn.example.com/cat.jpg]"}, run(t, b, "#cat"))
	assert.Equal(t, []string{"[CQ:image,file=https://cdn.example.com/dog.png]"}, run(t, b, "狗狗图"))
}

func TestImages_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `[]`},
		{"empty list", http.StatusOK, `[]`},
		{"not json", http.StatusOK, `<html>`},
		{"object instead of list", http.StatusOK, `{"url":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := newService(t, tt.status, tt.body)
			b := NewBuiltins(Deps{Fetcher: fetch.New(time.Second), CatURL: url})
			assert.Empty(t, run(t, b, "#cat"))
		})
	}
}

func TestImages_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	b := NewBuiltins(Deps{Fetcher: fetch.New(50 * time.Millisecond), DogURL: srv.URL})
	assert.Empty(t, run(t, b, "#dog"))
}

func TestPoem(t *testing.T) {
	url := newService(t, http.StatusOK, `{"content":"床前明月光","origin":"静夜思","author":"李白"}`)
	b := NewBuiltins(Deps{Fetcher: fetch.New(time.Second), PoemURL: url})
	assert.Equal(t, []string{"床前明月光"}, run(t, b, "#poem"))

	b = NewBuiltins(Deps{Fetcher: fetch.New(time.Second), PoemURL: newService(t, http.StatusBadGateway, "")})
	assert.Empty(t, run(t, b, "念诗"))
}

func writeMenu(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eat.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestMeals(t *testing.T) {
	path := writeMenu(t, "早餐: [豆浆]\n午餐: [盖饭]\n晚餐: []\n夜宵: [烧烤]\n")
	b := NewBuiltins(Deps{Rand: NewRand(7), MealsPath: path})

	assert.Equal(t, []string{"早餐：豆浆"}, run(t, b, "#breakfast"))
	assert.Equal(t, []string{"午餐：盖饭"}, run(t, b, "午餐"))
	assert.Equal(t, []string{"晚餐：盖饭"}, run(t, b, "晚上吃什么"))
	assert.Equal(t, []string{"夜宵：烧烤"}, run(t, b, "宵夜"))
	assert.Equal(t, []string{"早餐：豆浆\n午餐：盖饭\n晚餐：盖饭\n夜宵：烧烤"}, run(t, b, "#eat"))
}

func TestMeals_EmptyCategory(t *testing.T) {
	b := NewBuiltins(Deps{Rand: NewRand(7), MealsPath: writeMenu(t, "早餐: []\n")})
	assert.Equal(t, []string{"早餐：" + meals.Fallback}, run(t, b, "早餐"))
}

func TestMeals_MissingFile(t *testing.T) {
	b := NewBuiltins(Deps{MealsPath: filepath.Join(t.TempDir(), "missing.yml")})
	assert.Empty(t, run(t, b, "#eat"))
	assert.Empty(t, run(t, b, "#lunch"))
}

type stubProbe struct {
	info SystemInfo
	err  error
}

func (s stubProbe) Snapshot(context.Context) (SystemInfo, error) { return s.info, s.err }

func TestSysinfo(t *testing.T) {
	b := NewBuiltins(Deps{System: stubProbe{info: SystemInfo{
		OSName: "debian", Kernel: "6.1.0", OSVersion: "12",
		MemUsedMiB: 512, MemTotalMiB: 2048,
		SwapUsedMiB: 0, SwapTotMiB: 1024,
		CoreLoad: []float64{12.5, 3},
	}}})

	out := run(t, b, "#sysinfo")
	require.Len(t, out, 1)
	assert.Equal(t, "系统：debian\n内核版本：6.1.0\n系统版本：12\n内存用量：512 MiB / 2048 MiB\n交换用量：0 MiB / 1024 MiB\n核心负载：12.50% 3.00%", out[0])

	b = NewBuiltins(Deps{System: stubProbe{err: errors.New("no /proc")}})
	assert.Empty(t, run(t, b, "#sysinfo"))
}

func TestTarot(t *testing.T) {
	b := NewBuiltins(Deps{Rand: NewRand(3)})

	out := run(t, b, "#tarot")
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0], "[CQ:at,qq=10001]\n"))

	lines := strings.Split(strings.TrimPrefix(out[0], "[CQ:at,qq=10001]\n"), "\n")
	require.Len(t, lines, 3)

	seen := map[string]bool{}
	for _, line := range lines {
		var card string
		for _, name := range MajorArcana {
			if strings.Contains(line, "："+name+"（") {
				card = name
			}
		}
		require.NotEmpty(t, card, line)
		assert.False(t, seen[card], "card %s drawn twice", card)
		seen[card] = true
		assert.True(t, strings.HasSuffix(line, "（正位）") || strings.HasSuffix(line, "（逆位）"), line)
	}
}
