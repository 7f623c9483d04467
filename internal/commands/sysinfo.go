package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/aatumaykin/cqbot/internal/bus"
	"github.com/aatumaykin/cqbot/internal/constants"
	"github.com/aatumaykin/cqbot/internal/logger"
)

const mib = 1024 * 1024

// SystemInfo is a point-in-time view of the host.
type SystemInfo struct {
	OSName      string
	Kernel      string
	OSVersion   string
	MemUsedMiB  uint64
	MemTotalMiB uint64
	SwapUsedMiB uint64
	SwapTotMiB  uint64
	CoreLoad    []float64
}

// SystemProbe reports host information for #sysinfo.
type SystemProbe interface {
	Snapshot(ctx context.Context) (SystemInfo, error)
}

// HostProbe reads the live host through gopsutil.
type HostProbe struct{}

func (HostProbe) Snapshot(ctx context.Context) (SystemInfo, error) {
	var info SystemInfo

	hi, err := host.InfoWithContext(ctx)
	if err != nil {
		return info, fmt.Errorf("failed to read host info: %w", err)
	}
	info.OSName = hi.Platform
	if info.OSName == "" {
		info.OSName = hi.OS
	}
	info.Kernel = hi.KernelVersion
	info.OSVersion = hi.PlatformVersion

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return info, fmt.Errorf("failed to read memory: %w", err)
	}
	info.MemUsedMiB = vm.Used / mib
	info.MemTotalMiB = vm.Total / mib

	// Swap may be unavailable in containers.
	if sw, err := mem.SwapMemoryWithContext(ctx); err == nil {
		info.SwapUsedMiB = sw.Used / mib
		info.SwapTotMiB = sw.Total / mib
	}

	load, err := cpu.PercentWithContext(ctx, 0, true)
	if err != nil {
		return info, fmt.Errorf("failed to read cpu load: %w", err)
	}
	info.CoreLoad = load

	return info, nil
}

// FormatSystemInfo renders a snapshot as the #sysinfo reply.
func FormatSystemInfo(info SystemInfo) string {
	loads := make([]string, len(info.CoreLoad))
	for i, l := range info.CoreLoad {
		loads[i] = fmt.Sprintf("%.2f%%", l)
	}
	return fmt.Sprintf(constants.MsgSysinfoFormat,
		info.OSName, info.Kernel, info.OSVersion,
		info.MemUsedMiB, info.MemTotalMiB,
		info.SwapUsedMiB, info.SwapTotMiB,
		strings.Join(loads, " "))
}

func (b *Builtins) handleSysinfo(ctx context.Context, _ bus.IncomingMessage, _ string, _ []string) []string {
	info, err := b.system.Snapshot(ctx)
	if err != nil {
		b.logger.WarnCtx(ctx, "system probe failed", logger.Field{Key: "error", Value: err.Error()})
		return nil
	}
	return []string{FormatSystemInfo(info)}
}
