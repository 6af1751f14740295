package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// SystemTools backs run_command and system_info.
type SystemTools struct{}

func NewSystemTools() *SystemTools {
	return &SystemTools{}
}

func (s *SystemTools) RunCommandSpec() Spec {
	return Spec{
		Name:        "run_command",
		Description: "Run a safe, read-only shell command and return its output.",
		Params: map[string]Param{
			"command": {Type: "string", Description: "The command line to execute", Required: true},
		},
		ShellParam: "command",
		Handler:    s.runCommand,
	}
}

func (s *SystemTools) SystemInfoSpec() Spec {
	return Spec{
		Name:        "system_info",
		Description: "Report CPU, memory and disk usage of the host machine.",
		Params:      map[string]Param{},
		Handler:     s.systemInfo,
	}
}

// runCommand executes the command line without a shell. CommandContext
// ties the child process to the executor's deadline, so a timeout kills it.
func (s *SystemTools) runCommand(ctx context.Context, args map[string]any) (any, error) {
	command, _ := args["command"].(string)
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return nil, fmt.Errorf("command failed: %s", detail)
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		out = "(no output)"
	}
	return out, nil
}

func (s *SystemTools) systemInfo(ctx context.Context, args map[string]any) (any, error) {
	info := make(map[string]any)

	if percentages, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percentages) > 0 {
		info["cpu_percent"] = fmt.Sprintf("%.1f%%", percentages[0])
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info["memory_percent"] = fmt.Sprintf("%.1f%%", vm.UsedPercent)
		info["memory_used_gb"] = fmt.Sprintf("%.2f", float64(vm.Used)/(1<<30))
		info["memory_total_gb"] = fmt.Sprintf("%.2f", float64(vm.Total)/(1<<30))
	}
	if usage, err := disk.UsageWithContext(ctx, "/"); err == nil {
		info["disk_percent"] = fmt.Sprintf("%.1f%%", usage.UsedPercent)
		info["disk_free_gb"] = fmt.Sprintf("%.2f", float64(usage.Free)/(1<<30))
	}
	if h, err := host.InfoWithContext(ctx); err == nil {
		info["hostname"] = h.Hostname
		info["os"] = h.OS
		info["platform"] = h.Platform
		info["uptime_hours"] = fmt.Sprintf("%.1f", float64(h.Uptime)/3600)
	}

	if len(info) == 0 {
		return nil, fmt.Errorf("no system metrics available")
	}
	return info, nil
}
