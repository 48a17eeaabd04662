// Package sysinfo collects host metadata attached to recorded runs.
package sysinfo

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/sirupsen/logrus"
)

// Info is a snapshot of the machine a measurement ran on.
type Info struct {
	Hostname      string
	OS            string
	Platform      string
	KernelVersion string
	CPUModel      string
	Cores         int
}

// Collect gathers host metadata. Collection is best-effort: fields that
// cannot be read stay empty and only a debug log records why.
func Collect(ctx context.Context, log logrus.FieldLogger) *Info {
	info := &Info{}

	hostInfo, err := host.InfoWithContext(ctx)
	if err != nil {
		log.WithError(err).Debug("Failed to read host info")
	} else {
		info.Hostname = hostInfo.Hostname
		info.OS = hostInfo.OS
		info.Platform = fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion)
		info.KernelVersion = hostInfo.KernelVersion
	}

	cpus, err := cpu.InfoWithContext(ctx)
	if err != nil {
		log.WithError(err).Debug("Failed to read CPU info")
	} else if len(cpus) > 0 {
		info.CPUModel = cpus[0].ModelName
	}

	counts, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		log.WithError(err).Debug("Failed to count CPUs")
	} else {
		info.Cores = counts
	}

	return info
}
