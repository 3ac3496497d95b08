package utils

import "github.com/shirou/gopsutil/cpu"

// CheckCPUUsage gates worker job intake: a render is only picked up while
// host CPU stays under the configured ceiling.
func CheckCPUUsage(maxCPUUsage float64) (bool, float64) {
	usage, err := cpu.Percent(0, false)
	if err != nil || len(usage) == 0 {
		return false, 0
	}
	return usage[0] <= maxCPUUsage, usage[0]
}
