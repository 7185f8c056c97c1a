package metrics

import (
	"runtime"
	"sync"
	"time"

	vm "github.com/VictoriaMetrics/metrics"
	"github.com/shirou/gopsutil/disk"
	"github.com/shirou/gopsutil/load"
	"github.com/shirou/gopsutil/mem"

	"github.com/saradhi4688/qrngenv/dataroot"
	"github.com/saradhi4688/qrngenv/log"
)

const hostStatTTL = 1 * time.Second

func registerHostMetrics() {
	// Register load average metrics.
	vm.GetOrCreateGauge(`qrngenv_host_load_avg{period="1m"}`, getFloat64HostStat(LoadAvg1))
	vm.GetOrCreateGauge(`qrngenv_host_load_avg{period="5m"}`, getFloat64HostStat(LoadAvg5))
	vm.GetOrCreateGauge(`qrngenv_host_load_avg{period="15m"}`, getFloat64HostStat(LoadAvg15))

	// Register memory usage metrics.
	vm.GetOrCreateGauge(`qrngenv_host_mem_total_bytes`, getUint64HostStat(MemTotal))
	vm.GetOrCreateGauge(`qrngenv_host_mem_used_bytes`, getUint64HostStat(MemUsed))
	vm.GetOrCreateGauge(`qrngenv_host_mem_available_bytes`, getUint64HostStat(MemAvailable))
	vm.GetOrCreateGauge(`qrngenv_host_mem_used_percent`, getFloat64HostStat(MemUsedPercent))

	// Register disk usage metrics.
	vm.GetOrCreateGauge(`qrngenv_host_disk_total_bytes`, getUint64HostStat(DiskTotal))
	vm.GetOrCreateGauge(`qrngenv_host_disk_used_bytes`, getUint64HostStat(DiskUsed))
	vm.GetOrCreateGauge(`qrngenv_host_disk_free_bytes`, getUint64HostStat(DiskFree))
	vm.GetOrCreateGauge(`qrngenv_host_disk_used_percent`, getFloat64HostStat(DiskUsedPercent))
}

func getUint64HostStat(getStat func() (uint64, bool)) func() float64 {
	return func() float64 {
		val, _ := getStat()
		return float64(val)
	}
}

func getFloat64HostStat(getStat func() (float64, bool)) func() float64 {
	return func() float64 {
		val, _ := getStat()
		return val
	}
}

var (
	loadAvg        *load.AvgStat
	loadAvgExpires time.Time
	loadAvgLock    sync.Mutex
)

func getLoadAvg() *load.AvgStat {
	loadAvgLock.Lock()
	defer loadAvgLock.Unlock()

	// Return cache if still valid.
	if time.Now().Before(loadAvgExpires) {
		return loadAvg
	}

	// Refresh.
	var err error
	loadAvg, err = load.Avg()
	if err != nil {
		log.Warningf("metrics: failed to get load avg: %s", err)
		loadAvg = nil
	}
	loadAvgExpires = time.Now().Add(hostStatTTL)

	return loadAvg
}

// LoadAvg1 returns the 1-minute load average per CPU.
func LoadAvg1() (loadAvg float64, ok bool) {
	if stat := getLoadAvg(); stat != nil {
		return stat.Load1 / float64(runtime.NumCPU()), true
	}
	return 0, false
}

// LoadAvg5 returns the 5-minute load average per CPU.
func LoadAvg5() (loadAvg float64, ok bool) {
	if stat := getLoadAvg(); stat != nil {
		return stat.Load5 / float64(runtime.NumCPU()), true
	}
	return 0, false
}

// LoadAvg15 returns the 15-minute load average per CPU.
func LoadAvg15() (loadAvg float64, ok bool) {
	if stat := getLoadAvg(); stat != nil {
		return stat.Load15 / float64(runtime.NumCPU()), true
	}
	return 0, false
}

var (
	memStat        *mem.VirtualMemoryStat
	memStatExpires time.Time
	memStatLock    sync.Mutex
)

func getMemStat() *mem.VirtualMemoryStat {
	memStatLock.Lock()
	defer memStatLock.Unlock()

	// Return cache if still valid.
	if time.Now().Before(memStatExpires) {
		return memStat
	}

	// Refresh.
	var err error
	memStat, err = mem.VirtualMemory()
	if err != nil {
		log.Warningf("metrics: failed to get memory stats: %s", err)
		memStat = nil
	}
	memStatExpires = time.Now().Add(hostStatTTL)

	return memStat
}

// MemTotal returns the total amount of system memory.
func MemTotal() (total uint64, ok bool) {
	if stat := getMemStat(); stat != nil {
		return stat.Total, true
	}
	return 0, false
}

// MemUsed returns the amount of used system memory.
func MemUsed() (used uint64, ok bool) {
	if stat := getMemStat(); stat != nil {
		return stat.Used, true
	}
	return 0, false
}

// MemAvailable returns the amount of available system memory.
func MemAvailable() (available uint64, ok bool) {
	if stat := getMemStat(); stat != nil {
		return stat.Available, true
	}
	return 0, false
}

// MemUsedPercent returns the used system memory in percent.
func MemUsedPercent() (usedPercent float64, ok bool) {
	if stat := getMemStat(); stat != nil {
		return stat.UsedPercent, true
	}
	return 0, false
}

var (
	diskStat        *disk.UsageStat
	diskStatExpires time.Time
	diskStatLock    sync.Mutex
)

func getDiskStat() *disk.UsageStat {
	diskStatLock.Lock()
	defer diskStatLock.Unlock()

	// Return cache if still valid.
	if time.Now().Before(diskStatExpires) {
		return diskStat
	}

	// Check if we have a data root.
	dataRoot := dataroot.Root()
	if dataRoot == nil {
		log.Warning("metrics: cannot get disk stats without data root")
		diskStat = nil
		diskStatExpires = time.Now().Add(hostStatTTL)
		return diskStat
	}

	// Refresh.
	var err error
	diskStat, err = disk.Usage(dataRoot.Path)
	if err != nil {
		log.Warningf("metrics: failed to get disk stats: %s", err)
		diskStat = nil
	}
	diskStatExpires = time.Now().Add(hostStatTTL)

	return diskStat
}

// DiskTotal returns the total size of the disk holding the data root.
func DiskTotal() (total uint64, ok bool) {
	if stat := getDiskStat(); stat != nil {
		return stat.Total, true
	}
	return 0, false
}

// DiskUsed returns the used space of the disk holding the data root.
func DiskUsed() (used uint64, ok bool) {
	if stat := getDiskStat(); stat != nil {
		return stat.Used, true
	}
	return 0, false
}

// DiskFree returns the free space of the disk holding the data root.
func DiskFree() (free uint64, ok bool) {
	if stat := getDiskStat(); stat != nil {
		return stat.Free, true
	}
	return 0, false
}

// DiskUsedPercent returns the used space of the disk holding the data root in percent.
func DiskUsedPercent() (usedPercent float64, ok bool) {
	if stat := getDiskStat(); stat != nil {
		return stat.UsedPercent, true
	}
	return 0, false
}
