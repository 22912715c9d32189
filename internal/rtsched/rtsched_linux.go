//go:build linux

package rtsched

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// schedParam mirrors struct sched_param.
type schedParam struct {
	priority int32
}

func setPriority(priority int) error {
	if priority < 1 || priority > 99 {
		return fmt.Errorf("rtsched: priority %d out of range [1, 99]", priority)
	}

	param := schedParam{priority: int32(priority)}
	// pid 0 is the calling thread
	_, _, errno := unix.RawSyscall(unix.SYS_SCHED_SETSCHEDULER, 0, uintptr(unix.SCHED_FIFO), uintptr(unsafe.Pointer(&param)))
	if errno != 0 {
		return errno
	}

	return nil
}

func setAffinity(cpus []int) error {
	var set unix.CPUSet
	set.Zero()
	for _, cpu := range cpus {
		if cpu < 0 {
			return fmt.Errorf("rtsched: invalid cpu %d", cpu)
		}
		set.Set(cpu)
	}

	return unix.SchedSetaffinity(0, &set)
}

func lockMemory() error {
	return unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE)
}
