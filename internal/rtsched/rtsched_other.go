//go:build !linux

package rtsched

func setPriority(int) error { return ErrUnsupported }

func setAffinity([]int) error { return ErrUnsupported }

func lockMemory() error { return ErrUnsupported }
