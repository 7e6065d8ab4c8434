// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !windows

package spawn

import (
	"os"
	"os/exec"
	"syscall"
)

// There are no console windows here. Console processes share our terminal so
// their output stays visible; detached ones get their own session.
func configure(cmd *exec.Cmd, spec Spec) {
	switch spec.Mode {
	case Console:
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	case Hidden:
		cmd.Stdout = spec.Stdout
		cmd.Stderr = spec.Stderr
	default:
		cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	}
}
