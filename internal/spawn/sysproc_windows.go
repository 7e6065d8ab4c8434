// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build windows

package spawn

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

func configure(cmd *exec.Cmd, spec Spec) {
	attr := &syscall.SysProcAttr{CmdLine: spec.CommandLine}

	switch spec.Mode {
	case Console:
		attr.CreationFlags = windows.CREATE_NEW_CONSOLE
	case Hidden:
		attr.CreationFlags = windows.CREATE_NO_WINDOW
		attr.HideWindow = true
		cmd.Stdout = spec.Stdout
		cmd.Stderr = spec.Stderr
	default:
		attr.CreationFlags = windows.DETACHED_PROCESS
	}

	cmd.SysProcAttr = attr
}
