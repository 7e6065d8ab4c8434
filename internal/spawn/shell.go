// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package spawn

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/matt-FFFFFF/undertasker/internal/ctxlog"
)

const (
	goosWindows      = "windows"
	switchRun        = "/C" // cmd.exe: run and close
	switchKeep       = "/K" // cmd.exe: run and keep the window
	switchUnix       = "-c"
	winSystem32      = "System32"
	cmdExe           = "cmd.exe"
	binSh            = "/bin/sh"
	winSystemRootEnv = "SystemRoot"
)

// Shell returns a spec that runs command through the platform shell.
// On Windows keep selects cmd.exe /K, leaving the console open after the
// command finishes; elsewhere it has no effect. Mode is left for the caller.
func Shell(ctx context.Context, command string, keep bool) Spec {
	shell := defaultShell(ctx)

	if runtime.GOOS != goosWindows {
		return Spec{Path: shell, Args: []string{switchUnix, command}}
	}

	sw := switchRun
	if keep {
		sw = switchKeep
	}

	return Spec{
		Path:        shell,
		Args:        []string{sw, command},
		CommandLine: fmt.Sprintf(`"%s" %s %s`, shell, sw, command),
	}
}

func defaultShell(ctx context.Context) string {
	if runtime.GOOS == goosWindows {
		systemRoot := os.Getenv(winSystemRootEnv)
		if systemRoot == "" {
			systemRoot = `C:\Windows`
		}

		return fmt.Sprintf(`%s\%s\%s`, systemRoot, winSystem32, cmdExe)
	}

	if shell := os.Getenv("SHELL"); shell != "" {
		ctxlog.Debug(ctx, "using SHELL environment variable", "shell", shell)
		return shell
	}

	return binSh
}
