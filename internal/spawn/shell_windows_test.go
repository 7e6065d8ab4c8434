// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build windows

package spawn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShell_Windows(t *testing.T) {
	t.Setenv("SystemRoot", `D:\Win`)

	keep := Shell(context.Background(), "echo hi", true)
	assert.Equal(t, `D:\Win\System32\cmd.exe`, keep.Path)
	assert.Equal(t, []string{"/K", "echo hi"}, keep.Args)
	assert.Equal(t, `"D:\Win\System32\cmd.exe" /K echo hi`, keep.CommandLine)

	run := Shell(context.Background(), "start ms-settings:display", false)
	assert.Equal(t, `"D:\Win\System32\cmd.exe" /C start ms-settings:display`, run.CommandLine)
}
