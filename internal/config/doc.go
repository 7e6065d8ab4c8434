// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config reads the optional undertasker.hcl settings file.
//
// The file may reference environment variables as env.NAME and the
// directory holding the executable as exe_dir:
//
//	store {
//	  path = "${env.APPDATA}/undertasker/command.json"
//	}
//
//	launcher {
//	  target_process = "SystemSettings.exe"
//	  poll_interval  = "500ms"
//	  poll_timeout   = "0s"
//	  fail_fast      = false
//	}
//
// A relative store path is resolved against the directory of the settings file.
package config
