// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package importlist

import (
	"context"
	"errors"
	"fmt"
	neturl "net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
)

// ErrGetSource is returned when the source cannot be fetched.
var ErrGetSource = errors.New("failed to get import source")

// getURL fetches a single file with go-getter and returns its name and content.
// Remote sources are fetched as the directory holding the file, then the file is read from it.
func getURL(ctx context.Context, url string) (string, []byte, error) {
	if url == "" {
		return "", nil, ErrGetSource
	}

	tmpDir, err := os.MkdirTemp("", "undertasker-getter-*")
	if err != nil {
		return "", nil, errors.Join(ErrGetSource, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return "", nil, errors.Join(ErrGetSource, err)
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     url,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	var fileName string

	// https://github.com/hashicorp/go-getter/issues/98
	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			return "", nil, errors.Join(ErrGetSource, err)
		}

		var newURL string

		newURL, fileName = splitFileNameFromGetterURL(url)

		switch {
		case newURL != "" && fileName != "":
			req.Src = newURL
		default:
			// a plain file URL without a subdirectory, such as https://host/command.json
			if fileName = remoteFileName(url); fileName == "" {
				return "", nil, fmt.Errorf("%w: invalid URL format: %s", ErrGetSource, url)
			}

			req.GetMode = getter.ModeFile
			req.Dst = filepath.Join(tmpDir, "g", fileName)
		}
	}

	if fileName == "" {
		req.Src = filepath.Dir(url)
		fileName = filepath.Base(url)
	}

	res, err := client.Get(ctx, req)
	if err != nil {
		return "", nil, errors.Join(ErrGetSource, err)
	}

	readPath := filepath.Join(res.Dst, fileName)
	if req.GetMode == getter.ModeFile {
		readPath = res.Dst
	}

	data, err := os.ReadFile(readPath)
	if err != nil {
		return "", nil, errors.Join(ErrGetSource, err)
	}

	return fileName, data, nil
}

// remoteFileName is the last path element of a URL, ignoring any getter prefix and query.
func remoteFileName(raw string) string {
	if _, rest, found := strings.Cut(raw, "::"); found {
		raw = rest
	}

	u, err := neturl.Parse(raw)
	if err != nil {
		return ""
	}

	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return ""
	}

	return name
}

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	minimumGetterParts    = 3 // scheme, host and path
)

// splitFileNameFromGetterURL returns the getter URL of the directory holding
// the file, with any query kept, and the file name.
// Both are empty when url does not name a file inside a subdirectory.
func splitFileNameFromGetterURL(url string) (string, string) {
	var query string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]

	if before, after, found := strings.Cut(last, goGetterRefSeparator); found {
		last, query = before, after
	}

	if filepath.Clean(last) == filepath.Dir(last) {
		return "", ""
	}

	fileName := filepath.Base(last)
	parts[len(parts)-1] = filepath.Dir(last)

	if parts[len(parts)-1] == "." {
		parts = parts[:len(parts)-1]
	}

	newURL := strings.Join(parts, goGetterPathSeparator)

	if query != "" {
		newURL += goGetterRefSeparator + query
	}

	return newURL, fileName
}
