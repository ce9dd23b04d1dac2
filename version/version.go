/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package version exposes build/release metadata (package name, build hash,
// release tag, author, license) for a binary, along with a Go toolchain
// compatibility check, in the form a cobra-based CLI wires into its
// "version" and "--version" output.
package version

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"time"

	liberr "github/sabouaram/golib/errors"
)

// Version reports build and release metadata for a binary and its license
// terms, and lets callers gate startup on a minimum Go toolchain.
type Version interface {
	GetPackage() string
	GetDescription() string
	GetBuild() string
	GetRelease() string
	GetAuthor() string
	GetPrefix() string
	GetDate() string
	GetTime() time.Time
	GetAppId() string
	GetHeader() string
	GetInfo() string
	GetRootPackagePath() string

	GetLicenseName() string
	GetLicenseLegal(extra ...License) string
	GetLicenseBoiler(extra ...License) string
	GetLicenseFull(extra ...License) string

	PrintInfo()
	PrintLicense(extra ...License)

	CheckGo(requiredVersion, operator string) liberr.Error
}

type version struct {
	license     License
	pkg         string
	description string
	date        time.Time
	build       string
	release     string
	author      string
	prefix      string
	pkgPath     string
}

// NewVersion builds a Version. anchor is any value (typically a zero-value
// struct) living in the caller's root package; its reflected package path
// seeds GetRootPackagePath and, when pkg is empty or "noname", GetPackage.
// numSubPackage walks that path up by that many segments, for callers whose
// anchor lives a few packages below the module root. dateStr is parsed as
// RFC3339; an unparsable or empty string falls back to time.Now().
func NewVersion(license License, pkg, description, dateStr, build, release, author, prefix string, anchor interface{}, numSubPackage int) Version {
	pkgPath := reflect.TypeOf(anchor).PkgPath()

	if pkg == "" || pkg == "noname" {
		pkg = lastPathSegment(pkgPath)
	}

	return &version{
		license:     license,
		pkg:         pkg,
		description: description,
		date:        parseDate(dateStr),
		build:       build,
		release:     release,
		author:      author,
		prefix:      strings.ToUpper(prefix),
		pkgPath:     trimPath(pkgPath, numSubPackage),
	}
}

func parseDate(dateStr string) time.Time {
	if dateStr == "" {
		return time.Now()
	}

	t, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		return time.Now()
	}

	return t
}

func lastPathSegment(pkgPath string) string {
	parts := strings.Split(pkgPath, "/")
	return parts[len(parts)-1]
}

func trimPath(pkgPath string, numSubPackage int) string {
	if numSubPackage <= 0 {
		return pkgPath
	}

	parts := strings.Split(pkgPath, "/")
	if numSubPackage >= len(parts) {
		numSubPackage = len(parts) - 1
	}

	return strings.Join(parts[:len(parts)-numSubPackage], "/")
}

func (v *version) GetPackage() string {
	return v.pkg
}

func (v *version) GetDescription() string {
	return v.description
}

func (v *version) GetBuild() string {
	return v.build
}

func (v *version) GetRelease() string {
	return v.release
}

func (v *version) GetAuthor() string {
	return fmt.Sprintf("%s (source: %s)", v.author, v.pkgPath)
}

func (v *version) GetPrefix() string {
	return v.prefix
}

func (v *version) GetDate() string {
	return v.date.Format(time.RFC1123)
}

func (v *version) GetTime() time.Time {
	return v.date
}

func (v *version) GetAppId() string {
	return fmt.Sprintf("%s-%s-%s-%s/%s", v.pkg, v.release, runtime.GOOS, runtime.GOARCH, "Runtime "+runtime.Version())
}

func (v *version) GetHeader() string {
	return fmt.Sprintf("%s %s (build %s)", v.pkg, v.release, v.build)
}

func (v *version) GetInfo() string {
	return fmt.Sprintf(
		"Package: %s\nDescription: %s\nRelease: %s\nBuild: %s\nDate: %s\nAuthor: %s\nLicense: %s",
		v.pkg, v.description, v.release, v.build, v.GetDate(), v.GetAuthor(), v.GetLicenseName(),
	)
}

func (v *version) GetRootPackagePath() string {
	return v.pkgPath
}

// PrintInfo writes GetHeader and GetInfo to stderr.
func (v *version) PrintInfo() {
	println(v.GetHeader())
	println(v.GetInfo())
}

// PrintLicense writes GetLicenseBoiler to stderr for the configured license
// plus any extra licenses the binary bundles.
func (v *version) PrintLicense(extra ...License) {
	println(v.GetLicenseBoiler(extra...))
}
