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

package version

import (
	"fmt"
	"runtime"
	"strings"

	goversion "github.com/hashicorp/go-version"

	liberr "github/sabouaram/golib/errors"
)

// CheckGo verifies the running Go toolchain satisfies operator+requiredVersion
// (e.g. ">=", "1.18"), the same constraint-string grammar go.mod's "go"
// directive and hashicorp/go-version both understand. ErrorGoVersionInit
// reports a malformed operator or requiredVersion, ErrorGoVersionRuntime an
// unparsable runtime.Version(), and ErrorGoVersionConstraint a toolchain that
// does not satisfy the constraint.
func (v *version) CheckGo(requiredVersion, operator string) liberr.Error {
	constraint, err := goversion.NewConstraint(operator + " " + requiredVersion)
	if err != nil {
		return ErrorGoVersionInit.Error(err)
	}

	runtimeVersion, err := goversion.NewVersion(currentGoVersion())
	if err != nil {
		return ErrorGoVersionRuntime.Error(err)
	}

	if !constraint.Check(runtimeVersion) {
		return ErrorGoVersionConstraint.Error(fmt.Errorf(
			"current binary is build with a non-compatible version of Go: runtime %s does not satisfy %s %s",
			runtimeVersion.String(), operator, requiredVersion,
		))
	}

	return nil
}

// currentGoVersion strips the "go" prefix and any devel/prerelease suffix
// from runtime.Version(), leaving a string hashicorp/go-version can parse.
func currentGoVersion() string {
	v := strings.TrimPrefix(runtime.Version(), "go")
	if idx := strings.IndexAny(v, "-+ "); idx >= 0 {
		v = v[:idx]
	}

	return v
}
