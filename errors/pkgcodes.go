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

package errors

// Package error-code offsets. Every package that registers its own sentinel
// CodeError block does so starting at one of these MIN_PKG_* constants, each
// spaced 100 apart to leave room for growth without collision. Add new
// packages at the end; never renumber an existing one, callers serialize the
// numeric code.
const (
	MIN_PKG_Aws CodeError = iota*100 + 100
	MIN_PKG_Console
	MIN_PKG_Crypt
	MIN_PKG_Httpcli
	MIN_PKG_IOUtils
	MIN_PKG_LDAP

	MIN_PKG_Process
	MIN_PKG_IPC
	MIN_PKG_Reactor
	MIN_PKG_ConnReg
	MIN_PKG_ReqBody
	MIN_PKG_BufChain
	MIN_PKG_Signals
	MIN_PKG_Version
	MIN_PKG_Httpcored
)
