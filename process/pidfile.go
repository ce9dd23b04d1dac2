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

package process

import (
	"os"
	"strconv"
	"strings"
)

// WritePIDFile writes pid as decimal text to path, matching the source's
// ngx.pid convention of one process id per file.
func WritePIDFile(path string, pid int) error {
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o644); err != nil {
		return ErrorPidFileWrite.Error(err)
	}
	return nil
}

// ReadPIDFile reads and parses the pid written by WritePIDFile.
func ReadPIDFile(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, ErrorPidFileRead.Error(err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, ErrorPidFileRead.Error(err)
	}

	return pid, nil
}

// BackupPIDFile renames path to path+".oldbin", the same trick nginx's
// binary upgrade uses to keep the old master's pid discoverable while the
// new one takes over the original path.
func BackupPIDFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := os.Rename(path, path+".oldbin"); err != nil {
		return ErrorPidFileWrite.Error(err)
	}

	return nil
}

// RestorePIDFile reverses BackupPIDFile, used when a binary upgrade's child
// fails to start or never signals readiness.
func RestorePIDFile(path string) error {
	backup := path + ".oldbin"
	if _, err := os.Stat(backup); os.IsNotExist(err) {
		return nil
	}

	if err := os.Rename(backup, path); err != nil {
		return ErrorPidFileWrite.Error(err)
	}

	return nil
}
