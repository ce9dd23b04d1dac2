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

package process_test

import (
	"context"
	"os"
	"syscall"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github/sabouaram/golib/ipc"
	"github/sabouaram/golib/process"
)

var _ = Describe("Table shutdown", func() {
	var tbl *process.Table

	BeforeEach(func() {
		tbl = process.NewTable(os.Args[0], []string{"-test.run=^$"}, os.Environ(), nil, nil)
	})

	AfterEach(func() {
		for _, w := range tbl.Workers() {
			if !w.Exited() {
				_ = w.Cmd.Process.Kill()
				_, _ = w.Cmd.Process.Wait()
			}
		}
	})

	It("sends QUIT to every running worker", func() {
		Expect(tbl.SpawnAll(2)).To(Succeed())

		done := make(chan struct{}, 2)
		for _, w := range tbl.Workers() {
			w := w
			go func() {
				defer GinkgoRecover()
				m, err := w.Conn.Recv()
				Expect(err).ToNot(HaveOccurred())
				Expect(m.Command).To(Equal(ipc.QUIT))
				done <- struct{}{}
			}()
		}

		tbl.Quit()

		Eventually(done).Should(Receive())
		Eventually(done).Should(Receive())
	})

	It("sends REOPEN to every running worker", func() {
		Expect(tbl.SpawnAll(1)).To(Succeed())
		w := tbl.Workers()[0]

		go func() { tbl.Reopen() }()

		m, err := w.Conn.Recv()
		Expect(err).ToNot(HaveOccurred())
		Expect(m.Command).To(Equal(ipc.REOPEN))
	})

	It("escalates to SIGKILL once every worker is forcibly terminated", func() {
		Expect(tbl.SpawnAll(1)).To(Succeed())
		w := tbl.Workers()[0]

		go func() {
			defer GinkgoRecover()
			for {
				m, err := w.Conn.Recv()
				if err != nil {
					return
				}
				if m.Command == ipc.TERMINATE {
					_ = syscall.Kill(w.Cmd.Process.Pid, syscall.SIGKILL)
					_, _ = w.Cmd.Process.Wait()
					return
				}
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		tbl.Terminate(ctx)
	})
})
