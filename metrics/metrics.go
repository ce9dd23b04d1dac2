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

// Package metrics holds the Prometheus collectors the core packages
// (process, reactor, reqbody) update directly, ambient observability for
// user-visible outcomes (a worker respawn, a 413 rejection) even though a
// full metrics surface is out of scope here.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// WorkerRespawns counts every worker process.Table.Reap restarts.
	WorkerRespawns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "httpcored",
		Subsystem: "process",
		Name:      "worker_respawns_total",
		Help:      "Number of worker processes respawned after an unexpected exit.",
	})

	// PostedQueueDepth is sampled by the reactor loop after each drain, one
	// gauge series per queue ("accept", "general").
	PostedQueueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "httpcored",
		Subsystem: "reactor",
		Name:      "posted_queue_depth",
		Help:      "Number of events drained from a posted queue on the last tick.",
	}, []string{"queue"})

	// StaleEventsDiscarded counts readiness events dropped because their
	// (index, generation) handle no longer matched the registry.
	StaleEventsDiscarded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "httpcored",
		Subsystem: "reactor",
		Name:      "stale_events_discarded_total",
		Help:      "Readiness events discarded because their handle's generation was stale.",
	})

	// BodyBytesReceived counts request-body bytes accepted by the length or
	// chunked filter.
	BodyBytesReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "httpcored",
		Subsystem: "reqbody",
		Name:      "body_bytes_received_total",
		Help:      "Request body bytes accepted by the length or chunked filter.",
	})

	// BodyRejected413 counts requests rejected for exceeding
	// client_max_body_size.
	BodyRejected413 = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "httpcored",
		Subsystem: "reqbody",
		Name:      "body_rejected_413_total",
		Help:      "Requests whose body exceeded the configured maximum size.",
	})
)

func init() {
	prometheus.MustRegister(
		WorkerRespawns,
		PostedQueueDepth,
		StaleEventsDiscarded,
		BodyBytesReceived,
		BodyRejected413,
	)
}
