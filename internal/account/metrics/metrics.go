// Package metrics collects and exposes Prometheus metrics for the account
// service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the service layer records through. Keeping it
// narrow makes services testable without a live registry.
type Recorder interface {
	RecordSignup()
	RecordLogin(ok bool)
	RecordOTPIssued(purpose string)
	RecordOTPConsumed(purpose string, ok bool)
	RecordMailSent(ok bool)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	registry *prometheus.Registry

	signups     prometheus.Counter
	logins      *prometheus.CounterVec
	otpIssued   *prometheus.CounterVec
	otpConsumed *prometheus.CounterVec
	mailSent    *prometheus.CounterVec
}

// NewCollector creates a Collector with its own registry so tests don't
// collide on the global one.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "accountd_signups_total",
			Help: "Total number of accounts created.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accountd_logins_total",
			Help: "Total number of login attempts by result.",
		}, []string{"result"}),
		otpIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accountd_otp_issued_total",
			Help: "Total number of one-time codes issued by purpose.",
		}, []string{"purpose"}),
		otpConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accountd_otp_consumed_total",
			Help: "Total number of one-time code consumptions by purpose and result.",
		}, []string{"purpose", "result"}),
		mailSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accountd_mail_sent_total",
			Help: "Total number of outbound emails by result.",
		}, []string{"result"}),
	}

	c.registry.MustRegister(
		c.signups,
		c.logins,
		c.otpIssued,
		c.otpConsumed,
		c.mailSent,
	)

	return c
}

func (c *Collector) RecordSignup() { c.signups.Inc() }

func (c *Collector) RecordLogin(ok bool) {
	c.logins.WithLabelValues(resultLabel(ok)).Inc()
}

func (c *Collector) RecordOTPIssued(purpose string) {
	c.otpIssued.WithLabelValues(purpose).Inc()
}

func (c *Collector) RecordOTPConsumed(purpose string, ok bool) {
	c.otpConsumed.WithLabelValues(purpose, resultLabel(ok)).Inc()
}

func (c *Collector) RecordMailSent(ok bool) {
	c.mailSent.WithLabelValues(resultLabel(ok)).Inc()
}

// Handler returns the HTTP handler exposing the collected metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func resultLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// Nop is a Recorder that discards everything. Useful in tests and in
// services constructed without metrics.
type Nop struct{}

func (Nop) RecordSignup()                  {}
func (Nop) RecordLogin(bool)               {}
func (Nop) RecordOTPIssued(string)         {}
func (Nop) RecordOTPConsumed(string, bool) {}
func (Nop) RecordMailSent(bool)            {}
