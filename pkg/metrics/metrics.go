// Package metrics provides prometheus instrumentation for im-notices
package metrics

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/prometheus/common/expfmt"

	"github.com/supportops/im-notices/pkg/logging"
)

// Push collects and pushes metrics to the configured pushgateway
func Push() {
	var promPusher *push.Pusher
	if pushgateway := os.Getenv("IMN_PROMETHEUS_PUSHGATEWAY"); pushgateway != "" {
		promPusher = push.New(pushgateway, "im_notices").Format(expfmt.NewFormat(expfmt.TypeTextPlain))
		promPusher.Collector(NoticesSent)
		promPusher.Collector(StatusPageIncidents)
		promPusher.Collector(FatalAborts)
		err := promPusher.Add()
		if err != nil {
			logging.Errorf("failed to push metrics: %v", err)
		}
	} else {
		logging.Debug("metrics disabled, set env 'IMN_PROMETHEUS_PUSHGATEWAY' to push metrics")
	}
}

// Inc takes a counterVec and a set of label values and increases by one
func Inc(counterVec *prometheus.CounterVec, lsv ...string) {
	metric, err := counterVec.GetMetricWithLabelValues(lsv...)
	if err != nil {
		logging.Error(err)
		return
	}
	metric.Inc()
}

const (
	namespace      = "imn"
	subsystemSend  = "send"
	projectLabel   = "project"
	operationLabel = "operation"
	errorKindLabel = "error_kind"
)

var (
	// NoticesSent counts notices delivered by mail, by project
	NoticesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystemSend,
			Name: "notices_sent_total",
			Help: "counts incident notices delivered by mail",
		}, []string{projectLabel})
	// StatusPageIncidents counts statuspage incident mutations by operation (create/update)
	StatusPageIncidents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystemSend,
			Name: "statuspage_incidents_total",
			Help: "counts statuspage incidents created or updated",
		}, []string{projectLabel, operationLabel})
	// FatalAborts counts runs aborted by a fatal error, by error kind
	FatalAborts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystemSend,
			Name: "fatal_aborts_total",
			Help: "counts runs aborted before completion by error kind",
		}, []string{errorKindLabel})
)
