package prom

import (
	"fmt"
	"sync"

	xhttp "github.com/nimasrn/clinic-whatsapp/pkg/http"
	"github.com/nimasrn/clinic-whatsapp/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	SystemWhatsApp = "whatsapp"
)

const (
	MetricLinksPrepared         = "links_prepared_total"
	MetricNormalizationFailures = "phone_normalization_failures_total"
	MetricMessagesRecorded      = "messages_recorded_total"
	MetricDuplicateClicks       = "duplicate_clicks_total"
	MetricHistoryDataErrors     = "history_data_errors_total"
)

const (
	TypeCounter    = "counter"
	TypeCounterVec = "counterVec"
)

var lockCreateMetricLock = &sync.Mutex{}
var namespace = "none"

var MetricSystemEnabled = false

// Registerer receives every metric; tests swap it for a fresh registry.
var Registerer prometheus.Registerer = prometheus.DefaultRegisterer

var MetricCollectionCounters = make(map[string]prometheus.Counter)
var MetricCollectionCounterVec = make(map[string]*prometheus.CounterVec)

var defaultLabels prometheus.Labels

// Create registers the service metrics and enables collection.
func Create(host string, env string, nameSpace string) error {
	defaultLabels = prometheus.Labels{"env": env, "instance": host}
	namespace = nameSpace

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	hasError(createCounterVec(SystemWhatsApp, MetricLinksPrepared, []string{"template"}))
	hasError(createCounterVec(SystemWhatsApp, MetricNormalizationFailures, []string{"reason"}))
	hasError(createCounter(SystemWhatsApp, MetricMessagesRecorded))
	hasError(createCounter(SystemWhatsApp, MetricDuplicateClicks))
	hasError(createCounter(SystemWhatsApp, MetricHistoryDataErrors))

	MetricSystemEnabled = err == nil
	return err
}

func CreateMetric(metricType, metricSubsystem, metricName string, labelsValues ...string) error {
	switch metricType {
	case TypeCounter:
		return createCounter(metricSubsystem, metricName)
	case TypeCounterVec:
		return createCounterVec(metricSubsystem, metricName, labelsValues)
	}
	return fmt.Errorf("metric type %s is not defined", metricType)
}

// ListenAndServer exposes the registered metrics on addr under url.
func ListenAndServer(addr string, url string) {
	hh := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	s := xhttp.CreateServer()
	s.GET(url, hh)
	logger.Info("[metrics-server] listening...", "addr", addr, "url", url)
	if err := s.ListenAndServe(addr); err != nil {
		logger.Error("[metrics-server] http listen error", "error", err)
	}
}

func createCounter(subsystem, name string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		ConstLabels: defaultLabels,
	})
	if err := Registerer.Register(c); err != nil {
		return err
	}
	MetricCollectionCounters[subsystem+name] = c
	return nil
}

func createCounterVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		ConstLabels: defaultLabels,
	}, labels)
	if err := Registerer.Register(c); err != nil {
		return err
	}
	MetricCollectionCounterVec[subsystem+name] = c
	return nil
}

func IncCounter(subsystem, name string) {
	AddCounter(subsystem, name, 1)
}

func AddCounter(subsystem, name string, number float64) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionCounters[subsystem+name]; ok {
		v.Add(number)
		return
	}
	logger.Warn("[metrics-server] counter not found", "subsystem", subsystem, "name", name)
}

func IncCounterVec(subsystem, name string, labelValues ...string) {
	AddCounterVec(subsystem, name, 1, labelValues...)
}

func AddCounterVec(subsystem, name string, num float64, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionCounterVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Add(num)
		return
	}
	logger.Warn("[metrics-server] counter vec not found", "subsystem", subsystem, "name", name)
}

func IncLinkPrepared(template string) {
	IncCounterVec(SystemWhatsApp, MetricLinksPrepared, template)
}

func IncNormalizationFailure(reason string) {
	IncCounterVec(SystemWhatsApp, MetricNormalizationFailures, reason)
}

func IncMessageRecorded() {
	IncCounter(SystemWhatsApp, MetricMessagesRecorded)
}

func IncDuplicateClick() {
	IncCounter(SystemWhatsApp, MetricDuplicateClicks)
}

func IncHistoryDataError() {
	IncCounter(SystemWhatsApp, MetricHistoryDataErrors)
}
