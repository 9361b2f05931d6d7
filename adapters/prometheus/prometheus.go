// Package prometheus provides a Prometheus implementation of
// typeimage.Metrics.
package prometheus

import (
	"reflect"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/skdltmxn/typeimage-go/typeimage"
)

// Histogram buckets for image build time (in seconds).
var buildBuckets = []float64{
	.00001, .000025, .00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025, .1,
}

// imageMetrics implements typeimage.Metrics using Prometheus.
type imageMetrics struct {
	imagesBuilt   prometheus.Counter
	buildDuration prometheus.Histogram
	imageMembers  prometheus.Histogram
	invokersTotal *prometheus.CounterVec
	faultsTotal   *prometheus.CounterVec
}

// NewMetrics creates the collectors, registers them on reg and returns a
// sink to pass to typeimage.WithMetrics.
func NewMetrics(reg prometheus.Registerer) typeimage.Metrics {
	m := &imageMetrics{
		imagesBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "typeimage_images_built_total",
			Help: "Total number of type images whose member index was built",
		}),

		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "typeimage_image_build_duration_seconds",
			Help:    "Member index build time in seconds",
			Buckets: buildBuckets,
		}),

		imageMembers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "typeimage_image_members",
			Help:    "Number of members per built image",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),

		invokersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "typeimage_invokers_generated_total",
			Help: "Total number of invokers generated",
		}, []string{"kind", "shape", "arity"}),

		faultsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "typeimage_faults_total",
			Help: "Total number of errors returned by member images",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.imagesBuilt,
		m.buildDuration,
		m.imageMembers,
		m.invokersTotal,
		m.faultsTotal,
	)

	return m
}

func (m *imageMetrics) ImageBuilt(_ reflect.Type, members int, took time.Duration) {
	m.imagesBuilt.Inc()
	m.buildDuration.Observe(took.Seconds())
	m.imageMembers.Observe(float64(members))
}

func (m *imageMetrics) InvokerGenerated(kind typeimage.MemberKind, shape string, arity int) {
	m.invokersTotal.WithLabelValues(kind.String(), shape, strconv.Itoa(arity)).Inc()
}

func (m *imageMetrics) Fault(kind typeimage.ErrorKind) {
	m.faultsTotal.WithLabelValues(kind.String()).Inc()
}

var _ typeimage.Metrics = (*imageMetrics)(nil)
