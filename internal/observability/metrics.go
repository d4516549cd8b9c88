package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "identify_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "identify_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PostsCreatedTotal counts created posts.
	PostsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "identify_posts_created_total",
		Help: "Total number of posts created",
	})

	// CommentsCreatedTotal counts created comments by type.
	CommentsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "identify_comments_created_total",
		Help: "Total number of comments created by type",
	}, []string{"type"})

	// CommentVotesTotal counts vote operations by direction.
	CommentVotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "identify_comment_votes_total",
		Help: "Total number of comment vote operations by direction",
	}, []string{"direction"})

	// MediaUploadsTotal counts media uploads by outcome.
	MediaUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "identify_media_uploads_total",
		Help: "Total number of media uploads by outcome",
	}, []string{"outcome"})

	// MediaUploadBytes records uploaded media sizes.
	MediaUploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "identify_media_upload_bytes",
		Help:    "Size distribution of uploaded media files",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
	})

	// LabelLookupsTotal counts label get-or-create resolutions by outcome
	// ("hit" for an existing label, "created" for a newly inserted one).
	LabelLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "identify_label_lookups_total",
		Help: "Total number of label lookups by outcome",
	}, []string{"outcome"})

	// ActiveWebSockets is the gauge of active live-feed connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "identify_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts live-feed events by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "identify_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
