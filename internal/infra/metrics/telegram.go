package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(updatesTotal, uploadsRejected) }

var updatesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "telegram_updates_total",
		Help: "Processed Telegram updates by kind (command/callback/document/photo/text).",
	},
	[]string{"kind"},
)

var uploadsRejected = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "telegram_uploads_rejected_total",
		Help: "Uploads rejected before conversion, by reason.",
	},
	[]string{"reason"}, // 'too_large', 'queue_full'
)

func IncUpdate(kind string) {
	updatesTotal.WithLabelValues(norm(kind)).Inc()
}

func IncUploadRejected(reason string) {
	uploadsRejected.WithLabelValues(norm(reason)).Inc()
}
