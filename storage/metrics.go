package storage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tierlist",
			Name:      "image_uploads_total",
			Help:      "Image uploads by outcome.",
		},
		[]string{"result"},
	)

	uploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tierlist",
			Name:      "image_upload_bytes_total",
			Help:      "Bytes written to the upload directory.",
		},
	)
)

const (
	resultStored   = "stored"
	resultRejected = "rejected"
	resultFailed   = "failed"
)
