package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheLookups = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Namespace: "fleetrent",
			Subsystem: "permission_cache",
			Name:      "lookups_total",
			Help:      "Permission cache lookups, differentiated by hit or miss.",
		},
		[]string{"result"},
	)

	cacheEvictions = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Namespace: "fleetrent",
			Subsystem: "permission_cache",
			Name:      "evictions_total",
			Help:      "Permission cache evictions, differentiated by reason.",
		},
		[]string{"reason"},
	)

	accessDenials = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Namespace: "fleetrent",
			Subsystem: "authz",
			Name:      "denials_total",
			Help:      "Requests rejected by the permission middleware.",
		},
		[]string{"permission"},
	)
)
