package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "talentbill",
		Subsystem: "payment",
		Name:      "orders_created_total",
		Help:      "Gateway orders created, by plan.",
	}, []string{"plan"})

	verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "talentbill",
		Subsystem: "payment",
		Name:      "verifications_total",
		Help:      "Payment verification attempts, by outcome.",
	}, []string{"result"})
)
