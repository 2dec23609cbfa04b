package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var siteLoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "impromptu_site_logins_total",
	Help: "Site gate login attempts by result (granted, denied, locked).",
}, []string{"result"})
