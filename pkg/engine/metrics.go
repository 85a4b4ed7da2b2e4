package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var commandsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kiwidb_engine_commands_total",
	Help: "The total number of commands served by the engine, labeled by command name.",
}, []string{"command"})
