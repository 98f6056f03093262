package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// commandsGenerated counts successful generations by language code.
	commandsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shoutout_commands_generated_total",
			Help: "Total number of generated shoutout commands.",
		},
		[]string{"language"},
	)

	// platformRetries counts platform calls retried after a re-authentication.
	platformRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shoutout_platform_reauth_retries_total",
			Help: "Total number of platform calls retried after the token expired.",
		},
	)
)

func init() {
	prometheus.MustRegister(commandsGenerated, platformRetries)
}
