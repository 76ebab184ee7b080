package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	BracketsGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "warga_pkt_brackets_generated_total", Help: "Total brackets generated"},
	)
	MatchesCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "warga_pkt_matches_completed_total", Help: "Total matches recorded as completed"},
	)
	WinnersAdvanced = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "warga_pkt_winners_advanced_total", Help: "Total winners advanced into a next bracket slot"},
	)
)

func Register() {
	prometheus.MustRegister(BracketsGenerated, MatchesCompleted, WinnersAdvanced)
}
