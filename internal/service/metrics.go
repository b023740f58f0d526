package service

import "github.com/prometheus/client_golang/prometheus"

var (
	RewardsGranted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewards_granted_total",
			Help: "Reward transactions committed, by kind",
		},
		[]string{"kind"},
	)
	RewardsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewards_rejected_total",
			Help: "Reward transactions rejected by a business rule, by kind",
		},
		[]string{"kind"},
	)
	PointsEarned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "points_earned_total",
			Help: "Points credited to users, by kind",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(RewardsGranted)
	prometheus.MustRegister(RewardsRejected)
	prometheus.MustRegister(PointsEarned)
}
