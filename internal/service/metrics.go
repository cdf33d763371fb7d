package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EarningsCredited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "earnings_credited_total",
			Help: "Earning records created, by type",
		},
		[]string{"type"},
	)
	CommissionsDistributed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_commissions_total",
			Help: "Referral commissions credited, by upline level",
		},
		[]string{"level"},
	)
	CommissionFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_commission_failures_total",
			Help: "Commission credits that were swallowed after a storage failure",
		},
	)
	WithdrawalTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "withdrawal_transitions_total",
			Help: "Withdrawal state transitions",
		},
		[]string{"to"},
	)
)

func init() {
	prometheus.MustRegister(EarningsCredited)
	prometheus.MustRegister(CommissionsDistributed)
	prometheus.MustRegister(CommissionFailures)
	prometheus.MustRegister(WithdrawalTransitions)
}
