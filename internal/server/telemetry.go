package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	historyFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "psyplex_history_fetch_total",
		Help: "Number of browsing-history pipeline runs.",
	})
	classifyRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "psyplex_classify_total",
		Help: "Number of URL classification runs.",
	})
	emotionRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "psyplex_emotion_annotations_total",
		Help: "Number of emotion annotation runs.",
	})
	correlationRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "psyplex_correlation_total",
		Help: "Number of correlation analyses served.",
	})
	chatMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "psyplex_chat_messages_total",
		Help: "Number of chat messages handled.",
	})
)
