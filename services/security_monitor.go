package services

import (
	"log"
	"sync"
	"time"
)

// Failed login thresholds
const (
	FailedLoginWindow    = 10 * time.Minute
	FailedLoginThreshold = 5
	alertCooldown        = time.Hour
	maxStoredAlerts      = 100
)

// LoginAlert is raised when one source keeps failing to sign in
type LoginAlert struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Reason    string    `json:"reason"`
}

// LoginMonitor counts failed logins per source (client IP or account email)
type LoginMonitor struct {
	mu       sync.Mutex
	now      func() time.Time
	failures map[string][]time.Time
	alerted  map[string]time.Time
	alerts   []LoginAlert
}

// Monitor is the process-wide login monitor used by the auth handlers
var Monitor = NewLoginMonitor()

// NewLoginMonitor creates an empty monitor
func NewLoginMonitor() *LoginMonitor {
	return &LoginMonitor{
		now:      time.Now,
		failures: make(map[string][]time.Time),
		alerted:  make(map[string]time.Time),
	}
}

// TrackFailedLogin records a failure for every given source and reports
// whether any of them crossed the threshold.
func (m *LoginMonitor) TrackFailedLogin(sources ...string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	windowStart := now.Add(-FailedLoginWindow)
	raised := false

	for _, src := range sources {
		if src == "" {
			continue
		}
		recent := m.failures[src][:0]
		for _, ts := range m.failures[src] {
			if ts.After(windowStart) {
				recent = append(recent, ts)
			}
		}
		recent = append(recent, now)
		m.failures[src] = recent

		if len(recent) >= FailedLoginThreshold && m.raiseLocked(src, now) {
			raised = true
		}
	}
	return raised
}

// Reset forgets failures for a source after a successful login
func (m *LoginMonitor) Reset(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.failures, source)
}

func (m *LoginMonitor) raiseLocked(src string, now time.Time) bool {
	if last, ok := m.alerted[src]; ok && now.Sub(last) < alertCooldown {
		return false
	}
	m.alerted[src] = now

	alert := LoginAlert{Timestamp: now, Source: src, Reason: "Multiple failed logins detected"}
	m.alerts = append([]LoginAlert{alert}, m.alerts...)
	if len(m.alerts) > maxStoredAlerts {
		m.alerts = m.alerts[:maxStoredAlerts]
	}

	log.Printf("[SECURITY ALERT] %s for %s", alert.Reason, src)
	return true
}

// RecentAlerts returns a copy of the stored alerts, newest first
func (m *LoginMonitor) RecentAlerts() []LoginAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LoginAlert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// Prune drops stale failure and cooldown entries
func (m *LoginMonitor) Prune() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for src, attempts := range m.failures {
		if len(attempts) == 0 || now.Sub(attempts[len(attempts)-1]) > FailedLoginWindow {
			delete(m.failures, src)
		}
	}
	for src, last := range m.alerted {
		if now.Sub(last) > alertCooldown {
			delete(m.alerted, src)
		}
	}
}
