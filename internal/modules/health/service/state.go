package service

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"invest_bot/internal/strategy"
)

// StrategyStatus: последнее, что известно о стратегии.
type StrategyStatus struct {
	Key        string         `json:"key"`
	Kind       string         `json:"kind"`
	FIGI       string         `json:"figi"`
	AccountID  string         `json:"account_id"`
	Phase      strategy.Phase `json:"phase"`
	Indicator  *float64       `json:"indicator,omitempty"`
	Orders     int            `json:"orders"`
	Errors     int            `json:"errors"`
	LastError  string         `json:"last_error,omitempty"`
	LastCycle  time.Time      `json:"last_cycle,omitempty"`
	LastChange time.Time      `json:"last_change"`
}

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	lastEventUnix atomic.Int64 // unix seconds

	mu         sync.RWMutex
	strategies map[string]*StrategyStatus
}

func NewState() *State {
	s := &State{
		startedAt:  time.Now(),
		strategies: make(map[string]*StrategyStatus),
	}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) LastEvent() time.Time {
	u := s.lastEventUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }

// Observe обновляет статус стратегии по событию цикла.
func (s *State) Observe(e strategy.Event) {
	now := e.Time
	if now.IsZero() {
		now = time.Now()
	}
	s.lastEventUnix.Store(now.Unix())

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.strategies[e.Strategy]
	if !ok {
		st = &StrategyStatus{Key: e.Strategy, Kind: string(e.Kind), FIGI: e.FIGI, AccountID: e.AccountID}
		s.strategies[e.Strategy] = st
	}
	st.LastChange = now

	switch e.Type {
	case strategy.EventPhase:
		st.Phase = e.Phase
		if e.Phase == strategy.PhaseCooldown {
			st.LastCycle = now
		}
	case strategy.EventIndicator:
		v := e.Indicator
		st.Indicator = &v
	case strategy.EventOrder:
		st.Orders++
	case strategy.EventError:
		st.Errors++
		st.LastError = e.Error
	}
}

// Strategies: копия статусов, отсортированная по ключу.
func (s *State) Strategies() []StrategyStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]StrategyStatus, 0, len(s.strategies))
	for _, st := range s.strategies {
		cp := *st
		if st.Indicator != nil {
			v := *st.Indicator
			cp.Indicator = &v
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Summary: короткий текст для /status в Telegram.
func (s *State) Summary() string {
	list := s.Strategies()
	if len(list) == 0 {
		return "no strategies yet"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "uptime %s, ready=%t\n", s.Uptime().Truncate(time.Second), s.Ready())
	for _, st := range list {
		fmt.Fprintf(&b, "%s: %s", st.Key, st.Phase)
		if st.Indicator != nil {
			fmt.Fprintf(&b, ", rsi=%.2f", *st.Indicator)
		}
		fmt.Fprintf(&b, ", orders=%d, errors=%d\n", st.Orders, st.Errors)
	}
	return strings.TrimRight(b.String(), "\n")
}
