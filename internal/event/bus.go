// Package event provides the in-process pub/sub bus connecting the game
// engine to its observers (websocket push, terminal client). Delivery is
// synchronous and in registration order; a panicking subscriber is logged
// and never prevents delivery to the rest.
package event

import (
	"log"
	"sync"
)

// Topics emitted by the core.
const (
	TopicCommandResult       = "command:result"
	TopicStepComplete        = "mission:step:complete"
	TopicMissionComplete     = "mission:complete"
	TopicMissionUnlocked     = "mission:unlocked"
	TopicXPAdd               = "xp:add"
	TopicLevelUp             = "level:up"
	TopicBadgeUnlocked       = "badge:unlocked"
	TopicAchievementUnlocked = "achievement:unlocked"
	TopicMilestoneUnlocked   = "milestone:unlocked"
	TopicGoalCompleted       = "goal:completed"
	TopicCollectibleFound    = "collectible:found"
	TopicDailyLogin          = "daily:login"
	TopicDailyChallenge      = "daily:challenge"
)

// Handler receives a published event. Payload types are topic-specific.
type Handler func(topic string, payload any)

// Bus is a synchronous publish/subscribe registry. Construct one per
// application and pass it by reference to every component that publishes
// or subscribes.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]Handler
	all  []Handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]Handler)}
}

// Subscribe registers h for a single topic.
func (b *Bus) Subscribe(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], h)
}

// SubscribeAll registers h for every topic. Wildcard handlers run after
// topic-specific handlers, in registration order.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

// Emit delivers payload to every subscriber of topic, then to wildcard
// subscribers. Emit returns once all handlers have run.
func (b *Bus) Emit(topic string, payload any) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[topic])+len(b.all))
	handlers = append(handlers, b.subs[topic]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	for _, h := range handlers {
		dispatch(topic, payload, h)
	}
}

func dispatch(topic string, payload any, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("event: subscriber panic on %s: %v", topic, r)
		}
	}()
	h(topic, payload)
}
