// Copyright 2020 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package broadcast

import "sync"

// Messenger is the per-board channel registry
type Messenger struct {
	mutex    sync.Mutex
	boardID  int64
	channels []chan *Event
}

// NewMessenger creates a messenger for a particular board
func NewMessenger(boardID int64) *Messenger {
	return &Messenger{boardID: boardID}
}

// Register returns a new channel receiving the board's events
func (m *Messenger) Register() <-chan *Event {
	m.mutex.Lock()
	channel := make(chan *Event, 4)
	m.channels = append(m.channels, channel)
	m.mutex.Unlock()
	return channel
}

// Unregister removes the provided channel, reporting whether the messenger
// became empty
func (m *Messenger) Unregister(channel <-chan *Event) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for i, toRemove := range m.channels {
		if channel == toRemove {
			m.channels = append(m.channels[:i], m.channels[i+1:]...)
			close(toRemove)
			break
		}
	}
	return len(m.channels) == 0
}

// UnregisterAll removes all channels
func (m *Messenger) UnregisterAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for _, channel := range m.channels {
		close(channel)
	}
	m.channels = nil
}

// SendMessage delivers the event to all registered channels without
// blocking: a subscriber that cannot keep up misses the event and is
// expected to re-fetch.
func (m *Messenger) SendMessage(event *Event) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for i := range m.channels {
		select {
		case m.channels[i] <- event:
		default:
		}
	}
}
