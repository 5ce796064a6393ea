// Copyright 2020 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package broadcast publishes committed board mutations to subscribed
// connections. Connections register and unregister through the manager
// instead of touching any shared connection map; the messenger owns its
// channel list behind its own lock.
package broadcast

import (
	"sync"
)

// Manager manages the per-board Messengers
type Manager struct {
	mutex sync.Mutex

	messengers map[int64]*Messenger
}

var manager = &Manager{
	messengers: make(map[int64]*Messenger),
}

// GetManager returns the singleton Manager
func GetManager() *Manager {
	return manager
}

// Register subscribes to a board's events
func (m *Manager) Register(boardID int64) <-chan *Event {
	m.mutex.Lock()
	messenger, ok := m.messengers[boardID]
	if !ok {
		messenger = NewMessenger(boardID)
		m.messengers[boardID] = messenger
	}
	m.mutex.Unlock()
	return messenger.Register()
}

// Unregister removes a subscription
func (m *Manager) Unregister(boardID int64, channel <-chan *Event) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	messenger, ok := m.messengers[boardID]
	if !ok {
		return
	}
	if messenger.Unregister(channel) {
		delete(m.messengers, boardID)
	}
}

// UnregisterBoard drops every subscription of one board, used when the
// board is deleted
func (m *Manager) UnregisterBoard(boardID int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if messenger, ok := m.messengers[boardID]; ok {
		messenger.UnregisterAll()
		delete(m.messengers, boardID)
	}
}

// UnregisterAll drops every subscription, used on shutdown
func (m *Manager) UnregisterAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for _, messenger := range m.messengers {
		messenger.UnregisterAll()
	}
	m.messengers = make(map[int64]*Messenger)
}

// SendMessage publishes an event to every subscriber of its board
func (m *Manager) SendMessage(event *Event) {
	m.mutex.Lock()
	messenger, ok := m.messengers[event.BoardID]
	m.mutex.Unlock()
	if ok {
		messenger.SendMessage(event)
	}
}

// Send is a convenience wrapper publishing via the singleton manager
func Send(boardID int64, kind string, payload any) {
	manager.SendMessage(&Event{BoardID: boardID, Kind: kind, Payload: payload})
}
