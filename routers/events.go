// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package routers

import (
	"net/http"
	"sync"

	board_model "github.com/deskboard/deskboard/models/board"
	"github.com/deskboard/deskboard/modules/log"
	"github.com/deskboard/deskboard/services/broadcast"

	"github.com/olahol/melody"
)

const (
	sessionKeyBoardID = "boardID"
	sessionKeyDone    = "done"
	sessionKeyEvents  = "events"
)

var (
	eventsMelody     *melody.Melody
	eventsMelodyOnce sync.Once
)

// getEventsMelody sets up the websocket handler bridging broadcast
// subscriptions to connected clients. Each session holds one subscription;
// the pump goroutine stops when the session disconnects.
func getEventsMelody() *melody.Melody {
	eventsMelodyOnce.Do(func() {
		eventsMelody = melody.New()

		eventsMelody.HandleConnect(func(s *melody.Session) {
			boardID, _ := s.Get(sessionKeyBoardID)
			events := broadcast.GetManager().Register(boardID.(int64))
			done := make(chan struct{})
			s.Set(sessionKeyEvents, events)
			s.Set(sessionKeyDone, done)

			go func() {
				for {
					select {
					case event, ok := <-events:
						if !ok {
							_ = s.Close()
							return
						}
						data, err := event.MarshalJSONBytes()
						if err != nil {
							log.Error("unable to serialize board event: %v", err)
							continue
						}
						if err := s.Write(data); err != nil {
							return
						}
					case <-done:
						return
					}
				}
			}()
		})

		eventsMelody.HandleDisconnect(func(s *melody.Session) {
			if done, ok := s.Get(sessionKeyDone); ok {
				close(done.(chan struct{}))
			}
			boardID, okBoard := s.Get(sessionKeyBoardID)
			events, okEvents := s.Get(sessionKeyEvents)
			if okBoard && okEvents {
				broadcast.GetManager().Unregister(boardID.(int64), events.(<-chan *broadcast.Event))
			}
		})
	})
	return eventsMelody
}

func handleBoardEvents(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID")
	if err != nil {
		renderError(w, err)
		return
	}
	if _, err := board_model.GetBoardByID(r.Context(), boardID); err != nil {
		renderError(w, err)
		return
	}
	if err := getEventsMelody().HandleRequestWithKeys(w, r, map[string]any{
		sessionKeyBoardID: boardID,
	}); err != nil {
		log.Error("websocket upgrade failed: %v", err)
	}
}
