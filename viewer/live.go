package main

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mrail/skirmish/game"
	"github.com/mrail/skirmish/rules"
	"github.com/mrail/skirmish/store"
)

// maxLiveRounds bounds a single live replay so a pathological grid cannot
// hold a connection forever.
const maxLiveRounds = 10000

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The viewer API is already CORS-open, so the socket is too.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// serveLive streams a battle round by round over a websocket. The client
// sends one LiveRequest, the server replies with a LiveMessage per completed
// round and a final message carrying the outcome.
func serveLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("live upgrade: %v", err)
		return
	}
	defer conn.Close()

	var req LiveRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(LiveMessage{Done: true, Error: "bad request: " + err.Error()})
		return
	}

	b, err := game.Parse(req.Grid)
	if err != nil {
		_ = conn.WriteJSON(LiveMessage{Done: true, Error: err.Error()})
		return
	}
	if req.ElfPower > 0 {
		b.SetPower(game.Elf, req.ElfPower)
	}
	battleID := store.BattleID(b.Render())

	start := roundView(battleID, "live", b)
	if err := conn.WriteJSON(LiveMessage{Round: &start}); err != nil {
		return
	}

	writeErr := error(nil)
	out := rules.Run(b, func(state *game.Battle) {
		if writeErr != nil || state.Rounds > maxLiveRounds {
			return
		}
		rv := roundView(battleID, "live", state)
		writeErr = conn.WriteJSON(LiveMessage{Round: &rv})
	})
	if writeErr != nil {
		log.Printf("live stream ended early: %v", writeErr)
		return
	}

	final := SimulateResponse{
		BattleID:  battleID,
		Winner:    out.Winner.String(),
		Rounds:    out.Rounds,
		HealthSum: out.HealthSum,
		Score:     out.Score,
		FinalGrid: b.Render(),
	}
	_ = conn.WriteJSON(LiveMessage{Done: true, Outcome: &final})
}
