package main

// BattleSummary is one recorded battle as listed by /api/battles.
type BattleSummary struct {
	BattleID   string `json:"battle_id"`
	MinRound   int32  `json:"min_round"`
	MaxRound   int32  `json:"max_round"`
	RoundCount int32  `json:"round_count"`
	Width      int32  `json:"width"`
	Height     int32  `json:"height"`
	Source     string `json:"source"`
	SourceFile string `json:"file"`
}

type BattlesResponse struct {
	Total   int64           `json:"total"`
	Battles []BattleSummary `json:"battles"`
}

// UnitView is one living unit within a round.
type UnitView struct {
	ID      int32  `json:"id"`
	Faction string `json:"faction"`
	Row     int32  `json:"row"`
	Col     int32  `json:"col"`
	Health  int32  `json:"health"`
	Power   int32  `json:"power"`
}

// RoundView is one stored round of a battle. Round 0 is the starting state.
type RoundView struct {
	BattleID string     `json:"battle_id"`
	Round    int32      `json:"round"`
	Width    int32      `json:"width"`
	Height   int32      `json:"height"`
	Grid     string     `json:"grid"`
	Units    []UnitView `json:"units"`
	Source   string     `json:"source"`
}

// SimulateRequest replays a grid from scratch. ElfPower of zero keeps the
// base power from parsing.
type SimulateRequest struct {
	Grid          string `json:"grid"`
	InitialHealth int32  `json:"initial_health,omitempty"`
	BasePower     int32  `json:"base_power,omitempty"`
	ElfPower      int32  `json:"elf_power,omitempty"`
	IncludeRounds bool   `json:"include_rounds,omitempty"`
}

type SimulateResponse struct {
	BattleID  string      `json:"battle_id"`
	Winner    string      `json:"winner"`
	Rounds    int32       `json:"rounds"`
	HealthSum int32       `json:"health_sum"`
	Score     int32       `json:"score"`
	FinalGrid string      `json:"final_grid"`
	RoundLog  []RoundView `json:"round_log,omitempty"`
}

// SearchRequest asks for the lowest elf power that wins without losses.
type SearchRequest struct {
	Grid     string `json:"grid"`
	MaxPower int32  `json:"max_power,omitempty"`
}

type SearchResponse struct {
	Power     int32 `json:"power"`
	Rounds    int32 `json:"rounds"`
	HealthSum int32 `json:"health_sum"`
	Score     int32 `json:"score"`
}

// LiveRequest is the first websocket message on /api/live.
type LiveRequest struct {
	Grid     string `json:"grid"`
	ElfPower int32  `json:"elf_power,omitempty"`
}

// LiveMessage streams one round, or the final outcome when Done is set.
type LiveMessage struct {
	Done    bool              `json:"done"`
	Round   *RoundView        `json:"round,omitempty"`
	Outcome *SimulateResponse `json:"outcome,omitempty"`
	Error   string            `json:"error,omitempty"`
}
