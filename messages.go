package main

import (
	"encoding/json"
	"fmt"
)

// Server→client message types.
const (
	msgGaze      = "gaze"
	msgGameState = "gameState"
	msgGameOver  = "gameOver"
)

// Client→server message types.
const (
	cmdStartGame   = "startGame"
	cmdRestart     = "restart"
	cmdSkipGesture = "skipGesture"
	cmdVideoFrame  = "videoFrame"
)

// envelope carries the discriminator every wire message starts with.
type envelope struct {
	Type string `json:"type"`
}

// gazeMsg is one gaze sample, both axes normalized to [0,1].
type gazeMsg struct {
	GazeX float64 `json:"gaze_x"`
	GazeY float64 `json:"gaze_y"`
}

// enemyRow is one enemy in a snapshot. X is normalized to world width, Y to
// viewport height; animationState is one of the manifest state labels.
type enemyRow struct {
	ID             string  `json:"id"`
	TypeID         string  `json:"typeId"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	CurrentHP      int     `json:"currentHP"`
	MaxHP          int     `json:"maxHP"`
	AnimationState string  `json:"animationState"`
	IsDead         bool    `json:"isDead"`
}

// effectRow is one effect spawn request. X is normalized to world width; the
// vertical placement comes from the catalog's ground line.
type effectRow struct {
	ID   string  `json:"id"`
	Type string  `json:"type"`
	X    float64 `json:"x"`
}

// gameStateMsg is one authoritative snapshot. HUD fields are pointers so a
// partial snapshot leaves the previous values alone instead of zeroing them.
type gameStateMsg struct {
	Enemies         []enemyRow  `json:"enemies"`
	Effects         []effectRow `json:"effects"`
	PlayerHP        *int        `json:"playerHP"`
	PlayerGold      *int        `json:"playerGold"`
	PlayerScore     *int        `json:"playerScore"`
	WaveNumber      *int        `json:"waveNumber"`
	GestureSequence []string    `json:"gestureSequence"`
	GestureMatched  *bool       `json:"gestureMatched"`
}

type gameOverMsg struct {
	FinalScore int `json:"finalScore"`
	FinalWave  int `json:"finalWave"`
}

// commandMsg is a bare outbound command.
type commandMsg struct {
	Type string `json:"type"`
}

// videoFrameMsg wraps one webcam frame as a JPEG data URL.
type videoFrameMsg struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// unknownTypeError marks a structurally valid message whose type the client
// does not speak. Callers warn once per type and keep reading.
type unknownTypeError struct {
	t string
}

func (e *unknownTypeError) Error() string {
	return fmt.Sprintf("unknown message type %q", e.t)
}

// decodeServerMessage parses one inbound frame into its typed form:
// *gazeMsg, *gameStateMsg or *gameOverMsg. Unknown JSON fields are ignored;
// a decode error never takes the connection down.
func decodeServerMessage(data []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}
	switch env.Type {
	case msgGaze:
		var m gazeMsg
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%s: %w", env.Type, err)
		}
		return &m, nil
	case msgGameState:
		var m gameStateMsg
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%s: %w", env.Type, err)
		}
		return &m, nil
	case msgGameOver:
		var m gameOverMsg
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%s: %w", env.Type, err)
		}
		return &m, nil
	default:
		return nil, &unknownTypeError{t: env.Type}
	}
}
