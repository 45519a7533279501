package main

import (
	"errors"
	"testing"
)

func TestDecodeGaze(t *testing.T) {
	msg, err := decodeServerMessage([]byte(`{"type":"gaze","gaze_x":0.25,"gaze_y":0.75}`))
	if err != nil {
		t.Fatalf("decode gaze: %v", err)
	}
	m, ok := msg.(*gazeMsg)
	if !ok {
		t.Fatalf("expected *gazeMsg, got %T", msg)
	}
	if m.GazeX != 0.25 || m.GazeY != 0.75 {
		t.Fatalf("unexpected gaze values: %v %v", m.GazeX, m.GazeY)
	}
}

func TestDecodeGameState(t *testing.T) {
	data := []byte(`{
		"type":"gameState",
		"enemies":[{"id":"e1","typeId":"slime","x":0.5,"y":0.8,"currentHP":25,"maxHP":50,"animationState":"hurt","isDead":false}],
		"effects":[{"id":"fx1","type":"fireSlash","x":0.4}],
		"playerHP":80,"playerGold":120,"playerScore":990,"waveNumber":3,
		"gestureSequence":["fist","open"],"gestureMatched":true
	}`)
	msg, err := decodeServerMessage(data)
	if err != nil {
		t.Fatalf("decode gameState: %v", err)
	}
	m, ok := msg.(*gameStateMsg)
	if !ok {
		t.Fatalf("expected *gameStateMsg, got %T", msg)
	}
	if len(m.Enemies) != 1 || len(m.Effects) != 1 {
		t.Fatalf("unexpected row counts: %d enemies, %d effects", len(m.Enemies), len(m.Effects))
	}
	e := m.Enemies[0]
	if e.ID != "e1" || e.TypeID != "slime" || e.CurrentHP != 25 || e.AnimationState != "hurt" {
		t.Fatalf("unexpected enemy row: %+v", e)
	}
	if m.PlayerHP == nil || *m.PlayerHP != 80 {
		t.Fatalf("playerHP not decoded")
	}
	if m.WaveNumber == nil || *m.WaveNumber != 3 {
		t.Fatalf("waveNumber not decoded")
	}
	if m.GestureMatched == nil || !*m.GestureMatched {
		t.Fatalf("gestureMatched not decoded")
	}
	if len(m.GestureSequence) != 2 || m.GestureSequence[0] != "fist" {
		t.Fatalf("unexpected gesture sequence: %v", m.GestureSequence)
	}
}

func TestDecodeGameStatePartial(t *testing.T) {
	msg, err := decodeServerMessage([]byte(`{"type":"gameState","enemies":[],"playerScore":50}`))
	if err != nil {
		t.Fatalf("decode partial gameState: %v", err)
	}
	m := msg.(*gameStateMsg)
	if m.PlayerScore == nil || *m.PlayerScore != 50 {
		t.Fatalf("playerScore not decoded")
	}
	if m.PlayerHP != nil || m.PlayerGold != nil || m.WaveNumber != nil || m.GestureMatched != nil {
		t.Fatalf("absent fields must stay nil, got %+v", m)
	}
}

func TestDecodeGameOver(t *testing.T) {
	msg, err := decodeServerMessage([]byte(`{"type":"gameOver","finalScore":1234,"finalWave":7}`))
	if err != nil {
		t.Fatalf("decode gameOver: %v", err)
	}
	m := msg.(*gameOverMsg)
	if m.FinalScore != 1234 || m.FinalWave != 7 {
		t.Fatalf("unexpected game over values: %+v", m)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := decodeServerMessage([]byte(`{"type":"calibration","data":1}`))
	if err == nil {
		t.Fatalf("unknown type should error")
	}
	var ut *unknownTypeError
	if !errors.As(err, &ut) {
		t.Fatalf("expected unknownTypeError, got %v", err)
	}
	if ut.t != "calibration" {
		t.Fatalf("unexpected type in error: %q", ut.t)
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := decodeServerMessage([]byte(`{"type":"gaze","gaze_x":`)); err == nil {
		t.Fatalf("truncated JSON should error")
	}
	if _, err := decodeServerMessage([]byte(`not json at all`)); err == nil {
		t.Fatalf("non-JSON should error")
	}
}

func TestDecodeIgnoresExtraFields(t *testing.T) {
	msg, err := decodeServerMessage([]byte(`{"type":"gaze","gaze_x":0.5,"gaze_y":0.5,"confidence":0.9}`))
	if err != nil {
		t.Fatalf("extra fields must not fail decoding: %v", err)
	}
	if _, ok := msg.(*gazeMsg); !ok {
		t.Fatalf("expected *gazeMsg, got %T", msg)
	}
}
