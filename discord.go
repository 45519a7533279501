package main

import (
	"context"
	"fmt"
	"time"

	client "github.com/hugolgst/rich-go/client"
)

var discordStart time.Time
var discordReady bool

func initDiscordRPC(ctx context.Context) {
	if !gs.DiscordPresence {
		return
	}
	if err := client.Login("1406529177812811776"); err != nil {
		logError("discord rpc login: %v", err)
		return
	}
	discordReady = true
	discordStart = time.Now()
	setDiscordStatus("on the landing screen")
	go func() {
		<-ctx.Done()
		client.Logout()
	}()
}

func setDiscordStatus(detail string) {
	if !discordReady {
		return
	}
	if err := client.SetActivity(client.Activity{
		State:   "Gazefall",
		Details: detail,
		Timestamps: &client.Timestamps{
			Start: &discordStart,
		},
	}); err != nil {
		logError("discord rpc activity: %v", err)
	}
}

func updateDiscordMode(mode int) {
	switch mode {
	case modeCountdown:
		setDiscordStatus("getting ready")
	case modePlaying:
		setDiscordStatus("fighting the horde")
	case modeGameOver:
		setDiscordStatus("staring at the score screen")
	default:
		setDiscordStatus("on the landing screen")
	}
}

// updateDiscordWave refreshes the activity line with run progress. Called on
// wave changes, not every snapshot.
func updateDiscordWave(wave, score int) {
	if wave <= 0 {
		return
	}
	setDiscordStatus(fmt.Sprintf("wave %d, %d points", wave, score))
}
